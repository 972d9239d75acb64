// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package models

import (
	"encoding/json"
	"time"
)

// ServerDocument is the server-side persisted form of one entity: the full
// JSON document plus a monotonically increasing version used for
// optimistic-concurrency checks when deltas are applied.
type ServerDocument struct {
	UserID  int64           `json:"-"`
	Kind    EntityKind      `json:"kind"`
	ID      string          `json:"id"`
	Doc     json.RawMessage `json:"doc"`
	Version int64           `json:"version"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

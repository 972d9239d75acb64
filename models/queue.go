// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package models

import (
	"encoding/json"
	"time"
)

// EntityKind discriminates which entity delta provider applies to a queue
// entry or a sync operation.
type EntityKind string

const (
	KindTravel EntityKind = "travel"
	KindCost   EntityKind = "cost"
)

// Valid reports whether k names a known entity kind.
func (k EntityKind) Valid() bool {
	return k == KindTravel || k == KindCost
}

// QueueStatus is the persisted state of one offline queue entry.
type QueueStatus string

const (
	// StatusPending marks an entry waiting to be applied to the server.
	// Failed sync attempts leave the entry pending; there is no distinct
	// failed status.
	StatusPending QueueStatus = "pending"

	// StatusConflict marks an entry whose base diverged from the server.
	// Conflict entries are never retried automatically.
	StatusConflict QueueStatus = "conflict"
)

// OfflineQueueEntry is the persisted unit of offline work: everything the
// sync engine needs to reconcile one locally edited entity with the server.
// Entries are unique per (Kind, ID).
type OfflineQueueEntry struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`

	// BaseSnapshot is the canonical snapshot believed to match the server
	// at the time local editing began. Only the sync engine (on successful
	// reconciliation) or the first local edit may set it.
	BaseSnapshot json.RawMessage `json:"base_snapshot"`

	// PendingSnapshot is the latest local snapshot with all edits applied.
	PendingSnapshot json.RawMessage `json:"pending_snapshot"`

	// Delta is CreateDelta(BaseSnapshot, PendingSnapshot), recomputed on
	// every local edit so repeated edits coalesce into one minimal delta.
	// Never empty: an entry whose recomputed delta is empty is removed.
	Delta json.RawMessage `json:"delta"`

	Status    QueueStatus `json:"status"`
	QueuedAt  time.Time   `json:"queued_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// ConflictDetectedAt is set when Status becomes StatusConflict.
	ConflictDetectedAt *time.Time `json:"conflict_detected_at,omitempty"`

	// LastServerDelta is the server-side delta captured at the moment a
	// conflict was detected, retained for display.
	LastServerDelta json.RawMessage `json:"last_server_delta,omitempty"`
}

// QueueSummary is the change-notification payload emitted after every queue
// write, consumed by UI badges.
type QueueSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Conflicts int `json:"conflicts"`
}

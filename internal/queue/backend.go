// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package queue

import (
	"context"
	"errors"
)

// Sentinel errors returned by queue store methods. Callers should match
// against these values with [errors.Is].
var (
	// ErrUnknownKind is returned when an operation names an entity kind
	// that no registered provider handles.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrEntryNotFound is returned when an operation targets a queue entry
	// that does not exist.
	ErrEntryNotFound = errors.New("queue entry not found")
)

// Backend persists the whole queue as one opaque blob under a single key.
// The store always rewrites the complete state, so implementations only
// need atomic whole-value load and save. Load returns nil bytes and a nil
// error when no state has been saved yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, state []byte) error
}

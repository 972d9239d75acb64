// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package service

import (
	"context"
	"time"

	"github.com/bdamokos/travel-tracker/models"
)

// SyncOptions carries the per-call event callbacks of a sync pass. All
// callbacks are optional. When several callers collapse onto one in-flight
// pass, every caller's callbacks receive the full event set of that pass.
type SyncOptions struct {
	// OnConflict fires for every entry the pass marked as conflicted.
	OnConflict func(conflict models.Conflict)

	// OnSynced fires for every entry the pass reconciled and removed.
	OnSynced func(kind models.EntityKind, id string)

	// OnError fires for every entry whose sync attempt failed; the entry
	// stays pending for the next pass.
	OnError func(kind models.EntityKind, id string, err error)
}

// SyncEngine drains the offline queue against the server. Concurrent Sync
// calls collapse onto a single in-flight pass.
type SyncEngine interface {
	Sync(ctx context.Context, opts SyncOptions) (models.SyncResult, error)
}

// SyncJob periodically triggers the sync engine. It is idle until Start is
// called; Trigger forces an immediate pass from connectivity or focus style
// events.
type SyncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Trigger()
	Stop()
}

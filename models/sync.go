package models

import (
	"encoding/json"
	"time"
)

// SyncResult summarizes one sync pass. The remaining counts are read from
// the queue's post-pass state rather than accumulated during the pass, so
// they stay correct when several callers share one collapsed pass.
type SyncResult struct {
	// Synced is the number of entries applied to the server and removed.
	Synced int `json:"synced"`

	// Conflicts is the number of entries that entered conflict during the
	// pass.
	Conflicts int `json:"conflicts"`

	// Failed is the number of entries attempted and left pending (network
	// or endpoint failure). Failed entries are retried on the next pass.
	Failed int `json:"failed"`

	RemainingPending   int `json:"remaining_pending"`
	RemainingConflicts int `json:"remaining_conflicts"`
}

// Conflict is the structured conflict object surfaced to the caller of a
// sync pass when the server changed an entity after the client's base was
// captured. Resolution (discard, overwrite, manual merge) is the caller's
// responsibility; the engine never auto-resolves.
type Conflict struct {
	Kind     EntityKind `json:"kind"`
	ID       string     `json:"id"`
	QueuedAt time.Time  `json:"queued_at"`

	// PendingDelta is the client's queued delta that was not applied.
	PendingDelta json.RawMessage `json:"pending_delta"`

	// ServerDelta describes how the server diverged from the entry's base.
	ServerDelta json.RawMessage `json:"server_delta"`
}

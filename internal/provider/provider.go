// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

// Package provider implements the per-entity delta providers that keep the
// sync engine entity-agnostic. A provider knows how to canonicalize raw
// payloads of its entity kind into stable snapshots, diff two snapshots into
// a minimal delta, and apply such a delta back onto a snapshot.
package provider

import (
	"encoding/json"

	"github.com/bdamokos/travel-tracker/models"
)

// Provider is the capability set every entity kind must expose. Snapshots
// and deltas cross this interface as raw JSON so that the queue store and
// the sync engine never depend on concrete entity shapes.
type Provider interface {
	// Kind names the entity kind this provider handles.
	Kind() models.EntityKind

	// NormalizeID maps an entity id to its canonical form. It must be
	// applied consistently wherever ids of this kind are compared.
	NormalizeID(id string) string

	// Snapshot canonicalizes a raw entity payload: optional fields are
	// clamped to deterministic defaults so two independently fetched
	// copies of the same logical state produce identical snapshots.
	Snapshot(raw json.RawMessage) (json.RawMessage, error)

	// CoerceServer canonicalizes a raw server payload into the same
	// comparable shape as base. Fields missing from the server response
	// fall back to base, so a partial response does not manufacture
	// spurious differences.
	CoerceServer(raw, base json.RawMessage) (json.RawMessage, error)

	// CreateDelta computes the minimal delta turning base into current.
	// It returns nil when every sub-delta is empty.
	CreateDelta(base, current json.RawMessage) (json.RawMessage, error)

	// IsDeltaEmpty reports whether raw encodes a delta with no changes.
	IsDeltaEmpty(raw json.RawMessage) bool

	// ApplyDelta replays a delta onto a snapshot: scalar overwrites plus
	// collection sub-delta application. Replaying the same delta is
	// idempotent.
	ApplyDelta(snapshot, raw json.RawMessage) (json.RawMessage, error)
}

// Registry resolves providers by entity kind.
type Registry struct {
	providers map[models.EntityKind]Provider
}

// NewRegistry builds a registry from the given providers. Later providers
// replace earlier ones of the same kind.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[models.EntityKind]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Kind()] = p
	}
	return r
}

// DefaultRegistry returns a registry with the travel and cost providers.
func DefaultRegistry() *Registry {
	return NewRegistry(ForTravel(), ForCost())
}

// Get returns the provider for kind.
func (r *Registry) Get(kind models.EntityKind) (Provider, bool) {
	p, ok := r.providers[kind]
	return p, ok
}

// NormalizeID applies the kind's id normalization, or returns the id
// unchanged when the kind is unknown.
func (r *Registry) NormalizeID(kind models.EntityKind, id string) string {
	if p, ok := r.providers[kind]; ok {
		return p.NormalizeID(id)
	}
	return id
}

// Package queue implements the persisted offline queue: one coalesced entry
// per locally edited entity, holding the base snapshot, the latest pending
// snapshot and the minimal delta between them. The sync engine drains this
// queue; UI code subscribes to summary notifications.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/provider"
	"github.com/bdamokos/travel-tracker/models"
)

type entryKey struct {
	kind models.EntityKind
	id   string
}

// Store is the in-memory working copy of the offline queue, persisted
// through a Backend on every mutation. Entries are unique per (kind, id)
// and kept in queueing order. All methods are safe for concurrent use.
type Store struct {
	backend  Backend
	registry *provider.Registry
	log      *logger.Logger
	now      func() time.Time

	mu      sync.RWMutex
	entries []*models.OfflineQueueEntry
	index   map[entryKey]*models.OfflineQueueEntry

	subMu   sync.Mutex
	subs    map[int]func(models.QueueSummary)
	nextSub int
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithClock overrides the time source, used by tests for deterministic
// queuedAt/updatedAt values.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore loads the persisted queue state from backend and returns a ready
// store. Malformed persisted entries are dropped individually with a warning;
// one bad entry never blocks loading the rest.
func NewStore(ctx context.Context, backend Backend, registry *provider.Registry, log *logger.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		backend:  backend,
		registry: registry,
		log:      log,
		now:      time.Now,
		index:    make(map[entryKey]*models.OfflineQueueEntry),
		subs:     make(map[int]func(models.QueueSummary)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	state, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading queue state: %w", err)
	}
	if len(state) == 0 {
		return nil
	}

	// Decode the array element by element so one corrupted entry does not
	// discard the whole queue.
	var rawEntries []json.RawMessage
	if err = json.Unmarshal(state, &rawEntries); err != nil {
		s.log.Warn().Err(err).Str("func", "Store.load").Msg("persisted queue state is not a JSON array, starting empty")
		return nil
	}

	for i, raw := range rawEntries {
		var entry models.OfflineQueueEntry
		if err = json.Unmarshal(raw, &entry); err != nil {
			s.log.Warn().Err(err).Int("entry", i).Str("func", "Store.load").Msg("dropping malformed queue entry")
			continue
		}
		if !s.validEntry(&entry) {
			s.log.Warn().Int("entry", i).Str("func", "Store.load").Msg("dropping queue entry with invalid shape")
			continue
		}

		entry.ID = s.registry.NormalizeID(entry.Kind, entry.ID)
		key := entryKey{kind: entry.Kind, id: entry.ID}
		if _, exists := s.index[key]; exists {
			s.log.Warn().Str("id", entry.ID).Str("func", "Store.load").Msg("dropping duplicate queue entry")
			continue
		}

		e := entry
		s.entries = append(s.entries, &e)
		s.index[key] = &e
	}

	return nil
}

func (s *Store) validEntry(entry *models.OfflineQueueEntry) bool {
	if !entry.Kind.Valid() || entry.ID == "" {
		return false
	}
	if entry.Status != models.StatusPending && entry.Status != models.StatusConflict {
		return false
	}
	if len(entry.BaseSnapshot) == 0 || len(entry.PendingSnapshot) == 0 || len(entry.Delta) == 0 {
		return false
	}
	if _, ok := s.registry.Get(entry.Kind); !ok {
		return false
	}
	return true
}

// QueueDeltaRequest carries one local edit into the queue. Base is the
// snapshot the entity had before the edit; it is only consulted when no
// entry exists yet, an existing entry keeps its original base.
type QueueDeltaRequest struct {
	Kind    models.EntityKind
	ID      string
	Base    json.RawMessage
	Current json.RawMessage
}

// QueueDelta records a local edit. Repeated edits to the same entity
// coalesce into a single entry whose delta is recomputed against the fixed
// base snapshot; an edit that brings the entity back to its base state
// removes the entry. A new edit on a conflicted entry resets it to pending.
// An empty id is ignored without error; queued reports whether an entry
// exists for the entity after the call.
func (s *Store) QueueDelta(ctx context.Context, req QueueDeltaRequest) (queued bool, err error) {
	p, ok := s.registry.Get(req.Kind)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	id := p.NormalizeID(req.ID)
	if id == "" {
		return false, nil
	}

	current, err := p.Snapshot(req.Current)
	if err != nil {
		return false, fmt.Errorf("error canonicalizing current snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey{kind: req.Kind, id: id}
	existing := s.index[key]

	var base json.RawMessage
	if existing != nil {
		base = existing.BaseSnapshot
	} else {
		base, err = p.Snapshot(req.Base)
		if err != nil {
			return false, fmt.Errorf("error canonicalizing base snapshot: %w", err)
		}
	}

	delta, err := p.CreateDelta(base, current)
	if err != nil {
		return false, fmt.Errorf("error computing delta: %w", err)
	}

	if delta == nil || p.IsDeltaEmpty(delta) {
		if existing == nil {
			return false, nil
		}
		// Edits cancelled each other out, prune the entry.
		s.removeLocked(key)
		if err = s.persistLocked(ctx); err != nil {
			return false, err
		}
		s.notify(s.summaryLocked())
		return false, nil
	}

	now := s.now()
	if existing != nil {
		existing.PendingSnapshot = current
		existing.Delta = delta
		existing.Status = models.StatusPending
		existing.UpdatedAt = now
		existing.ConflictDetectedAt = nil
		existing.LastServerDelta = nil
	} else {
		entry := &models.OfflineQueueEntry{
			Kind:            req.Kind,
			ID:              id,
			BaseSnapshot:    base,
			PendingSnapshot: current,
			Delta:           delta,
			Status:          models.StatusPending,
			QueuedAt:        now,
			UpdatedAt:       now,
		}
		s.entries = append(s.entries, entry)
		s.index[key] = entry
	}

	if err = s.persistLocked(ctx); err != nil {
		return true, err
	}
	s.notify(s.summaryLocked())

	return true, nil
}

// Entries returns copies of all queue entries in queueing order.
func (s *Store) Entries() []models.OfflineQueueEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.OfflineQueueEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, *entry)
	}
	return entries
}

// Get returns a copy of the entry for (kind, id), if one exists.
func (s *Store) Get(kind models.EntityKind, id string) (models.OfflineQueueEntry, bool) {
	id = s.registry.NormalizeID(kind, id)

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.index[entryKey{kind: kind, id: id}]
	if !ok {
		return models.OfflineQueueEntry{}, false
	}
	return *entry, true
}

// Summary returns the current queue counters.
func (s *Store) Summary() models.QueueSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

func (s *Store) summaryLocked() models.QueueSummary {
	summary := models.QueueSummary{Total: len(s.entries)}
	for _, entry := range s.entries {
		switch entry.Status {
		case models.StatusPending:
			summary.Pending++
		case models.StatusConflict:
			summary.Conflicts++
		}
	}
	return summary
}

// Remove deletes the entry for (kind, id). Removing an absent entry is a
// no-op: the sync engine and conflict resolution both call Remove without
// caring whether another path got there first.
func (s *Store) Remove(ctx context.Context, kind models.EntityKind, id string) error {
	id = s.registry.NormalizeID(kind, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey{kind: kind, id: id}
	if _, ok := s.index[key]; !ok {
		return nil
	}

	s.removeLocked(key)
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.notify(s.summaryLocked())

	return nil
}

// MarkConflict transitions the entry for (kind, id) to conflict status and
// records the server-side delta detected by the sync engine. Conflict
// entries stay in the queue but are skipped by sync passes until resolved.
func (s *Store) MarkConflict(ctx context.Context, kind models.EntityKind, id string, serverDelta json.RawMessage) error {
	id = s.registry.NormalizeID(kind, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[entryKey{kind: kind, id: id}]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrEntryNotFound, kind, id)
	}

	now := s.now()
	entry.Status = models.StatusConflict
	entry.ConflictDetectedAt = &now
	entry.LastServerDelta = serverDelta
	entry.UpdatedAt = now

	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.notify(s.summaryLocked())

	return nil
}

// ResolveConflict re-bases the conflicted entry onto the given server
// snapshot: the pending local state is diffed against the server state,
// and the entry returns to pending with the recomputed delta. When the
// local edits are already contained in the server state the entry is
// removed. queued reports whether the entry still exists afterwards.
//
// Discarding the local edits instead is simply Remove.
func (s *Store) ResolveConflict(ctx context.Context, kind models.EntityKind, id string, serverSnapshot json.RawMessage) (queued bool, err error) {
	p, ok := s.registry.Get(kind)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	id = p.NormalizeID(id)

	base, err := p.Snapshot(serverSnapshot)
	if err != nil {
		return false, fmt.Errorf("error canonicalizing server snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey{kind: kind, id: id}
	entry, okEntry := s.index[key]
	if !okEntry {
		return false, fmt.Errorf("%w: %s/%s", ErrEntryNotFound, kind, id)
	}

	delta, err := p.CreateDelta(base, entry.PendingSnapshot)
	if err != nil {
		return false, fmt.Errorf("error recomputing delta against server snapshot: %w", err)
	}

	if delta == nil || p.IsDeltaEmpty(delta) {
		s.removeLocked(key)
		if err = s.persistLocked(ctx); err != nil {
			return false, err
		}
		s.notify(s.summaryLocked())
		return false, nil
	}

	entry.BaseSnapshot = base
	entry.Delta = delta
	entry.Status = models.StatusPending
	entry.ConflictDetectedAt = nil
	entry.LastServerDelta = nil
	entry.UpdatedAt = s.now()

	if err = s.persistLocked(ctx); err != nil {
		return true, err
	}
	s.notify(s.summaryLocked())

	return true, nil
}

// Rebase replaces the entry's base snapshot after a successful server
// reconciliation, recomputing the delta. Used by the sync engine when the
// server accepted the delta but the entry gained new local edits during the
// network round trip.
func (s *Store) Rebase(ctx context.Context, kind models.EntityKind, id string, serverSnapshot json.RawMessage) (queued bool, err error) {
	return s.ResolveConflict(ctx, kind, id, serverSnapshot)
}

// Subscribe registers a callback invoked synchronously with the fresh queue
// summary after every successful write. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(models.QueueSummary)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) removeLocked(key entryKey) {
	delete(s.index, key)
	for i, entry := range s.entries {
		if entry.Kind == key.kind && entry.ID == key.id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
}

func (s *Store) persistLocked(ctx context.Context) error {
	entries := make([]models.OfflineQueueEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, *entry)
	}

	state, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error encoding queue state: %w", err)
	}

	if err = s.backend.Save(ctx, state); err != nil {
		return fmt.Errorf("error saving queue state: %w", err)
	}

	return nil
}

func (s *Store) notify(summary models.QueueSummary) {
	s.subMu.Lock()
	fns := make([]func(models.QueueSummary), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(summary)
	}
}

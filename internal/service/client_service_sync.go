package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bdamokos/travel-tracker/internal/adapter"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/provider"
	"github.com/bdamokos/travel-tracker/internal/queue"
	"github.com/bdamokos/travel-tracker/models"
)

// OnlineProbe reports whether the server is currently reachable. A nil
// probe means the engine assumes connectivity and lets requests fail on
// their own.
type OnlineProbe func(ctx context.Context) bool

// syncEvent is one outcome recorded during a pass, replayed into every
// collapsed caller's callbacks when the pass completes.
type syncEvent struct {
	kind     models.EntityKind
	id       string
	conflict *models.Conflict
	err      error
}

type syncWaiter struct {
	opts   SyncOptions
	done   chan struct{}
	result models.SyncResult
	err    error
}

type syncEngine struct {
	queue    *queue.Store
	adapter  adapter.ServerAdapter
	registry *provider.Registry
	online   OnlineProbe
	logger   *logger.Logger

	mu       sync.Mutex
	inFlight bool
	waiters  []*syncWaiter
}

// NewSyncEngine constructs the client sync engine. online may be nil.
func NewSyncEngine(q *queue.Store, serverAdapter adapter.ServerAdapter, registry *provider.Registry, online OnlineProbe, logger *logger.Logger) SyncEngine {
	return &syncEngine{
		queue:    q,
		adapter:  serverAdapter,
		registry: registry,
		online:   online,
		logger:   logger,
	}
}

// Sync drains the pending queue entries against the server. If a pass is
// already in flight the call attaches to it: both callers receive the same
// result and both callers' callbacks fire with the full event set of the
// shared pass. Conflict entries are skipped; they stay queued until
// resolved. A failed entry stays pending and simply waits for the next
// pass, so Sync itself only errors on context cancellation.
func (s *syncEngine) Sync(ctx context.Context, opts SyncOptions) (models.SyncResult, error) {
	w := &syncWaiter{opts: opts, done: make(chan struct{})}

	s.mu.Lock()
	s.waiters = append(s.waiters, w)
	if s.inFlight {
		s.mu.Unlock()

		select {
		case <-w.done:
			return w.result, w.err
		case <-ctx.Done():
			// The pass keeps running for the other waiters; this caller
			// just stops waiting for it.
			return models.SyncResult{}, ctx.Err()
		}
	}
	s.inFlight = true
	s.mu.Unlock()

	result, events, err := s.runPass(ctx)

	s.mu.Lock()
	waiters := s.waiters
	s.waiters = nil
	s.inFlight = false
	s.mu.Unlock()

	for _, waiter := range waiters {
		waiter.result = result
		waiter.err = err
		deliver(waiter.opts, events)
		close(waiter.done)
	}

	return w.result, w.err
}

func deliver(opts SyncOptions, events []syncEvent) {
	for _, ev := range events {
		switch {
		case ev.conflict != nil:
			if opts.OnConflict != nil {
				opts.OnConflict(*ev.conflict)
			}
		case ev.err != nil:
			if opts.OnError != nil {
				opts.OnError(ev.kind, ev.id, ev.err)
			}
		default:
			if opts.OnSynced != nil {
				opts.OnSynced(ev.kind, ev.id)
			}
		}
	}
}

func (s *syncEngine) runPass(ctx context.Context) (models.SyncResult, []syncEvent, error) {
	var (
		result models.SyncResult
		events []syncEvent
	)

	pending := make([]models.OfflineQueueEntry, 0)
	for _, entry := range s.queue.Entries() {
		if entry.Status == models.StatusPending {
			pending = append(pending, entry)
		}
	}

	if len(pending) > 0 && s.online != nil && !s.online(ctx) {
		// Offline: no network calls, everything pending counts as failed.
		s.logger.Debug().Int("pending", len(pending)).Msg("sync skipped, offline")
		result.Failed = len(pending)
		summary := s.queue.Summary()
		result.RemainingPending = summary.Pending
		result.RemainingConflicts = summary.Conflicts
		return result, nil, nil
	}

	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			summary := s.queue.Summary()
			result.RemainingPending = summary.Pending
			result.RemainingConflicts = summary.Conflicts
			return result, events, err
		}

		ev := s.syncEntry(ctx, entry)
		events = append(events, ev)
		switch {
		case ev.conflict != nil:
			result.Conflicts++
		case ev.err != nil:
			result.Failed++
		default:
			result.Synced++
		}
	}

	summary := s.queue.Summary()
	result.RemainingPending = summary.Pending
	result.RemainingConflicts = summary.Conflicts

	return result, events, nil
}

// syncEntry reconciles a single queue entry with the server:
// fetch the server document, coerce it into the entry's comparable shape,
// and diff it against the base snapshot. A non-empty server delta means
// someone else changed the entity since the base was taken: the entry is
// marked conflicted and nothing is applied. Otherwise the pending delta is
// applied, guarded by the fetched version.
func (s *syncEngine) syncEntry(ctx context.Context, entry models.OfflineQueueEntry) syncEvent {
	log := s.logger.With().Str("kind", string(entry.Kind)).Str("id", entry.ID).Logger()
	ev := syncEvent{kind: entry.Kind, id: entry.ID}

	p, ok := s.registry.Get(entry.Kind)
	if !ok {
		ev.err = fmt.Errorf("%w: %q", ErrUnknownEntityKind, entry.Kind)
		return ev
	}

	serverDoc, err := s.adapter.Fetch(ctx, entry.Kind, entry.ID)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return s.createOnServer(ctx, entry, ev)
		}

		log.Warn().Err(err).Msg("fetch failed, entry stays pending")
		ev.err = fmt.Errorf("fetch %s/%s: %w", entry.Kind, entry.ID, err)
		return ev
	}

	coerced, err := p.CoerceServer(serverDoc.Doc, entry.BaseSnapshot)
	if err != nil {
		ev.err = fmt.Errorf("coerce server document %s/%s: %w", entry.Kind, entry.ID, err)
		return ev
	}

	serverDelta, err := p.CreateDelta(entry.BaseSnapshot, coerced)
	if err != nil {
		ev.err = fmt.Errorf("compute server delta %s/%s: %w", entry.Kind, entry.ID, err)
		return ev
	}

	if serverDelta != nil && !p.IsDeltaEmpty(serverDelta) {
		if err = s.queue.MarkConflict(ctx, entry.Kind, entry.ID, serverDelta); err != nil {
			ev.err = fmt.Errorf("mark conflict %s/%s: %w", entry.Kind, entry.ID, err)
			return ev
		}

		log.Info().Msg("conflict detected, entry parked for resolution")
		ev.conflict = &models.Conflict{
			Kind:         entry.Kind,
			ID:           entry.ID,
			QueuedAt:     entry.QueuedAt,
			PendingDelta: entry.Delta,
			ServerDelta:  serverDelta,
		}
		return ev
	}

	if _, err = s.adapter.ApplyDelta(ctx, entry.Kind, entry.ID, entry.Delta, serverDoc.Version); err != nil {
		log.Warn().Err(err).Msg("apply delta failed, entry stays pending")
		ev.err = fmt.Errorf("apply delta %s/%s: %w", entry.Kind, entry.ID, err)
		return ev
	}

	if err = s.finishEntry(ctx, entry); err != nil {
		ev.err = err
		return ev
	}

	log.Debug().Msg("entry synced")
	return ev
}

// createOnServer uploads the pending snapshot of an entity the server has
// never seen. With no server copy there is nothing to conflict with.
func (s *syncEngine) createOnServer(ctx context.Context, entry models.OfflineQueueEntry, ev syncEvent) syncEvent {
	if _, err := s.adapter.Put(ctx, entry.Kind, entry.ID, entry.PendingSnapshot); err != nil {
		ev.err = fmt.Errorf("create %s/%s: %w", entry.Kind, entry.ID, err)
		return ev
	}

	if err := s.finishEntry(ctx, entry); err != nil {
		ev.err = err
	}
	return ev
}

// finishEntry retires a successfully applied entry. If the entry gained
// new local edits during the network round trip it is re-based onto the
// state the server just accepted instead of being dropped.
func (s *syncEngine) finishEntry(ctx context.Context, entry models.OfflineQueueEntry) error {
	current, ok := s.queue.Get(entry.Kind, entry.ID)
	if ok && !current.UpdatedAt.Equal(entry.UpdatedAt) {
		if _, err := s.queue.Rebase(ctx, entry.Kind, entry.ID, entry.PendingSnapshot); err != nil {
			return fmt.Errorf("rebase %s/%s: %w", entry.Kind, entry.ID, err)
		}
		return nil
	}

	if err := s.queue.Remove(ctx, entry.Kind, entry.ID); err != nil {
		return fmt.Errorf("remove %s/%s: %w", entry.Kind, entry.ID, err)
	}
	return nil
}

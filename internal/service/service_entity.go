package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/provider"
	"github.com/bdamokos/travel-tracker/internal/store"
	"github.com/bdamokos/travel-tracker/models"
)

// entityService is the server-side implementation of EntityService. It
// resolves the per-kind delta provider, applies deltas onto the stored
// document and persists the result under optimistic locking.
type entityService struct {
	documents store.DocumentRepository
	registry  *provider.Registry

	// retryable classifies storage errors worth one more attempt,
	// typically DB.Retryable. May be nil.
	retryable func(error) bool

	logger *logger.Logger
}

// NewEntityService constructs an EntityService on top of the document
// repository and the provider registry. retryable may be nil to disable
// the single retry on transient storage failures.
func NewEntityService(documents store.DocumentRepository, registry *provider.Registry, retryable func(error) bool, logger *logger.Logger) EntityService {
	return &entityService{
		documents: documents,
		registry:  registry,
		retryable: retryable,
		logger:    logger,
	}
}

// Get returns the stored document for (userID, kind, id).
func (s *entityService) Get(ctx context.Context, userID int64, kind models.EntityKind, id string) (models.ServerDocument, error) {
	p, ok := s.registry.Get(kind)
	if !ok {
		return models.ServerDocument{}, fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}

	return s.documents.Get(ctx, userID, kind, p.NormalizeID(id))
}

// Put canonicalizes the payload and stores it wholesale, bumping the
// version when the document already exists.
func (s *entityService) Put(ctx context.Context, userID int64, kind models.EntityKind, id string, doc json.RawMessage) (models.ServerDocument, error) {
	log := logger.FromContext(ctx)

	p, ok := s.registry.Get(kind)
	if !ok {
		return models.ServerDocument{}, fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
	id = p.NormalizeID(id)

	snapshot, err := p.Snapshot(doc)
	if err != nil {
		log.Err(err).Str("kind", string(kind)).Str("id", id).Msg("error canonicalizing document")
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return s.documents.Put(ctx, models.ServerDocument{
		UserID: userID,
		Kind:   kind,
		ID:     id,
		Doc:    snapshot,
	})
}

// ApplyDelta replays a client delta onto the stored document. When
// expectedVersion is non-zero the stored version must still match it,
// otherwise store.ErrVersionConflict is returned and the client has to
// re-fetch. A transient storage failure during the optimistic write is
// retried once with a fresh read.
func (s *entityService) ApplyDelta(ctx context.Context, userID int64, kind models.EntityKind, id string, delta json.RawMessage, expectedVersion int64) (models.ServerDocument, error) {
	p, ok := s.registry.Get(kind)
	if !ok {
		return models.ServerDocument{}, fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
	id = p.NormalizeID(id)

	saved, err := s.applyDeltaOnce(ctx, p, userID, kind, id, delta, expectedVersion)
	if err != nil && s.retryable != nil && s.retryable(err) {
		logger.FromContext(ctx).Warn().Err(err).Str("kind", string(kind)).Str("id", id).Msg("retrying delta application after transient storage error")
		saved, err = s.applyDeltaOnce(ctx, p, userID, kind, id, delta, expectedVersion)
	}

	return saved, err
}

func (s *entityService) applyDeltaOnce(ctx context.Context, p provider.Provider, userID int64, kind models.EntityKind, id string, delta json.RawMessage, expectedVersion int64) (models.ServerDocument, error) {
	log := logger.FromContext(ctx)

	current, err := s.documents.Get(ctx, userID, kind, id)
	if err != nil {
		return models.ServerDocument{}, err
	}

	if expectedVersion != 0 && current.Version != expectedVersion {
		return models.ServerDocument{}, store.ErrVersionConflict
	}

	updated, err := p.ApplyDelta(current.Doc, delta)
	if err != nil {
		log.Err(err).Str("kind", string(kind)).Str("id", id).Msg("error applying delta")
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	current.Doc = updated
	return s.documents.Update(ctx, current, current.Version)
}

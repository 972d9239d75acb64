package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/models"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository]. Each entity lives in the "documents" table as one
// JSONB payload keyed by (user_id, kind, id) with a version counter bumped
// on every write.
type documentRepository struct {
	logger *logger.Logger
	db     *DB
	sq     sq.StatementBuilderType
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var documentColumns = []string{"user_id", "kind", "id", "doc", "version", "created_at", "updated_at"}

// Get returns the document for (userID, kind, id), or [ErrDocumentNotFound].
func (r *documentRepository) Get(ctx context.Context, userID int64, kind models.EntityKind, id string) (models.ServerDocument, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"user_id": userID, "kind": kind, "id": id}).
		ToSql()
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var doc models.ServerDocument
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&doc.UserID, &doc.Kind, &doc.ID, &doc.Doc, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServerDocument{}, ErrDocumentNotFound
		}

		log.Err(err).Str("func", "*documentRepository.Get").Msg("error reading document")
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return doc, nil
}

// Put creates the document or replaces its payload wholesale. The version
// starts at 1 for new documents and is bumped on replacement.
func (r *documentRepository) Put(ctx context.Context, doc models.ServerDocument) (models.ServerDocument, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Insert("documents").
		Columns("user_id", "kind", "id", "doc", "version").
		Values(doc.UserID, doc.Kind, doc.ID, []byte(doc.Doc), 1).
		Suffix(`ON CONFLICT (user_id, kind, id) DO UPDATE
			SET doc = EXCLUDED.doc, version = documents.version + 1, updated_at = NOW()
			RETURNING user_id, kind, id, doc, version, created_at, updated_at`).
		ToSql()
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var saved models.ServerDocument
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&saved.UserID, &saved.Kind, &saved.ID, &saved.Doc, &saved.Version, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*documentRepository.Put").Msg("error upserting document")
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return saved, nil
}

// Update replaces the document payload only when the stored version still
// equals expectedVersion, bumping the version on success. A missing row or
// a stale version yields [ErrVersionConflict] when the document exists and
// [ErrDocumentNotFound] when it does not.
func (r *documentRepository) Update(ctx context.Context, doc models.ServerDocument, expectedVersion int64) (models.ServerDocument, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Update("documents").
		Set("doc", []byte(doc.Doc)).
		Set("version", expectedVersion+1).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": doc.UserID, "kind": doc.Kind, "id": doc.ID, "version": expectedVersion}).
		Suffix("RETURNING user_id, kind, id, doc, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var saved models.ServerDocument
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&saved.UserID, &saved.Kind, &saved.ID, &saved.Doc, &saved.Version, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a stale version from a missing document.
			if _, getErr := r.Get(ctx, doc.UserID, doc.Kind, doc.ID); getErr == nil {
				return models.ServerDocument{}, ErrVersionConflict
			}
			return models.ServerDocument{}, ErrDocumentNotFound
		}

		log.Err(err).Str("func", "*documentRepository.Update").Msg("error updating document")
		return models.ServerDocument{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return saved, nil
}

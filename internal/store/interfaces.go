package store

import (
	"context"

	"github.com/bdamokos/travel-tracker/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// DocumentRepository persists versioned entity documents, one row per
// (user, kind, id). Update enforces optimistic locking against the
// expected version.
type DocumentRepository interface {
	Get(ctx context.Context, userID int64, kind models.EntityKind, id string) (models.ServerDocument, error)
	Put(ctx context.Context, doc models.ServerDocument) (models.ServerDocument, error)
	Update(ctx context.Context, doc models.ServerDocument, expectedVersion int64) (models.ServerDocument, error)
}

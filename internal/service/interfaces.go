package service

import (
	"context"
	"encoding/json"

	"github.com/bdamokos/travel-tracker/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService handles server-side user registration, credential
// verification and JWT token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// EntityService is the server-side document service: reads, wholesale
// replacement, and delta application with optimistic locking.
type EntityService interface {
	Get(ctx context.Context, userID int64, kind models.EntityKind, id string) (models.ServerDocument, error)
	Put(ctx context.Context, userID int64, kind models.EntityKind, id string, doc json.RawMessage) (models.ServerDocument, error)
	ApplyDelta(ctx context.Context, userID int64, kind models.EntityKind, id string, delta json.RawMessage, expectedVersion int64) (models.ServerDocument, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

// Package adapter provides the transport layer for talking to the
// travel-tracker server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync
// engine from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrVersionConflict] for 409, [ErrUnauthorized]
// for 401).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/bdamokos/travel-tracker/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the
// travel-tracker server. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Register or Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or
	// an empty string if no token has been set yet.
	Token() string

	// Register creates a new account from the provided credentials. On
	// success it stores the returned bearer token via SetToken.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates the user. On success it stores the returned
	// bearer token via SetToken.
	Login(ctx context.Context, user models.User) (models.User, error)

	// Fetch retrieves the current server document for (kind, id),
	// including its version. Returns [ErrNotFound] (wrapped) when the
	// entity does not exist on the server.
	Fetch(ctx context.Context, kind models.EntityKind, id string) (models.ServerDocument, error)

	// ApplyDelta asks the server to apply delta to the entity, guarded by
	// expectedVersion. Returns the updated document, or
	// [ErrVersionConflict] (wrapped) when the server document moved past
	// expectedVersion since Fetch.
	ApplyDelta(ctx context.Context, kind models.EntityKind, id string, delta json.RawMessage, expectedVersion int64) (models.ServerDocument, error)

	// Put replaces the server document wholesale and returns the stored
	// version.
	Put(ctx context.Context, kind models.EntityKind, id string, doc json.RawMessage) (models.ServerDocument, error)
}

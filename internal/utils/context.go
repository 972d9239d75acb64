// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

// Package utils provides small helpers shared across the application:
// context keys, JWT generation and validation, HTTP response writing,
// and HTTP client construction.
package utils

import (
	"context"
)

// contextKey is a private type for context keys. A dedicated type prevents
// collisions with string-based keys set by other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key under which the authenticated user's identifier
// is stored in a request context. Use GetUserIDFromContext for type-safe
// retrieval.
var UserIDCtxKey = contextKey("userID")

// GetUserIDFromContext retrieves the user identifier from the context.
// ok is false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

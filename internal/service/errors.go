// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrUnknownEntityKind = errors.New("unknown entity kind")
)

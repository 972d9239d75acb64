// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/utils"
	"github.com/bdamokos/travel-tracker/models"
)

// applyDeltaRequest is the PATCH body for delta application: the delta
// object plus the server version it was computed against.
type applyDeltaRequest struct {
	Delta           json.RawMessage `json:"delta"`
	ExpectedVersion int64           `json:"expected_version"`
}

// getEntity returns a handler serving GET /api/{collection}/{id} for the
// given entity kind. The versioned document is returned as JSON.
func (h *Handler) getEntity(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			log.Error().Msg("no user id in request context")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")

		doc, err := h.services.EntityService.Get(ctx, userID, kind, id)
		if err != nil {
			status := statusFromError(err)
			log.Err(err).Str("kind", string(kind)).Str("id", id).Msg("get entity failed")
			http.Error(w, http.StatusText(status), status)
			return
		}

		if _, err = utils.WriteJSON(w, doc, http.StatusOK); err != nil {
			log.Err(err).Msg("failed to write entity response")
		}
	}
}

// putEntity returns a handler serving PUT /api/{collection}/{id} for the
// given entity kind. The request body is the full entity snapshot; the
// stored versioned document is returned as JSON.
func (h *Handler) putEntity(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			log.Error().Msg("no user id in request context")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Msg("failed to read request body")
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		if !json.Valid(body) {
			log.Error().Msg("Invalid JSON was passed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}

		doc, err := h.services.EntityService.Put(ctx, userID, kind, id, body)
		if err != nil {
			status := statusFromError(err)
			log.Err(err).Str("kind", string(kind)).Str("id", id).Msg("put entity failed")
			http.Error(w, http.StatusText(status), status)
			return
		}

		if _, err = utils.WriteJSON(w, doc, http.StatusOK); err != nil {
			log.Err(err).Msg("failed to write entity response")
		}
	}
}

// patchEntity returns a handler serving PATCH /api/{collection}/{id} for
// the given entity kind. The delta in the request body is applied under
// optimistic locking: a stale expected_version yields HTTP 409.
func (h *Handler) patchEntity(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			log.Error().Msg("no user id in request context")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")

		var req applyDeltaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Err(err).Msg("Invalid JSON was passed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}
		if len(req.Delta) == 0 {
			log.Error().Msg("no delta provided")
			http.Error(w, "no delta provided", http.StatusBadRequest)
			return
		}

		doc, err := h.services.EntityService.ApplyDelta(ctx, userID, kind, id, req.Delta, req.ExpectedVersion)
		if err != nil {
			status := statusFromError(err)
			log.Err(err).
				Str("kind", string(kind)).
				Str("id", id).
				Int64("expected_version", req.ExpectedVersion).
				Msg("apply delta failed")
			http.Error(w, http.StatusText(status), status)
			return
		}

		if _, err = utils.WriteJSON(w, doc, http.StatusOK); err != nil {
			log.Err(err).Msg("failed to write entity response")
		}
	}
}

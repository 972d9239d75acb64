// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bdamokos/travel-tracker/internal/mock"
	"github.com/bdamokos/travel-tracker/models"
)

// TestRouter_EntityRoundTrip drives a GET through the full router stack:
// trace-id, logging, auth middleware, and the travels route.
func TestRouter_EntityRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthService(ctrl)
	entity := mock.NewMockEntityService(ctrl)

	auth.EXPECT().ParseToken(gomock.Any(), "valid-token").
		Return(models.Token{UserID: 7}, nil)

	doc := models.ServerDocument{
		Kind:    models.KindTravel,
		ID:      "42",
		Doc:     json.RawMessage(`{"id":"42","name":"Summer 2024"}`),
		Version: 1,
	}
	entity.EXPECT().Get(gomock.Any(), int64(7), models.KindTravel, "42").Return(doc, nil)

	router := newTestHandler(auth, entity).Init()
	srv := httptest.NewServer(router)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/travels/42", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	var got models.ServerDocument
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "42", got.ID)
}

func TestRouter_EntityRoutesRequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestHandler(mock.NewMockAuthService(ctrl), mock.NewMockEntityService(ctrl)).Init()

	for _, target := range []string{"/api/travels/42", "/api/costs/42"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestRouter_AuthRoutesArePublic(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthService(ctrl)
	auth.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.User{UserID: 7, Login: "alice"}, nil)
	auth.EXPECT().CreateToken(gomock.Any(), gomock.Any()).
		Return(models.Token{SignedString: "signed"}, nil)

	router := newTestHandler(auth, nil).Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"login":"alice","password":"s3cret"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer signed", rec.Header().Get("Authorization"))
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bdamokos/travel-tracker/internal/mock"
	"github.com/bdamokos/travel-tracker/internal/store"
	"github.com/bdamokos/travel-tracker/internal/utils"
	"github.com/bdamokos/travel-tracker/models"
)

// entityRequest builds a request with the authenticated user id and the chi
// {id} URL parameter already resolved, as the middleware and router would
// have left them.
func entityRequest(method, target, body string, userID int64, id string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = injectNopLogger(req)

	ctx := context.WithValue(req.Context(), utils.UserIDCtxKey, userID)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

	return req.WithContext(ctx)
}

func testDocument(t *testing.T) models.ServerDocument {
	t.Helper()
	return models.ServerDocument{
		Kind:    models.KindTravel,
		ID:      "0c40cbf4-6f9b-4b55-a0d1-1f0f1c9ad001",
		Doc:     json.RawMessage(`{"id":"0c40cbf4-6f9b-4b55-a0d1-1f0f1c9ad001","name":"Summer 2024"}`),
		Version: 3,
	}
}

func TestGetEntity_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)

	doc := testDocument(t)
	entity.EXPECT().Get(gomock.Any(), int64(7), models.KindTravel, doc.ID).Return(doc, nil)

	h := newTestHandler(nil, entity)
	req := entityRequest(http.MethodGet, "/api/travels/"+doc.ID, "", 7, doc.ID)
	rec := httptest.NewRecorder()

	h.getEntity(models.KindTravel)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.ServerDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, int64(3), got.Version)
}

func TestGetEntity_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)
	entity.EXPECT().Get(gomock.Any(), int64(7), models.KindCost, "42").
		Return(models.ServerDocument{}, store.ErrDocumentNotFound)

	h := newTestHandler(nil, entity)
	req := entityRequest(http.MethodGet, "/api/costs/42", "", 7, "42")
	rec := httptest.NewRecorder()

	h.getEntity(models.KindCost)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEntity_NoUserInContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)

	h := newTestHandler(nil, entity)
	req := injectNopLogger(httptest.NewRequest(http.MethodGet, "/api/travels/42", nil))
	rec := httptest.NewRecorder()

	h.getEntity(models.KindTravel)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPutEntity_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)

	doc := testDocument(t)
	body := string(doc.Doc)
	entity.EXPECT().
		Put(gomock.Any(), int64(7), models.KindTravel, doc.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ models.EntityKind, _ string, raw json.RawMessage) (models.ServerDocument, error) {
			assert.JSONEq(t, body, string(raw))
			return doc, nil
		})

	h := newTestHandler(nil, entity)
	req := entityRequest(http.MethodPut, "/api/travels/"+doc.ID, body, 7, doc.ID)
	rec := httptest.NewRecorder()

	h.putEntity(models.KindTravel)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPutEntity_InvalidJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)

	h := newTestHandler(nil, entity)
	req := entityRequest(http.MethodPut, "/api/travels/42", "{broken", 7, "42")
	rec := httptest.NewRecorder()

	h.putEntity(models.KindTravel)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchEntity_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)

	doc := testDocument(t)
	updated := doc
	updated.Version = 4

	entity.EXPECT().
		ApplyDelta(gomock.Any(), int64(7), models.KindTravel, doc.ID, gomock.Any(), int64(3)).
		DoAndReturn(func(_ context.Context, _ int64, _ models.EntityKind, _ string, delta json.RawMessage, _ int64) (models.ServerDocument, error) {
			assert.JSONEq(t, `{"name":"Winter 2024"}`, string(delta))
			return updated, nil
		})

	h := newTestHandler(nil, entity)
	body := `{"delta":{"name":"Winter 2024"},"expected_version":3}`
	req := entityRequest(http.MethodPatch, "/api/travels/"+doc.ID, body, 7, doc.ID)
	rec := httptest.NewRecorder()

	h.patchEntity(models.KindTravel)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ServerDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(4), got.Version)
}

func TestPatchEntity_VersionConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)
	entity.EXPECT().
		ApplyDelta(gomock.Any(), int64(7), models.KindCost, "42", gomock.Any(), int64(2)).
		Return(models.ServerDocument{}, store.ErrVersionConflict)

	h := newTestHandler(nil, entity)
	body := `{"delta":{"amount":19.99},"expected_version":2}`
	req := entityRequest(http.MethodPatch, "/api/costs/42", body, 7, "42")
	rec := httptest.NewRecorder()

	h.patchEntity(models.KindCost)(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPatchEntity_NoDelta(t *testing.T) {
	ctrl := gomock.NewController(t)
	entity := mock.NewMockEntityService(ctrl)

	h := newTestHandler(nil, entity)
	req := entityRequest(http.MethodPatch, "/api/costs/42", `{"expected_version":2}`, 7, "42")
	rec := httptest.NewRecorder()

	h.patchEntity(models.KindCost)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

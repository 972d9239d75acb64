package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/bdamokos/travel-tracker/internal/config"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/utils"
	"github.com/bdamokos/travel-tracker/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed
// as a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// kindPath maps an entity kind to its REST collection segment.
func kindPath(kind models.EntityKind) (string, error) {
	switch kind {
	case models.KindTravel:
		return "travels", nil
	case models.KindCost:
		return "costs", nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/auth/register. On success the bearer token is extracted from
// the Authorization response header and stored via SetToken.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	var created models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		SetResult(&created).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("register parse bearer token: %w", err)
	}

	h.SetToken(token)
	return created, nil
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.User, error) {
	var found models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		SetResult(&found).
		Post("/api/auth/login")
	if err != nil {
		return user, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return user, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return user, fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	return found, nil
}

// Fetch implements [ServerAdapter]. It GETs /api/{kind}/{id} and decodes
// the versioned server document.
func (h *httpServerAdapter) Fetch(ctx context.Context, kind models.EntityKind, id string) (models.ServerDocument, error) {
	path, err := kindPath(kind)
	if err != nil {
		return models.ServerDocument{}, err
	}

	resp, err := h.authedRequest(ctx).Get(fmt.Sprintf("/api/%s/%s", path, url.PathEscape(id)))
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("fetch request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ServerDocument{}, err
	}

	var doc models.ServerDocument
	if err = json.Unmarshal(resp.Body(), &doc); err != nil {
		return models.ServerDocument{}, fmt.Errorf("decode fetch response: %w", err)
	}

	return doc, nil
}

// applyDeltaRequest is the PATCH body for delta application.
type applyDeltaRequest struct {
	Delta           json.RawMessage `json:"delta"`
	ExpectedVersion int64           `json:"expected_version"`
}

// ApplyDelta implements [ServerAdapter]. It PATCHes /api/{kind}/{id} with
// the delta and the version the delta was computed against. Returns
// [ErrVersionConflict] (wrapped) on HTTP 409.
func (h *httpServerAdapter) ApplyDelta(ctx context.Context, kind models.EntityKind, id string, delta json.RawMessage, expectedVersion int64) (models.ServerDocument, error) {
	path, err := kindPath(kind)
	if err != nil {
		return models.ServerDocument{}, err
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(applyDeltaRequest{Delta: delta, ExpectedVersion: expectedVersion}).
		Patch(fmt.Sprintf("/api/%s/%s", path, url.PathEscape(id)))
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("apply delta request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ServerDocument{}, err
	}

	var doc models.ServerDocument
	if err = json.Unmarshal(resp.Body(), &doc); err != nil {
		return models.ServerDocument{}, fmt.Errorf("decode apply delta response: %w", err)
	}

	return doc, nil
}

// Put implements [ServerAdapter]. It PUTs the full document to
// /api/{kind}/{id} and decodes the stored version.
func (h *httpServerAdapter) Put(ctx context.Context, kind models.EntityKind, id string, doc json.RawMessage) (models.ServerDocument, error) {
	path, err := kindPath(kind)
	if err != nil {
		return models.ServerDocument{}, err
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(doc).
		Put(fmt.Sprintf("/api/%s/%s", path, url.PathEscape(id)))
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("put request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ServerDocument{}, err
	}

	var saved models.ServerDocument
	if err = json.Unmarshal(resp.Body(), &saved); err != nil {
		return models.ServerDocument{}, fmt.Errorf("decode put response: %w", err)
	}

	return saved, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client. The embedded client exposes all of its
// methods directly while leaving room for application-specific extensions.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent HTTPClient with its own
// configuration, connection pool and state.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}

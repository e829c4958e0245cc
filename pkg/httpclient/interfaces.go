package httpclient

import (
	"context"
	"net/http"
)

// Response is the slice of an HTTP response callers need.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Client abstracts GET calls so callers can swap the transport in tests.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

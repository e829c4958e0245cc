// Package jobsclient calls the search API of a running visajobs server.
package jobsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/visajobs/internal/domain"
	"github.com/samvad-hq/visajobs/internal/filter"
	"github.com/samvad-hq/visajobs/pkg/httpclient"
)

// ErrFetchFailed is returned for any non-200 answer from the server.
var ErrFetchFailed = errors.New("failed to fetch jobs")

const searchPath = "/api/search-jobs"

// Result is a search answer plus the recency window the server applied.
type Result struct {
	domain.SearchResult
	WindowDays int
}

// Client queries the search endpoint.
type Client struct {
	base string
	http httpclient.Client
}

// New builds a client for baseURL. A nil http client gets a resty client with timeout.
func New(baseURL string, hc httpclient.Client, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	if hc == nil {
		hc = httpclient.NewRestyClient(timeout)
	}
	return &Client{base: baseURL, http: hc}, nil
}

// Search fetches the current listings. Servers that do not report their
// window are assumed to use the default.
func (c *Client) Search(ctx context.Context, strict bool) (Result, error) {
	target := c.base + searchPath
	if strict {
		target += "?strict=true"
	}

	resp, err := c.http.Get(ctx, target, map[string]string{"Accept": "application/json"})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Result{}, ErrFetchFailed
	}

	var res domain.SearchResult
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return Result{}, fmt.Errorf("decode search result: %w", err)
	}
	if res.Jobs == nil {
		res.Jobs = []domain.Job{}
	}
	return Result{SearchResult: res, WindowDays: windowDays(resp.Header())}, nil
}

func windowDays(h http.Header) int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(domain.WindowDaysHeader)))
	if err != nil || n <= 0 {
		return filter.DefaultWindowDays
	}
	return n
}

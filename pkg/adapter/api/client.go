// Package api is the HTTP client of the backend REST API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/repository"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

var (
	ErrStatus  = goerr.New("unexpected response status")
	ErrNoToken = goerr.New("no bearer token available")
)

const maxErrorBody = 4096

// TokenSource provides the bearer token of the signed-in user
type TokenSource interface {
	Token() (string, bool)
}

// Client sends requests to the backend
type Client struct {
	baseURL    *url.URL
	tokens     TokenSource
	httpClient *http.Client
}

// Option configures Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid API base URL", goerr.V("url", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("API base URL must be http or https", goerr.V("url", baseURL))
	}

	c := &Client{
		baseURL:    u,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, ok := c.tokens.Token()
	if !ok {
		return goerr.Wrap(ErrNoToken, "cannot call API", goerr.V("method", method), goerr.V("path", path))
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.From(ctx).Debug("api request", "method", method, "url", u.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request", goerr.V("method", method), goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		base := ErrStatus
		if resp.StatusCode == http.StatusNotFound {
			base = repository.ErrNotFound
		}
		return goerr.Wrap(base, "API request failed",
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(msg)),
		)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("method", method), goerr.V("path", path))
	}
	return nil
}

// Package client is a typed Go client for the UniHub REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every request made with the default HTTP client.
const DefaultTimeout = 30 * time.Second

const apiPrefix = "/api"

// Client calls the API with the session's bearer token. On a 401 it refreshes
// the access token once and retries the request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *zap.Logger
	refreshes  singleflight.Group
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithSession shares a session between clients.
func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

// WithLogger enables debug logging of requests.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the server at baseURL, e.g. "https://api.unihub.app".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		session:    NewSession(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// anonymous requests never carry a token and never trigger a refresh
	anonymous bool
}

func jsonRequest(method, path string, in interface{}) (request, error) {
	req := request{method: method, path: path}
	if in == nil {
		return req, nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return req, fmt.Errorf("encode request: %w", err)
	}
	req.body = raw
	req.contentType = "application/json"
	return req, nil
}

// call sends a JSON request and decodes the JSON response into out.
func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	req, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, out)
}

func (c *Client) callQuery(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	err := c.send(ctx, req, out)
	if req.anonymous || !IsStatus(err, http.StatusUnauthorized) || c.session.RefreshToken() == "" {
		return err
	}
	if rerr := c.refresh(ctx); rerr != nil {
		c.logger.Debug("token refresh failed", zap.Error(rerr))
		return err
	}
	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req request, out interface{}) error {
	u := c.baseURL + apiPrefix + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, bytes.NewReader(req.body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if token := c.session.AccessToken(); token != "" && !req.anonymous {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.method, req.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}
	c.logger.Debug("api call",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// refresh exchanges the refresh token for a new access token. Concurrent
// callers share one request.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshes.Do("refresh", func() (interface{}, error) {
		req, err := jsonRequest(http.MethodPost, "/auth/refresh", map[string]string{
			"refresh_token": c.session.RefreshToken(),
		})
		if err != nil {
			return nil, err
		}
		req.anonymous = true
		var resp tokenResponse
		if err := c.send(ctx, req, &resp); err != nil {
			if IsStatus(err, http.StatusUnauthorized) {
				c.session.Clear()
			}
			return nil, err
		}
		if resp.AccessToken == "" {
			return nil, errors.New("refresh returned no access token")
		}
		c.session.setAccessToken(resp.AccessToken)
		return nil, nil
	})
	return err
}

func idPath(format string, ids ...uint) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Headers is a per-call header set; values here override client defaults.
type Headers map[string]string

// Endpoint describes a single GET request relative to the client's base URL.
type Endpoint struct {
	Path    string
	Query   url.Values
	Headers Headers
}

// Client is a thin JSON API client. It owns URL construction, header
// merging and failure classification; retry policy belongs to callers.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests and to
// set the request timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger enables request/response logging. Secret header values are
// never logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}

	c := &Client{
		baseURL:    u,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends a GET request for the endpoint and returns the raw body of a 2xx
// response. Failures are classified: ErrInvalidURL, TransportError,
// context cancellation (passed through), ErrInvalidResponse, StatusError.
func (c *Client) Do(ctx context.Context, ep Endpoint) ([]byte, error) {
	req, err := c.buildRequest(ctx, ep)
	if err != nil {
		return nil, err
	}

	c.logRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Caller cancellation is not an operational fault.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: reading body: %v", ErrInvalidResponse, err)
	}

	c.logResponse(resp, len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: body}
	}
	return body, nil
}

func (c *Client) buildRequest(ctx context.Context, ep Endpoint) (*http.Request, error) {
	// Avoid a double separator when the path carries a leading slash.
	u := c.baseURL.JoinPath(strings.TrimPrefix(ep.Path, "/"))
	if len(ep.Query) > 0 {
		u.RawQuery = ep.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	headers := Headers{
		"Content-Type": "application/json; charset=utf-8",
		"Accept":       "application/json",
	}
	if c.apiKey != "" {
		headers["X-Api-Key"] = c.apiKey
	}
	// Endpoint headers win on collision.
	for k, v := range ep.Headers {
		headers[k] = v
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) logRequest(req *http.Request) {
	if c.logger == nil {
		return
	}
	// Log header names only; X-Api-Key and friends stay out of the logs.
	names := make([]string, 0, len(req.Header))
	for k := range req.Header {
		names = append(names, k)
	}
	sort.Strings(names)
	c.logger.Debug("api request",
		"method", req.Method,
		"url", req.URL.String(),
		"headers", strings.Join(names, ","),
	)
}

func (c *Client) logResponse(resp *http.Response, bodySize int) {
	if c.logger == nil {
		return
	}
	c.logger.Debug("api response",
		"status", resp.StatusCode,
		"url", resp.Request.URL.String(),
		"body_bytes", bodySize,
	)
}

// send performs the request and decodes the body into T.
func send[T any](ctx context.Context, c *Client, ep Endpoint) (T, error) {
	var out T
	body, err := c.Do(ctx, ep)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &DecodeError{Err: err}
	}
	return out, nil
}

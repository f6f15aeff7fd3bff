package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"trading-journal/internal/logger"
)

// Client wraps a resty client with the defaults shared by the LLM adapters.
type Client struct {
	rc         *resty.Client
	baseURL    string
	headers    map[string]string
	useLogging bool
}

func (c *Client) logDebug(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Debug(ctx, msg, args...)
	}
}

func (c *Client) logWarn(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Warn(ctx, msg, args...)
	}
}

func (c *Client) logError(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Error(ctx, msg, args...)
	}
}

// ClientOption configures the API client
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.rc.SetTimeout(timeout)
	}
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets a default header for all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithLogging enables request/response logging
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.rc = resty.NewWithClient(hc).SetTimeout(hc.Timeout)
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		rc:      resty.New().SetTimeout(30 * time.Second),
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// HTTPError is returned for any response with status >= 400. The body is kept
// verbatim so callers can classify provider messages.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Do executes method against path. A non-nil body is sent as JSON. Logs and
// returned errors carry the URL without its query string.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	full := c.baseURL + path
	logged := stripQuery(full)

	req := c.rc.R().SetContext(ctx).SetHeaders(c.headers).SetHeaders(headers)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	c.logDebug(ctx, "HTTP Request", "method", method, "url", logged)
	start := time.Now()

	resp, err := req.Execute(method, full)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = stripQuery(uerr.URL)
		}
		c.logError(ctx, "HTTP request failed", "method", method, "url", logged, "error", err)
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	c.logDebug(ctx, "HTTP Response",
		"method", method,
		"url", logged,
		"status", resp.StatusCode(),
		"duration", time.Since(start),
		"bodySize", len(resp.Body()))

	if resp.StatusCode() >= 400 {
		c.logWarn(ctx, "HTTP error response", "method", method, "url", logged, "status", resp.StatusCode())
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, nil
}

func stripQuery(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

func (c *Client) GET(ctx context.Context, path string, headers ...map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, firstHeaders(headers))
}

func (c *Client) POST(ctx context.Context, path string, body any, headers ...map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, firstHeaders(headers))
}

func firstHeaders(headers []map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	return headers[0]
}

// ParseJSON parses the response body as JSON into v
func (r *Response) ParseJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func (r *Response) String() string {
	return string(r.Body)
}

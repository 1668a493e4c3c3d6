package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/trustscan/internal/model"
)

// Endpoint paths of the analysis service.
const (
	HealthPath = "/health"
	ScanPath   = "/extension/scan"
)

// maxResultSize limits how much of a scan response body is read.
const maxResultSize = 1 << 20

// Client talks to the analysis service.
type Client struct {
	// baseURL is the service address without a trailing slash.
	baseURL string

	// httpClient performs the requests.
	httpClient *http.Client

	// logger receives probe and request diagnostics.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
// The timeout passed to NewClient is not applied to a replaced client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the service at baseURL.
//
// A zero timeout leaves requests unbounded; callers cancel through the
// request context instead. The address is validated but not contacted.
// Call Health() to verify the service is running.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if !isValidBaseURL(baseURL) {
		return nil, ErrInvalidBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// isValidBaseURL checks that the address is an absolute http(s) URL with a host.
func isValidBaseURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health probes GET /health and reports the outcome.
// Transport failures are logged, not returned.
func (c *Client) Health(ctx context.Context) HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		c.logger.Error("backend health check failed", "error", err)
		return HealthUnreachable
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend health check failed", "url", req.URL.String(), "error", err)
		return HealthUnreachable
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse

	if !isSuccess(resp.StatusCode) {
		c.logger.Warn("backend health check returned non-success status", "status", resp.StatusCode)
		return HealthUnhealthy
	}
	return HealthOK
}

// Healthy reports whether the service answered the health probe with a 2xx status.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.Health(ctx) == HealthOK
}

// Scan submits a page snapshot and decodes the service's verdict.
//
// It returns an error wrapping ErrTransport when no response was received,
// a *StatusError for non-2xx responses, and an error wrapping ErrDecode when
// the body is not valid JSON.
func (c *Client) Scan(ctx context.Context, scanReq *model.ScanRequest) (*model.ScanResult, error) {
	body, err := json.Marshal(scanReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ScanPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("submitting scan request",
		"url", scanReq.URL,
		"content", scanReq.Content,
		"scripts", len(scanReq.Scripts),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var result model.ScanResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResultSize)).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c.logger.Debug("scan result received",
		"url", scanReq.URL,
		"trustScore", result.TrustScore,
		"alerts", len(result.Alerts),
	)
	return &result, nil
}

// isSuccess reports whether the status code is in the 2xx range.
func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

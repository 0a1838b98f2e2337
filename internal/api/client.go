// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is the backend address used when none is configured.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout bounds every request except uploads.
	DefaultTimeout = 30 * time.Second

	// DefaultUploadTimeout bounds document uploads.
	DefaultUploadTimeout = 120 * time.Second

	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 10 * 1024 * 1024

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	defaultUserAgent = "chatwithdata-tui"
)

// TokenSource supplies the bearer token attached to requests.
type TokenSource interface {
	Token() (string, bool)
}

// validatable is implemented by records that check their own conformance.
type validatable interface {
	Validate() error
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL       string
	tokens        TokenSource
	httpClient    *http.Client
	timeout       time.Duration
	uploadTimeout time.Duration
	userAgent     string
	logger        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout for non-upload calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUploadTimeout sets the per-request timeout for uploads.
func WithUploadTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.uploadTimeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request lines.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the backend at baseURL. A nil token source means
// requests are sent without credentials.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		timeout:       DefaultTimeout,
		uploadTimeout: DefaultUploadTimeout,
		userAgent:     defaultUserAgent,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// request describes one exchange with the backend.
type request struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	timeout     time.Duration
}

// jsonRequest builds a request whose body is payload encoded as JSON.
func (c *Client) jsonRequest(op, method, path string, payload any) (request, error) {
	r := request{op: op, method: method, path: path, timeout: c.timeout}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return r, &Error{Kind: KindValidation, Op: op, Message: "could not encode request", Err: err}
		}
		r.body = bytes.NewReader(data)
		r.contentType = "application/json"
	}
	return r, nil
}

// do performs r and decodes a 2xx body into out. out may be nil for
// status-only operations.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.timeout <= 0 {
		r.timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return &Error{Kind: KindNetworkUnavailable, Op: r.op, Message: "invalid request", Err: err}
	}

	requestID := uuid.NewString()
	c.setHeaders(req, requestID, r.contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Keep the token out of anything that might log the request later.
	req.Header.Del("Authorization")

	if err != nil {
		c.logger.Warn("request failed",
			zap.String("op", r.op),
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return &Error{Kind: KindNetworkUnavailable, Op: r.op, Err: transportCause(ctx, err)}
	}
	defer resp.Body.Close()

	body, readErr := readResponse(resp)

	c.logger.Debug("request",
		zap.String("op", r.op),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	)

	if readErr != nil {
		if errors.Is(readErr, errResponseTooLarge) {
			return &Error{Kind: KindServerFailure, Op: r.op, Status: resp.StatusCode, Err: readErr}
		}
		return &Error{Kind: KindNetworkUnavailable, Op: r.op, Status: resp.StatusCode, Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(r.op, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	return decodeBody(r.op, resp.StatusCode, body, out)
}

// setHeaders applies the standard headers to a request.
func (c *Client) setHeaders(req *http.Request, requestID, contentType string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

var errResponseTooLarge = fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, errResponseTooLarge
	}
	return body, nil
}

// decodeBody unmarshals a success body and checks record conformance.
func decodeBody(op string, status int, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return &Error{Kind: KindServerFailure, Op: op, Status: status, Message: "empty response"}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindServerFailure, Op: op, Status: status, Message: "unexpected response shape", Err: err}
	}
	if v, ok := out.(validatable); ok {
		if err := v.Validate(); err != nil {
			return &Error{Kind: KindServerFailure, Op: op, Status: status, Message: "unexpected response shape", Err: err}
		}
	}
	return nil
}

// transportCause reports a timeout distinctly from other transport errors.
func transportCause(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}

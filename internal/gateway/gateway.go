// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway implements the HTTP client for the TaskPilot backend.
//
// The backend owns all conversation state; this client sends messages,
// lists conversations, fetches history, and probes health. Every failure
// crossing this boundary is converted to an *apierr.APIError so callers
// never inspect raw transport errors.
//
// GATEWAY: Secure logging, retry logic, and response size limits
package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/taskpilot-tui/internal/apierr"
	"github.com/jeranaias/taskpilot-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the per-request deadline. Assistant replies can
	// take a while; anything past this is reported as a timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry budget for idempotent GET requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 5 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB limit

	userAgent = "taskpilot-tui/0.1.0"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// TokenSource supplies the bearer token for authenticated requests.
// auth.TokenStore satisfies this.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the TaskPilot backend.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	maxRetries int

	// onUnauthorized fires once per 401 response, before the error is
	// returned. Used to invalidate the local session.
	onUnauthorized func()
}

// NewClient creates a backend client for the given base URL.
// The URL must not end with a trailing slash; config.Load normalizes this.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: sharedHTTPClient,
		maxRetries: DefaultMaxRetries,
	}
}

// WithHTTPClient overrides the HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets a custom per-request deadline.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	// Clone so the shared pooled client keeps its default timeout.
	hc := *c.httpClient
	hc.Timeout = timeout
	c.httpClient = &hc
	return c
}

// WithMaxRetries sets the retry budget for GET requests.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithUnauthorizedHook registers a callback invoked on every 401 response.
func (c *Client) WithUnauthorizedHook(fn func()) *Client {
	c.onUnauthorized = fn
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SendMessage posts a user message and returns the assistant's reply.
//
// Passing an empty conversationID starts a new conversation on the backend.
// Sends are never retried automatically; the user decides whether a failed
// message is worth resending.
func (c *Client) SendMessage(ctx context.Context, content, conversationID string) (*ChatResponse, error) {
	req := chatRequest{Content: content}
	if conversationID != "" {
		req.ConversationID = conversationID
	}

	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DefaultPageSize is the conversation list page size when the caller
// passes limit <= 0.
const DefaultPageSize = 50

// ListConversations fetches the user's conversation summaries, newest
// first. A limit <= 0 requests the default page size; offset < 0 is
// treated as 0.
func (c *Client) ListConversations(ctx context.Context, limit, offset int) ([]model.ConversationSummary, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	path := fmt.Sprintf("/api/conversations?limit=%d&offset=%d", limit, offset)
	var out []model.ConversationSummary
	if err := c.getWithRetry(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetConversationDetail fetches the full message history of one conversation.
// Messages arrive in chronological order and are materialized as sent.
func (c *Client) GetConversationDetail(ctx context.Context, conversationID string) (*model.ConversationDetail, error) {
	if conversationID == "" {
		return nil, apierr.New(apierr.TypeUnknown, "conversation id cannot be empty")
	}

	var wire conversationDetailResponse
	path := "/api/conversations/" + url.PathEscape(conversationID)
	if err := c.getWithRetry(ctx, path, &wire); err != nil {
		return nil, err
	}
	return wire.toDetail(), nil
}

// CheckHealth probes GET /health and reports whether the backend is up.
// Probe failures are expected during outages, so this returns a plain bool.
func (c *Client) CheckHealth(ctx context.Context) bool {
	var wire healthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &wire); err != nil {
		return false
	}
	return wire.Status == "healthy"
}

// =============================================================================
// TRANSPORT
// =============================================================================

// getWithRetry performs a GET with exponential backoff on transient errors.
// Only idempotent reads go through here; POST /api/chat never retries.
func (c *Client) getWithRetry(ctx context.Context, path string, out any) error {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return classifyTransport(ctx.Err())
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		err := c.doJSON(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// doJSON performs a single request and decodes the JSON response into out.
// All errors returned are *apierr.APIError.
//
// SECURITY: Clears Authorization header after the request to prevent logging.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return apierr.New(apierr.TypeUnknown, fmt.Sprintf("failed to marshal request: %v", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apierr.New(apierr.TypeUnknown, fmt.Sprintf("failed to create request: %v", err))
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	req.Header.Del("Authorization")

	if err != nil {
		log.Printf("API Request failed: %s %s: %v", method, path, err)
		return classifyTransport(err)
	}
	defer resp.Body.Close()
	log.Printf("API Response: %s %s -> %d (%v)", method, path, resp.StatusCode, time.Since(start))

	// SECURITY: Read response with size limit to prevent memory exhaustion.
	data, err := readResponse(resp)
	if err != nil {
		return apierr.New(apierr.TypeUnknown, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return apierr.New(apierr.TypeUnknown, fmt.Sprintf("failed to parse response: %v", err))
		}
	}
	return nil
}

// setHeaders sets the standard headers for backend requests. A missing
// token is not an error here; the backend answers 401 and the normal
// unauthorized path runs.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
}

// handleErrorResponse converts a non-2xx response into a server APIError,
// extracting the backend's {"detail": ...} message when present.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	if statusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	var wire struct {
		Detail string `json:"detail"`
	}
	msg := ""
	if err := json.Unmarshal(body, &wire); err == nil {
		msg = wire.Detail
	}
	if msg == "" {
		msg = "Server error"
	}
	return apierr.Server(statusCode, msg)
}

// classifyTransport maps a transport-level failure (no HTTP response) to
// the taxonomy: deadline overruns are timeouts, everything else that
// produced no response is a network error.
func classifyTransport(err error) *apierr.APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.New(apierr.TypeTimeout, err.Error())
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return apierr.New(apierr.TypeTimeout, err.Error())
		}
		return apierr.New(apierr.TypeNetwork, err.Error())
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierr.New(apierr.TypeTimeout, err.Error())
	}

	if errors.Is(err, context.Canceled) {
		return apierr.New(apierr.TypeUnknown, err.Error())
	}
	return apierr.New(apierr.TypeNetwork, err.Error())
}

// isRetryable reports whether a GET should be attempted again.
func isRetryable(err error) bool {
	apiErr := apierr.From(err)
	switch apiErr.Type {
	case apierr.TypeNetwork, apierr.TypeTimeout:
		return true
	case apierr.TypeServer:
		return apiErr.StatusCode >= 500 && apiErr.StatusCode < 600
	}
	return false
}

// calculateBackoff returns the delay before the next retry attempt.
// Exponential: 500ms, 1000ms, 2000ms, capped at retryMaxDelay.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

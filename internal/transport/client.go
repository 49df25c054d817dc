// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the HTTP client for talking to the termtalk
// chat server.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the chat client.
//
// The Type drives how the UI renders the failure: server-reported errors
// show the server's message verbatim, everything else renders as a
// connection failure.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota

	// ErrTypeServer means the server answered with an error payload. The
	// Message carries the server's own error text.
	ErrTypeServer

	// ErrTypeConnection means the server could not be reached at all.
	ErrTypeConnection

	// ErrTypeTimeout means the request exceeded its deadline.
	ErrTypeTimeout

	// ErrTypeBadResponse means the server answered with something the
	// client could not parse.
	ErrTypeBadResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "chat server is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsServerError reports whether err carries a server-reported error
// message that should be shown to the user verbatim.
func IsServerError(err error) (string, bool) {
	var ce *ClientError
	if errors.As(err, &ce) && ce.Type == ErrTypeServer {
		return ce.Message, true
	}
	return "", false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the chat client.
type ClientConfig struct {
	// BaseURL is the chat server base URL (default: http://127.0.0.1:5050)
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:5050",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// maxResponseSize caps chat reply bodies to keep a misbehaving server
// from exhausting memory.
const maxResponseSize = 1 << 20 // 1MB

// Client handles communication with the termtalk chat server.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a chat client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a chat client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5050"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatRequest is the POST /chat request body.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the POST /chat response body. Ok and Error cover the
// server's envelope; a bare {"reply": ...} from an older server decodes
// into the same struct.
type chatResponse struct {
	Ok    *bool  `json:"ok,omitempty"`
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// HealthStatus is the GET /health response body.
type HealthStatus struct {
	Status     string `json:"status"`
	Backend    string `json:"backend"`
	SessionLen int    `json:"session_len"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Send posts a user message to the chat server and returns the reply
// text. Server-reported failures come back as a ClientError of type
// ErrTypeServer carrying the server's message.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &ClientError{Type: ErrTypeBadResponse, Message: "failed to read response", Cause: err}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &ClientError{Type: ErrTypeBadResponse, Message: "failed to parse response", Cause: err}
	}

	// The server signals failure through the envelope, with the HTTP
	// status as a backstop for envelopes it never filled in.
	failed := resp.StatusCode != http.StatusOK || (parsed.Ok != nil && !*parsed.Ok)
	if failed {
		msg := parsed.Error
		if msg == "" {
			msg = "unexpected status " + resp.Status
		}
		return "", &ClientError{Type: ErrTypeServer, Message: msg}
	}

	return parsed.Reply, nil
}

// Reset clears the server-side session history. The response body is
// ignored; reset is best-effort from the client's point of view.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/reset", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode != http.StatusOK {
		return &ClientError{Type: ErrTypeServer, Message: "unexpected status " + resp.Status}
	}
	return nil
}

// Health fetches the server's health report.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeBadResponse, Message: "failed to read response", Cause: err}
	}

	var status HealthStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, &ClientError{Type: ErrTypeBadResponse, Message: "failed to parse health response", Cause: err}
	}
	return &status, nil
}

// classifyTransportError maps a round-trip failure to the client error
// taxonomy.
func classifyTransportError(err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeConnection, Message: "request cancelled", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "chat server is not reachable", Cause: err}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: 2 * time.Second})
}

func TestSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "reply": "hello there"}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got != "hello there" {
		t.Errorf("Send() = %q, want %q", got, "hello there")
	}
}

func TestSendAcceptsBareReplyShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply": "legacy"}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got != "legacy" {
		t.Errorf("Send() = %q, want %q", got, "legacy")
	}
}

func TestSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"ok": false, "error": "boom"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), "hi")
	if err == nil {
		t.Fatal("Send() expected error")
	}

	msg, ok := IsServerError(err)
	if !ok {
		t.Fatalf("expected server error, got %v", err)
	}
	if msg != "boom" {
		t.Errorf("server error message = %q, want %q", msg, "boom")
	}
}

func TestSendEnvelopeFailureWithOKStatus(t *testing.T) {
	// ok:false must be treated as failure even when HTTP says 200.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "nope"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), "hi")
	msg, ok := IsServerError(err)
	if !ok || msg != "nope" {
		t.Errorf("got (%q, %v), want (nope, true)", msg, ok)
	}
}

func TestSendUnreachable(t *testing.T) {
	// A closed server guarantees connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Send(context.Background(), "hi")
	if err == nil {
		t.Fatal("Send() expected error")
	}

	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *ClientError", err)
	}
	if ce.Type != ErrTypeConnection {
		t.Errorf("error type = %v, want ErrTypeConnection", ce.Type)
	}
	if _, ok := IsServerError(err); ok {
		t.Error("connection failure must not read as a server error")
	}
}

func TestSendMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), "hi")
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeBadResponse {
		t.Errorf("error = %v, want ErrTypeBadResponse", err)
	}
}

func TestReset(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if path != "POST /reset" {
		t.Errorf("request = %q, want %q", path, "POST /reset")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "backend": "local", "session_len": 4}`))
	}))
	defer srv.Close()

	status, err := newTestClient(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status.Status != "ok" || status.Backend != "local" || status.SessionLen != 4 {
		t.Errorf("Health() = %+v", status)
	}
}

func TestNewClientWithConfigFillsDefaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	if c.config.BaseURL != "http://127.0.0.1:5050" {
		t.Errorf("BaseURL = %q", c.config.BaseURL)
	}
	if c.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", c.config.Timeout)
	}

	c = NewClientWithConfig(nil)
	if c.config.BaseURL == "" {
		t.Error("nil config must produce defaults")
	}

	c = NewClientWithConfig(&ClientConfig{BaseURL: "http://host:1/"})
	if c.BaseURL() != "http://host:1" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
}

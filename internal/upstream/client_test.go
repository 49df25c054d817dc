// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"message": {"content": [{"type": "text", "text": "the answer"}]}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key").WithBaseURL(srv.URL)
	reply, err := c.Chat(context.Background(), []ChatMessage{
		NewSystemMessage(SystemPrompt),
		NewUserMessage("a question"),
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "the answer" {
		t.Errorf("Chat() = %q, want %q", reply, "the answer")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("model = %q, want %q", gotReq.Model, DefaultModel)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestChatNotConfigured(t *testing.T) {
	_, err := NewClient("").Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Chat() error = %v, want ErrNotConfigured", err)
	}
}

func TestChatEmptyContentFallsBackToPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": {"content": []}}`))
	}))
	defer srv.Close()

	reply, err := NewClient("k").WithBaseURL(srv.URL).Chat(context.Background(), nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "(no reply)" {
		t.Errorf("Chat() = %q, want %q", reply, "(no reply)")
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message": "bad key"}`, ErrAuthFailed},
		{"rate limited", http.StatusTooManyRequests, `{"message": "slow down"}`, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("k").WithBaseURL(srv.URL).Chat(context.Background(), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Chat() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChatGenericServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message": "upstream exploded"}`))
	}))
	defer srv.Close()

	_, err := NewClient("k").WithBaseURL(srv.URL).Chat(context.Background(), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream exploded" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestBuilders(t *testing.T) {
	c := NewClient(" key ").WithModel("command-r").WithBaseURL("http://x/")
	if !c.IsConfigured() {
		t.Error("IsConfigured() = false, want true (key trimmed)")
	}
	if c.Model() != "command-r" {
		t.Errorf("Model() = %q", c.Model())
	}
	if c.baseURL != "http://x" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
	}

	c = NewClient("k").WithModel("")
	if c.Model() != DefaultModel {
		t.Errorf("empty WithModel must keep default, got %q", c.Model())
	}
}

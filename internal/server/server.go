// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the local HTTP chat backend.
//
// Every route answers with the same JSON envelope: {"ok": true, "reply": ...}
// on success and {"ok": false, "error": ...} on failure. The chat handler
// tries the arithmetic guardrail first and only falls through to the
// upstream model when the message is not a solvable expression.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/termtalk/internal/mathguard"
	"github.com/jeranaias/termtalk/internal/upstream"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultPort is the port the server binds when none is configured.
	DefaultPort = 5050

	// DefaultMaxHistory is the number of prior exchanges kept per session.
	DefaultMaxHistory = 10

	// MaxRequestBodySize caps incoming request bodies (1 MB).
	MaxRequestBodySize = 1 << 20

	// Version is reported in startup logs.
	Version = "1.0.0"

	// localFallbackReply is returned when no upstream model is configured
	// and the message is not arithmetic.
	localFallbackReply = "I'm running without an upstream model, so I can only solve arithmetic right now. Try something like \"what is 12 * 7\"."
)

// =============================================================================
// Types
// =============================================================================

// Server is the local chat backend.
type Server struct {
	port       int
	maxHistory int
	upstream   *upstream.Client
	sessions   *sessionStore
	router     *http.ServeMux
	httpServer *http.Server
}

// chatRequest is the body accepted by POST /chat.
type chatRequest struct {
	Message string `json:"message"`
}

// chatReply is the success envelope.
type chatReply struct {
	Ok    bool   `json:"ok"`
	Reply string `json:"reply"`
}

// errorReply is the failure envelope.
type errorReply struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
}

// healthReply is the body returned by GET /health.
type healthReply struct {
	Status     string `json:"status"`
	Backend    string `json:"backend"`
	SessionLen int    `json:"session_len"`
}

// =============================================================================
// Session store
// =============================================================================

// exchange is one user/bot turn kept as context for the upstream model.
type exchange struct {
	user  string
	reply string
}

// sessionStore keeps per-client conversation history, keyed by client IP.
// History is bounded: only the most recent maxHistory exchanges survive.
type sessionStore struct {
	mu         sync.Mutex
	histories  map[string][]exchange
	maxHistory int
}

func newSessionStore(maxHistory int) *sessionStore {
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &sessionStore{
		histories:  make(map[string][]exchange),
		maxHistory: maxHistory,
	}
}

// record appends one exchange and trims to the history bound.
func (s *sessionStore) record(key, user, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.histories[key], exchange{user: user, reply: reply})
	if len(h) > s.maxHistory {
		h = h[len(h)-s.maxHistory:]
	}
	s.histories[key] = h
}

// history returns a copy of the stored exchanges for key.
func (s *sessionStore) history(key string) []exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.histories[key]
	out := make([]exchange, len(h))
	copy(out, h)
	return out
}

// reset drops all history for key.
func (s *sessionStore) reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, key)
}

// length returns the number of stored exchanges for key.
func (s *sessionStore) length(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories[key])
}

// =============================================================================
// Construction
// =============================================================================

// NewServer creates a server listening on the given port.
func NewServer(port int) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	s := &Server{
		port:       port,
		maxHistory: DefaultMaxHistory,
		sessions:   newSessionStore(DefaultMaxHistory),
		router:     http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// WithUpstream attaches an upstream model client. A nil client keeps the
// server in local-only mode.
func (s *Server) WithUpstream(client *upstream.Client) *Server {
	s.upstream = client
	return s
}

// WithMaxHistory overrides the per-session history bound.
func (s *Server) WithMaxHistory(n int) *Server {
	if n < 0 {
		n = 0
	}
	s.maxHistory = n
	s.sessions = newSessionStore(n)
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /chat", s.handleChat)
	s.router.HandleFunc("POST /reset", s.handleReset)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if strings.Contains(err.Error(), "http: request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Empty message")
		return
	}

	key := GetClientIP(r)

	// Arithmetic guardrail goes first: solvable expressions never reach
	// the model.
	if answer, ok := mathguard.Answer(message); ok {
		s.sessions.record(key, message, answer)
		writeJSON(w, http.StatusOK, chatReply{Ok: true, Reply: answer})
		return
	}

	if s.upstream == nil {
		s.sessions.record(key, message, localFallbackReply)
		writeJSON(w, http.StatusOK, chatReply{Ok: true, Reply: localFallbackReply})
		return
	}

	reply, err := s.upstream.Chat(r.Context(), s.buildMessages(key, message))
	if err != nil {
		if errors.Is(err, upstream.ErrNotConfigured) {
			s.sessions.record(key, message, localFallbackReply)
			writeJSON(w, http.StatusOK, chatReply{Ok: true, Reply: localFallbackReply})
			return
		}
		log.Printf("UPSTREAM_ERROR | error=%v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.sessions.record(key, message, reply)
	writeJSON(w, http.StatusOK, chatReply{Ok: true, Reply: reply})
}

// buildMessages assembles the upstream prompt: system prompt, bounded
// history, then the new user message.
func (s *Server) buildMessages(key, message string) []upstream.ChatMessage {
	history := s.sessions.history(key)

	messages := make([]upstream.ChatMessage, 0, 2*len(history)+2)
	messages = append(messages, upstream.NewSystemMessage(upstream.SystemPrompt))
	for _, ex := range history {
		messages = append(messages, upstream.NewUserMessage(ex.user))
		messages = append(messages, upstream.NewAssistantMessage(ex.reply))
	}
	messages = append(messages, upstream.NewUserMessage(message))
	return messages
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sessions.reset(GetClientIP(r))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := "local"
	if s.upstream != nil && s.upstream.IsConfigured() {
		backend = s.upstream.Model()
	}
	writeJSON(w, http.StatusOK, healthReply{
		Status:     "ok",
		Backend:    backend,
		SessionLen: s.sessions.length(GetClientIP(r)),
	})
}

// =============================================================================
// Response helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("RESPONSE_ENCODE_ERROR | error=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorReply{Ok: false, Error: message})
}

// =============================================================================
// Lifecycle
// =============================================================================

// Handler returns the fully wrapped HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return Chain(s.router,
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(DefaultRateLimiter()),
	)
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("SERVER_STOP | addr=%s", addr)
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

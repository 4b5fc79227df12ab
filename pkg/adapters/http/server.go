package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/pacer"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/runner"
	"github.com/aretw0/pacer/pkg/session"
	"github.com/aretw0/pacer/pkg/tools"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Dispatcher answers one conversational request.
type Dispatcher interface {
	Handle(ctx context.Context, req domain.Request, history domain.History, signal domain.Signal, sink ports.Sink) domain.Response
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxInputSize limits the prompt size accepted by POST /chat.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

// Server serves the dispatcher, sessions and tools over HTTP.
type Server struct {
	Dispatcher Dispatcher
	Sessions   *session.Manager
	Tools      *tools.Registry
	Streams    *StreamManager

	metrics  http.Handler
	maxInput int
	logger   *slog.Logger
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Prompt    string `json:"prompt"`
	Command   string `json:"command,omitempty"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	SessionID string          `json:"sessionId"`
	Response  domain.Response `json:"response"`
}

// ToolResponse is the body returned by POST /tools/{name}.
type ToolResponse struct {
	Tool     string `json:"tool"`
	Prepared string `json:"prepared"`
	Output   string `json:"output"`
}

// StreamEvent is one SSE payload of GET /sessions/{id}/events.
type StreamEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewHandler creates the HTTP handler.
func NewHandler(d Dispatcher, sessions *session.Manager, reg *tools.Registry, opts ...Option) http.Handler {
	s := &Server{
		Dispatcher: d,
		Sessions:   sessions,
		Tools:      reg,
		Streams:    NewStreamManager(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Post("/chat", s.Chat)
	r.Get("/tools", s.ListTools)
	r.Post("/tools/{name}", s.InvokeTool)
	r.Get("/sessions", s.ListSessions)
	r.Get("/sessions/{id}/history", s.GetHistory)
	r.Get("/sessions/{id}/events", s.SubscribeEvents)
	r.Delete("/sessions/{id}", s.DeleteSession)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// Chat handles POST /chat. A missing session id starts a new session.
// Progress and markdown are broadcast to the session's event subscribers
// while the request runs. Disconnecting cancels the request; the exchange
// is still recorded.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Chat: invalid request body", "err", err)
		return
	}

	prompt, err := runner.SanitizeInputLimit(body.Prompt, s.maxInput)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid prompt: %v", err), http.StatusBadRequest)
		return
	}
	req := domain.Request{Prompt: prompt, Command: strings.TrimSpace(body.Command)}
	if req.Prompt == "" && req.Command == "" {
		http.Error(w, "Prompt or command required", http.StatusBadRequest)
		return
	}

	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	signal := domain.SignalFromContext(r.Context())
	sink := s.Streams.Sink(sessionID)
	resp, err := s.Sessions.Exchange(context.WithoutCancel(r.Context()), sessionID, req,
		func(ctx context.Context, h domain.History) domain.Response {
			return s.Dispatcher.Handle(ctx, req, h, signal, sink)
		})
	if err != nil {
		http.Error(w, fmt.Sprintf("Session error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Chat failed", "session_id", sessionID, "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{SessionID: sessionID, Response: resp})
}

// ListTools handles GET /tools.
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Tools.Definitions())
}

// InvokeTool handles POST /tools/{name}. The body is the tool's argument
// object; an empty body means all defaults.
func (s *Server) InvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("InvokeTool: invalid request body", "tool", name, "err", err)
		return
	}

	prepared, err := s.Tools.Prepare(name, args)
	if err != nil {
		s.toolError(w, name, err)
		return
	}
	out, err := s.Tools.Invoke(r.Context(), name, tools.Call{
		Args:   args,
		Signal: domain.SignalFromContext(r.Context()),
	})
	if err != nil {
		s.toolError(w, name, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ToolResponse{Tool: name, Prepared: prepared, Output: out})
}

func (s *Server) toolError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownTool):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, fmt.Sprintf("Tool error: %v", err), http.StatusInternalServerError)
		s.logger.Error("InvokeTool failed", "tool", name, "err", err)
	}
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListSessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetHistory handles GET /sessions/{id}/history.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h, err := s.Sessions.Store().Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetHistory failed", "session_id", id, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, h)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteSession failed", "session_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(pacer.Version),
	})
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Debug("SSE: subscribed", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// StreamManager fans the output of in-flight requests out to SSE
// subscribers, per session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Subscribe registers a new subscriber of sessionID. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 32)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of subscribers of sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends msg to every subscriber of sessionID. A subscriber whose
// buffer is full misses the message.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Sink returns a ports.Sink that broadcasts to the subscribers of sessionID.
func (sm *StreamManager) Sink(sessionID string) ports.Sink {
	emit := func(typ, msg string) {
		if sm.Subscribers(sessionID) == 0 {
			return
		}
		b, err := json.Marshal(StreamEvent{Type: typ, Message: msg})
		if err != nil {
			return
		}
		sm.Broadcast(sessionID, string(b))
	}
	return ports.SinkFuncs{
		OnProgress: func(msg string) { emit("progress", msg) },
		OnMarkdown: func(fragment string) { emit("markdown", fragment) },
	}
}

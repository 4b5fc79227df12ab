package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
)

// Event types emitted by JSONHandler.
const (
	EventProgress = "progress"
	EventMarkdown = "markdown"
	EventResponse = "response"
	EventSystem   = "system"
)

// Event is one JSON line written by JSONHandler.
type Event struct {
	Type     string           `json:"type"`
	Message  string           `json:"message,omitempty"`
	Fragment string           `json:"fragment,omitempty"`
	Response *domain.Response `json:"response,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each input line is a request object ({"prompt": ..., "command": ...}), a JSON
// string, or plain text.
type JSONHandler struct {
	Reader       *bufio.Reader
	Writer       io.Writer
	MaxInputSize int

	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:       bufio.NewReader(r),
		Writer:       w,
		MaxInputSize: maxInputSize(),
		encoder:      json.NewEncoder(w),
	}
}

// Input reads the next non-blank line.
func (h *JSONHandler) Input(ctx context.Context) (domain.Request, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Request{}, err
		}
		text, err := h.Reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if text == "" {
			if err != nil {
				return domain.Request{}, err
			}
			continue
		}

		req := decodeRequest(text)
		if req.Prompt, err = SanitizeInputLimit(req.Prompt, h.MaxInputSize); err != nil {
			h.emit(Event{Type: EventSystem, Message: err.Error()})
			continue
		}
		return req, nil
	}
}

func decodeRequest(text string) domain.Request {
	var req domain.Request
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &req); err == nil {
			return req
		}
	}
	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return ParseRequest(s)
	}
	return ParseRequest(text)
}

// Sink emits progress and fragments as events.
func (h *JSONHandler) Sink() ports.Sink {
	return ports.SinkFuncs{
		OnProgress: func(msg string) { h.emit(Event{Type: EventProgress, Message: msg}) },
		OnMarkdown: func(f string) { h.emit(Event{Type: EventMarkdown, Fragment: f}) },
	}
}

// Output emits the final response.
func (h *JSONHandler) Output(ctx context.Context, resp domain.Response) error {
	return h.emit(Event{Type: EventResponse, Response: &resp})
}

// SystemOutput emits a system event.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(Event{Type: EventSystem, Message: msg})
}

func (h *JSONHandler) emit(e Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(e)
}

package runner

import (
	"context"
	"strings"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Input reads the next request. io.EOF ends the conversation.
	Input(ctx context.Context) (domain.Request, error)

	// Sink returns the stream the running request writes to.
	Sink() ports.Sink

	// Output presents a finished response.
	Output(ctx context.Context, resp domain.Response) error

	// SystemOutput presents a meta-message (cancellation, errors).
	SystemOutput(ctx context.Context, msg string) error
}

// ParseRequest splits a typed line into a request. A leading "/word" is the
// explicit command and the rest is the prompt.
func ParseRequest(line string) domain.Request {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return domain.Request{Prompt: line}
	}
	cmd, rest, _ := strings.Cut(line[1:], " ")
	return domain.Request{Command: cmd, Prompt: strings.TrimSpace(rest)}
}

// isExit reports whether the request asks to leave the loop.
func isExit(req domain.Request) bool {
	if req.Command != "" {
		return req.Command == "exit" || req.Command == "quit"
	}
	return req.Prompt == "exit" || req.Prompt == "quit"
}

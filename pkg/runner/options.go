package runner

import (
	"log/slog"

	"github.com/aretw0/pacer/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSessions keeps the conversation in a session manager. Without one the
// history lives in memory for the duration of Run.
func WithSessions(m *session.Manager) Option {
	return func(r *Runner) {
		r.Sessions = m
	}
}

// WithSessionID sets the session the conversation belongs to.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInterruptSource sets a channel that interrupts the running request,
// like Ctrl+C does.
func WithInterruptSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.InterruptSource = ch
	}
}

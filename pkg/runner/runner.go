package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/pacer/pkg/dispatch"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/session"
)

// Runner drives a conversation: read, dispatch, show, repeat.
type Runner struct {
	Dispatcher *dispatch.Dispatcher

	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Sessions persists history. If nil, history is kept in memory.
	Sessions  *session.Manager
	SessionID string

	// InterruptSource, when set, cancels the running request on each receive.
	InterruptSource <-chan struct{}

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	history domain.History
}

// NewRunner creates a Runner over d.
func NewRunner(d *dispatch.Dispatcher, opts ...Option) *Runner {
	r := &Runner{
		Dispatcher: d,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run loops until the input ends, the user types exit, or an interrupt
// arrives at the prompt.
func (r *Runner) Run(ctx context.Context) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if r.InterruptSource != nil {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			for {
				select {
				case <-stop:
					return
				case _, ok := <-r.InterruptSource:
					if !ok {
						return
					}
					signals.Interrupt()
				}
			}
		}()
	}

	for {
		req, err := r.Handler.Input(signals.Context())
		if err != nil {
			signals.CheckRace()
			if signals.Context().Err() != nil || errors.Is(err, io.EOF) {
				r.Logger.Debug("conversation ended", "err", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if isExit(req) {
			return nil
		}

		resp, err := r.Step(signals.Context(), req)
		if err != nil {
			return err
		}

		if signals.Context().Err() != nil {
			if ctx.Err() != nil {
				return nil
			}
			// The interrupt was consumed by the request; re-arm for the next one.
			signals.Reset()
			_ = r.Handler.SystemOutput(ctx, "Request cancelled.")
		}
		if err := r.Handler.Output(ctx, resp); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// Step dispatches one request with the conversation's history and records
// the exchange. Cancelling ctx cancels the request.
func (r *Runner) Step(ctx context.Context, req domain.Request) (domain.Response, error) {
	signal := domain.SignalFromContext(ctx)
	sink := r.Handler.Sink()
	handle := func(hctx context.Context, h domain.History) domain.Response {
		return r.Dispatcher.Handle(hctx, req, h, signal, sink)
	}

	if r.Sessions != nil {
		// The request may be cancelled, but the exchange must still be saved.
		resp, err := r.Sessions.Exchange(context.WithoutCancel(ctx), r.SessionID, req, handle)
		if err != nil {
			return resp, fmt.Errorf("session %s: %w", r.SessionID, err)
		}
		return resp, nil
	}

	resp := handle(ctx, r.history)
	r.history = append(r.history,
		domain.RequestTurn{Prompt: req.Prompt, Command: req.Command},
		resp.Result.Turn(),
	)
	return resp, nil
}

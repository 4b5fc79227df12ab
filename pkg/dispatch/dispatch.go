// Package dispatch routes one conversational request to its scenario handler
// and computes the followups for the next round.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/followup"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/resolver"
	"github.com/aretw0/pacer/pkg/scenario"
)

// FailureMessage is the ErrorDetails message of a faulted dispatch.
const FailureMessage = "Command failed"

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHooks registers dispatch lifecycle callbacks (OnDispatch, OnComplete).
func WithHooks(h domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = d.hooks.Merge(h)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithFollowups replaces the followup engine.
func WithFollowups(e *followup.Engine) Option {
	return func(d *Dispatcher) {
		if e != nil {
			d.followups = e
		}
	}
}

// Dispatcher is the single entry point hosts call for every request.
type Dispatcher struct {
	handlers  *scenario.Registry
	followups *followup.Engine
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// New creates a Dispatcher over the given handlers.
func New(handlers *scenario.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers:  handlers,
		followups: followup.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle resolves req, runs its handler and returns the response. It never
// fails: handler errors and panics become a single error fragment.
// history is read, never modified.
func (d *Dispatcher) Handle(ctx context.Context, req domain.Request, history domain.History, signal domain.Signal, sink ports.Sink) domain.Response {
	if signal == nil {
		signal = domain.SignalFromContext(ctx)
	}
	if sink == nil {
		sink = ports.DiscardSink{}
	}

	start := time.Now()
	id := resolver.Resolve(req.Prompt, req.Command)
	explicit := domain.IsCommand(req.Command)
	h, ok := d.handlers.Lookup(id)
	if !ok {
		d.logger.Debug("no handler, falling back to help", "scenario", id)
		id = domain.ScenarioHelp
		h, ok = d.handlers.Lookup(id)
	}

	if d.hooks.OnDispatch != nil {
		d.hooks.OnDispatch(ctx, &domain.DispatchEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventDispatch},
			Scenario:  id,
			Explicit:  explicit,
		})
	}
	d.logger.Debug("dispatch", "scenario", id, "explicit", explicit)

	var (
		res domain.Result
		err error
	)
	if ok {
		res, err = d.invoke(ctx, h, scenario.Invocation{Signal: signal, Sink: sink, History: history})
	} else {
		err = fmt.Errorf("%w: %s", domain.ErrUnknownScenario, id)
	}
	if err != nil {
		d.logger.Error("scenario failed", "scenario", id, "err", err)
		res = failure(res.Fragments, err)
		sink.Markdown(res.Fragments[len(res.Fragments)-1])
	}

	if d.hooks.OnComplete != nil {
		d.hooks.OnComplete(ctx, &domain.DispatchEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventComplete},
			Scenario:  id,
			Explicit:  explicit,
			Fragments: len(res.Fragments),
			Failed:    res.Err != nil,
			Elapsed:   time.Since(start),
		})
	}

	return domain.Response{
		Scenario:    id,
		Result:      res,
		Suggestions: d.followups.Suggest(res.Metadata, history),
	}
}

// invoke runs h and converts a panic into an error.
func (d *Dispatcher) invoke(ctx context.Context, h scenario.Handler, in scenario.Invocation) (res domain.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s handler: %v", h.ID(), r)
		}
	}()
	return h.Invoke(ctx, in)
}

// failure keeps the fragments already written and appends the error.
func failure(partial []string, err error) domain.Result {
	fragments := make([]string, 0, len(partial)+1)
	fragments = append(fragments, partial...)
	return domain.Result{
		Fragments: append(fragments, fmt.Sprintf("❌ **Error:** %v", err)),
		Err:       &domain.ErrorDetails{Message: FailureMessage},
	}
}

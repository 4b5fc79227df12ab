package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
)

// Option defines a functional option for configuring the Registry.
type Option func(*Registry)

// WithRand sets the random source used for simulated variation.
func WithRand(rng *phase.Rand) Option {
	return func(r *Registry) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// WithHooks registers tool lifecycle callbacks (OnToolCall, OnToolReturn).
func WithHooks(h domain.LifecycleHooks) Option {
	return func(r *Registry) {
		r.hooks = r.hooks.Merge(h)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry manages the available tools.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	rng    *phase.Rand
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// NewRegistry creates a registry holding the five progress demo tools.
func NewRegistry(runner *phase.Runner, ws ports.Workspace, opts ...Option) *Registry {
	r := &Registry{
		tools:  make(map[string]Tool),
		rng:    phase.NewRand(uint64(time.Now().UnixNano())),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Register(NewSimple(runner))
	r.Register(NewFileProcessor(runner))
	r.Register(NewWorkspaceAnalyzer(runner, ws))
	r.Register(NewTaskRunner(runner, r.rng))
	r.Register(NewInteractiveWizard(runner, r.rng))
	return r
}

// Register adds a tool to the registry.
// If a tool with the same name exists, it is overwritten.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Definition().Name] = t
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the definitions of all tools, sorted by name.
func (r *Registry) Definitions() []Definition {
	names := r.Names()
	out := make([]Definition, 0, len(names))
	for _, n := range names {
		if t, ok := r.Get(n); ok {
			out = append(out, t.Definition())
		}
	}
	return out
}

// Prepare returns the invocation message of the named tool.
func (r *Registry) Prepare(name string, args map[string]any) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}
	return t.Prepare(args)
}

// Invoke looks up a tool by name and executes it.
// Returns an error wrapping domain.ErrUnknownTool if the tool is not found.
func (r *Registry) Invoke(ctx context.Context, name string, call Call) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}

	start := time.Now()
	if r.hooks.OnToolCall != nil {
		r.hooks.OnToolCall(ctx, &domain.ToolEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventToolCall},
			ToolName:  name,
			Input:     call.Args,
		})
	}
	r.logger.Debug("tool call", "tool", name)

	var outcome domain.Outcome
	call.outcome = &outcome
	text, err := invoke(ctx, t, call)

	cancelled := outcome.Cancelled
	if r.hooks.OnToolReturn != nil {
		r.hooks.OnToolReturn(ctx, &domain.ToolEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventToolReturn},
			ToolName:  name,
			Cancelled: cancelled,
			IsError:   err != nil,
			Elapsed:   time.Since(start),
		})
	}
	if err != nil {
		r.logger.Warn("tool failed", "tool", name, "err", err)
		return "", err
	}
	r.logger.Debug("tool returned", "tool", name, "cancelled", cancelled, "elapsed", time.Since(start))
	return text, nil
}

// invoke runs t and converts a panic into an error.
func invoke(ctx context.Context, t Tool, call Call) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", t.Definition().Name, r)
		}
	}()
	return t.Invoke(ctx, call)
}

package pacer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/pacer/pkg/adapters/filesystem"
	"github.com/aretw0/pacer/pkg/dispatch"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/scenario"
	"github.com/aretw0/pacer/pkg/tools"
)

// Engine is the high-level entry point of the library. It wires the phase
// runner, the tools, the scenario handlers and the dispatcher.
type Engine struct {
	runner     *phase.Runner
	tools      *tools.Registry
	handlers   *scenario.Registry
	dispatcher *dispatch.Dispatcher

	workspace     ports.Workspace
	workspaceDirs []string
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	clock         phase.Clock
	timeScale     float64
	seed          uint64
	seeded        bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkspace sets the workspace inspected by the links scenario and the
// workspace analyzer tool.
func WithWorkspace(ws ports.Workspace) Option {
	return func(e *Engine) {
		e.workspace = ws
	}
}

// WithWorkspaceDirs opens the given directories as the workspace roots.
func WithWorkspaceDirs(dirs ...string) Option {
	return func(e *Engine) {
		e.workspaceDirs = dirs
	}
}

// WithTimeScale multiplies every nominal phase duration by f.
// Zero makes all plans complete instantly.
func WithTimeScale(f float64) Option {
	return func(e *Engine) {
		e.timeScale = f
	}
}

// WithClock sets the time source of the phase runner.
func WithClock(c phase.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithSeed makes simulated variation reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// New initializes a new Engine.
// Without a workspace option the engine runs with no workspace open.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{timeScale: 1}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !eng.seeded {
		eng.seed = uint64(time.Now().UnixNano())
	}

	if eng.workspace == nil && len(eng.workspaceDirs) > 0 {
		ws, err := filesystem.New(eng.workspaceDirs...)
		if err != nil {
			return nil, fmt.Errorf("failed to open workspace: %w", err)
		}
		eng.workspace = ws
	}

	runnerOpts := []phase.Option{
		phase.WithTimeScale(eng.timeScale),
		phase.WithHooks(eng.hooks),
		phase.WithLogger(eng.logger),
	}
	if eng.clock != nil {
		runnerOpts = append(runnerOpts, phase.WithClock(eng.clock))
	}
	eng.runner = phase.NewRunner(runnerOpts...)

	rng := phase.NewRand(eng.seed)
	eng.tools = tools.NewRegistry(eng.runner, eng.workspace,
		tools.WithRand(rng),
		tools.WithHooks(eng.hooks),
		tools.WithLogger(eng.logger),
	)
	eng.handlers = scenario.NewRegistry(scenario.Deps{
		Runner:    eng.runner,
		Workspace: eng.workspace,
		Tools:     eng.tools,
		Rand:      rng,
		Logger:    eng.logger,
	})
	eng.dispatcher = dispatch.New(eng.handlers,
		dispatch.WithHooks(eng.hooks),
		dispatch.WithLogger(eng.logger),
	)

	return eng, nil
}

// Handle answers one request. See dispatch.Dispatcher.Handle.
func (e *Engine) Handle(ctx context.Context, req domain.Request, history domain.History, signal domain.Signal, sink ports.Sink) domain.Response {
	return e.dispatcher.Handle(ctx, req, history, signal, sink)
}

// Dispatcher returns the request dispatcher.
func (e *Engine) Dispatcher() *dispatch.Dispatcher {
	return e.dispatcher
}

// Tools returns the tool registry.
func (e *Engine) Tools() *tools.Registry {
	return e.tools
}

// Runner returns the phase runner shared by tools and scenarios.
func (e *Engine) Runner() *phase.Runner {
	return e.runner
}

// Workspace returns the open workspace, or nil.
func (e *Engine) Workspace() ports.Workspace {
	return e.workspace
}

// RunDemo runs one of the standalone native progress demos.
func (e *Engine) RunDemo(name string, signal domain.Signal, sink ports.Sink) (string, error) {
	if signal == nil {
		signal = domain.Never
	}
	return scenario.RunNativeDemo(e.runner, name, signal, sink)
}

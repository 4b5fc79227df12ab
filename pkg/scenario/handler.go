package scenario

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/tools"
)

// Invocation carries the per-request inputs of a handler.
type Invocation struct {
	Signal  domain.Signal
	Sink    ports.Sink
	History domain.History
}

// Handler serves one scenario.
type Handler interface {
	ID() domain.ScenarioID
	Invoke(ctx context.Context, in Invocation) (domain.Result, error)
}

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Runner    *phase.Runner
	Workspace ports.Workspace
	// Tools is listed by the tools help scenario. May be nil.
	Tools  *tools.Registry
	Rand   *phase.Rand
	Logger *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Runner == nil {
		d.Runner = phase.NewRunner()
	}
	if d.Rand == nil {
		d.Rand = phase.NewRand(uint64(time.Now().UnixNano()))
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Registry holds the handlers built once at startup.
type Registry struct {
	handlers map[domain.ScenarioID]Handler
}

// NewRegistry builds every handler over deps.
func NewRegistry(deps Deps) *Registry {
	deps = deps.withDefaults()
	r := &Registry{handlers: make(map[domain.ScenarioID]Handler)}
	for _, h := range []Handler{
		&simpleHandler{deps},
		&stepsHandler{deps},
		&fileHandler{deps},
		&longHandler{deps},
		&linksHandler{deps},
		&detailsHandler{deps},
		&webHandler{deps},
		&advancedHandler{deps},
		&nativeHandler{deps},
		&interactiveHandler{deps},
		&helpHandler{},
		&toolsHelpHandler{deps},
	} {
		r.handlers[h.ID()] = h
	}
	return r
}

// Lookup returns the handler for id.
func (r *Registry) Lookup(id domain.ScenarioID) (Handler, bool) {
	h, ok := r.handlers[id]
	return h, ok
}

// Register adds or replaces a handler.
func (r *Registry) Register(h Handler) {
	r.handlers[h.ID()] = h
}

// IDs returns the registered scenario ids, sorted.
func (r *Registry) IDs() []domain.ScenarioID {
	ids := make([]domain.ScenarioID, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

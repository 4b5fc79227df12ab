package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch   EventType = "dispatch"
	EventComplete   EventType = "complete"
	EventPhaseStart EventType = "phase_start"
	EventPlanDone   EventType = "plan_done"
	EventToolCall   EventType = "tool_call"
	EventToolReturn EventType = "tool_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DispatchEvent describes a request entering or leaving the dispatcher.
type DispatchEvent struct {
	EventBase
	Scenario  ScenarioID    `json:"scenario"`
	Explicit  bool          `json:"explicit"`
	Fragments int           `json:"fragments,omitempty"`
	Failed    bool          `json:"failed,omitempty"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`
}

// PhaseEvent describes a phase boundary inside a plan.
type PhaseEvent struct {
	EventBase
	Phase     string `json:"phase,omitempty"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// ToolEvent represents a tool invocation.
type ToolEvent struct {
	EventBase
	ToolName  string         `json:"tool_name"`
	Input     map[string]any `json:"input,omitempty"`
	Cancelled bool           `json:"cancelled,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
	Elapsed   time.Duration  `json:"elapsed,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnDispatch   func(context.Context, *DispatchEvent)
	OnComplete   func(context.Context, *DispatchEvent)
	OnPhaseStart func(*PhaseEvent)
	OnPlanDone   func(*PhaseEvent)
	OnToolCall   func(context.Context, *ToolEvent)
	OnToolReturn func(context.Context, *ToolEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDispatch:   chainCtx(h.OnDispatch, other.OnDispatch),
		OnComplete:   chainCtx(h.OnComplete, other.OnComplete),
		OnPhaseStart: chain(h.OnPhaseStart, other.OnPhaseStart),
		OnPlanDone:   chain(h.OnPlanDone, other.OnPlanDone),
		OnToolCall:   chainCtx(h.OnToolCall, other.OnToolCall),
		OnToolReturn: chainCtx(h.OnToolReturn, other.OnToolReturn),
	}
}

func chain[E any](a, b func(E)) func(E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}

func chainCtx[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

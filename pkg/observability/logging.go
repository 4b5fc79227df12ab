package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/pacer/pkg/domain"
)

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.DebugContext(ctx, "Dispatch", "scenario", e.Scenario, "explicit", e.Explicit)
		},
		OnComplete: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.DebugContext(ctx, "Complete",
				"scenario", e.Scenario,
				"fragments", e.Fragments,
				"failed", e.Failed,
				"elapsed", e.Elapsed,
			)
		},
		OnPhaseStart: func(e *domain.PhaseEvent) {
			logger.Debug("Phase", "name", e.Phase, "index", e.Index, "total", e.Total)
		},
		OnPlanDone: func(e *domain.PhaseEvent) {
			logger.Debug("Plan Done", "ran", e.Index, "total", e.Total, "cancelled", e.Cancelled)
		},
		OnToolCall: func(ctx context.Context, e *domain.ToolEvent) {
			logger.DebugContext(ctx, "Tool Call", "tool_name", e.ToolName)
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			if e.IsError {
				logger.DebugContext(ctx, "Tool Return (Error)", "tool_name", e.ToolName)
				return
			}
			logger.DebugContext(ctx, "Tool Return (Success)", "tool_name", e.ToolName, "cancelled", e.Cancelled)
		},
	}
}

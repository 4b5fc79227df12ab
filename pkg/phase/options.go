package phase

import (
	"log/slog"

	"github.com/aretw0/pacer/pkg/domain"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithClock sets the time source used for phase suspension.
func WithClock(c Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithTimeScale multiplies every nominal duration by f.
// Zero makes phases instantaneous; negative values are treated as zero.
func WithTimeScale(f float64) Option {
	return func(r *Runner) {
		if f < 0 {
			f = 0
		}
		r.scale = f
	}
}

// WithHooks registers phase lifecycle callbacks.
// Only OnPhaseStart and OnPlanDone are used by the Runner.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(h)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

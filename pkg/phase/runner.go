package phase

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// OnPhase is called right before a phase starts. index is 1-based.
type OnPhase func(p domain.Phase, index, total int)

// Runner drives plans through their phases.
// A Runner holds no per-plan state and is safe for concurrent use.
type Runner struct {
	clock  Clock
	scale  float64
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// NewRunner creates a Runner on the system clock at real-time scale.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		clock:  SystemClock,
		scale:  1,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clock returns the runner's time source.
func (r *Runner) Clock() Clock {
	return r.clock
}

// Scale converts a nominal duration into the time the runner actually waits.
func (r *Runner) Scale(d time.Duration) time.Duration {
	return time.Duration(float64(d) * r.scale)
}

// Run executes plan in order. Before starting phase i the signal is checked;
// if it has been requested the plan stops with CancelledAt(i) and onPhase is
// not called for that phase. onPhase may be nil.
func (r *Runner) Run(plan domain.Plan, signal domain.Signal, onPhase OnPhase) domain.Outcome {
	if signal == nil {
		signal = domain.Never
	}
	total := plan.Len()

	for i := 0; i < total; i++ {
		index := i + 1
		if signal.Requested() {
			r.logger.Debug("plan cancelled", "at", index, "total", total)
			r.planDone(index-1, total, true)
			return domain.CancelledAt(index)
		}

		p := plan.At(i)
		if r.hooks.OnPhaseStart != nil {
			r.hooks.OnPhaseStart(&domain.PhaseEvent{
				EventBase: domain.EventBase{Timestamp: r.clock.Now(), Type: domain.EventPhaseStart},
				Phase:     p.Name,
				Index:     index,
				Total:     total,
			})
		}
		if onPhase != nil {
			onPhase(p, index, total)
		}
		r.wait(p.Nominal)
	}

	r.planDone(total, total, false)
	return domain.Completed()
}

func (r *Runner) wait(nominal time.Duration) {
	d := r.Scale(nominal)
	if d <= 0 {
		return
	}
	r.clock.Sleep(d)
}

func (r *Runner) planDone(ran, total int, cancelled bool) {
	if r.hooks.OnPlanDone == nil {
		return
	}
	r.hooks.OnPlanDone(&domain.PhaseEvent{
		EventBase: domain.EventBase{Timestamp: r.clock.Now(), Type: domain.EventPlanDone},
		Index:     ran,
		Total:     total,
		Cancelled: cancelled,
	})
}

// Task is one plan run as an independent unit inside RunConcurrent.
type Task struct {
	Plan    domain.Plan
	Signal  domain.Signal
	OnPhase OnPhase
}

// RunConcurrent runs a and b as two independent tasks and returns only after
// both have finished. Each task observes its own signal: cancelling one never
// stops the other.
func (r *Runner) RunConcurrent(a, b Task) (domain.Outcome, domain.Outcome) {
	var (
		g      errgroup.Group
		oa, ob domain.Outcome
	)
	g.Go(func() error {
		oa = r.Run(a.Plan, a.Signal, a.OnPhase)
		return nil
	})
	g.Go(func() error {
		ob = r.Run(b.Plan, b.Signal, b.OnPhase)
		return nil
	})
	_ = g.Wait()
	return oa, ob
}

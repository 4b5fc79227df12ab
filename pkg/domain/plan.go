package domain

import "time"

// Phase is one named unit of simulated work.
type Phase struct {
	Name    string        `json:"name"`
	Nominal time.Duration `json:"nominal"`
}

// Plan is an immutable ordered sequence of phases built for one invocation.
type Plan struct {
	phases []Phase
}

// NewPlan copies phases into a new Plan.
func NewPlan(phases ...Phase) Plan {
	p := make([]Phase, len(phases))
	copy(p, phases)
	return Plan{phases: p}
}

// UniformPlan builds a plan whose phases share total evenly.
func UniformPlan(total time.Duration, names ...string) Plan {
	if len(names) == 0 {
		return Plan{}
	}
	each := total / time.Duration(len(names))
	phases := make([]Phase, len(names))
	for i, n := range names {
		phases[i] = Phase{Name: n, Nominal: each}
	}
	return Plan{phases: phases}
}

// Len returns the number of phases.
func (p Plan) Len() int { return len(p.phases) }

// At returns the phase at zero-based position i.
func (p Plan) At(i int) Phase { return p.phases[i] }

// Phases returns a copy of the phase list.
func (p Plan) Phases() []Phase {
	out := make([]Phase, len(p.phases))
	copy(out, p.phases)
	return out
}

// Total is the sum of the nominal durations.
func (p Plan) Total() time.Duration {
	var d time.Duration
	for _, ph := range p.phases {
		d += ph.Nominal
	}
	return d
}

// Outcome is the terminal state of running a Plan.
type Outcome struct {
	// Cancelled is true when the signal was observed before a phase started.
	Cancelled bool
	// At is the 1-based index of the phase that was not started.
	// Zero when the plan completed.
	At int
}

// Completed is the outcome of a plan that ran every phase.
func Completed() Outcome { return Outcome{} }

// CancelledAt is the outcome of a plan stopped before phase k (1-based).
func CancelledAt(k int) Outcome { return Outcome{Cancelled: true, At: k} }

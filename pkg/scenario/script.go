package scenario

import (
	"fmt"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
)

// writer mirrors every permanent fragment into the result.
type writer struct {
	sink      ports.Sink
	fragments []string
}

func newWriter(sink ports.Sink) *writer {
	if sink == nil {
		sink = ports.DiscardSink{}
	}
	return &writer{sink: sink}
}

func (w *writer) Markdown(fragment string) {
	w.fragments = append(w.fragments, fragment)
	w.sink.Markdown(fragment)
}

func (w *writer) Markdownf(format string, args ...any) {
	w.Markdown(fmt.Sprintf(format, args...))
}

func (w *writer) Progress(msg string) {
	w.sink.Progress(msg)
}

func (w *writer) result(id domain.ScenarioID, md domain.Metadata) domain.Result {
	if md == nil {
		md = domain.Metadata{}
	}
	md[domain.KeyCommand] = string(id)
	return domain.Result{Fragments: w.fragments, Metadata: md}
}

// beat is one phase of a scripted narrative: the notice shown while it runs
// and the fragments written once it has finished.
type beat struct {
	progress string
	wait     time.Duration
	// stage names the part of the narrative the beat belongs to, for the
	// cancellation notice.
	stage string
	done  func(w *writer)
}

type script []beat

func (s script) plan() domain.Plan {
	phases := make([]domain.Phase, len(s))
	for i, b := range s {
		name := b.stage
		if name == "" {
			name = b.progress
		}
		phases[i] = domain.Phase{Name: name, Nominal: b.wait}
	}
	return domain.NewPlan(phases...)
}

// run plays the script. The fragments of a beat are written after its wait,
// so a beat that started always contributes its output even when the signal
// arrives meanwhile.
func (s script) run(r *phase.Runner, signal domain.Signal, w *writer) domain.Outcome {
	var pending func(*writer)
	flush := func() {
		if pending != nil {
			pending(w)
			pending = nil
		}
	}

	out := r.Run(s.plan(), signal, func(_ domain.Phase, i, _ int) {
		flush()
		b := s[i-1]
		if b.progress != "" {
			w.Progress(b.progress)
		}
		pending = b.done
	})
	flush()
	return out
}

// cancelNotice writes the single fragment reporting where a script stopped.
func (s script) cancelNotice(w *writer, what string, out domain.Outcome) {
	b := s[out.At-1]
	where := b.stage
	if where == "" {
		where = b.progress
	}
	w.Markdownf("⚠️ **%s was cancelled** before step %d/%d (%s)", what, out.At, len(s), where)
}

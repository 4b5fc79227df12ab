package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/getkin/kin-openapi/openapi3"
)

// NameTaskRunner is the name of the multi-phase task tool.
const NameTaskRunner = "progress-demo-task-runner"

var substepNames = []string{
	"Initializing resources",
	"Loading data",
	"Running algorithms",
	"Validating results",
	"Generating output",
	"Cleanup operations",
}

// TaskRunnerInput is the input of the multi-phase task tool.
type TaskRunnerInput struct {
	Phases            []string `mapstructure:"phases"`
	TotalDuration     float64  `mapstructure:"totalDuration"`
	AllowCancellation bool     `mapstructure:"allowCancellation"`
	ShowDetails       bool     `mapstructure:"showDetails"`
}

// DefaultTaskRunnerInput returns the documented defaults.
func DefaultTaskRunnerInput() TaskRunnerInput {
	return TaskRunnerInput{
		Phases:            []string{"Setup", "Processing", "Validation", "Completion"},
		TotalDuration:     8000,
		AllowCancellation: true,
		ShowDetails:       true,
	}
}

// TaskRunner runs named phases, optionally split into 2 to 4 sub-steps each.
type TaskRunner struct {
	runner *phase.Runner
	rng    *phase.Rand
	schema *openapi3.Schema
}

// NewTaskRunner creates the multi-phase task tool.
func NewTaskRunner(runner *phase.Runner, rng *phase.Rand) *TaskRunner {
	d := DefaultTaskRunnerInput()
	return &TaskRunner{
		runner: runner,
		rng:    rng,
		schema: openapi3.NewObjectSchema().
			WithProperty("phases", stringListProperty("Names of the phases to execute", d.Phases)).
			WithProperty("totalDuration", boundedNumberProperty("Total duration in milliseconds", d.TotalDuration, MaxDuration)).
			WithProperty("allowCancellation", boolProperty("Whether the task can be cancelled", d.AllowCancellation)).
			WithProperty("showDetails", boolProperty("Show sub-steps within each phase", d.ShowDetails)),
	}
}

func (t *TaskRunner) Definition() Definition {
	return Definition{
		Name:        NameTaskRunner,
		Description: "Execute a multi-phase task with detailed progress tracking",
		Schema:      t.schema,
	}
}

func (t *TaskRunner) parse(args map[string]any) (TaskRunnerInput, error) {
	in := DefaultTaskRunnerInput()
	if err := bind(NameTaskRunner, t.schema, args, &in); err != nil {
		return in, err
	}
	d := DefaultTaskRunnerInput()
	if len(in.Phases) == 0 {
		in.Phases = d.Phases
	}
	if in.TotalDuration <= 0 {
		in.TotalDuration = d.TotalDuration
	}
	return in, nil
}

func (t *TaskRunner) Prepare(args map[string]any) (string, error) {
	in, err := t.parse(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Executing %d-phase task with progress tracking...", len(in.Phases)), nil
}

func (t *TaskRunner) Invoke(ctx context.Context, call Call) (string, error) {
	in, err := t.parse(call.Args)
	if err != nil {
		return "", err
	}

	signal := call.signal()
	if !in.AllowCancellation {
		signal = domain.Never
	}

	var b strings.Builder
	b.WriteString("🚀 Starting multi-phase task execution...\n\n")

	phaseDuration := millis(in.TotalDuration) / time.Duration(len(in.Phases))
	outer := make([]domain.Phase, len(in.Phases))
	for i, name := range in.Phases {
		outer[i] = domain.Phase{Name: name, Nominal: phaseDuration}
		if in.ShowDetails {
			// Sub-steps carry the time instead.
			outer[i].Nominal = 0
		}
	}

	stopped := 0
	out := t.runner.Run(domain.NewPlan(outer...), signal, func(p domain.Phase, i, n int) {
		if stopped > 0 {
			return
		}
		fmt.Fprintf(&b, "📋 Phase %d/%d: %s\n", i, n, p.Name)
		call.report(i, n, p.Name)

		if in.ShowDetails {
			count := t.rng.IntN(3) + 2
			names := make([]string, count)
			for j := range names {
				names[j] = substepNames[j%len(substepNames)]
			}
			sub := domain.UniformPlan(phaseDuration, names...)
			res := t.runner.Run(sub, signal, func(s domain.Phase, _, _ int) {
				fmt.Fprintf(&b, "  • %s...\n", s.Name)
				fmt.Fprintf(&b, "  ✓ %s complete\n", s.Name)
			})
			if res.Cancelled {
				fmt.Fprintf(&b, "  ❌ Cancelled during substep %d\n", res.At)
				stopped = i
				return
			}
		}
		fmt.Fprintf(&b, "✅ Phase %d complete\n\n", i)
	})

	if stopped > 0 {
		out = domain.CancelledAt(stopped)
	}
	call.settle(out)

	switch {
	case stopped > 0:
		return b.String(), nil
	case out.Cancelled:
		fmt.Fprintf(&b, "❌ Task cancelled during %s phase", in.Phases[out.At-1])
		return b.String(), nil
	}

	b.WriteString("🎉 All phases completed successfully!\n")
	fmt.Fprintf(&b, "📊 Total execution time: %sms", formatMillis(in.TotalDuration))
	return b.String(), nil
}

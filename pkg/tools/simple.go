package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/getkin/kin-openapi/openapi3"
)

// NameSimple is the name of the simple progress tool.
const NameSimple = "progress-demo-simple"

// SimpleInput is the input of the simple progress tool.
type SimpleInput struct {
	Duration float64 `mapstructure:"duration"`
	Steps    int     `mapstructure:"steps"`
	Message  string  `mapstructure:"message"`
}

// DefaultSimpleInput returns the documented defaults.
func DefaultSimpleInput() SimpleInput {
	return SimpleInput{Duration: 5000, Steps: 3, Message: "Processing task"}
}

// Simple splits a duration evenly across a number of steps.
type Simple struct {
	runner *phase.Runner
	schema *openapi3.Schema
}

// NewSimple creates the simple progress tool.
func NewSimple(runner *phase.Runner) *Simple {
	d := DefaultSimpleInput()
	return &Simple{
		runner: runner,
		schema: openapi3.NewObjectSchema().
			WithProperty("duration", boundedNumberProperty("Total duration in milliseconds", d.Duration, MaxDuration)).
			WithProperty("steps", boundedNumberProperty("Number of progress steps", float64(d.Steps), MaxSteps)).
			WithProperty("message", stringProperty("Message to show during progress", d.Message)),
	}
}

func (t *Simple) Definition() Definition {
	return Definition{
		Name:        NameSimple,
		Description: "Run a simple progress demo with configurable duration and steps",
		Schema:      t.schema,
	}
}

func (t *Simple) parse(args map[string]any) (SimpleInput, error) {
	in := DefaultSimpleInput()
	if err := bind(NameSimple, t.schema, args, &in); err != nil {
		return in, err
	}
	d := DefaultSimpleInput()
	if in.Duration <= 0 {
		in.Duration = d.Duration
	}
	if in.Steps <= 0 {
		in.Steps = d.Steps
	}
	if in.Message == "" {
		in.Message = d.Message
	}
	return in, nil
}

func (t *Simple) Prepare(args map[string]any) (string, error) {
	in := DefaultSimpleInput()
	if err := bind(NameSimple, t.schema, args, &in); err != nil {
		return "", err
	}
	// The prepare message falls back to a shorter label than Invoke does.
	if m, ok := args["message"].(string); !ok || m == "" {
		in.Message = "task"
	}
	return fmt.Sprintf("Running simple progress demo for %q...", in.Message), nil
}

func (t *Simple) Invoke(ctx context.Context, call Call) (string, error) {
	in, err := t.parse(call.Args)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Starting %s...\n\n", in.Message)

	plan := domain.UniformPlan(millis(in.Duration), numbered("Step", in.Steps)...)
	out := t.runner.Run(plan, call.signal(), func(_ domain.Phase, i, n int) {
		line := fmt.Sprintf("✓ Step %d/%d: %s (%d%%)", i, n, in.Message, percent(i, n))
		b.WriteString(line + "\n")
		call.report(i, n, line)
	})
	call.settle(out)

	if out.Cancelled {
		fmt.Fprintf(&b, "❌ Task cancelled at step %d", out.At)
		return b.String(), nil
	}
	fmt.Fprintf(&b, "\n🎉 Task completed successfully in %sms!", formatMillis(in.Duration))
	return b.String(), nil
}

func numbered(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s %d", prefix, i+1)
	}
	return names
}

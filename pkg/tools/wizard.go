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

// NameInteractiveWizard is the name of the wizard tool.
const NameInteractiveWizard = "progress-demo-interactive-wizard"

type wizardStep struct {
	title, action string
}

var wizardSteps = []wizardStep{
	{"Welcome & Introduction", "Preparing wizard interface"},
	{"User Preferences", "Collecting user settings"},
	{"Configuration Setup", "Applying configurations"},
	{"Resource Installation", "Installing required components"},
	{"Validation & Testing", "Verifying setup"},
	{"Completion & Summary", "Finalizing installation"},
}

var (
	wizardChoices    = []string{"Basic Setup", "Advanced Configuration", "Custom Settings"}
	wizardComponents = []string{"TypeScript Support", "Debugging Tools", "Extension Pack"}
)

// InteractiveWizardInput is the input of the wizard tool.
type InteractiveWizardInput struct {
	WizardType     string `mapstructure:"wizardType"`
	Steps          int    `mapstructure:"steps"`
	IncludeChoices bool   `mapstructure:"includeChoices"`
	AutoAdvance    bool   `mapstructure:"autoAdvance"`
}

// DefaultInteractiveWizardInput returns the documented defaults.
func DefaultInteractiveWizardInput() InteractiveWizardInput {
	return InteractiveWizardInput{
		WizardType:     "Setup Wizard",
		Steps:          5,
		IncludeChoices: true,
		AutoAdvance:    true,
	}
}

// InteractiveWizard walks through a fixed list of wizard steps with
// simulated user choices.
type InteractiveWizard struct {
	runner *phase.Runner
	rng    *phase.Rand
	schema *openapi3.Schema
}

// NewInteractiveWizard creates the wizard tool.
func NewInteractiveWizard(runner *phase.Runner, rng *phase.Rand) *InteractiveWizard {
	d := DefaultInteractiveWizardInput()
	return &InteractiveWizard{
		runner: runner,
		rng:    rng,
		schema: openapi3.NewObjectSchema().
			WithProperty("wizardType", stringProperty("Name of the wizard", d.WizardType)).
			WithProperty("steps", boundedNumberProperty("Number of wizard steps", float64(d.Steps), MaxSteps)).
			WithProperty("includeChoices", boolProperty("Simulate user choices", d.IncludeChoices)).
			WithProperty("autoAdvance", boolProperty("Pause briefly between steps", d.AutoAdvance)),
	}
}

func (t *InteractiveWizard) Definition() Definition {
	return Definition{
		Name:        NameInteractiveWizard,
		Description: "Run an interactive wizard with progress and simulated choices",
		Schema:      t.schema,
	}
}

func (t *InteractiveWizard) parse(args map[string]any) (InteractiveWizardInput, error) {
	in := DefaultInteractiveWizardInput()
	if err := bind(NameInteractiveWizard, t.schema, args, &in); err != nil {
		return in, err
	}
	d := DefaultInteractiveWizardInput()
	if in.WizardType == "" {
		in.WizardType = d.WizardType
	}
	if in.Steps <= 0 {
		in.Steps = d.Steps
	}
	return in, nil
}

func (t *InteractiveWizard) Prepare(args map[string]any) (string, error) {
	in, err := t.parse(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Running %s with %d interactive steps...", in.WizardType, in.Steps), nil
}

func (t *InteractiveWizard) Invoke(ctx context.Context, call Call) (string, error) {
	in, err := t.parse(call.Args)
	if err != nil {
		return "", err
	}

	count := min(in.Steps, len(wizardSteps))
	phases := make([]domain.Phase, count)
	for i := range phases {
		d := t.rng.Between(time.Second, 2*time.Second)
		if in.AutoAdvance && i < in.Steps-1 {
			d += 500 * time.Millisecond
		}
		phases[i] = domain.Phase{Name: wizardSteps[i].title, Nominal: d}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧙‍♂️ %s - Interactive Progress Demo\n\n", in.WizardType)

	out := t.runner.Run(domain.NewPlan(phases...), call.signal(), func(p domain.Phase, i, _ int) {
		step := wizardSteps[i-1]
		// Numbering uses the requested count even when it exceeds the known steps.
		fmt.Fprintf(&b, "📋 Step %d/%d: %s\n", i, in.Steps, step.title)
		fmt.Fprintf(&b, "   🔄 %s...\n", step.action)
		call.report(i, count, step.title)

		if in.IncludeChoices && i == 2 {
			fmt.Fprintf(&b, "   ⚙️ Selected: %s\n", phase.Pick(t.rng, wizardChoices))
		}
		if in.IncludeChoices && i == 4 {
			picked := wizardComponents[:t.rng.IntN(2)+1]
			fmt.Fprintf(&b, "   📦 Installing: %s\n", strings.Join(picked, ", "))
		}
		fmt.Fprintf(&b, "   ✅ %s complete\n\n", step.title)
	})
	call.settle(out)

	if out.Cancelled {
		fmt.Fprintf(&b, "❌ Wizard cancelled at step %d", out.At)
		return b.String(), nil
	}
	fmt.Fprintf(&b, "🎉 %s completed successfully!\n", in.WizardType)
	fmt.Fprintf(&b, "📊 Summary: %d steps completed with interactive elements", in.Steps)
	return b.String(), nil
}

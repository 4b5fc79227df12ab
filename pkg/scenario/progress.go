package scenario

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
)

type simpleHandler struct{ deps Deps }

func (h *simpleHandler) ID() domain.ScenarioID { return domain.ScenarioSimple }

func (h *simpleHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## Simple Progress Demo\n\nStarting a simple task...\n")

	s := script{
		{progress: "🔄 **Initializing system**...", wait: 3 * time.Second, stage: "initializing", done: doneLine("System initialized")},
		{progress: "📊 Processing data chunks...", wait: 4 * time.Second, stage: "processing", done: doneLine("Data chunks processed")},
		{progress: "✨ Finalizing results...", wait: 2500 * time.Millisecond, stage: "finalizing", done: doneLine("Results finalized")},
	}
	md := domain.Metadata{domain.KeyLastCommand: string(domain.ScenarioSimple)}

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Task", out)
		return w.result(h.ID(), md), nil
	}

	w.Markdown("✅ **Task completed successfully!**\n\nThis demonstrated a simple progress indicator with text updates.")
	return w.result(h.ID(), md), nil
}

func doneLine(text string) func(*writer) {
	return func(w *writer) { w.Markdownf("- ✓ %s\n", text) }
}

var stepNames = []string{
	"Validating input parameters",
	"Connecting to external service",
	"Downloading required data",
	"Processing information",
	"Generating results",
	"Saving output",
}

type stepsHandler struct{ deps Deps }

func (h *stepsHandler) ID() domain.ScenarioID { return domain.ScenarioSteps }

func (h *stepsHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## Step-by-Step Progress Demo\n\nExecuting multi-step process...\n")

	s := make(script, len(stepNames))
	for i, name := range stepNames {
		s[i] = beat{
			progress: fmt.Sprintf("Step %d/%d: %s", i+1, len(stepNames), name),
			wait:     h.deps.Rand.Between(500*time.Millisecond, 1500*time.Millisecond),
			stage:    name,
			done:     func(w *writer) { w.Markdownf("- ✓ %s\n", name) },
		}
	}

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Task", out)
		return w.result(h.ID(), nil), nil
	}

	w.Markdown("\n🎉 **All steps completed successfully!**\n\nThis showed progress with specific step indicators.")
	return w.result(h.ID(), nil), nil
}

var demoFiles = []string{
	"config.json",
	"data.csv",
	"image1.png",
	"image2.jpg",
	"document.pdf",
	"script.js",
	"styles.css",
	"readme.md",
}

type fileHandler struct{ deps Deps }

func (h *fileHandler) ID() domain.ScenarioID { return domain.ScenarioFile }

func (h *fileHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## File Processing Progress Demo\n\nSimulating file processing with progress tracking...\n")
	w.Markdownf("Processing %d files:\n", len(demoFiles))

	s := make(script, len(demoFiles))
	for i, f := range demoFiles {
		pct := int(math.Round(float64(i+1) / float64(len(demoFiles)) * 100))
		s[i] = beat{
			progress: fmt.Sprintf("Processing %s (%d%%)", f, pct),
			wait:     600 * time.Millisecond,
			stage:    f,
			done:     func(w *writer) { w.Markdownf("- 📁 %s ✓\n", f) },
		}
	}

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "File processing", out)
		return w.result(h.ID(), nil), nil
	}

	w.Markdown("\n📊 **File processing complete!**\n\nThis demonstrated progress tracking with percentage completion.")
	return w.result(h.ID(), nil), nil
}

type longHandler struct{ deps Deps }

func (h *longHandler) ID() domain.ScenarioID { return domain.ScenarioLong }

func (h *longHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## Long-Running Task Demo\n\nSimulating a complex operation with detailed progress...\n")

	const batches = 5
	analysis := []string{"Parsing data", "Running algorithms", "Generating insights", "Validating results"}

	s := script{{
		progress: "Setting up environment...",
		wait:     time.Second,
		stage:    "setup",
		done: func(w *writer) {
			w.Markdown("🔧 **Phase 1: Setup Complete**\n")
			w.Markdown("**Phase 2: Data Collection**\n")
		},
	}}
	for i := 1; i <= batches; i++ {
		records := 500 + h.deps.Rand.IntN(1000)
		last := i == batches
		s = append(s, beat{
			progress: fmt.Sprintf("Collecting batch %d/%d...", i, batches),
			wait:     800 * time.Millisecond,
			stage:    "data collection",
			done: func(w *writer) {
				w.Markdownf("- Batch %d collected (%d records)\n", i, records)
				if last {
					w.Markdown("\n**Phase 3: Analysis**\n")
				}
			},
		})
	}
	for _, step := range analysis {
		s = append(s, beat{
			progress: fmt.Sprintf("Analysis: %s...", step),
			wait:     1200 * time.Millisecond,
			stage:    "analysis",
			done:     func(w *writer) { w.Markdownf("- %s ✓\n", step) },
		})
	}
	s = append(s, beat{progress: "Finalizing results...", wait: 500 * time.Millisecond, stage: "finalizing"})

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Task", out)
		return w.result(h.ID(), domain.Metadata{"stoppedAt": s[out.At-1].stage}), nil
	}

	w.Markdownf("\n🚀 **Long-running task completed successfully!**\n\n**Summary:**\n"+
		"- Total processing time: ~%s\n- Data batches processed: %d\n- Analysis steps completed: %d\n- Status: Success ✅",
		s.plan().Total().Round(time.Second), batches, len(analysis))
	return w.result(h.ID(), nil), nil
}

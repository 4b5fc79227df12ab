package scenario

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
)

// NativeDemo is a standalone progress demo a host can launch outside the
// conversation (CLI `demo` command, HTTP, MCP).
type NativeDemo struct {
	Name        string
	Title       string
	Description string
	Cancellable bool
	run         func(r *phase.Runner, signal domain.Signal, sink ports.Sink) string
}

// NativeDemos lists the available demos in presentation order.
func NativeDemos() []NativeDemo {
	return []NativeDemo{
		{
			Name:        "notification",
			Title:       "🔔 Notification Progress",
			Description: "Ten cancellable steps reported as a notification",
			Cancellable: true,
			run:         runNotification,
		},
		{
			Name:        "statusbar",
			Title:       "📊 Status Bar Progress",
			Description: "Four quiet background steps",
			run:         runStatusBar,
		},
		{
			Name:        "discrete",
			Title:       "📈 Discrete Progress",
			Description: "Twenty items with a precise percentage",
			run:         runDiscrete,
		},
		{
			Name:        "combined",
			Title:       "🎭 Combined Progress",
			Description: "A background and a foreground operation at the same time",
			Cancellable: true,
			run:         runCombined,
		},
		{
			Name:        "quicksetup",
			Title:       "⚡ Quick Setup Wizard",
			Description: "Three fixed setup steps",
			run:         runQuickSetup,
		},
	}
}

// RunNativeDemo runs the named demo and returns its closing message.
// A demo that is not cancellable ignores signal.
func RunNativeDemo(r *phase.Runner, name string, signal domain.Signal, sink ports.Sink) (string, error) {
	if sink == nil {
		sink = ports.DiscardSink{}
	}
	for _, d := range NativeDemos() {
		if d.Name != name {
			continue
		}
		if !d.Cancellable {
			signal = domain.Never
		}
		return d.run(r, signal, sink), nil
	}
	return "", fmt.Errorf("%w: native demo %q", domain.ErrUnknownScenario, name)
}

func runNotification(r *phase.Runner, signal domain.Signal, sink ports.Sink) string {
	const steps = 10
	out := r.Run(domain.UniformPlan(steps*800*time.Millisecond, numbered("step", steps)...), signal,
		func(_ domain.Phase, i, n int) {
			sink.Progress(fmt.Sprintf("Processing step %d/%d", i, n))
		})
	if out.Cancelled {
		return "Progress was cancelled by user"
	}
	return "✅ Notification progress completed!"
}

func runStatusBar(r *phase.Runner, signal domain.Signal, sink ports.Sink) string {
	plan := domain.UniformPlan(4*time.Second, "Connecting...", "Downloading...", "Processing...", "Finalizing...")
	r.Run(plan, signal, func(p domain.Phase, _, _ int) { sink.Progress(p.Name) })
	return "✅ Status bar progress completed!"
}

func runDiscrete(r *phase.Runner, signal domain.Signal, sink ports.Sink) string {
	const items = 20
	r.Run(domain.UniformPlan(items*200*time.Millisecond, numbered("item", items)...), signal,
		func(_ domain.Phase, i, n int) {
			sink.Progress(fmt.Sprintf("%d%% complete - Processing item %d/%d", (i-1)*100/n, i, n))
		})
	return "✅ Discrete progress completed - 100% done!"
}

func runQuickSetup(r *phase.Runner, signal domain.Signal, sink ports.Sink) string {
	plan := domain.UniformPlan(3*time.Second, "Analyzing workspace...", "Configuring settings...", "Installing dependencies...")
	r.Run(plan, signal, func(p domain.Phase, _, _ int) { sink.Progress(p.Name) })
	sink.Progress("Setup complete!")
	return "✅ Quick setup completed! This demonstrates wizard-style workflows."
}

// lockedSink serialises progress from concurrently running plans.
type lockedSink struct {
	mu   sync.Mutex
	sink ports.Sink
}

func (s *lockedSink) Progress(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.Progress(msg)
}

func (s *lockedSink) Markdown(fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.Markdown(fragment)
}

// runCombined runs a background and a foreground plan together. Only the
// foreground plan observes the signal: the background one always runs to
// the end. Completion is reported once both have finished.
func runCombined(r *phase.Runner, signal domain.Signal, sink ports.Sink) string {
	ls := &lockedSink{sink: sink}

	var background, foreground []string
	_, fg := r.RunConcurrent(
		phase.Task{
			Plan:   domain.UniformPlan(8*time.Second, numbered("background", 8)...),
			Signal: domain.Never,
			OnPhase: func(_ domain.Phase, i, n int) {
				msg := fmt.Sprintf("Background step %d/%d", i, n)
				background = append(background, msg)
				ls.Progress(msg)
			},
		},
		phase.Task{
			Plan:   domain.UniformPlan(8*time.Second, numbered("main", 5)...),
			Signal: signal,
			OnPhase: func(_ domain.Phase, i, n int) {
				msg := fmt.Sprintf("Main task %d/%d", i, n)
				foreground = append(foreground, msg)
				ls.Progress(msg)
			},
		},
	)

	msg := fmt.Sprintf("Background: %d steps. Foreground: %d steps.", len(background), len(foreground))
	if fg.Cancelled {
		msg += fmt.Sprintf(" Foreground operation cancelled before step %d.", fg.At)
	}
	return msg + " ✅ Both progress operations completed!"
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", prefix, i+1)
	}
	return out
}

type nativeHandler struct{ deps Deps }

func (h *nativeHandler) ID() domain.ScenarioID { return domain.ScenarioNative }

func (h *nativeHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## 🔄 Native Progress Indicators\n\nBeyond in-response progress, hosts can show standalone progress indicators:\n\n")

	s := script{
		{
			progress: "📋 Preparing native progress demos...",
			wait:     time.Second,
			stage:    "overview",
			done: func(w *writer) {
				w.Markdown("### 🎯 **Native Progress Types Available:**\n\n" +
					"| Demo | Supports Cancel | Description |\n|------|-----------------|-------------|\n")
				for _, d := range NativeDemos() {
					cancel := "❌ No"
					if d.Cancellable {
						cancel = "✅ Yes"
					}
					w.Markdownf("| **%s** (`%s`) | %s | %s |\n", d.Title, d.Name, cancel, d.Description)
				}
				w.Markdown("\n")
			},
		},
		{
			progress: "💡 Creating implementation examples...",
			wait:     800 * time.Millisecond,
			stage:    "examples",
			done: func(w *writer) {
				w.Markdown("### 💻 **Try them:**\n\n```sh\npacer demo notification\npacer demo combined --time-scale 0.5\n```\n\n")
			},
		},
	}

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Demo", out)
		return w.result(h.ID(), nil), nil
	}

	w.Markdown("### 🏆 **Best Practices Summary:**\n\n" +
		"✅ **Use Notification Progress** for long-running, cancellable operations\n" +
		"✅ **Use Status Bar Progress** for background work that needs no attention\n" +
		"✅ **Use Chat Progress** for step-by-step explanations inside a response\n\n")
	w.Markdown("✅ **Native Progress Demo Complete!**")

	names := make([]string, 0, len(NativeDemos()))
	for _, d := range NativeDemos() {
		names = append(names, d.Name)
	}
	return w.result(h.ID(), domain.Metadata{"demos": names}), nil
}

package scenario

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/resolver"
)

// Greeting returns the time-of-day greeting and suggestion for hour (0-23).
func Greeting(hour int) (greeting, suggestion string) {
	switch {
	case hour < 12:
		return "Good morning! 🌅", "Start your day with some productivity tips?"
	case hour < 17:
		return "Good afternoon! ☀️", "Need help with your current task?"
	default:
		return "Good evening! 🌙", "Wrapping up for the day? Let me help optimize your workflow."
	}
}

type interactiveHandler struct{ deps Deps }

func (h *interactiveHandler) ID() domain.ScenarioID { return domain.ScenarioInteractive }

func (h *interactiveHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## 🎯 Interactive Features Demo\n\nDemonstrating interactive capabilities and UX patterns...\n")

	s := script{
		{
			progress: "🚀 Loading interactive features...",
			wait:     time.Second,
			stage:    "followups",
			done: func(w *writer) {
				w.Markdown("### 🔄 **Feature 1: Smart Followup Suggestions**\n\n" +
					"Suggestions are derived from:\n\n" +
					"- **Previous commands** executed\n" +
					"- **Result metadata** from responses\n" +
					"- **Conversation history** and context\n\n")
				w.Markdown("**📊 Current Conversation Context:**\n\n")
				if len(in.History) == 0 {
					w.Markdown("- **History:** This is our first interaction!\n\n")
					return
				}
				w.Markdownf("- **History Length:** %d interactions\n", len(in.History))
				w.Markdownf("- **Recent Commands:** %s\n\n", strings.Join(resolver.ClassifyRecent(in.History, recentTurns), ", "))
			},
		},
		{
			progress: "🎨 Creating interactive workflows...",
			wait:     800 * time.Millisecond,
			stage:    "workflows",
			done: func(w *writer) {
				w.Markdown("### 🔗 **Feature 2: Multi-Step Interactive Workflows**\n\n" +
					"Chain interactions into guided experiences:\n\n" +
					"- `pacer demo quicksetup` - Fast configuration workflow\n" +
					"- `pacer tool progress-demo-interactive-wizard` - Step-by-step wizard\n\n")
			},
		},
		{
			progress: "📋 Adding dynamic content generation...",
			wait:     600 * time.Millisecond,
			stage:    "dynamic content",
			done: func(w *writer) {
				w.Markdown("### 🤖 **Feature 3: Dynamic Content Generation**\n\n")
				folder, ok, err := firstFolder(ctx, h.deps.Workspace)
				switch {
				case err != nil:
					w.Markdownf("❌ *Could not read workspace folders: %v*\n\n", err)
				case ok:
					w.Markdownf("**🏠 Current Workspace:** `%s`\n\n", folder.Name)
				default:
					w.Markdown("**📂 No workspace detected** - Open a project for personalized suggestions!\n\n")
				}

				greeting, suggestion := Greeting(h.deps.Runner.Clock().Now().Hour())
				w.Markdown("### ⚡ **Feature 4: Real-time Adaptation**\n\n")
				w.Markdownf("**⏰ Time-aware Greeting:** %s\n\n", greeting)
				w.Markdownf("**💡 Contextual Suggestion:** %s\n\n", suggestion)
			},
		},
		{
			progress: "🎪 Creating rich interactions...",
			wait:     600 * time.Millisecond,
			stage:    "rich interactions",
			done: func(w *writer) {
				w.Markdown("### 🎪 **Feature 5: Rich Interactive Combinations**\n\n")
			},
		},
		{
			progress: "Analyzing project structure...",
			wait:     400 * time.Millisecond,
			stage:    "analysis",
			done: func(w *writer) {
				w.Markdown("**Analysis Results:**\n\n" +
					"| Component | Status |\n|-----------|--------|\n" +
					"| Dependencies | ✅ Up to date |\n" +
					"| Build | ✅ Configured |\n" +
					"| Documentation | ⚠️ Needs update |\n\n")
			},
		},
	}

	md := domain.Metadata{domain.KeyLastCommand: string(domain.ScenarioInteractive)}
	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Demo", out)
		return w.result(h.ID(), md), nil
	}

	w.Markdown("### 🚑 **Feature 6: Intelligent Error Recovery**\n\n" +
		"> ❌ **Simulated Error:** Could not compile\n>\n> **💡 Suggested Solutions:** rerun the build, inspect the problems list, open a terminal.\n\n")
	w.Markdown("✅ **Interactive Demo Complete!**\n\n💡 **Notice the follow-up suggestions** that appear below based on this interaction!")

	md["interactionType"] = "demo"
	md["featuresShown"] = []string{"followups", "workflows", "dynamic-content", "adaptation", "error-recovery"}
	md["userEngagement"] = "high"
	md["suggestedNext"] = []string{"native", "advanced", "full-demo"}
	return w.result(h.ID(), md), nil
}

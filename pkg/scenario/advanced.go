package scenario

import (
	"context"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
)

// recentTurns is how many trailing turns the advanced scenario summarises.
const recentTurns = 3

type advancedHandler struct{ deps Deps }

func (h *advancedHandler) ID() domain.ScenarioID { return domain.ScenarioAdvanced }

func (h *advancedHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## 🚀 Advanced Features\n\nDemonstrating capabilities beyond basic progress indicators...\n")

	s := script{
		{
			progress: "🔍 Loading advanced feature demonstrations...",
			wait:     time.Second,
			stage:    "file tree",
			done: func(w *writer) {
				w.Markdown("### 🌳 **Feature 1: File Trees**\n\n")
				folder, ok, err := firstFolder(ctx, h.deps.Workspace)
				switch {
				case err != nil:
					w.Markdownf("❌ *Could not read workspace folders: %v*\n\n", err)
				case ok:
					w.Markdownf("```\n%s/\n├── cmd/\n├── internal/\n├── pkg/\n└── go.mod\n```\n", folder.Name)
				default:
					w.Markdown("```\nexample/\n├── src/\n│   ├── main.ts\n│   └── utils.ts\n├── tests/\n└── package.json\n```\n")
				}
			},
		},
		{
			progress: "🔗 Creating smart references...",
			wait:     800 * time.Millisecond,
			stage:    "context awareness",
			done: func(w *writer) {
				w.Markdown("### 🧠 **Feature 2: Context Awareness**\n\n")
				if len(in.History) == 0 {
					w.Markdown("📚 **Conversation History:** This is our first interaction!\n\n")
					return
				}
				w.Markdownf("📚 **Conversation History:** %d previous messages\n\n", len(in.History))
				w.Markdown("**Recent interactions:**\n")
				for i, t := range in.History.Last(recentTurns) {
					switch t := t.(type) {
					case domain.RequestTurn:
						w.Markdownf("%d. User: %q\n", i+1, t.Prompt)
					case domain.ResponseTurn:
						w.Markdownf("%d. Assistant: Responded with %d parts\n", i+1, len(t.Fragments))
					}
				}
				w.Markdown("\n")
			},
		},
		{
			progress: "📊 Generating data visualizations...",
			wait:     800 * time.Millisecond,
			stage:    "data presentation",
			done: func(w *writer) {
				w.Markdown("### 📊 **Feature 3: Rich Data Presentation**\n\n" +
					"| Metric | Simple | Steps | File | Long |\n" +
					"|--------|--------|-------|------|------|\n" +
					"| Duration | ~10s | ~6s | ~5s | ~10s |\n" +
					"| Cancellable | ✅ | ✅ | ✅ | ✅ |\n" +
					"| Progress Type | Text | Counter | Percentage | Multi-phase |\n\n")
			},
		},
		{
			progress: "🎨 Adding rich content types...",
			wait:     600 * time.Millisecond,
			stage:    "error handling",
			done: func(w *writer) {
				w.Markdown("### ⚠️ **Feature 4: Structured Error Responses**\n\n" +
					"```go\nreturn domain.Result{\n\tErr: &domain.ErrorDetails{Message: \"Command failed\"},\n}\n```\n\n")
			},
		},
	}

	md := domain.Metadata{domain.KeyLastCommand: string(domain.ScenarioAdvanced)}
	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Demo", out)
		return w.result(h.ID(), md), nil
	}

	w.Markdown("### 🏆 **Summary of Advanced Features:**\n\n" +
		"✅ **File Trees** - Navigable project structure\n" +
		"✅ **Context Awareness** - Conversation history access\n" +
		"✅ **Rich Data Tables** - Formatted information display\n" +
		"✅ **Error Handling** - Structured error responses with metadata\n\n")
	w.Markdown("✅ **Advanced Features Demo Complete!**")

	md["featuresDemo"] = []string{"filetree", "context", "tables", "code"}
	md["interactiveElements"] = 4
	md["success"] = true
	return w.result(h.ID(), md), nil
}

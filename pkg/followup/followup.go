// Package followup derives the suggested next actions offered after a
// response. Suggestions depend only on the last result's metadata and the
// turn history; the engine never consults time or randomness.
package followup

import (
	"github.com/aretw0/pacer/pkg/domain"
)

// Engine produces follow-up suggestions from a fixed table.
type Engine struct {
	orientation []domain.Suggestion
	table       map[domain.ScenarioID][]domain.Suggestion
	help        domain.Suggestion
}

// New creates an Engine with the default tables.
func New() *Engine {
	return &Engine{
		orientation: Orientation(),
		table:       Table(),
		help:        Help(),
	}
}

// Orientation is the group offered on a first interaction or after help.
func Orientation() []domain.Suggestion {
	return []domain.Suggestion{
		{Label: "🔄 Simple Demo", Prompt: "Show me simple progress", Command: domain.ScenarioSimple},
		{Label: "🚀 Advanced Features", Prompt: "Demo advanced features", Command: domain.ScenarioAdvanced},
		{Label: "🎯 Interactive Demo", Prompt: "Test interactive capabilities", Command: domain.ScenarioInteractive},
	}
}

// Table maps a lastCommand hint to its scenario-specific follow-ups.
// Each returned call builds a fresh map.
func Table() map[domain.ScenarioID][]domain.Suggestion {
	return map[domain.ScenarioID][]domain.Suggestion{
		domain.ScenarioSimple: {
			{Label: "📊 Try Steps Demo", Prompt: "Show step-by-step progress", Command: domain.ScenarioSteps},
			{Label: "📁 File Progress", Prompt: "Demo file processing", Command: domain.ScenarioFile},
		},
		domain.ScenarioAdvanced: {
			{Label: "💻 Native Progress", Prompt: "Show native progress indicators", Command: domain.ScenarioNative},
			{Label: "🌐 Web Content", Prompt: "Demo web content options", Command: domain.ScenarioWeb},
		},
		domain.ScenarioInteractive: {
			{Label: "🎬 Full Demo", Prompt: "Run all demos sequentially", Command: domain.ScenarioFull},
			{Label: "⏹️ Test Cancel", Prompt: "Test cancellation features", Command: domain.ScenarioLong},
		},
	}
}

// Help is the unconditional trailing suggestion. It carries no command.
func Help() domain.Suggestion {
	return domain.Suggestion{Label: "❓ Help", Prompt: "Show help"}
}

// Suggest returns the ordered suggestions for the next round.
// A nil last means there was no previous result. Unknown metadata keys and
// values of unexpected types are ignored. history is accepted for callers
// that keep it alongside the result; the current rules do not need it.
func (e *Engine) Suggest(last domain.Metadata, history domain.History) []domain.Suggestion {
	var out []domain.Suggestion

	if cmd, ok := last.Command(); last == nil || (ok && cmd == domain.ScenarioHelp) {
		out = append(out, e.orientation...)
	}

	if hint, ok := last.LastCommand(); ok {
		out = append(out, e.table[hint]...)
	}

	return append(out, e.help)
}

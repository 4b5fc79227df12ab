package resolver_test

import (
	"testing"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/resolver"
	"github.com/stretchr/testify/assert"
)

func TestResolve_ExplicitWins(t *testing.T) {
	prompts := []string{
		"",
		"show me simple progress",
		"tell me about tools",
		"copilot agent web links",
		"nothing relevant here",
	}

	for _, cmd := range domain.Commands() {
		for _, p := range prompts {
			assert.Equal(t, cmd, resolver.Resolve(p, string(cmd)), "explicit %q with prompt %q", cmd, p)
		}
	}
}

func TestResolve_KeywordPriority(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   domain.ScenarioID
	}{
		{"tools meta rule", "tell me about tools", domain.ScenarioTools},
		{"tools beats other keywords", "simple steps with copilot", domain.ScenarioTools},
		{"agent", "Agent mode please", domain.ScenarioTools},
		{"case and whitespace", "   SIMPLE   ", domain.ScenarioSimple},
		{"first rule wins over later", "long file", domain.ScenarioFile},
		{"position not specificity", "interactive simple", domain.ScenarioSimple},
		{"substring match", "profile", domain.ScenarioFile},
		{"web", "web content", domain.ScenarioWeb},
		{"details", "show details", domain.ScenarioDetails},
		{"native", "native indicators", domain.ScenarioNative},
		{"advanced", "advanced features", domain.ScenarioAdvanced},
		{"file precedes links", "file-free links", domain.ScenarioFile},
		{"no keyword", "hello there", domain.ScenarioHelp},
		{"empty", "", domain.ScenarioHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.prompt, ""))
		})
	}
}

func TestResolve_UnknownExplicitFallsBackToInference(t *testing.T) {
	assert.Equal(t, domain.ScenarioSteps, resolver.Resolve("steps please", "bogus"))
	assert.Equal(t, domain.ScenarioHelp, resolver.Resolve("hi", "help"))
	// Command tokens are case-sensitive.
	assert.Equal(t, domain.ScenarioHelp, resolver.Resolve("", "SIMPLE"))
}

func TestRules_Table(t *testing.T) {
	rules := resolver.Rules()
	assert.Len(t, rules, 11)
	assert.Equal(t, domain.ScenarioTools, rules[0].Scenario)

	var order []domain.ScenarioID
	for _, r := range rules[1:] {
		order = append(order, r.Scenario)
	}
	assert.Equal(t, domain.Commands(), order)

	// Mutating the copy does not affect resolution.
	rules[0].Scenario = domain.ScenarioHelp
	assert.Equal(t, domain.ScenarioTools, resolver.Resolve("tools", ""))
}

func TestInfer_ReportsRule(t *testing.T) {
	id, rule := resolver.Infer("try the copilot")
	assert.Equal(t, domain.ScenarioTools, id)
	assert.Equal(t, "tools", rule)

	id, rule = resolver.Infer("nope")
	assert.Equal(t, domain.ScenarioHelp, id)
	assert.Empty(t, rule)
}

func TestClassifyRecent(t *testing.T) {
	h := domain.History{
		domain.RequestTurn{Prompt: "interactive"},
		domain.ResponseTurn{Fragments: []string{"x"}},
		domain.RequestTurn{Prompt: "Simple please"},
		domain.RequestTurn{Prompt: "go native"},
		domain.ResponseTurn{},
		domain.RequestTurn{Prompt: "what now"},
	}
	before := len(h)

	assert.Equal(t, []string{"simple", "native", "other"}, resolver.ClassifyRecent(h, 3))
	assert.Equal(t, []string{"interactive", "simple", "native", "other"}, resolver.ClassifyRecent(h, 10))
	assert.Empty(t, resolver.ClassifyRecent(nil, 3))
	assert.Len(t, h, before)
}

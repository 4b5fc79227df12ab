// Package resolver maps a request to the scenario that should serve it.
//
// An explicit command token always wins. Without one, the normalised prompt
// is tested against an ordered rule table and the first matching rule picks
// the scenario. Anything left over goes to help.
package resolver

import (
	"strings"

	"github.com/aretw0/pacer/pkg/domain"
)

// Rule is one entry of the keyword-priority table.
type Rule struct {
	Name     string
	Match    func(prompt string) bool
	Scenario domain.ScenarioID
}

func containsAny(words ...string) func(string) bool {
	return func(prompt string) bool {
		for _, w := range words {
			if strings.Contains(prompt, w) {
				return true
			}
		}
		return false
	}
}

func keyword(id domain.ScenarioID) Rule {
	return Rule{
		Name:     string(id),
		Match:    containsAny(string(id)),
		Scenario: id,
	}
}

var rules = []Rule{
	{
		Name:     "tools",
		Match:    containsAny("tools", "agent", "copilot"),
		Scenario: domain.ScenarioTools,
	},
	keyword(domain.ScenarioSimple),
	keyword(domain.ScenarioSteps),
	keyword(domain.ScenarioFile),
	keyword(domain.ScenarioLong),
	keyword(domain.ScenarioLinks),
	keyword(domain.ScenarioDetails),
	keyword(domain.ScenarioWeb),
	keyword(domain.ScenarioAdvanced),
	keyword(domain.ScenarioNative),
	keyword(domain.ScenarioInteractive),
}

// Rules returns a copy of the rule table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Normalize lower-cases and trims a prompt the way rule matching sees it.
func Normalize(prompt string) string {
	return strings.ToLower(strings.TrimSpace(prompt))
}

// Resolve returns the scenario for a request. It never fails: a miss
// resolves to help.
func Resolve(prompt, explicit string) domain.ScenarioID {
	if explicit != "" && domain.IsCommand(explicit) {
		return domain.ScenarioID(explicit)
	}
	id, _ := Infer(prompt)
	return id
}

// Infer applies only the keyword rules. The returned rule name is empty when
// nothing matched.
func Infer(prompt string) (domain.ScenarioID, string) {
	p := Normalize(prompt)
	for _, r := range rules {
		if r.Match(p) {
			return r.Scenario, r.Name
		}
	}
	return domain.ScenarioHelp, ""
}

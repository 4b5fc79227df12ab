package domain

// Suggestion is a follow-up action offered to the user after a response.
type Suggestion struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
	// Command pre-selects a scenario. Empty means no pre-selection.
	Command ScenarioID `json:"command,omitempty"`
}

// HasCommand reports whether the suggestion pre-selects a scenario.
func (s Suggestion) HasCommand() bool {
	return s.Command != ""
}

package domain

// Request is one host request: free text plus an optional explicit command.
type Request struct {
	Prompt  string `json:"prompt"`
	Command string `json:"command,omitempty"`
}

// ErrorDetails describes a dispatch that ended in a fault.
type ErrorDetails struct {
	Message string `json:"message"`
}

// Result is what a scenario hands back to the dispatcher.
type Result struct {
	Fragments []string      `json:"fragments"`
	Metadata  Metadata      `json:"metadata,omitempty"`
	Err       *ErrorDetails `json:"error,omitempty"`
}

// Response is what the dispatcher hands back to the host.
type Response struct {
	Scenario    ScenarioID   `json:"scenario"`
	Result      Result       `json:"result"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Turn converts the result into the ResponseTurn a host appends to history.
func (r Result) Turn() ResponseTurn {
	frags := make([]string, len(r.Fragments))
	copy(frags, r.Fragments)
	return ResponseTurn{Fragments: frags, Metadata: r.Metadata.Clone()}
}

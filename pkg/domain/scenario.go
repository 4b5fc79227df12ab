package domain

// ScenarioID identifies one scenario handler.
type ScenarioID string

// Command tokens accepted from the host. They are case-sensitive and only
// ever honoured when supplied explicitly.
const (
	ScenarioSimple      ScenarioID = "simple"
	ScenarioSteps       ScenarioID = "steps"
	ScenarioFile        ScenarioID = "file"
	ScenarioLong        ScenarioID = "long"
	ScenarioLinks       ScenarioID = "links"
	ScenarioDetails     ScenarioID = "details"
	ScenarioWeb         ScenarioID = "web"
	ScenarioAdvanced    ScenarioID = "advanced"
	ScenarioNative      ScenarioID = "native"
	ScenarioInteractive ScenarioID = "interactive"
)

// Internal scenarios. They are reachable through resolution only and are
// never valid explicit command tokens.
const (
	ScenarioHelp  ScenarioID = "help"
	ScenarioTools ScenarioID = "tools"
)

// ScenarioFull is only referenced by follow-up suggestions. No handler is
// registered for it, so selecting it falls back to help.
const ScenarioFull ScenarioID = "full"

var commands = []ScenarioID{
	ScenarioSimple,
	ScenarioSteps,
	ScenarioFile,
	ScenarioLong,
	ScenarioLinks,
	ScenarioDetails,
	ScenarioWeb,
	ScenarioAdvanced,
	ScenarioNative,
	ScenarioInteractive,
}

// Commands returns the explicit command tokens in declaration order.
func Commands() []ScenarioID {
	out := make([]ScenarioID, len(commands))
	copy(out, commands)
	return out
}

// IsCommand reports whether token is one of the explicit command tokens.
func IsCommand(token string) bool {
	for _, c := range commands {
		if string(c) == token {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (id ScenarioID) String() string {
	return string(id)
}

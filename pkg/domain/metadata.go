package domain

// Metadata keys the engine itself understands. Everything else is
// scenario-defined and opaque to the follow-up logic.
const (
	KeyCommand     = "command"
	KeyLastCommand = "lastCommand"
)

// Metadata is the open mapping a scenario attaches to its result.
// Accessors treat unknown keys and values of an unexpected type as absent.
type Metadata map[string]any

// Command returns the scenario that produced the turn.
func (m Metadata) Command() (ScenarioID, bool) {
	s, ok := m.String(KeyCommand)
	return ScenarioID(s), ok
}

// LastCommand returns the explicit hint for the next turn's suggestions.
func (m Metadata) LastCommand() (ScenarioID, bool) {
	s, ok := m.String(KeyLastCommand)
	return ScenarioID(s), ok
}

// String returns a non-empty string value stored under key.
func (m Metadata) String(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	switch v := m[key].(type) {
	case string:
		return v, v != ""
	case ScenarioID:
		return string(v), v != ""
	default:
		return "", false
	}
}

// Strings returns a string sequence stored under key. Both []string and
// []any holding only strings (the shape produced by encoding/json) qualify.
func (m Metadata) Strings(key string) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	switch v := m[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

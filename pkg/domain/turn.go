package domain

// Turn is one unit of conversation history: either a RequestTurn or a
// ResponseTurn.
type Turn interface {
	isTurn()
}

// RequestTurn records what the user asked for.
type RequestTurn struct {
	Prompt  string `json:"prompt"`
	Command string `json:"command,omitempty"`
}

// ResponseTurn records what the engine answered.
type ResponseTurn struct {
	Fragments []string `json:"fragments"`
	Metadata  Metadata `json:"metadata,omitempty"`
}

func (RequestTurn) isTurn()  {}
func (ResponseTurn) isTurn() {}

// History is the append-only, host-owned sequence of turns.
// The engine only reads it.
type History []Turn

// Last returns a view over the trailing n turns. The returned slice has its
// capacity clipped so appending to it can never write into the host's array.
func (h History) Last(n int) History {
	if n <= 0 {
		return History{}
	}
	if n > len(h) {
		n = len(h)
	}
	start := len(h) - n
	return h[start:len(h):len(h)]
}

// Requests returns the request turns of h in order.
func (h History) Requests() []RequestTurn {
	var out []RequestTurn
	for _, t := range h {
		if r, ok := t.(RequestTurn); ok {
			out = append(out, r)
		}
	}
	return out
}

// LastMetadata returns the metadata of the most recent response turn,
// or nil if there is none.
func (h History) LastMetadata() Metadata {
	for i := len(h) - 1; i >= 0; i-- {
		if r, ok := h[i].(ResponseTurn); ok {
			return r.Metadata
		}
	}
	return nil
}

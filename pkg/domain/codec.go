package domain

import (
	"encoding/json"
	"fmt"
)

const (
	turnKindRequest  = "request"
	turnKindResponse = "response"
)

// turnEnvelope is the tagged wire shape of a Turn.
type turnEnvelope struct {
	Kind      string   `json:"kind"`
	Prompt    string   `json:"prompt,omitempty"`
	Command   string   `json:"command,omitempty"`
	Fragments []string `json:"fragments,omitempty"`
	Metadata  Metadata `json:"metadata,omitempty"`
}

// MarshalTurn encodes a single turn as tagged JSON.
func MarshalTurn(t Turn) ([]byte, error) {
	var env turnEnvelope
	switch v := t.(type) {
	case RequestTurn:
		env = turnEnvelope{Kind: turnKindRequest, Prompt: v.Prompt, Command: v.Command}
	case ResponseTurn:
		env = turnEnvelope{Kind: turnKindResponse, Fragments: v.Fragments, Metadata: v.Metadata}
	default:
		return nil, fmt.Errorf("unsupported turn type %T", t)
	}
	return json.Marshal(env)
}

// UnmarshalTurn decodes a turn produced by MarshalTurn.
func UnmarshalTurn(data []byte) (Turn, error) {
	var env turnEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case turnKindRequest:
		return RequestTurn{Prompt: env.Prompt, Command: env.Command}, nil
	case turnKindResponse:
		return ResponseTurn{Fragments: env.Fragments, Metadata: env.Metadata}, nil
	default:
		return nil, fmt.Errorf("unknown turn kind %q", env.Kind)
	}
}

// MarshalJSON encodes the history as a list of tagged turns.
func (h History) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(h))
	for i, t := range h {
		b, err := MarshalTurn(t)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}
		raw = append(raw, b)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes a list of tagged turns.
func (h *History) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(History, 0, len(raw))
	for i, r := range raw {
		t, err := UnmarshalTurn(r)
		if err != nil {
			return fmt.Errorf("turn %d: %w", i, err)
		}
		out = append(out, t)
	}
	*h = out
	return nil
}

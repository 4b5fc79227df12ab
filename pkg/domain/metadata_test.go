package domain_test

import (
	"testing"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMetadata_Accessors(t *testing.T) {
	tests := []struct {
		name    string
		meta    domain.Metadata
		wantCmd domain.ScenarioID
		wantOK  bool
	}{
		{name: "nil map", meta: nil},
		{name: "missing key", meta: domain.Metadata{"other": 1}},
		{name: "wrong type", meta: domain.Metadata{domain.KeyLastCommand: 42}},
		{name: "empty string", meta: domain.Metadata{domain.KeyLastCommand: ""}},
		{name: "string", meta: domain.Metadata{domain.KeyLastCommand: "simple"}, wantCmd: "simple", wantOK: true},
		{name: "scenario id", meta: domain.Metadata{domain.KeyLastCommand: domain.ScenarioAdvanced}, wantCmd: "advanced", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.meta.LastCommand()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmd, got)
		})
	}
}

func TestMetadata_Strings(t *testing.T) {
	m := domain.Metadata{
		"typed":   []string{"a", "b"},
		"decoded": []any{"x", "y"},
		"mixed":   []any{"x", 1},
	}

	got, ok := m.Strings("typed")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = m.Strings("decoded")
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got)

	_, ok = m.Strings("mixed")
	assert.False(t, ok)

	_, ok = m.Strings("absent")
	assert.False(t, ok)
}

func TestHistory_LastIsReadOnlyView(t *testing.T) {
	h := domain.History{
		domain.RequestTurn{Prompt: "one"},
		domain.ResponseTurn{Fragments: []string{"a"}},
		domain.RequestTurn{Prompt: "two"},
		domain.ResponseTurn{Fragments: []string{"b"}, Metadata: domain.Metadata{"command": "simple"}},
	}

	tail := h.Last(3)
	assert.Len(t, tail, 3)
	assert.Equal(t, domain.ResponseTurn{Fragments: []string{"a"}}, tail[0])

	// Appending to the view must not touch the original backing array.
	_ = append(tail, domain.RequestTurn{Prompt: "intruder"})
	assert.Len(t, h, 4)
	assert.Equal(t, domain.RequestTurn{Prompt: "two"}, h[2])

	assert.Len(t, h.Last(10), 4)
	assert.Empty(t, h.Last(0))

	assert.Equal(t, []domain.RequestTurn{{Prompt: "one"}, {Prompt: "two"}}, h.Requests())
	cmd, ok := h.LastMetadata().Command()
	assert.True(t, ok)
	assert.Equal(t, domain.ScenarioSimple, cmd)
}

func TestIsCommand(t *testing.T) {
	for _, c := range domain.Commands() {
		assert.True(t, domain.IsCommand(string(c)), c)
	}
	assert.False(t, domain.IsCommand("help"))
	assert.False(t, domain.IsCommand("tools"))
	assert.False(t, domain.IsCommand("Simple"))
	assert.False(t, domain.IsCommand(""))
}

package followup_test

import (
	"testing"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/followup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commands(s []domain.Suggestion) []domain.ScenarioID {
	out := make([]domain.ScenarioID, len(s))
	for i, x := range s {
		out[i] = x.Command
	}
	return out
}

func TestSuggest_AlwaysEndsWithHelp(t *testing.T) {
	e := followup.New()
	inputs := []domain.Metadata{
		nil,
		{},
		{"command": "help"},
		{"command": "simple", "lastCommand": "simple"},
		{"lastCommand": "interactive"},
		{"lastCommand": "unknown"},
		{"lastCommand": 42},
		{"command": []int{1}},
		{"random": map[string]any{"x": 1}},
	}

	for _, md := range inputs {
		got := e.Suggest(md, nil)
		require.NotEmpty(t, got)
		last := got[len(got)-1]
		assert.False(t, last.HasCommand(), "metadata %v", md)
		assert.Equal(t, followup.Help(), last)
	}
}

func TestSuggest_Rules(t *testing.T) {
	tests := []struct {
		name string
		md   domain.Metadata
		want []domain.ScenarioID
	}{
		{
			name: "absent metadata gets orientation",
			md:   nil,
			want: []domain.ScenarioID{"simple", "advanced", "interactive", ""},
		},
		{
			name: "help result gets orientation",
			md:   domain.Metadata{"command": "help"},
			want: []domain.ScenarioID{"simple", "advanced", "interactive", ""},
		},
		{
			name: "simple hint",
			md:   domain.Metadata{"command": "simple", "lastCommand": "simple"},
			want: []domain.ScenarioID{"steps", "file", ""},
		},
		{
			name: "advanced hint",
			md:   domain.Metadata{"lastCommand": domain.ScenarioAdvanced},
			want: []domain.ScenarioID{"native", "web", ""},
		},
		{
			name: "interactive hint",
			md:   domain.Metadata{"lastCommand": "interactive"},
			want: []domain.ScenarioID{"full", "long", ""},
		},
		{
			name: "orientation then hint",
			md:   domain.Metadata{"command": "help", "lastCommand": "simple"},
			want: []domain.ScenarioID{"simple", "advanced", "interactive", "steps", "file", ""},
		},
		{
			name: "empty metadata is present but not help",
			md:   domain.Metadata{},
			want: []domain.ScenarioID{""},
		},
		{
			name: "hint without table entry",
			md:   domain.Metadata{"lastCommand": "steps"},
			want: []domain.ScenarioID{""},
		},
		{
			name: "wrong value type ignored",
			md:   domain.Metadata{"lastCommand": 7, "command": true},
			want: []domain.ScenarioID{""},
		},
	}

	e := followup.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commands(e.Suggest(tt.md, nil)))
		})
	}
}

func TestSuggest_SimpleTableOrder(t *testing.T) {
	got := followup.New().Suggest(domain.Metadata{"lastCommand": "simple"}, nil)
	require.Len(t, got, 3)
	assert.Equal(t, "📊 Try Steps Demo", got[0].Label)
	assert.Equal(t, "Show step-by-step progress", got[0].Prompt)
	assert.Equal(t, "📁 File Progress", got[1].Label)
	assert.Equal(t, "Demo file processing", got[1].Prompt)
}

func TestSuggest_DoesNotTouchHistory(t *testing.T) {
	h := domain.History{domain.RequestTurn{Prompt: "simple"}}
	followup.New().Suggest(nil, h)
	assert.Equal(t, domain.History{domain.RequestTurn{Prompt: "simple"}}, h)
}

func TestTable_FreshCopy(t *testing.T) {
	tbl := followup.Table()
	tbl[domain.ScenarioSimple] = nil
	assert.Len(t, followup.Table()[domain.ScenarioSimple], 2)
}

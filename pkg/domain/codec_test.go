package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryJSON_TaggedTurns(t *testing.T) {
	in := `[
		{"kind":"request","prompt":"hello","command":"simple"},
		{"kind":"response","fragments":["ok"],"metadata":{"lastCommand":"simple","extra":{"nested":[1,2]}}}
	]`

	var h domain.History
	require.NoError(t, json.Unmarshal([]byte(in), &h))
	require.Len(t, h, 2)
	assert.Equal(t, domain.RequestTurn{Prompt: "hello", Command: "simple"}, h[0])

	resp := h[1].(domain.ResponseTurn)
	last, ok := resp.Metadata.LastCommand()
	assert.True(t, ok)
	assert.Equal(t, domain.ScenarioSimple, last)

	out, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kind":"request"`)
	assert.Contains(t, string(out), `"kind":"response"`)
}

func TestHistoryJSON_UnknownKind(t *testing.T) {
	var h domain.History
	err := json.Unmarshal([]byte(`[{"kind":"mystery"}]`), &h)
	assert.Error(t, err)
}

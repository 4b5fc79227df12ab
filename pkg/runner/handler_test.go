package runner

import (
	"testing"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Request
	}{
		{"show me links", domain.Request{Prompt: "show me links"}},
		{"/simple", domain.Request{Command: "simple"}},
		{"  /steps  go fast ", domain.Request{Command: "steps", Prompt: "go fast"}},
		{"/Simple", domain.Request{Command: "Simple"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRequest(tt.in), tt.in)
	}
}

func TestIsExit(t *testing.T) {
	assert.True(t, isExit(domain.Request{Prompt: "exit"}))
	assert.True(t, isExit(domain.Request{Command: "quit"}))
	assert.False(t, isExit(domain.Request{Prompt: "exit", Command: "simple"}))
	assert.False(t, isExit(domain.Request{Prompt: "how do I exit"}))
}

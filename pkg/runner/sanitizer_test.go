package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInputLimit_Prompts(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"command", "/simple", "/simple"},
		{"command with trailing text", "/files please", "/files please"},
		{"multi-line prompt", "/analyze\nthen summarize\tbriefly", "/analyze\nthen summarize\tbriefly"},
		{"pasted colors", "/task\x1b[32m go\x1b[0m", "/task[32m go[0m"},
		{"null inside command", "/wiz\x00ard", "/wizard"},
		{"bell after prompt", "/help\x07", "/help"},
		{"accented prompt", "/simple olá", "/simple olá"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInputLimit(tt.prompt, 64)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInputLimit_Size(t *testing.T) {
	prompt := "/simple " + strings.Repeat("x", 12)

	_, err := SanitizeInputLimit(prompt, len(prompt))
	assert.NoError(t, err, "a prompt exactly at the limit passes")

	_, err = SanitizeInputLimit(prompt, len(prompt)-1)
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.Contains(t, err.Error(), "size=20 limit=19")

	// The limit counts bytes, so multi-byte runes are not truncated mid-way.
	_, err = SanitizeInputLimit("/simple olá", len("/simple ola"))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInputLimit_NonPositiveUsesDefault(t *testing.T) {
	atDefault := "/simple " + strings.Repeat("x", DefaultMaxInputSize-len("/simple "))

	for _, limit := range []int{0, -1} {
		got, err := SanitizeInputLimit(atDefault, limit)
		require.NoError(t, err)
		assert.Equal(t, atDefault, got)

		_, err = SanitizeInputLimit(atDefault+"x", limit)
		assert.ErrorIs(t, err, ErrInputTooLarge)
	}
}

func TestSanitizeInputLimit_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInputLimit("/simple \xbd\xb2", 64)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeInput_Env(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		t.Setenv(EnvMaxInputSize, "8")

		got, err := SanitizeInput("/simple")
		require.NoError(t, err)
		assert.Equal(t, "/simple", got)

		_, err = SanitizeInput("/simple x")
		assert.ErrorIs(t, err, ErrInputTooLarge)
	})

	t.Run("unparseable falls back to default", func(t *testing.T) {
		t.Setenv(EnvMaxInputSize, "lots")

		_, err := SanitizeInput(strings.Repeat("/simple ", 100))
		assert.NoError(t, err)
		_, err = SanitizeInput(strings.Repeat("x", DefaultMaxInputSize+1))
		assert.ErrorIs(t, err, ErrInputTooLarge)
	})
}

package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore
// implementation adheres to the defined interface contract.
func RunHistoryStoreContract(t *testing.T, store ports.HistoryStore) {
	ctx := context.Background()
	sessionID := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	t.Run("Append and Load", func(t *testing.T) {
		err := store.Append(ctx, sessionID,
			domain.RequestTurn{Prompt: "show me simple progress", Command: "simple"},
			domain.ResponseTurn{
				Fragments: []string{"## Simple", "done"},
				Metadata:  domain.Metadata{domain.KeyCommand: "simple", domain.KeyLastCommand: "simple"},
			},
		)
		require.NoError(t, err)

		err = store.Append(ctx, sessionID, domain.RequestTurn{Prompt: "again"})
		require.NoError(t, err)

		h, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, h, 3)

		req, ok := h[0].(domain.RequestTurn)
		require.True(t, ok, "first turn should be a request")
		assert.Equal(t, "simple", req.Command)

		resp, ok := h[1].(domain.ResponseTurn)
		require.True(t, ok, "second turn should be a response")
		assert.Equal(t, []string{"## Simple", "done"}, resp.Fragments)
		last, ok := resp.Metadata.LastCommand()
		assert.True(t, ok)
		assert.Equal(t, domain.ScenarioSimple, last)

		assert.Equal(t, domain.RequestTurn{Prompt: "again"}, h[2])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := sessionID + "-other"
		require.NoError(t, store.Append(ctx, other, domain.RequestTurn{Prompt: "hi"}))
		defer func() { _ = store.Delete(ctx, other) }()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, sessionID)
		assert.Contains(t, sessions, other)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})
}

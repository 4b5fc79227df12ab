package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalManager_Lifecycle(t *testing.T) {
	sm := NewSignalManager(context.Background())
	defer sm.Stop()

	ctx1 := sm.Context()
	assert.NoError(t, ctx1.Err())

	sm.Interrupt()
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)

	sm.Reset()
	ctx2 := sm.Context()
	assert.NotEqual(t, ctx1, ctx2, "Reset should generate a new context")
	assert.NoError(t, ctx2.Err())

	sm.Stop()
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
}

func TestSignalManager_Parent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sm := NewSignalManager(parent)
	defer sm.Stop()

	cancel()
	assert.ErrorIs(t, sm.Context().Err(), context.Canceled)
}

func TestSignalManager_CheckRace(t *testing.T) {
	sm := NewSignalManager(context.Background())
	defer sm.Stop()

	start := time.Now()
	sm.CheckRace()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond, "CheckRace took too long")
}

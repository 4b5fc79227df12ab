package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// SignalManager turns SIGINT/SIGTERM into context cancellation. Each request
// gets the current context; once a signal has been handled, Reset re-arms the
// listener for the next one.
type SignalManager struct {
	parent context.Context

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a new manager derived from parent and immediately
// starts listening for signals.
func NewSignalManager(parent context.Context) *SignalManager {
	sm := &SignalManager{parent: parent}
	sm.Reset()
	return sm
}

// Context returns the current signal context.
func (sm *SignalManager) Context() context.Context {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.ctx
}

// Reset re-arms the signal listener.
func (sm *SignalManager) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
}

// Interrupt cancels the current context as if a signal had arrived.
func (sm *SignalManager) Interrupt() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cancel()
}

// Stop permanently stops the signal listener.
func (sm *SignalManager) Stop() {
	sm.Interrupt()
}

// CheckRace waits briefly to see if a context cancellation follows an error.
// On Windows/PowerShell Ctrl+C can surface as an EOF slightly before the
// signal context is cancelled.
func (sm *SignalManager) CheckRace() {
	ctx := sm.Context()
	if ctx.Err() == nil {
		select {
		case <-ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}
	}
}

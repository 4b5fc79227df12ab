package domain

import (
	"context"
	"sync"
	"sync/atomic"
)

// Signal is the read side of a request's cancellation flag.
// Once Requested returns true it keeps returning true.
type Signal interface {
	Requested() bool
}

// Cancellation is a single-writer, many-reader cancellation flag.
// The zero value is not usable; use NewCancellation.
type Cancellation struct {
	requested atomic.Bool
	once      sync.Once
	done      chan struct{}
}

// NewCancellation creates a flag in the not-requested state.
func NewCancellation() *Cancellation {
	return &Cancellation{done: make(chan struct{})}
}

// Request marks the flag as requested. Calling it more than once is a no-op.
func (c *Cancellation) Request() {
	c.once.Do(func() {
		c.requested.Store(true)
		close(c.done)
	})
}

// Requested reports whether cancellation has been requested.
func (c *Cancellation) Requested() bool {
	return c.requested.Load()
}

// Done is closed when cancellation is requested.
func (c *Cancellation) Done() <-chan struct{} {
	return c.done
}

type contextSignal struct {
	ctx context.Context
}

func (s contextSignal) Requested() bool {
	return s.ctx.Err() != nil
}

// SignalFromContext reports cancellation once ctx is done.
func SignalFromContext(ctx context.Context) Signal {
	return contextSignal{ctx: ctx}
}

type neverSignal struct{}

func (neverSignal) Requested() bool { return false }

// Never is a signal that is never requested.
var Never Signal = neverSignal{}

// AnySignal is requested as soon as any of its members is.
type AnySignal []Signal

// Requested implements Signal.
func (a AnySignal) Requested() bool {
	for _, s := range a {
		if s != nil && s.Requested() {
			return true
		}
	}
	return false
}

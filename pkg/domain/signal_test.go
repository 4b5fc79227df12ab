package domain_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCancellation_Monotonic(t *testing.T) {
	c := domain.NewCancellation()
	assert.False(t, c.Requested())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Request()
		}()
	}
	wg.Wait()

	assert.True(t, c.Requested())
	select {
	case <-c.Done():
	default:
		t.Fatal("Done channel should be closed after Request")
	}

	c.Request()
	assert.True(t, c.Requested(), "a requested signal never resets")
}

func TestSignalFromContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := domain.SignalFromContext(ctx)
	assert.False(t, sig.Requested())
	cancel()
	assert.True(t, sig.Requested())

	dl, stop := context.WithTimeout(context.Background(), time.Nanosecond)
	defer stop()
	<-dl.Done()
	assert.True(t, domain.SignalFromContext(dl).Requested())
}

func TestAnySignal(t *testing.T) {
	a := domain.NewCancellation()
	b := domain.NewCancellation()
	any := domain.AnySignal{a, nil, b}

	assert.False(t, any.Requested())
	b.Request()
	assert.True(t, any.Requested())
	assert.False(t, domain.Never.Requested())
}

func TestUniformPlan(t *testing.T) {
	p := domain.UniformPlan(300*time.Millisecond, "a", "b", "c")
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 100*time.Millisecond, p.At(1).Nominal)
	assert.Equal(t, 300*time.Millisecond, p.Total())

	phases := p.Phases()
	phases[0].Name = "mutated"
	assert.Equal(t, "a", p.At(0).Name, "Phases returns a copy")

	assert.Equal(t, 0, domain.UniformPlan(time.Second).Len())
}

package phase

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is a goroutine-safe random source for cosmetic variation in plans
// (jittered durations, simulated choices). Seed it for reproducible output.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand creates a source seeded with seed.
func NewRand(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a value in [0, n). n must be positive.
func (r *Rand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}

// Between returns a duration uniformly drawn from [lo, hi).
func (r *Rand) Between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.Float64()*float64(hi-lo))
}

// Pick returns one element of items. items must not be empty.
func Pick[T any](r *Rand, items []T) T {
	return items[r.IntN(len(items))]
}

package phase

import "time"

// Clock is the time source the Runner suspends on.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

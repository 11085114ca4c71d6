package pipeline

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// The pipeline uses it to pick the bucket day prefix for each poll cycle.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for day selection. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Package clock abstracts time so deployment timing can be tested deterministically.
//
// Production code uses Real(). Tests use NewFakeClock() and drive time
// forward with Advance().
package clock

import "time"

// Clock provides the time operations the deployer depends on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration

	// Sleep pauses the current goroutine for at least duration d.
	Sleep(d time.Duration)

	// After waits for the duration to elapse and then sends the current time.
	After(d time.Duration) <-chan time.Time

	// NewTicker returns a Ticker that delivers the current time every d.
	NewTicker(d time.Duration) Ticker

	// NewTimer returns a Timer that fires once after d.
	NewTimer(d time.Duration) Timer
}

// Ticker delivers periodic ticks.
type Ticker interface {
	// C returns the channel on which ticks are delivered.
	C() <-chan time.Time

	// Stop turns off the ticker. After Stop, no more ticks are sent.
	Stop()
}

// Timer delivers a single tick.
type Timer interface {
	// C returns the channel on which the time is delivered.
	C() <-chan time.Time

	// Stop prevents the timer from firing. It returns true if the call
	// stops the timer, false if it has already fired or been stopped.
	Stop() bool
}

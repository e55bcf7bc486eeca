package clock

import (
	"sync"
	"time"
)

// FakeClock is a deterministic clock for tests.
//
// Time only moves when Advance or AdvanceTo is called. Waiters registered
// through After, NewTimer, and NewTicker fire as the clock passes their
// deadlines, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeWaiter
	nextID  uint64
}

// fakeWaiter is a pending timer or ticker tick.
type fakeWaiter struct {
	id       uint64
	deadline time.Time
	interval time.Duration // 0 for one-shot timers
	ch       chan time.Time
}

// NewFakeClock returns a FakeClock frozen at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since returns the duration since t.
func (c *FakeClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Sleep blocks until the clock advances past d.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-c.After(d)
}

// After returns a channel that receives once the clock passes now+d.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.addWaiter(c.now.Add(d), 0, ch)
	return ch
}

// NewTicker returns a Ticker that fires every d as the clock advances.
func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	id := c.addWaiter(c.now.Add(d), d, ch)
	return &fakeTicker{clock: c, id: id, ch: ch}
}

// NewTimer returns a Timer that fires once the clock passes now+d.
func (c *FakeClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return &fakeTimer{clock: c, ch: ch, fired: true}
	}
	id := c.addWaiter(c.now.Add(d), 0, ch)
	return &fakeTimer{clock: c, id: id, ch: ch}
}

// Advance moves the clock forward by d, firing waiters in deadline order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceTo(c.now.Add(d))
}

// AdvanceTo moves the clock to t, firing waiters in deadline order.
func (c *FakeClock) AdvanceTo(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceTo(t)
}

// WaiterCount returns the number of pending timers and tickers.
func (c *FakeClock) WaiterCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// BlockUntilWaiters busy-waits until at least n waiters are registered.
// Tests use it to make sure a goroutine has reached its wait point before
// calling Advance.
func (c *FakeClock) BlockUntilWaiters(n int) {
	for c.WaiterCount() < n {
		time.Sleep(time.Microsecond)
	}
}

// advanceTo fires all waiters with deadlines at or before t. Caller holds c.mu.
func (c *FakeClock) advanceTo(t time.Time) {
	if t.Before(c.now) {
		return
	}

	for {
		w := c.earliest(t)
		if w == nil {
			break
		}
		c.now = w.deadline

		// Non-blocking send matches time.Ticker behavior: a slow receiver
		// drops ticks instead of backing up the clock.
		select {
		case w.ch <- w.deadline:
		default:
		}

		if w.interval > 0 {
			w.deadline = w.deadline.Add(w.interval)
		} else {
			c.removeWaiter(w.id)
		}
	}
	c.now = t
}

// earliest returns the waiter with the soonest deadline no later than limit.
// Ties break by registration order. Caller holds c.mu.
func (c *FakeClock) earliest(limit time.Time) *fakeWaiter {
	var best *fakeWaiter
	for _, w := range c.waiters {
		if w.deadline.After(limit) {
			continue
		}
		if best == nil || w.deadline.Before(best.deadline) ||
			(w.deadline.Equal(best.deadline) && w.id < best.id) {
			best = w
		}
	}
	return best
}

// addWaiter registers a waiter. Caller holds c.mu.
func (c *FakeClock) addWaiter(deadline time.Time, interval time.Duration, ch chan time.Time) uint64 {
	c.nextID++
	c.waiters = append(c.waiters, &fakeWaiter{
		id:       c.nextID,
		deadline: deadline,
		interval: interval,
		ch:       ch,
	})
	return c.nextID
}

// removeWaiter drops a waiter by id. Caller holds c.mu.
func (c *FakeClock) removeWaiter(id uint64) bool {
	for i, w := range c.waiters {
		if w.id == id {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// fakeTicker implements Ticker for FakeClock.
type fakeTicker struct {
	clock *FakeClock
	id    uint64
	ch    chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.clock.removeWaiter(t.id)
}

// fakeTimer implements Timer for FakeClock.
type fakeTimer struct {
	clock *FakeClock
	id    uint64
	ch    chan time.Time
	fired bool
}

func (t *fakeTimer) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTimer) Stop() bool {
	if t.fired {
		return false
	}
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.clock.removeWaiter(t.id)
}

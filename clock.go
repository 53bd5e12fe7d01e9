package stripchart

import (
	"math"
	"slices"
	"sync"
	"time"
)

// TickRate returns the number of ticks per second of period, rounded to the
// nearest integer and at least 1. Hosts that drive a ManualClock from a
// fixed-rate update loop use it to match the configured tick period. A
// period that does not divide a second plays slightly off rate, by less
// than half a tick per second.
func TickRate(period time.Duration) int {
	if period <= 0 {
		return 1
	}
	return max(int(math.Round(float64(time.Second)/float64(period))), 1)
}

// Clock is a periodic tick source. Every arranges for fn to be called once
// per period until the returned stop function is called.
//
// Implementations never queue ticks: a tick that fires while fn is still
// running is dropped. stop must not block, so it is safe to call from
// inside fn.
type Clock interface {
	Every(period time.Duration, fn func()) (stop func())
}

// WallClock is a Clock driven by time.Ticker.
type WallClock struct{}

// Every starts a goroutine that calls fn on every tick of a time.Ticker.
func (WallClock) Every(period time.Duration, fn func()) func() {
	ticker := time.NewTicker(period)
	quit := make(chan struct{})
	go func() {
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-quit:
				return
			case now := <-ticker.C:
				select {
				case <-quit:
					return
				default:
				}
				if gap := now.Sub(last); gap > period*3/2 {
					Logger().Debug("stripchart: ticks dropped", "gap", gap, "period", period)
				}
				last = now
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}

// ManualClock is a Clock whose ticks are fired explicitly. Tests use it to
// drive a scheduler deterministically, and hosts with their own frame loop
// use it to tick from that loop.
type ManualClock struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*manualSub
}

type manualSub struct {
	period time.Duration
	fn     func()
}

// NewManualClock creates a clock with no subscriptions.
func NewManualClock() *ManualClock {
	return &ManualClock{subs: make(map[int]*manualSub)}
}

// Every registers fn. The period is recorded but ignored; every Tick fires
// every subscription once.
func (c *ManualClock) Every(period time.Duration, fn func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = &manualSub{period: period, fn: fn}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Tick fires every active subscription once, synchronously, in
// registration order.
func (c *ManualClock) Tick() {
	c.mu.Lock()
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		c.mu.Lock()
		sub, ok := c.subs[id]
		c.mu.Unlock()
		if ok {
			sub.fn()
		}
	}
}

// Advance fires n ticks.
func (c *ManualClock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// Subscribers returns the number of active subscriptions.
func (c *ManualClock) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Period returns the period of the most recent active subscription, or 0.
func (c *ManualClock) Period() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	best, period := -1, time.Duration(0)
	for id, sub := range c.subs {
		if id > best {
			best, period = id, sub.period
		}
	}
	return period
}

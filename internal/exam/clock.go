package exam

import (
	"sync"
	"time"
)

// Clock is the time source of the exam countdown.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers periodic ticks until stopped. Stop is idempotent.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t    *time.Ticker
	once sync.Once
}

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.once.Do(s.t.Stop) }

// ManualClock is a Clock that only moves when Advance is called. Each tick
// is handed over synchronously, so after Advance returns every tick but the
// last has been fully consumed.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManualClock returns a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	tk := &manualTicker{
		ch:     make(chan time.Time),
		done:   make(chan struct{}),
		period: d,
		next:   c.now.Add(d),
	}
	c.tickers = append(c.tickers, tk)
	return tk
}

// Advance moves time forward by d, firing every ticker period that elapses
// on the way. A tick for a stopped ticker is dropped.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due *manualTicker
		live := c.tickers[:0]
		for _, tk := range c.tickers {
			if tk.stopped() {
				continue
			}
			live = append(live, tk)
			if !tk.next.After(end) && (due == nil || tk.next.Before(due.next)) {
				due = tk
			}
		}
		c.tickers = live
		if due == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		c.now = due.next
		due.next = due.next.Add(due.period)
		at := c.now
		c.mu.Unlock()

		select {
		case due.ch <- at:
		case <-due.done:
		}
	}
}

// Tickers returns the number of running tickers.
func (c *ManualClock) Tickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, tk := range c.tickers {
		if !tk.stopped() {
			n++
		}
	}
	return n
}

type manualTicker struct {
	ch     chan time.Time
	done   chan struct{}
	once   sync.Once
	period time.Duration
	next   time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.once.Do(func() { close(t.done) }) }

func (t *manualTicker) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

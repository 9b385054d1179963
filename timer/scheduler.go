package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Countdown is a handle on a scheduled countdown.
type Countdown interface {
	// Cancel stops the countdown. Once Cancel returns, no further callback of
	// this countdown is observed on the goroutine that called it.
	Cancel()
}

// Scheduler fires onTick at every interval boundary while time remains and
// onFinish exactly once after d has elapsed. Ticks are delivered in order and
// always before onFinish.
type Scheduler interface {
	Schedule(d, interval time.Duration, onTick func(remaining time.Duration), onFinish func()) Countdown
}

// TickerScheduler runs each countdown on its own goroutine and hands the
// callbacks to post, which must run them on the goroutine that owns the
// Controller. post returns false once that goroutine is gone; the countdown
// goroutine then exits.
type TickerScheduler struct {
	post func(func()) bool
	now  func() time.Time
}

// NewTickerScheduler creates a scheduler delivering callbacks through post.
func NewTickerScheduler(post func(func()) bool) *TickerScheduler {
	return &TickerScheduler{post: post, now: time.Now}
}

type tickerCountdown struct {
	cancelled atomic.Bool
	stopCh    chan struct{}
	once      sync.Once
}

func (c *tickerCountdown) Cancel() {
	c.cancelled.Store(true)
	c.once.Do(func() { close(c.stopCh) })
}

// Schedule starts a countdown over d.
func (s *TickerScheduler) Schedule(d, interval time.Duration, onTick func(time.Duration), onFinish func()) Countdown {
	if interval <= 0 {
		interval = TickInterval
	}
	c := &tickerCountdown{stopCh: make(chan struct{})}
	go s.run(c, d, interval, onTick, onFinish)
	return c
}

func (s *TickerScheduler) run(c *tickerCountdown, d, interval time.Duration, onTick func(time.Duration), onFinish func()) {
	deliver := func(fn func()) bool {
		return s.post(func() {
			if c.cancelled.Load() {
				return
			}
			fn()
		})
	}

	if d <= 0 {
		deliver(onFinish)
		return
	}

	start := s.now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	finish := time.NewTimer(d)
	defer finish.Stop()

	var boundary time.Duration
	for {
		select {
		case <-c.stopCh:
			return
		case <-finish.C:
			deliver(onFinish)
			return
		case <-ticker.C:
			// measured from start so dropped ticker sends do not skew it
			k := (s.now().Sub(start) + interval/2) / interval
			if k*interval <= boundary {
				continue
			}
			boundary = k * interval
			remaining := d - boundary
			if remaining <= 0 {
				// the finish timer owns the last boundary
				continue
			}
			if !deliver(func() { onTick(remaining) }) {
				return
			}
		}
	}
}

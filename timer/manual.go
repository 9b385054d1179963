package timer

import "time"

// ManualScheduler is a Scheduler driven by simulated time. Callbacks run
// synchronously inside Advance, which makes controller behavior
// deterministic in tests and in headless tools.
type ManualScheduler struct {
	now        time.Duration
	countdowns []*manualCountdown
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualCountdown struct {
	start     time.Duration
	d         time.Duration
	interval  time.Duration
	ticks     int
	done      bool
	cancelled bool
	onTick    func(time.Duration)
	onFinish  func()
}

func (c *manualCountdown) Cancel() {
	c.cancelled = true
}

// Schedule registers a countdown starting at the current simulated time.
func (s *ManualScheduler) Schedule(d, interval time.Duration, onTick func(time.Duration), onFinish func()) Countdown {
	if interval <= 0 {
		interval = TickInterval
	}
	c := &manualCountdown{
		start:    s.now,
		d:        d,
		interval: interval,
		onTick:   onTick,
		onFinish: onFinish,
	}
	s.countdowns = append(s.countdowns, c)
	return c
}

// Now returns the simulated time elapsed since the scheduler was created.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Active reports how many countdowns are neither finished nor cancelled.
func (s *ManualScheduler) Active() int {
	n := 0
	for _, c := range s.countdowns {
		if !c.done && !c.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due callbacks in time order.
// A callback may cancel or schedule countdowns; new countdowns start at the
// simulated instant of the callback that created them.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		c, at, finish := s.next(target)
		if c == nil {
			break
		}
		if at > s.now {
			s.now = at
		}
		if finish {
			c.done = true
			c.onFinish()
			continue
		}
		c.ticks++
		c.onTick(c.d - time.Duration(c.ticks)*c.interval)
	}
	s.now = target
	s.prune()
}

// next finds the earliest pending callback at or before target.
func (s *ManualScheduler) next(target time.Duration) (*manualCountdown, time.Duration, bool) {
	var (
		best     *manualCountdown
		bestAt   time.Duration
		isFinish bool
	)
	for _, c := range s.countdowns {
		if c.done || c.cancelled {
			continue
		}
		at, finish := c.due()
		if at > target {
			continue
		}
		// ticks before finish at the same instant, earlier countdowns first
		if best == nil || at < bestAt || (at == bestAt && isFinish && !finish) {
			best, bestAt, isFinish = c, at, finish
		}
	}
	return best, bestAt, isFinish
}

func (c *manualCountdown) due() (time.Duration, bool) {
	nextTick := time.Duration(c.ticks+1) * c.interval
	if nextTick < c.d {
		return c.start + nextTick, false
	}
	return c.start + c.d, true
}

func (s *ManualScheduler) prune() {
	kept := s.countdowns[:0]
	for _, c := range s.countdowns {
		if !c.done && !c.cancelled {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(s.countdowns); i++ {
		s.countdowns[i] = nil
	}
	s.countdowns = kept
}

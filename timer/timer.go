// Package timer contains the domain logic for the torch timer: the countdown
// state machine (Controller), the Scheduler it runs on and time formatting.
//
// Maintenance notes:
//   - The Controller holds no locks. Every method, including the scheduler
//     callbacks, must run on one goroutine (the application command loop).
//     TickerScheduler posts its callbacks there; ManualScheduler runs them
//     inside Advance.
//   - Observers registered with Subscribe run synchronously on that same
//     goroutine. They must not block; the UI marshals to Fyne with fyne.Do.
//   - The torch is switched off only on natural expiry and on the
//     decrease-below-a-minute stop. Pause and Reset leave it as it is.
package timer

import (
	"log"
	"time"
)

// Torch is the device capability the controller drives.
type Torch interface {
	Available() bool
	SetTorch(on bool) error
}

// Controller owns the countdown state and drives the torch.
type Controller struct {
	torch     Torch
	scheduler Scheduler

	state          TimerState
	remaining      time.Duration
	running        bool
	startEnabled   bool
	resetVisible   bool
	torchOn        bool
	torchAvailable bool

	countdown  Countdown
	generation uint64

	observers []func(Event)
	errs      chan error
}

// New creates a controller in the idle state with DefaultDuration remaining.
// The torch availability is queried once, here.
func New(torch Torch, scheduler Scheduler) *Controller {
	c := &Controller{
		torch:        torch,
		scheduler:    scheduler,
		state:        StateIdle,
		remaining:    DefaultDuration,
		startEnabled: true,
		errs:         make(chan error, errorBuffer),
	}
	c.torchAvailable = torch != nil && torch.Available()
	if !c.torchAvailable {
		log.Println("Torch unavailable, torch controls disabled.")
	}
	return c
}

// Subscribe registers an observer for every state change.
func (c *Controller) Subscribe(fn func(Event)) {
	c.observers = append(c.observers, fn)
}

// Errors returns swallowed torch failures. Sends never block; failures are
// dropped when nobody drains the channel.
func (c *Controller) Errors() <-chan error {
	return c.errs
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:          c.state,
		Remaining:      c.remaining,
		Running:        c.running,
		StartEnabled:   c.startEnabled,
		ResetVisible:   c.resetVisible,
		TorchOn:        c.torchOn,
		TorchAvailable: c.torchAvailable,
	}
}

// Start turns the torch on and counts down from the current remaining time.
// Calling Start while running recreates the countdown.
func (c *Controller) Start() {
	c.setTorch(true)
	c.reschedule()
	c.running = true
	c.state = StateRunning
	c.resetVisible = false
	c.emit(EventStateChange)
}

// Pause stops the countdown, keeping the remaining time and the torch state.
func (c *Controller) Pause() {
	if !c.running {
		return
	}
	c.cancel()
	c.running = false
	c.state = StateIdle
	c.resetVisible = true
	c.emit(EventStateChange)
}

// Toggle pauses a running countdown and starts an idle one.
func (c *Controller) Toggle() {
	if c.running {
		c.Pause()
		return
	}
	c.Start()
}

// Reset restores DefaultDuration and stops any countdown.
func (c *Controller) Reset() {
	c.remaining = DefaultDuration
	c.cancel()
	c.running = false
	c.state = StateIdle
	c.resetVisible = false
	c.startEnabled = true
	c.emit(EventStateChange)
}

// IncreaseByOneMinute adds a Step. There is no upper bound.
func (c *Controller) IncreaseByOneMinute() {
	c.remaining += Step
	if c.running {
		c.reschedule()
	}
	c.startEnabled = true
	c.emit(EventStateChange)
}

// DecreaseByOneMinute removes a Step. With a Step or less left the timer
// stops at zero and the torch goes off instead.
func (c *Controller) DecreaseByOneMinute() {
	if c.remaining > Step {
		c.remaining -= Step
		if c.running {
			c.reschedule()
		}
		c.emit(EventStateChange)
		return
	}
	c.running = false
	c.state = StateStopped
	c.resetVisible = true
	c.cancel()
	c.remaining = 0
	c.startEnabled = false
	c.setTorch(false)
	c.emit(EventStateChange)
}

// ManualTorchOn switches the torch on regardless of the timer.
func (c *Controller) ManualTorchOn() {
	c.setTorch(true)
	c.emit(EventTorch)
}

// ManualTorchOff switches the torch off regardless of the timer.
func (c *Controller) ManualTorchOff() {
	c.setTorch(false)
	c.emit(EventTorch)
}

// Shutdown cancels the countdown and switches the torch off.
func (c *Controller) Shutdown() {
	c.cancel()
	c.running = false
	c.setTorch(false)
}

func (c *Controller) onTick(remaining time.Duration) {
	if remaining < 0 {
		remaining = 0
	}
	c.remaining = remaining
	c.emit(EventTick)
}

func (c *Controller) onFinish() {
	c.countdown = nil
	c.running = false
	c.state = StateStopped
	c.resetVisible = true
	c.startEnabled = false
	c.remaining = 0
	c.setTorch(false)
	c.emit(EventExpired)
}

// reschedule replaces the active countdown with one over c.remaining. The
// old countdown is cancelled before the new one exists.
func (c *Controller) reschedule() {
	c.cancel()
	gen := c.generation
	c.countdown = c.scheduler.Schedule(c.remaining, TickInterval,
		func(remaining time.Duration) {
			if gen == c.generation {
				c.onTick(remaining)
			}
		},
		func() {
			if gen == c.generation {
				c.onFinish()
			}
		},
	)
}

func (c *Controller) cancel() {
	c.generation++
	if c.countdown != nil {
		c.countdown.Cancel()
		c.countdown = nil
	}
}

func (c *Controller) setTorch(on bool) {
	if !c.torchAvailable {
		return
	}
	if err := c.torch.SetTorch(on); err != nil {
		log.Printf("Failed to set torch to %v: %v", on, err)
		select {
		case c.errs <- err:
		default:
		}
		return
	}
	c.torchOn = on
}

func (c *Controller) emit(t EventType) {
	e := Event{Type: t, Snapshot: c.Snapshot()}
	for _, fn := range c.observers {
		fn(e)
	}
}

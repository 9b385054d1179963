package timer

import "time"

// TimerState defines the possible states of the countdown.
type TimerState int

const (
	StateIdle TimerState = iota
	StateRunning
	StateStopped
)

func (s TimerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// EventType defines the kind of change a Controller reports to its observers.
type EventType int

const (
	EventStateChange EventType = iota
	EventTick
	EventExpired
	EventTorch
)

const (
	// DefaultDuration is the countdown length at startup and after a reset.
	DefaultDuration = 10 * time.Minute

	// TickInterval is the period between countdown ticks.
	TickInterval = time.Second

	// Step is the amount added or removed by the +/- controls.
	Step = time.Minute

	// errorBuffer bounds the diagnostic channel returned by Controller.Errors.
	errorBuffer = 8
)

// Snapshot is a copy of the controller state. Observers receive one with
// every event so the UI never reads the controller directly.
type Snapshot struct {
	State          TimerState
	Remaining      time.Duration
	Running        bool
	StartEnabled   bool
	ResetVisible   bool
	TorchOn        bool
	TorchAvailable bool
}

// Event is delivered to every subscriber after a mutation.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

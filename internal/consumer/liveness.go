package consumer

import "sync/atomic"

// State is the run state of the consumer loop
type State int32

const (
	StateStarting State = iota
	StateConsuming
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateConsuming:
		return "consuming"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Liveness exposes the consumer state to concurrent readers. Only the consumer
// loop writes it.
type Liveness struct {
	state atomic.Int32
}

// NewLiveness returns a cell in the starting state
func NewLiveness() *Liveness {
	return &Liveness{}
}

// State returns the current state
func (l *Liveness) State() State {
	return State(l.state.Load())
}

// IsConsuming reports whether the loop is inside its receive cycle
func (l *Liveness) IsConsuming() bool {
	return l.State() == StateConsuming
}

func (l *Liveness) set(s State) {
	l.state.Store(int32(s))
}

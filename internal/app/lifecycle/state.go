// internal/app/lifecycle/state.go
package lifecycle

import "fmt"

// State is the position of one Run in the boot sequence.
type State int

const (
	NotStarted State = iota
	ConfigLoaded
	Connected
	Listening
	Terminated
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case ConfigLoaded:
		return "config_loaded"
	case Connected:
		return "connected"
	case Listening:
		return "listening"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// machine tracks the state of a single run. States only move forward one
// step at a time, except that Terminated is reachable from anywhere and is
// final.
type machine struct {
	state    State
	observer func(State)
}

func (m *machine) advance(to State) error {
	if m.state == Terminated {
		return fmt.Errorf("lifecycle: transition %s -> %s after termination", m.state, to)
	}
	if to != Terminated && to != m.state+1 {
		return fmt.Errorf("lifecycle: invalid transition %s -> %s", m.state, to)
	}
	m.state = to
	if m.observer != nil {
		m.observer(to)
	}
	return nil
}

package plugin

import (
	"sync"

	"github.com/kernelkit/kernel/pkg/kernelerr"
)

// State is one step of a plugin instance's strict lifecycle machine:
//
//	registered -> initializing -> initialized -> destroying -> destroyed
//	               \-> registered (on setup failure)
//	                              \-> initialized (on destroy failure)
type State int

const (
	StateRegistered State = iota
	StateInitializing
	StateInitialized
	StateDestroying
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateDestroying:
		return "destroying"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	StateRegistered:    {StateInitializing},
	StateInitializing:  {StateInitialized, StateRegistered},
	StateInitialized:   {StateDestroying},
	StateDestroying:    {StateDestroyed, StateInitialized},
	StateDestroyed:     {},
}

// IsValidTransition reports whether from -> to is permitted by the state
// machine. There is no implicit re-entry: every move not
// listed here is illegal.
func IsValidTransition(from, to State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// stateTracker guards a plugin's State with the single mutex the kernel's
// cooperative, externally-serialized model still needs once a destroy
// deadline goroutine can race the driving sequence.
type stateTracker struct {
	mu    sync.Mutex
	state State
	name  string
}

func newStateTracker(name string) *stateTracker {
	return &stateTracker{name: name, state: StateRegistered}
}

func (t *stateTracker) Get() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *stateTracker) Set(to State) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !IsValidTransition(t.state, to) {
		return kernelerr.NewIllegalStateTransition(t.name, t.state.String(), to.String())
	}
	t.state = to
	return nil
}

package plugin

import "testing"

func TestIsValidTransitionHappyPath(t *testing.T) {
	path := []State{StateRegistered, StateInitializing, StateInitialized, StateDestroying, StateDestroyed}
	for i := 0; i < len(path)-1; i++ {
		if !IsValidTransition(path[i], path[i+1]) {
			t.Errorf("expected %s -> %s to be valid", path[i], path[i+1])
		}
	}
}

func TestIsValidTransitionBackEdges(t *testing.T) {
	if !IsValidTransition(StateInitializing, StateRegistered) {
		t.Errorf("expected initializing -> registered (setup failure) to be valid")
	}
	if !IsValidTransition(StateDestroying, StateInitialized) {
		t.Errorf("expected destroying -> initialized (destroy failure) to be valid")
	}
}

func TestIsValidTransitionRejectsIllegalMoves(t *testing.T) {
	illegal := [][2]State{
		{StateRegistered, StateInitialized},
		{StateRegistered, StateDestroyed},
		{StateInitialized, StateRegistered},
		{StateDestroyed, StateRegistered},
		{StateDestroyed, StateInitialized},
	}
	for _, pair := range illegal {
		if IsValidTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be illegal", pair[0], pair[1])
		}
	}
}

func TestStateTrackerRejectsIllegalSetWithoutSideEffects(t *testing.T) {
	tr := newStateTracker("db")
	if err := tr.Set(StateDestroyed); err == nil {
		t.Fatalf("expected error transitioning registered -> destroyed")
	}
	if tr.Get() != StateRegistered {
		t.Errorf("illegal transition mutated state: got %s", tr.Get())
	}
}

package pipeline

import "fmt"

// State is a step in the lifecycle of one run.
type State int

// Run states.
const (
	StateIdle State = iota
	StateProbing
	StateReady
	StateRunning
	StateFinalizing
	StateCompleted
	StateCancelled
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateProbing:    "probing",
	StateReady:      "ready",
	StateRunning:    "running",
	StateFinalizing: "finalizing",
	StateCompleted:  "completed",
	StateCancelled:  "cancelled",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

var transitions = map[State][]State{
	StateIdle:       {StateProbing, StateFailed},
	StateProbing:    {StateReady, StateFailed},
	StateReady:      {StateRunning, StateFailed},
	StateRunning:    {StateFinalizing, StateCancelled, StateFailed},
	StateFinalizing: {StateCompleted, StateCancelled, StateFailed},
}

// CanTransition reports whether a run may move from one state to another.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

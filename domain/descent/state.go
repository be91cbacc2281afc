package descent

// State is a stage of a descent run.
type State string

// Run states.
const (
	StateSeed        State = "seed"        // Normalize the witness
	StateExploring   State = "exploring"   // Non-exceptional pair, keep descending
	StateExceptional State = "exceptional" // Terminal pair found, claim pending
	StateDischarged  State = "discharged"  // Claim produced
	StateFailed      State = "failed"      // Obligation violated
)

// IsTerminal returns true if this is a terminal state (discharged or failed).
func (s State) IsTerminal() bool {
	return s == StateDischarged || s == StateFailed
}

// IsValid returns true if the state is a recognized run state.
func (s State) IsValid() bool {
	switch s {
	case StateSeed, StateExploring, StateExceptional, StateDischarged, StateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// AllStates returns all run states.
func AllStates() []State {
	return []State{
		StateSeed,
		StateExploring,
		StateExceptional,
		StateDischarged,
		StateFailed,
	}
}

// TerminalStates returns all terminal states.
func TerminalStates() []State {
	return []State{StateDischarged, StateFailed}
}

package logging

import (
	"math/big"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for descent logging.

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Problem adds the problem name.
func Problem(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("problem", name)
	}
}

// State adds a state field.
func State(s descent.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", string(s))
	}
}

// FromState adds a from_state field for transitions.
func FromState(s descent.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_state", string(s))
	}
}

// ToState adds a to_state field for transitions.
func ToState(s descent.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_state", string(s))
	}
}

// Pair adds x and y fields. Coordinates are logged as decimal strings
// since they may exceed 64 bits.
func Pair(p descent.Pair) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("x", p.X.String()).Str("y", p.Y.String())
	}
}

// Witness adds the witness as a single "(x, y)" field.
func Witness(p descent.Pair) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("witness", p.String())
	}
}

// Measure adds the descent measure.
func Measure(m *big.Int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("measure", m.String())
	}
}

// Companion adds the Vieta partner computed for a step.
func Companion(c *big.Int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("companion", c.String())
	}
}

// Step adds the step number.
func Step(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("step", n)
	}
}

// Kind adds the exceptional kind.
func Kind(k descent.Kind) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("kind", k.String())
	}
}

// Obligation adds the name of a violated obligation.
func Obligation(o descent.Obligation) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("obligation", string(o))
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Count adds an integer field with a custom key.
func Count(key string, n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, n)
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

package engine

import (
	"errors"
	"fmt"
)

// ErrHalted indicates stepping was refused because a previous step hit
// an integrity violation. The state is frozen for inspection; only a
// successful Load or Reset resumes the engine.
var ErrHalted = errors.New("astrolab: engine halted after integrity violation")

// StepError wraps an error with the step it occurred in.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

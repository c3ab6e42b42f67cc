package operations

import (
	"errors"
	"fmt"
)

// ErrCanceled is returned when the context ends between steps
var ErrCanceled = errors.New("run canceled")

// StepError ties a failure to the step that raised it
type StepError struct {
	Step string
	Err  error
}

// Error implements the error interface
func (e *StepError) Error() string {
	if e == nil {
		return "unknown step error"
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FailedStep returns the ID of the step err came from, or "" if err did not come
// from a step.
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}

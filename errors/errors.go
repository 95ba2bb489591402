package errors

import "fmt"

// PeriodError wraps a specific error with the requested period and the
// range the current onboarding schedule allows.
type PeriodError struct {
	Period int
	Min    int
	Max    int
	Err    error
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("period %d outside valid range [%d, %d]: %v", e.Period, e.Min, e.Max, e.Err)
}

func (e *PeriodError) Unwrap() error {
	return e.Err
}

// ValidationError wraps a specific error with the parameter field that
// failed validation.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s: %v", e.Field, e.Reason, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrPeriodOutOfRange = fmt.Errorf("period out of range")
	ErrNotFraction      = fmt.Errorf("value must be between 0 and 1")
	ErrNotPositive      = fmt.Errorf("value must be positive")
	ErrNegativeValue    = fmt.Errorf("value must not be negative")
	ErrEmptySchedule    = fmt.Errorf("schedule is empty")
	ErrRampNotMonotonic = fmt.Errorf("ramp-up curve must be non-decreasing")
	ErrUnknownParameter = fmt.Errorf("unknown sensitivity parameter")
)

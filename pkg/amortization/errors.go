package amortization

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a CalculationError.
type ErrorKind string

const (
	// KindInvalidInputs marks missing or non-positive principal, rate or term.
	KindInvalidInputs ErrorKind = "InvalidInputs"

	// KindDegenerateSchedule marks a payment that is not finite or not positive.
	KindDegenerateSchedule ErrorKind = "DegenerateSchedule"
)

// Sentinel errors matched by errors.Is against any CalculationError of the
// corresponding kind.
var (
	ErrInvalidInputs      = errors.New("invalid loan inputs")
	ErrDegenerateSchedule = errors.New("degenerate amortization schedule")
)

// CalculationError is the only error type returned by the engine.
type CalculationError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *CalculationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *CalculationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *CalculationError) Is(target error) bool {
	switch target {
	case ErrInvalidInputs:
		return e.Kind == KindInvalidInputs
	case ErrDegenerateSchedule:
		return e.Kind == KindDegenerateSchedule
	}
	return false
}

// KindOf returns the kind of the first CalculationError in err's chain, or an
// empty kind when there is none.
func KindOf(err error) ErrorKind {
	var calcErr *CalculationError
	if errors.As(err, &calcErr) {
		return calcErr.Kind
	}
	return ""
}

func invalidInput(field, format string, args ...interface{}) *CalculationError {
	return &CalculationError{
		Kind:    KindInvalidInputs,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func degenerate(format string, args ...interface{}) *CalculationError {
	return &CalculationError{
		Kind:    KindDegenerateSchedule,
		Message: fmt.Sprintf(format, args...),
	}
}

package sgd

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotInitialized is returned by an update policy whose Update is called
	// before Initialize.
	ErrNotInitialized = errors.New("update policy not initialized")

	// ErrNumericalFailure reports that the objective or the iterate became
	// non-finite during a run.
	ErrNumericalFailure = errors.New("objective or iterate is not finite")
)

// ErrInvalidArgument is returned (or panicked with, for contract violations on
// the objective side) whenever an argument or option is out of range.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the argument, e.g., "stepSize"
	Value   interface{} // The invalid value that was provided
	Message string      // Why the value is invalid, e.g., "outside allowed range [0, 1)"
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %v is invalid for argument %q", err.Value, err.Name)
	}
	return fmt.Sprintf("value %v is invalid for argument %q; %s", err.Value, err.Name, err.Message)
}

func invalidArgument(name string, value interface{}, message string) error {
	return errors.WithStack(&ErrInvalidArgument{Name: name, Value: value, Message: message})
}

// ShapeError reports a matrix whose dimensions differ from the expected ones.
type ShapeError struct {
	Name       string
	WantRows   int
	WantCols   int
	Rows, Cols int
}

func (err *ShapeError) Error() string {
	return fmt.Sprintf("%s has shape %dx%d, expected %dx%d", err.Name, err.Rows, err.Cols, err.WantRows, err.WantCols)
}

// BatchRangeError reports a batch window that does not fit inside
// [0, NumFunctions).
type BatchRangeError struct {
	Begin        int
	BatchSize    int
	NumFunctions int
}

func (err *BatchRangeError) Error() string {
	return fmt.Sprintf("batch [%d, %d) is outside [0, %d)", err.Begin, err.Begin+err.BatchSize, err.NumFunctions)
}

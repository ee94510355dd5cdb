package dataset

import (
	"errors"
	"fmt"
)

// ErrLoad is matched by every error returned from Load and Parse.
var ErrLoad = errors.New("dataset: load failed")

// LoadError describes why a dataset could not be loaded. Line and Column are
// set when the failure points at a specific cell.
type LoadError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("dataset %q: line %d, column %q: %v", e.Source, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("dataset %q: line %d: %v", e.Source, e.Line, e.Err)
	default:
		return fmt.Sprintf("dataset %q: %v", e.Source, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes every LoadError match ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

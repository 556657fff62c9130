package viewport

import (
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/toroid/internal/grid"
)

var (
	// ErrEmptySource aliases grid.ErrEmptySource so callers only need this package.
	ErrEmptySource = grid.ErrEmptySource

	// ErrNotInitialized is returned by every operation until Initialize succeeds.
	ErrNotInitialized = errors.New("viewport not initialized")
)

// IOError reports a failed read or write against the Source. The controller
// state is unchanged whenever one is returned.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

package delayed

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation is returned by Insert when the action
	// could not be stored. The action was not inserted.
	ErrAllocation = errors.New("allocating action")

	// ErrNilCallback is returned by Insert when fn is nil.
	ErrNilCallback = errors.New("nil callback")
)

// CallbackError is a panic recovered from an action's callback during Poll.
// The action was removed before its callback ran and won't run again.
type CallbackError struct {
	Action Action
	Due    Time
	Value  any
	Stack  []byte
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("action %s panicked: %v", e.Action, e.Value)
}

// Unwrap returns the panic value if it's an error.
func (e *CallbackError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

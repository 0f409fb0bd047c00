package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a record that does not
// exist. DeleteRule swallows it (idempotent delete); Acknowledge surfaces it.
var ErrNotFound = errors.New("record not found")

// ValidationError reports caller input rejected before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

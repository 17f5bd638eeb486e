package api

import (
	"errors"
	"fmt"
)

// Error is the single failure kind of the remote access layer. Transport
// problems, server errors and missing records all surface as *Error.
type Error struct {
	Op     string // create, remove, list, update
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRemote reports whether err came from the remote access layer.
func IsRemote(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

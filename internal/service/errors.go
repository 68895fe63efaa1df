package service

import (
	"errors"
	"fmt"
)

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrInvalid  = errors.New("invalid input")
	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("not authorized")
	ErrLocked   = errors.New("time limit reached")
)

// ConflictError reports a task whose time collides with one already
// scheduled on the same day.
type ConflictError struct {
	Time        string
	Description string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("task %q conflicts with an existing task at %s", e.Description, e.Time)
}

package userstore

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords
// so login failures do not reveal which was the case.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUserNotFound indicates no user exists for the given ID.
var ErrUserNotFound = errors.New("user not found")

// DuplicateFieldError reports which unique field a registration collided on.
type DuplicateFieldError struct {
	Field string // "username" or "email".
}

// Error implements the error interface.
func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

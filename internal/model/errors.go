package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced user or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated indicates no resolvable principal.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is the base error every AccessError wraps.
	ErrForbidden = errors.New("forbidden")
)

// Access denial reasons.
const (
	ReasonNoOrgAccess  = "you don't have access to this organization"
	ReasonNoFileAccess = "you don't have access to this file"
	ReasonNoModeration = "you don't have permission for this action"
)

// AccessError is a Forbidden error carrying the denial reason.
type AccessError struct {
	Reason string
}

func (e *AccessError) Error() string {
	return e.Reason
}

func (e *AccessError) Unwrap() error {
	return ErrForbidden
}

// NewAccessError creates an AccessError with the given reason.
func NewAccessError(reason string) *AccessError {
	return &AccessError{Reason: reason}
}

// ValidationError indicates malformed input, rejected before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

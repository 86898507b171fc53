// Package models defines the data structures for the collections probe.
package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned from an invocation matches exactly one of
// these via errors.Is.
var (
	ErrSecretRetrieval = errors.New("secret retrieval failed")
	ErrConnection      = errors.New("database connection failed")
	ErrQuery           = errors.New("collection listing failed")
	ErrSnapshot        = errors.New("catalog snapshot failed")
	ErrUnexpected      = errors.New("unexpected error")
)

// InvocationError tags an underlying error with the pipeline stage that produced it.
type InvocationError struct {
	Kind error
	Err  error
}

func (e *InvocationError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *InvocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewSecretRetrievalError wraps err as a secret retrieval failure.
func NewSecretRetrievalError(err error) error {
	return &InvocationError{Kind: ErrSecretRetrieval, Err: err}
}

// NewConnectionError wraps err as a connection failure.
func NewConnectionError(err error) error {
	return &InvocationError{Kind: ErrConnection, Err: err}
}

// NewQueryError wraps err as a collection listing failure.
func NewQueryError(err error) error {
	return &InvocationError{Kind: ErrQuery, Err: err}
}

// NewSnapshotError wraps err as a snapshot write failure.
func NewSnapshotError(err error) error {
	return &InvocationError{Kind: ErrSnapshot, Err: err}
}

// NewUnexpectedError wraps err as an unexpected failure.
func NewUnexpectedError(err error) error {
	return &InvocationError{Kind: ErrUnexpected, Err: err}
}

// ErrorKind returns the kind of err, or ErrUnexpected if it carries none.
func ErrorKind(err error) error {
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr.Kind
	}
	return ErrUnexpected
}

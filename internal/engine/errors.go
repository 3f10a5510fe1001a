package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a failure of a collaborator during a pass.
//
// Runtime errors include:
//   - Store failures: loading triggers or persisting the ledger
//   - Registry failures: writing a channel volume
//
// The ledger invariant holds after a RuntimeError: entries are persisted
// before the first override write and removed only after a successful
// restore, so the next pass retries whatever was left undone.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Op describes the operation that failed.
	Op string

	// Channel identifies the affected channel, if any.
	Channel string

	// Err is the underlying error.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeStoreFailed indicates the saved-variable store failed.
	ErrCodeStoreFailed RuntimeErrorCode = "STORE_FAILED"

	// ErrCodeRegistryFailed indicates a channel write failed.
	ErrCodeRegistryFailed RuntimeErrorCode = "REGISTRY_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := string(e.Code) + ": " + e.Op
	if e.Channel != "" {
		msg = fmt.Sprintf("%s (channel=%s)", msg, e.Channel)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsStoreError returns true if the error is a store failure.
// Uses errors.As to handle wrapped errors.
func IsStoreError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStoreFailed
	}
	return false
}

// IsRegistryError returns true if the error is a channel write failure.
func IsRegistryError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeRegistryFailed
	}
	return false
}

func newStoreError(op, channel string, err error) *RuntimeError {
	return &RuntimeError{Code: ErrCodeStoreFailed, Op: op, Channel: channel, Err: err}
}

func newRegistryError(op, channel string, err error) *RuntimeError {
	return &RuntimeError{Code: ErrCodeRegistryFailed, Op: op, Channel: channel, Err: err}
}

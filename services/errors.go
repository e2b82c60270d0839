package services

import (
	"errors"
	"fmt"
)

// NotFoundError reports a mutation against an id that does not exist in the
// mirror at call time.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError reports a missing or invalid field in a mutation payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError reports a failed persistence call. It is distinct from
// NotFoundError: the row may exist but the write did not land.
type StoreError struct {
	Entity string
	Op     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// QuotaExceededError reports that the blob store is out of capacity. The UI
// shows "storage full" for this one instead of a generic failure.
type QuotaExceededError struct {
	Key  string
	Size int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("blob store quota exceeded writing %s (%d bytes)", e.Key, e.Size)
}

// PartialFailureError reports a multi-step operation where a later step
// failed. Policy is all-or-nothing: by the time this surfaces, the completed
// steps have been rolled back and no metadata was committed.
type PartialFailureError struct {
	Op  string
	Err error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s failed, no changes committed: %v", e.Op, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func notFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

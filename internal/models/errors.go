package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError is returned when required input is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError is returned when a requested status edge is not part
// of the lifecycle state machine.
type InvalidTransitionError struct {
	Event   LifecycleEvent
	Current ComplaintStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from status %q", e.Event, e.Current)
}

// ConflictError is returned when an operation would violate a uniqueness
// invariant, such as creating a second active assignment.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PreconditionFailedError is returned when a gating condition blocks a
// lifecycle transition. BlockingIDs carries the offending CAPA ids on resolve;
// MissingItems carries the unverified checklist items on close.
type PreconditionFailedError struct {
	Message      string
	BlockingIDs  []uuid.UUID
	MissingItems []string
}

func (e *PreconditionFailedError) Error() string {
	msg := e.Message
	if len(e.BlockingIDs) > 0 {
		ids := make([]string, len(e.BlockingIDs))
		for i, id := range e.BlockingIDs {
			ids[i] = id.String()
		}
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(ids, ", "))
	}
	if len(e.MissingItems) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.MissingItems, ", "))
	}
	return msg
}

// StorageError wraps a transaction or commit failure from the case store. It
// is surfaced to the caller untouched; the core never retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

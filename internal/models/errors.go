package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes callers can branch on,
// instead of matching message text.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindCollaborator    ErrorKind = "collaborator_unavailable"
	KindPartialDispatch ErrorKind = "partial_dispatch_failure"
)

type WorkflowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewCollaboratorError(message string, err error) error {
	return &WorkflowError{Kind: KindCollaborator, Message: message, Err: err}
}

func NewPartialDispatchError(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindPartialDispatch, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the error's kind, or an empty kind for untyped errors.
func KindOf(err error) ErrorKind {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

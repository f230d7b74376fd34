package domain

import (
	"fmt"
	"strings"
)

// ValidationError malformed request: empty required field or empty child list.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// ConflictError duplicate unique key.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return "Resource already exists."
	}
	return e.Message
}

// NotFoundError missing aggregate.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "Resource not found."
	}
	return e.Message
}

// CaseNotFound standard not-found error for a case id.
func CaseNotFound(id int64) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("Case with id %d not found", id)}
}

// UnexpectedError any other persistence failure. Cause is kept for logs, never shown to clients.
type UnexpectedError struct {
	Op    string
	Cause error
}

func (e *UnexpectedError) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Cause
}

package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeValidation = "THT001"
	ErrCodeNotFound   = "THT002"
	ErrCodeForbidden  = "THT003"
	ErrCodeInternal   = "THT500"
)

// Kind classifies a ThoughtError for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Errors
var (
	ErrThoughtNotFound  = errors.New("thought not found")
	ErrDuplicateThought = errors.New("thought already exists")
	ErrNotOwner         = errors.New("thought belongs to another user")
	ErrAnonymousThought = errors.New("anonymous thoughts cannot be modified")
	ErrInvalidInput     = errors.New("invalid input")
)

// ThoughtError carries a user-facing Message and the internal cause in Err.
// Only Message and Code are ever sent to clients.
type ThoughtError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *ThoughtError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ThoughtError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewValidationError(message string, err error) *ThoughtError {
	if err == nil {
		err = ErrInvalidInput
	}
	return &ThoughtError{
		Kind:    KindValidation,
		Code:    ErrCodeValidation,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(id string) *ThoughtError {
	return &ThoughtError{
		Kind:    KindNotFound,
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("Thought %q not found", id),
		Err:     ErrThoughtNotFound,
	}
}

func NewForbiddenError(message string, err error) *ThoughtError {
	return &ThoughtError{
		Kind:    KindForbidden,
		Code:    ErrCodeForbidden,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(op string, err error) *ThoughtError {
	return &ThoughtError{
		Kind:    KindInternal,
		Code:    ErrCodeInternal,
		Message: "Something went wrong, please try again later",
		Err:     fmt.Errorf("%s: %w", op, err),
	}
}

// KindOf returns the Kind of err, or KindInternal when err is not a
// ThoughtError.
func KindOf(err error) Kind {
	var te *ThoughtError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool  { return KindOf(err) == KindForbidden }

// Package usecase implements the business logic for the registration feature.
package usecase

import (
	"errors"
	"strings"
)

var (
	// ErrUsernameTaken is returned by repositories when the username unique constraint rejects an insert.
	ErrUsernameTaken = errors.New("username already exists")
)

// ErrorKind classifies a failed registration so callers can branch without parsing messages.
type ErrorKind int

const (
	// KindValidation means one or more fields violated the input rules.
	KindValidation ErrorKind = iota + 1
	// KindDuplicateUsername means the username is already registered.
	KindDuplicateUsername
	// KindStorage means the backend could not be opened, queried or written.
	KindStorage
	// KindMethodNotAllowed means the submission did not arrive as a POST.
	KindMethodNotAllowed
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicateUsername:
		return "duplicate_username"
	case KindStorage:
		return "storage"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "unknown"
	}
}

// RegistrationError is the tagged error returned by the registration flow.
type RegistrationError struct {
	Kind ErrorKind
	// Messages holds the per-field violations for KindValidation.
	Messages []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *RegistrationError) Error() string {
	var b strings.Builder
	b.WriteString("registration failed: ")
	b.WriteString(e.Kind.String())
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// KindOf reports the ErrorKind carried by err, or 0 when err is not a RegistrationError.
func KindOf(err error) ErrorKind {
	var regErr *RegistrationError
	if errors.As(err, &regErr) {
		return regErr.Kind
	}
	return 0
}

func validationError(msgs []string) error {
	return &RegistrationError{Kind: KindValidation, Messages: msgs}
}

func duplicateError(err error) error {
	return &RegistrationError{Kind: KindDuplicateUsername, Err: err}
}

func storageError(err error) error {
	return &RegistrationError{Kind: KindStorage, Err: err}
}

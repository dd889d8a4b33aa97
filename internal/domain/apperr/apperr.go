// Package apperr holds the error taxonomy shared by every service.
// The HTTP layer decides the response status from Kind alone.
package apperr

import (
	"errors"
	"log/slog"
)

type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidInput
	Conflict
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf reports the kind of the first *Error in err's chain.
// Errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// MessageOf returns the user facing message carried by err, or "" when err
// is not part of the taxonomy.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

// Logged writes err to log and returns it unchanged. Errors outside the
// taxonomy are logged as errors, expected outcomes at info level.
func Logged(log *slog.Logger, err error) error {
	if KindOf(err) == Internal {
		log.Error(err.Error())
	} else {
		log.Info(err.Error())
	}
	return err
}

package errs

import (
	"errors"
	"fmt"
)

// Kind classifies store failures.
type Kind string

const (
	KindUnknown    Kind = ""
	KindInvalidKey Kind = "invalid_key"
	KindIOFailure  Kind = "io_failure"
	KindNotFound   Kind = "not_found"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrInvalidKey = &Error{Kind: KindInvalidKey}
	ErrIOFailure  = &Error{Kind: KindIOFailure}
	ErrNotFound   = &Error{Kind: KindNotFound}
)

// Error is a structured failure returned by the license and media stores.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches kind sentinels. NotFound is an IOFailure specialization.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	if t.Op != "" || t.Message != "" || t.Err != nil {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindIOFailure && e.Kind == KindNotFound
}

// InvalidKey builds an InvalidKey error.
func InvalidKey(op, message string) error {
	return &Error{Kind: KindInvalidKey, Op: op, Message: message}
}

// IOFailure wraps a filesystem error.
func IOFailure(op, message string, err error) error {
	return &Error{Kind: KindIOFailure, Op: op, Message: message, Err: err}
}

// NotFound builds a NotFound error.
func NotFound(op, message string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

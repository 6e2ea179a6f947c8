package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure. Every rejected call maps to exactly
// one kind; the caller is expected to correct and resubmit.
type Kind int

const (
	// Authorization - caller lacks the capability the operation requires.
	Authorization Kind = iota + 1
	// Validation - malformed symbol, non-positive amount, oversized memo,
	// mismatched symbols.
	Validation
	// NotFound - a referenced Stat, Balance, or Auction does not exist.
	NotFound
	// Conflict - creation of a record whose identifier already exists.
	Conflict
	// State - an auction operation attempted outside its required status.
	State
	// LimitExceeded - supply cap, bidding cap, or balance overdrawn.
	LimitExceeded
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case Validation:
		return "validation"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case State:
		return "state"
	case LimitExceeded:
		return "limit exceeded"
	}
	return "unknown"
}

// Error is a classified operation failure.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New builds a classified error with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf builds a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error with added context.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the failure classification.
func (e *Error) Kind() Kind { return e.kind }

// KindOf extracts the classification of err, or zero if err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

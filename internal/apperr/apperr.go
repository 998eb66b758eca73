package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how callers must react to it.
type Kind int

const (
	// KindValidation marks malformed operator input: re-prompt, no state change.
	KindValidation Kind = iota
	// KindAuthorization marks a non-privileged actor invoking a gated entry
	// point: refuse silently, no side effect, no audit entry.
	KindAuthorization
	// KindTransport marks a failed outbound call to the messaging platform:
	// swallow, continue, surface a best-effort notice where relevant.
	KindTransport
	// KindPersistence marks a failed settings or audit write: propagate and
	// abort the enclosing action.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindTransport:
		return "transport"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified error with an optional operator-facing message.
type Error struct {
	Kind    Kind
	Err     error
	UserMsg string
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error from a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// Wrap classifies an existing error, annotating it with context.
func Wrap(kind Kind, err error, context string) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf("%s: %w", context, err)}
}

// WithUserMsg attaches an operator-facing message.
func (e *Error) WithUserMsg(msg string) *Error {
	e.UserMsg = msg
	return e
}

// KindOf reports the classification of err, or KindTransport for
// unclassified errors reaching a call site that must not escalate.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

func is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

func IsValidation(err error) bool    { return is(err, KindValidation) }
func IsAuthorization(err error) bool { return is(err, KindAuthorization) }
func IsTransport(err error) bool     { return is(err, KindTransport) }
func IsPersistence(err error) bool   { return is(err, KindPersistence) }

// UserMessage extracts the operator-facing message from err, falling back
// to a generic notice for unexpected errors.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.UserMsg != "" {
		return ae.UserMsg
	}
	return "Something went wrong. Please try again."
}

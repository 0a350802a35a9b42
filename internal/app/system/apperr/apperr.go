// Package apperr defines the failure kinds surfaced by doubtspanel
// operations and their mapping onto HTTP responses.
//
// Every store, uploader, and gateway returns *Error (or wraps one) so the
// operation boundary can pick a status code and a user-visible message
// without inspecting driver or transport errors directly.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindTransport Kind = iota
	KindDomainRejected
	KindAuthFlowAborted
	KindNotFound
	KindUnauthorized
	KindValidation
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindDomainRejected:
		return "domain_rejected"
	case KindAuthFlowAborted:
		return "auth_aborted"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindBusy:
		return "busy"
	default:
		return "transport"
	}
}

// Status returns the HTTP status code used for the kind.
func (k Kind) Status() int {
	switch k {
	case KindDomainRejected, KindUnauthorized:
		return http.StatusForbidden
	case KindAuthFlowAborted:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Msg is safe to show to the user; Err is
// the underlying cause and is only logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so callers can write errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

// Sentinels for errors.Is comparisons. They carry no message.
var (
	ErrTransport       = &Error{Kind: KindTransport}
	ErrDomainRejected  = &Error{Kind: KindDomainRejected}
	ErrAuthFlowAborted = &Error{Kind: KindAuthFlowAborted}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrBusy            = &Error{Kind: KindBusy}
)

// New builds an Error with a message and no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an Error around cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// NotFound is shorthand for a not-found failure.
func NotFound(msg string) *Error { return New(KindNotFound, msg) }

// Unauthorized is shorthand for an ownership failure.
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }

// Validation is shorthand for a rejected input.
func Validation(msg string) *Error { return New(KindValidation, msg) }

// Transport wraps an I/O or database failure.
func Transport(msg string, cause error) *Error { return Wrap(KindTransport, msg, cause) }

// KindOf returns the kind of err, defaulting to KindTransport for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

// Message returns the user-visible message for err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}

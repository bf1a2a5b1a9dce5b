// Package apperr defines the typed errors raised by validators,
// repositories and handlers.  Each error carries an explicit kind that
// maps to an HTTP status through a lookup table, so the HTTP boundary
// never inspects message strings to pick a status code.
package apperr

import "net/http"

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota // malformed or out-of-range input -> 400
	KindAuth                   // missing/expired session or wrong role -> 401
	KindNotFound               // missing entity or wrong state for transition -> 404
	KindGone                   // token-addressed resource past its TTL -> 410
	KindConflict               // cross-entity invariant violation -> 409
	KindInternal               // everything else -> 500
)

var kindStatus = map[Kind]int{
	KindValidation: http.StatusBadRequest,
	KindAuth:       http.StatusUnauthorized,
	KindNotFound:   http.StatusNotFound,
	KindGone:       http.StatusGone,
	KindConflict:   http.StatusConflict,
	KindInternal:   http.StatusInternalServerError,
}

// Error is an application error with a human-readable message and a
// kind.  The message is written for the API caller, not for logs.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New constructs an Error from a kind and message.
func New(kind Kind, message string) *Error { return &Error{Kind: kind, Message: message} }

// Validation constructs a 400-class error describing a specific
// field/rule violation.
func Validation(message string) *Error { return New(KindValidation, message) }

// Auth constructs a generic 401 error.  The message is deliberately
// vague: callers are never told whether the session was missing,
// expired or had the wrong role.
func Auth() *Error { return New(KindAuth, "unauthorized") }

// NotFound constructs a 404 error.  It deliberately conflates "does not
// exist" with "exists but not accessible in its current state".
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Gone constructs a 410 error for expired token-addressed resources.
func Gone(message string) *Error { return New(KindGone, message) }

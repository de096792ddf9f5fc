// Package apperr defines the application error taxonomy shared by every
// handler. Handlers return these; pkg/response translates them to HTTP.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindUnauthorized means no valid session was presented.
	KindUnauthorized Kind = iota
	// KindForbidden means the session lacks the required role or plan.
	KindForbidden
	// KindNotFound means the resource is absent or not owned by the
	// caller's tenant. The two cases are deliberately indistinguishable.
	KindNotFound
	// KindConflict means a unique key (slug, code, email) already exists.
	KindConflict
	// KindValidation means the input was malformed.
	KindValidation
	// KindInternal means an unexpected failure; logged server-side,
	// generic message to the client.
	KindInternal
)

// Reason codes carried on Forbidden errors so clients can distinguish
// "upgrade your plan" from "you lack permission".
const (
	ReasonRole = "role_restriction"
	ReasonPlan = "plan_restriction"
)

// Error is a typed application error.
type Error struct {
	Kind   Kind
	Reason string // machine-readable code, set on Forbidden
	Msg    string // client-facing message
	Err    error  // underlying cause, never sent to the client
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Unauthorized returns a no-valid-session error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// ForbiddenRole returns a role-insufficient error.
func ForbiddenRole(msg string) *Error {
	return &Error{Kind: KindForbidden, Reason: ReasonRole, Msg: msg}
}

// ForbiddenPlan returns a plan-insufficient error.
func ForbiddenPlan(msg string) *Error {
	return &Error{Kind: KindForbidden, Reason: ReasonPlan, Msg: msg}
}

// NotFound returns a resource-absent error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Conflict returns a duplicate-unique-key error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Validation returns a malformed-input error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// As extracts an *Error from err, or wraps err as Internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternal, Msg: "internal error", Err: err}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

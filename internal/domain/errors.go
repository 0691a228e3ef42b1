package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. The first six kinds are detected from
// input plus read-only state and never leave side effects; Persistence is
// reserved for unexpected storage failures inside the atomic step.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthorization  Kind = "authorization"
	KindForbidden      Kind = "forbidden"
	KindState          Kind = "state"
	KindReconciliation Kind = "reconciliation"
	KindStock          Kind = "stock"
	KindNotFound       Kind = "not_found"
	KindPersistence    Kind = "persistence"
)

// Error is a typed domain failure with a user-facing message naming the
// first violated precondition.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the domain kind from err; ok is false for untyped errors.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func State(msg string) *Error {
	return &Error{Kind: KindState, Message: msg}
}

func Reconciliation(format string, args ...any) *Error {
	return &Error{Kind: KindReconciliation, Message: fmt.Sprintf(format, args...)}
}

// Stock reports insufficient inventory, naming the offending product.
func Stock(productName string) *Error {
	return &Error{Kind: KindStock, Message: fmt.Sprintf("insufficient stock for %s", productName)}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", what)}
}

func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "unexpected storage failure", Err: err}
}

// Named register states shared by the cash-session and sale modules.
var (
	ErrSessionAlreadyOpen = &Error{Kind: KindState, Message: "a cash session is already open"}
	ErrNoOpenSession      = &Error{Kind: KindState, Message: "no open cash session"}
	ErrSessionRequired    = &Error{Kind: KindState, Message: "an open cash session is required to process sales"}
)

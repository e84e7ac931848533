// Package apperr carries typed application errors so handlers can map
// business failures to HTTP statuses without string matching.
package apperr

import "errors"

type Kind int

const (
	KindValidation  Kind = iota // malformed or missing input
	KindReference               // referenced entity does not exist
	KindConflict                // state conflict (e.g. delete of referenced product)
	KindConsistency             // operation would corrupt the ledger
	KindUnavailable             // persistence layer failure
)

type Error struct {
	Kind    Kind
	Message string
	Field   string // optional, set for field-level validation failures
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func ValidationField(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Field: field}
}

func Reference(msg string) *Error {
	return &Error{Kind: KindReference, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Consistency(msg string) *Error {
	return &Error{Kind: KindConsistency, Message: msg}
}

func Unavailable(msg string) *Error {
	return &Error{Kind: KindUnavailable, Message: msg}
}

// KindOf extracts the kind from any error chain, defaulting to
// KindUnavailable for untyped persistence failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnavailable
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

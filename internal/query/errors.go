package query

import (
	"errors"
	"fmt"
)

// ErrorCode classifies contact query failures. Every failure in the package
// surfaces as a *QueryError carrying one of these codes.
type ErrorCode string

const (
	// ErrorCodeLexical indicates an unparseable character or unterminated string.
	ErrorCodeLexical ErrorCode = "lexical"

	// ErrorCodeSyntax indicates an unexpected, missing or trailing token.
	ErrorCodeSyntax ErrorCode = "syntax"

	// ErrorCodeUnknownProperty indicates a property key that is neither an
	// attribute, a URN scheme nor a custom field of the org.
	ErrorCodeUnknownProperty ErrorCode = "unknown_property"

	// ErrorCodeUnsupportedComparator indicates a comparator that is not legal
	// for the resolved property.
	ErrorCodeUnsupportedComparator ErrorCode = "unsupported_comparator"

	// ErrorCodeInvalidValue indicates a literal that cannot be parsed as the
	// type the resolved property requires.
	ErrorCodeInvalidValue ErrorCode = "invalid_value"

	// ErrorCodeRedactedURNs indicates a URN value comparison in an anonymous org.
	ErrorCodeRedactedURNs ErrorCode = "redacted_urns"
)

// QueryError is the single error type surfaced by parsing, compiling and
// evaluating contact queries. The message is always safe to show to the
// user who wrote the query.
type QueryError struct {
	// Code classifies the failure.
	Code ErrorCode

	// Message is a human-readable description of what went wrong.
	Message string

	// Err is the underlying error, if any. This allows error wrapping while
	// maintaining compatibility with errors.Is() and errors.As().
	Err error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is() and errors.As().
func (e *QueryError) Unwrap() error {
	return e.Err
}

// newQueryError creates a QueryError with a formatted message.
func newQueryError(code ErrorCode, format string, args ...interface{}) *QueryError {
	return &QueryError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// wrapQueryError creates a QueryError wrapping an underlying error.
func wrapQueryError(code ErrorCode, err error, format string, args ...interface{}) *QueryError {
	return &QueryError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsQueryError reports whether err is or wraps a QueryError.
func IsQueryError(err error) bool {
	var qerr *QueryError
	return errors.As(err, &qerr)
}

// AsQueryError extracts the QueryError from err, or nil if there is none.
func AsQueryError(err error) *QueryError {
	var qerr *QueryError
	if errors.As(err, &qerr) {
		return qerr
	}
	return nil
}

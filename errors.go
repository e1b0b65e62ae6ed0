package contactql

import "github.com/nlstn/go-contactql/internal/query"

// QueryError is the single error type surfaced by parsing, compiling and
// evaluating contact queries. Its message is always safe to show to the user
// who wrote the query; callers decide whether to surface it or fall back to
// a simpler search mode.
type QueryError = query.QueryError

// ErrorCode classifies contact query failures.
type ErrorCode = query.ErrorCode

// Error codes carried by QueryError.
const (
	// ErrorCodeLexical indicates an unparseable character or unterminated string.
	ErrorCodeLexical = query.ErrorCodeLexical

	// ErrorCodeSyntax indicates an unexpected, missing or trailing token.
	ErrorCodeSyntax = query.ErrorCodeSyntax

	// ErrorCodeUnknownProperty indicates a property key that is neither an
	// attribute, a URN scheme nor a custom field of the org.
	ErrorCodeUnknownProperty = query.ErrorCodeUnknownProperty

	// ErrorCodeUnsupportedComparator indicates a comparator that is not
	// legal for the resolved property.
	ErrorCodeUnsupportedComparator = query.ErrorCodeUnsupportedComparator

	// ErrorCodeInvalidValue indicates a literal that cannot be parsed as the
	// type the resolved property requires.
	ErrorCodeInvalidValue = query.ErrorCodeInvalidValue

	// ErrorCodeRedactedURNs indicates a URN value comparison in an
	// anonymous org.
	ErrorCodeRedactedURNs = query.ErrorCodeRedactedURNs
)

// IsQueryError reports whether err is or wraps a QueryError.
func IsQueryError(err error) bool {
	return query.IsQueryError(err)
}

// AsQueryError extracts the QueryError from err, or nil if there is none.
func AsQueryError(err error) *QueryError {
	return query.AsQueryError(err)
}

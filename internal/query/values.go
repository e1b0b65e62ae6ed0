package query

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nlstn/go-contactql/internal/metadata"
	"github.com/shopspring/decimal"
)

// isNumberString reports whether s looks like a phone number fragment: an
// optional leading + followed only by digits.
func isNumberString(s string) bool {
	digits := strings.TrimPrefix(s, "+")
	if digits == "" {
		return false
	}
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// parseDecimal parses a decimal query literal. Unparseable literals are a
// query error, never a silent non-match.
func parseDecimal(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, newQueryError(ErrorCodeInvalidValue, "'%s' is not a valid number", value)
	}
	return d, nil
}

// parseUUID validates and normalizes a UUID query literal.
func parseUUID(value string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", newQueryError(ErrorCodeInvalidValue, "'%s' is not a valid UUID", value)
	}
	return u.String(), nil
}

// dateLayouts are the layouts accepted for date literals, tried in order.
// The day-first set reads 01-02-2018 as February 1st, the month-first set as
// January 2nd. ISO dates are unambiguous and accepted everywhere.
var dayFirstLayouts = []string{
	"02-01-2006", "02/01/2006", "02.01.2006",
	"02-01-06", "02/01/06", "02.01.06",
	"2006-01-02",
}

var monthFirstLayouts = []string{
	"01-02-2006", "01/02/2006", "01.02.2006",
	"01-02-06", "01/02/06", "01.02.06",
	"2006-01-02",
}

// dateWindow resolves a date literal to a 24 hour window [start, end) in UTC,
// anchored at local midnight in the org's timezone. Date equality in queries
// means "falls within the day", not exact-instant equality.
func dateWindow(org metadata.Org, value string) (start, end time.Time, err error) {
	layouts := monthFirstLayouts
	if org.DayFirst() {
		layouts = dayFirstLayouts
	}

	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		parsed, perr := time.ParseInLocation(layout, value, org.Timezone())
		if perr == nil {
			start = parsed.UTC()
			return start, start.Add(24 * time.Hour), nil
		}
	}

	return time.Time{}, time.Time{}, newQueryError(ErrorCodeInvalidValue, "'%s' is not a valid date", value)
}

// parseStoredDatetime parses a datetime value as stored on a contact. Stored
// values are machine-written, so RFC3339 and plain ISO dates are the only
// accepted forms; a plain date is anchored at local midnight in the org's
// timezone.
func parseStoredDatetime(org metadata.Org, value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", value, org.Timezone()); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// lastPathSegment returns the leaf name of a hierarchical location value,
// e.g. "Rwanda > Kigali City > Nyarugenge" yields "Nyarugenge". Plain names
// pass through unchanged.
func lastPathSegment(value string) string {
	if idx := strings.LastIndex(value, ">"); idx >= 0 {
		return strings.TrimSpace(value[idx+1:])
	}
	return strings.TrimSpace(value)
}

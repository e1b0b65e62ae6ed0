package metadata

import (
	"strings"
	"time"
)

// Org supplies the per-organization context needed to interpret a contact
// query: the timezone and date convention that anchor date literals, the
// anonymity flag that restricts URN access, and the set of custom fields
// contacts can be searched by. Implementations are consumed read-only.
type Org interface {
	// Timezone returns the org's local timezone used to anchor date values.
	Timezone() *time.Location

	// DayFirst returns true if dates are written day-first (25/01/2018)
	// rather than month-first (01/25/2018).
	DayFirst() bool

	// IsAnon returns true if the org redacts contact URNs. Anonymous orgs
	// allow URN presence checks but never URN value comparisons.
	IsAnon() bool

	// LookupField returns the custom field with the given key, or nil if
	// the org has no such field. Keys are matched case-insensitively.
	LookupField(key string) *Field
}

// StaticOrg is an immutable Org backed by plain values. It is the standard
// implementation for callers that load org settings once per request.
type StaticOrg struct {
	tz       *time.Location
	dayFirst bool
	anon     bool
	fields   map[string]*Field
}

// NewStaticOrg creates a StaticOrg. A nil timezone defaults to UTC.
func NewStaticOrg(tz *time.Location, dayFirst, anon bool, fields ...*Field) *StaticOrg {
	if tz == nil {
		tz = time.UTC
	}
	byKey := make(map[string]*Field, len(fields))
	for _, f := range fields {
		byKey[strings.ToLower(f.Key)] = f
	}
	return &StaticOrg{tz: tz, dayFirst: dayFirst, anon: anon, fields: byKey}
}

// Timezone returns the org's local timezone.
func (o *StaticOrg) Timezone() *time.Location {
	return o.tz
}

// DayFirst returns true if the org writes dates day-first.
func (o *StaticOrg) DayFirst() bool {
	return o.dayFirst
}

// IsAnon returns true if the org redacts contact URNs.
func (o *StaticOrg) IsAnon() bool {
	return o.anon
}

// LookupField returns the custom field with the given key, or nil.
func (o *StaticOrg) LookupField(key string) *Field {
	return o.fields[strings.ToLower(key)]
}

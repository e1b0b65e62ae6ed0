package metadata

// Comparator legality is decided per property, not per broad type tag:
// reserved attributes and TEXT custom fields deliberately have different
// rules (name supports ~, language does not; TEXT fields are exact-match
// only). Presence checks against "" bypass this table entirely.

var attributeComparators = map[Attribute]map[string]bool{
	AttrName:      {"=": true, "!=": true, "~": true},
	AttrUUID:      {"=": true, "!=": true},
	AttrLanguage:  {"=": true, "!=": true},
	AttrID:        {"=": true},
	AttrCreatedOn: {"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true},
}

var urnComparators = map[string]bool{"=": true, "~": true}

var fieldComparators = map[FieldType]map[string]bool{
	FieldTypeText:     {"=": true, "!=": true},
	FieldTypeDecimal:  {"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true},
	FieldTypeDatetime: {"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true},
	FieldTypeState:    {"=": true, "!=": true, "~": true},
	FieldTypeDistrict: {"=": true, "!=": true, "~": true},
	FieldTypeWard:     {"=": true, "!=": true, "~": true},
}

// SupportsComparator reports whether the given comparator is legal for the
// resolved property.
func (r *Resolved) SupportsComparator(comparator string) bool {
	switch r.Kind {
	case KindAttribute:
		return attributeComparators[r.Attribute][comparator]
	case KindURN, KindScheme:
		return urnComparators[comparator]
	case KindField:
		return fieldComparators[r.Field.Type][comparator]
	}
	return false
}

// Describe returns a short human-readable description of the property for
// use in error messages, e.g. "a field of type text".
func (r *Resolved) Describe() string {
	switch r.Kind {
	case KindAttribute:
		return "the " + string(r.Attribute) + " attribute"
	case KindURN:
		return "a URN"
	case KindScheme:
		return "a URN of scheme " + r.Scheme
	case KindField:
		return "a field of type " + string(r.Field.Type)
	}
	return "an unknown property"
}

// Key returns the canonical query key of the resolved property.
func (r *Resolved) Key() string {
	switch r.Kind {
	case KindAttribute:
		return string(r.Attribute)
	case KindURN:
		return "urn"
	case KindScheme:
		return r.Scheme
	case KindField:
		return r.Field.Key
	}
	return ""
}

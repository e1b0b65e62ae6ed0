package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/nlstn/go-contactql/internal/metadata"
)

// URN is one addressable identity of a contact, e.g. scheme "tel" with path
// "+250788383383".
type URN struct {
	Scheme string `json:"scheme"`
	Path   string `json:"path"`
}

// ContactSnapshot is a contact's current state as a plain value bag, the
// form in which contacts arrive from event streams and webhook payloads.
// Evaluating a query against a snapshot touches no store at all, which is
// what makes dynamic group membership checks cheap.
type ContactSnapshot struct {
	ID        int64             `json:"id"`
	UUID      string            `json:"uuid"`
	Name      string            `json:"name"`
	Language  string            `json:"language"`
	CreatedOn time.Time         `json:"created_on"`
	URNs      []URN             `json:"urns"`
	Fields    map[string]string `json:"fields"`
}

// FieldValue returns the contact's raw value for a field key, or "" if none
// is set. Keys are matched case-insensitively.
func (c *ContactSnapshot) FieldValue(key string) string {
	if v, ok := c.Fields[key]; ok {
		return v
	}
	return c.Fields[strings.ToLower(key)]
}

// Evaluate walks a parsed query tree against a single contact snapshot and
// reports whether the contact matches. It applies the same comparator
// legality and type rules as Compile; for any query and contact the two must
// agree, since group membership uses this path while searches use the
// compiled one.
func Evaluate(org metadata.Org, node QueryNode, contact *ContactSnapshot) (bool, error) {
	switch n := node.(type) {
	case *BoolCombination:
		return evaluateBool(org, n, contact)
	case *SinglePropCombination:
		return evaluateSingleProp(org, n, contact)
	case *Condition:
		return evaluateCondition(org, n, contact)
	case *IsSetCondition:
		return evaluateIsSet(org, n, contact)
	}
	return false, newQueryError(ErrorCodeSyntax, "unknown query node type %T", node)
}

// evaluateBool evaluates an AND/OR combination with short-circuiting.
func evaluateBool(org metadata.Org, node *BoolCombination, contact *ContactSnapshot) (bool, error) {
	left, err := Evaluate(org, node.Left, contact)
	if err != nil {
		return false, err
	}

	if node.Op == BoolAnd && !left {
		return false, nil
	}
	if node.Op == BoolOr && left {
		return true, nil
	}

	return Evaluate(org, node.Right, contact)
}

// evaluateSingleProp evaluates a flattened same-property combination.
func evaluateSingleProp(org metadata.Org, node *SinglePropCombination, contact *ContactSnapshot) (bool, error) {
	for _, cond := range node.Conditions {
		matched, err := evaluateCondition(org, cond, contact)
		if err != nil {
			return false, err
		}
		if node.Op == BoolAnd && !matched {
			return false, nil
		}
		if node.Op == BoolOr && matched {
			return true, nil
		}
	}
	return node.Op == BoolAnd, nil
}

// evaluateCondition evaluates a single property/comparator/value clause
// against the snapshot.
func evaluateCondition(org metadata.Org, cond *Condition, contact *ContactSnapshot) (bool, error) {
	resolved, err := resolveProperty(org, cond.PropKey)
	if err != nil {
		return false, err
	}

	if resolved.IsURN() && org.IsAnon() {
		return false, newQueryError(ErrorCodeRedactedURNs,
			"cannot query on redacted URNs in an anonymous org")
	}

	if !resolved.SupportsComparator(string(cond.Comparator)) {
		return false, newQueryError(ErrorCodeUnsupportedComparator,
			"comparator '%s' is not supported for %s", cond.Comparator, resolved.Describe())
	}

	switch resolved.Kind {
	case metadata.KindAttribute:
		return evaluateAttribute(org, resolved.Attribute, cond, contact)
	case metadata.KindURN, metadata.KindScheme:
		return evaluateURN(resolved.Scheme, cond, contact), nil
	case metadata.KindField:
		return evaluateField(org, resolved.Field, cond, contact)
	}

	return false, newQueryError(ErrorCodeUnknownProperty, "unrecognized contact field: %s", cond.PropKey)
}

// evaluateAttribute evaluates a condition on a built-in attribute. A contact
// with no value for the attribute fails every positive comparison and
// satisfies every negative one.
func evaluateAttribute(org metadata.Org, attr metadata.Attribute, cond *Condition, contact *ContactSnapshot) (bool, error) {
	switch attr {
	case metadata.AttrName:
		return evaluateText(contact.Name, cond.Comparator, cond.Value), nil

	case metadata.AttrLanguage:
		return evaluateText(contact.Language, cond.Comparator, cond.Value), nil

	case metadata.AttrUUID:
		normalized, err := parseUUID(cond.Value)
		if err != nil {
			return false, err
		}
		return evaluateText(strings.ToLower(contact.UUID), cond.Comparator, normalized), nil

	case metadata.AttrID:
		id, err := strconv.ParseInt(cond.Value, 10, 64)
		if err != nil {
			return false, newQueryError(ErrorCodeInvalidValue, "'%s' is not a valid contact id", cond.Value)
		}
		return contact.ID == id, nil

	case metadata.AttrCreatedOn:
		return evaluateDatetime(org, contact.CreatedOn, !contact.CreatedOn.IsZero(), cond)
	}

	return false, newQueryError(ErrorCodeUnknownProperty, "unrecognized contact attribute: %s", attr)
}

// evaluateText applies a text comparator case-insensitively. An absent value
// satisfies != and fails = and ~.
func evaluateText(stored string, comparator Comparator, value string) bool {
	if stored == "" {
		return comparator == OpNotEqual
	}

	stored = strings.ToLower(stored)
	value = strings.ToLower(value)

	switch comparator {
	case OpEqual:
		return stored == value
	case OpNotEqual:
		return stored != value
	case OpContains:
		return strings.Contains(stored, value)
	}
	return false
}

// evaluateURN reports whether any of the contact's URNs satisfies the
// comparator, optionally constrained to one scheme.
func evaluateURN(scheme string, cond *Condition, contact *ContactSnapshot) bool {
	value := strings.ToLower(cond.Value)

	for _, urn := range contact.URNs {
		if scheme != "" && urn.Scheme != scheme {
			continue
		}
		path := strings.ToLower(urn.Path)

		switch cond.Comparator {
		case OpEqual:
			if path == value {
				return true
			}
		case OpContains:
			if strings.Contains(path, value) {
				return true
			}
		}
	}
	return false
}

// evaluateField evaluates a condition on a custom field value.
func evaluateField(org metadata.Org, field *metadata.Field, cond *Condition, contact *ContactSnapshot) (bool, error) {
	stored := contact.FieldValue(field.Key)

	switch field.Type {
	case metadata.FieldTypeText:
		return evaluateText(stored, cond.Comparator, cond.Value), nil

	case metadata.FieldTypeDecimal:
		value, err := parseDecimal(cond.Value)
		if err != nil {
			return false, err
		}
		if stored == "" {
			return cond.Comparator == OpNotEqual, nil
		}
		storedValue, serr := parseDecimal(stored)
		if serr != nil {
			// dirty stored data never matches, but still satisfies !=
			return cond.Comparator == OpNotEqual, nil
		}
		return compareOrdered(storedValue.Cmp(value), cond.Comparator), nil

	case metadata.FieldTypeDatetime:
		storedValue, ok := parseStoredDatetime(org, stored)
		return evaluateDatetime(org, storedValue, ok, cond)

	case metadata.FieldTypeState, metadata.FieldTypeDistrict, metadata.FieldTypeWard:
		return evaluateText(lastPathSegment(stored), cond.Comparator, lastPathSegment(cond.Value)), nil
	}

	return false, newQueryError(ErrorCodeUnsupportedComparator,
		"comparator '%s' is not supported for a field of type %s", cond.Comparator, field.Type)
}

// evaluateDatetime applies day-window semantics against a stored instant.
// hasValue is false for contacts with no value for the field; they fail
// every positive comparison and satisfy !=. The compiler's asymmetry for
// unparseable literals is reproduced exactly: `=` quietly matches nothing,
// every other comparator errors.
func evaluateDatetime(org metadata.Org, stored time.Time, hasValue bool, cond *Condition) (bool, error) {
	start, end, err := dateWindow(org, cond.Value)
	if err != nil {
		if cond.Comparator == OpEqual {
			return false, nil
		}
		return false, err
	}

	if !hasValue {
		return cond.Comparator == OpNotEqual, nil
	}

	switch cond.Comparator {
	case OpEqual:
		return !stored.Before(start) && stored.Before(end), nil
	case OpNotEqual:
		return stored.Before(start) || !stored.Before(end), nil
	case OpLessThan:
		return stored.Before(start), nil
	case OpLessOrEqual:
		return stored.Before(end), nil
	case OpGreaterThan:
		return !stored.Before(end), nil
	case OpGreaterOrEqual:
		return !stored.Before(start), nil
	}

	return false, newQueryError(ErrorCodeUnsupportedComparator,
		"comparator '%s' is not supported for dates", cond.Comparator)
}

// compareOrdered turns a three-way comparison result into the outcome of an
// ordering comparator.
func compareOrdered(cmp int, comparator Comparator) bool {
	switch comparator {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLessThan:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	}
	return false
}

// evaluateIsSet evaluates a presence check against the snapshot. Presence
// checks are legal on every property, including URNs in anonymous orgs.
func evaluateIsSet(org metadata.Org, cond *IsSetCondition, contact *ContactSnapshot) (bool, error) {
	resolved, err := resolveProperty(org, cond.PropKey)
	if err != nil {
		return false, err
	}

	wantSet := cond.Comparator == OpNotEqual

	switch resolved.Kind {
	case metadata.KindAttribute:
		switch resolved.Attribute {
		case metadata.AttrName:
			return (contact.Name != "") == wantSet, nil
		case metadata.AttrLanguage:
			return (contact.Language != "") == wantSet, nil
		default:
			// uuid, id and created_on are always set
			return wantSet, nil
		}

	case metadata.KindURN, metadata.KindScheme:
		hasAny := false
		for _, urn := range contact.URNs {
			if resolved.Scheme == "" || urn.Scheme == resolved.Scheme {
				hasAny = true
				break
			}
		}
		return hasAny == wantSet, nil

	case metadata.KindField:
		return (contact.FieldValue(resolved.Field.Key) != "") == wantSet, nil
	}

	return false, newQueryError(ErrorCodeUnknownProperty, "unrecognized contact field: %s", cond.PropKey)
}

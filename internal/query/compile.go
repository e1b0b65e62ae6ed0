package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nlstn/go-contactql/internal/metadata"
	"gorm.io/gorm"
)

// matchNothing is the predicate for conditions that can never be true, such
// as a date equality against an unparseable literal.
const matchNothing = "1 = 0"

// getDatabaseDialect returns the active database dialect name (e.g. "sqlite", "postgres").
func getDatabaseDialect(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	return db.Dialector.Name()
}

// Compile lowers a parsed query to a filtered GORM query over the contacts
// table. The returned query is a new chain; the input db is never mutated.
// Comparator legality and literal parsing are enforced here, so a tree that
// parsed cleanly can still fail to compile.
func Compile(org metadata.Org, node QueryNode, db *gorm.DB) (*gorm.DB, error) {
	dialect := getDatabaseDialect(db)

	sql, args, err := buildNodeCondition(dialect, org, node)
	if err != nil {
		return nil, err
	}

	return db.Where(sql, args...), nil
}

// buildNodeCondition recursively lowers a query node to a SQL fragment and
// its arguments.
func buildNodeCondition(dialect string, org metadata.Org, node QueryNode) (string, []interface{}, error) {
	switch n := node.(type) {
	case *BoolCombination:
		return buildBoolCondition(dialect, org, n)
	case *SinglePropCombination:
		return buildSinglePropCondition(dialect, org, n)
	case *Condition:
		return buildLeafCondition(dialect, org, n)
	case *IsSetCondition:
		return buildIsSetCondition(dialect, org, n)
	}
	return "", nil, newQueryError(ErrorCodeSyntax, "unknown query node type %T", node)
}

// buildBoolCondition lowers AND to intersection and OR to union of the two
// child predicates.
func buildBoolCondition(dialect string, org metadata.Org, node *BoolCombination) (string, []interface{}, error) {
	leftSQL, leftArgs, err := buildNodeCondition(dialect, org, node.Left)
	if err != nil {
		return "", nil, err
	}
	rightSQL, rightArgs, err := buildNodeCondition(dialect, org, node.Right)
	if err != nil {
		return "", nil, err
	}

	operator := "AND"
	if node.Op == BoolOr {
		operator = "OR"
	}

	sql := fmt.Sprintf("(%s) %s (%s)", leftSQL, operator, rightSQL)
	return sql, append(leftArgs, rightArgs...), nil
}

// buildSinglePropCondition lowers a flattened same-property combination. All
// conditions share one resolved property, so the property is resolved once.
func buildSinglePropCondition(dialect string, org metadata.Org, node *SinglePropCombination) (string, []interface{}, error) {
	operator := "AND"
	if node.Op == BoolOr {
		operator = "OR"
	}

	parts := make([]string, 0, len(node.Conditions))
	var args []interface{}

	for _, cond := range node.Conditions {
		sql, condArgs, err := buildLeafCondition(dialect, org, cond)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		args = append(args, condArgs...)
	}

	return strings.Join(parts, " "+operator+" "), args, nil
}

// buildLeafCondition lowers a single property/comparator/value clause.
func buildLeafCondition(dialect string, org metadata.Org, cond *Condition) (string, []interface{}, error) {
	resolved, err := resolveProperty(org, cond.PropKey)
	if err != nil {
		return "", nil, err
	}

	if resolved.IsURN() && org.IsAnon() {
		return "", nil, newQueryError(ErrorCodeRedactedURNs,
			"cannot query on redacted URNs in an anonymous org")
	}

	if !resolved.SupportsComparator(string(cond.Comparator)) {
		return "", nil, newQueryError(ErrorCodeUnsupportedComparator,
			"comparator '%s' is not supported for %s", cond.Comparator, resolved.Describe())
	}

	switch resolved.Kind {
	case metadata.KindAttribute:
		return buildAttributeCondition(dialect, org, resolved.Attribute, cond)
	case metadata.KindURN, metadata.KindScheme:
		return buildURNCondition(dialect, resolved.Scheme, cond)
	case metadata.KindField:
		return buildFieldCondition(dialect, org, resolved.Field, cond)
	}

	return "", nil, newQueryError(ErrorCodeUnknownProperty, "unrecognized contact field: %s", cond.PropKey)
}

// buildAttributeCondition lowers a condition on a built-in contact attribute.
func buildAttributeCondition(dialect string, org metadata.Org, attr metadata.Attribute, cond *Condition) (string, []interface{}, error) {
	switch attr {
	case metadata.AttrName:
		switch cond.Comparator {
		case OpEqual:
			return `LOWER("contacts"."name") = LOWER(?)`, []interface{}{cond.Value}, nil
		case OpNotEqual:
			return `("contacts"."name" IS NULL OR LOWER("contacts"."name") != LOWER(?))`, []interface{}{cond.Value}, nil
		case OpContains:
			sql, arg := containsClause(dialect, `"contacts"."name"`, cond.Value)
			return sql, []interface{}{arg}, nil
		}

	case metadata.AttrLanguage:
		switch cond.Comparator {
		case OpEqual:
			return `LOWER("contacts"."language") = LOWER(?)`, []interface{}{cond.Value}, nil
		case OpNotEqual:
			return `("contacts"."language" IS NULL OR "contacts"."language" = '' OR LOWER("contacts"."language") != LOWER(?))`,
				[]interface{}{cond.Value}, nil
		}

	case metadata.AttrUUID:
		normalized, err := parseUUID(cond.Value)
		if err != nil {
			return "", nil, err
		}
		switch cond.Comparator {
		case OpEqual:
			return `LOWER("contacts"."uuid") = ?`, []interface{}{normalized}, nil
		case OpNotEqual:
			return `LOWER("contacts"."uuid") != ?`, []interface{}{normalized}, nil
		}

	case metadata.AttrID:
		id, err := strconv.ParseInt(cond.Value, 10, 64)
		if err != nil {
			return "", nil, newQueryError(ErrorCodeInvalidValue, "'%s' is not a valid contact id", cond.Value)
		}
		return `"contacts"."id" = ?`, []interface{}{id}, nil

	case metadata.AttrCreatedOn:
		return buildDatetimeCondition(org, `"contacts"."created_on"`, cond)
	}

	return "", nil, newQueryError(ErrorCodeUnsupportedComparator,
		"comparator '%s' is not supported for the %s attribute", cond.Comparator, attr)
}

// buildDatetimeCondition lowers a datetime comparison using day-window
// semantics: equality means "falls within the literal's day", `<=` runs to
// the end of the day and `>` starts after it.
//
// An unparseable literal under `=` lowers to a predicate matching nothing;
// every other comparator requires a valid date. The asymmetry is deliberate
// and matched by the evaluator.
func buildDatetimeCondition(org metadata.Org, column string, cond *Condition) (string, []interface{}, error) {
	start, end, err := dateWindow(org, cond.Value)
	if err != nil {
		if cond.Comparator == OpEqual {
			return matchNothing, nil, nil
		}
		return "", nil, err
	}

	switch cond.Comparator {
	case OpEqual:
		return fmt.Sprintf("(%s >= ? AND %s < ?)", column, column), []interface{}{start, end}, nil
	case OpNotEqual:
		return fmt.Sprintf("(%s IS NULL OR %s < ? OR %s >= ?)", column, column, column), []interface{}{start, end}, nil
	case OpLessThan:
		return fmt.Sprintf("%s < ?", column), []interface{}{start}, nil
	case OpLessOrEqual:
		return fmt.Sprintf("%s < ?", column), []interface{}{end}, nil
	case OpGreaterThan:
		return fmt.Sprintf("%s >= ?", column), []interface{}{end}, nil
	case OpGreaterOrEqual:
		return fmt.Sprintf("%s >= ?", column), []interface{}{start}, nil
	}

	return "", nil, newQueryError(ErrorCodeUnsupportedComparator,
		"comparator '%s' is not supported for dates", cond.Comparator)
}

// buildURNCondition lowers a URN comparison to an EXISTS subquery over the
// contact's URNs, optionally constrained to one scheme. An empty scheme
// matches any URN.
func buildURNCondition(dialect string, scheme string, cond *Condition) (string, []interface{}, error) {
	var pathSQL string
	var pathArg interface{}

	switch cond.Comparator {
	case OpEqual:
		pathSQL = `LOWER("contact_urns"."path") = LOWER(?)`
		pathArg = cond.Value
	case OpContains:
		pathSQL, pathArg = containsClause(dialect, `"contact_urns"."path"`, cond.Value)
	default:
		return "", nil, newQueryError(ErrorCodeUnsupportedComparator,
			"comparator '%s' is not supported for URNs", cond.Comparator)
	}

	if scheme != "" {
		sql := fmt.Sprintf(`EXISTS (SELECT 1 FROM "contact_urns" WHERE "contact_urns"."contact_id" = "contacts"."id" AND "contact_urns"."scheme" = ? AND %s)`, pathSQL)
		return sql, []interface{}{scheme, pathArg}, nil
	}

	sql := fmt.Sprintf(`EXISTS (SELECT 1 FROM "contact_urns" WHERE "contact_urns"."contact_id" = "contacts"."id" AND %s)`, pathSQL)
	return sql, []interface{}{pathArg}, nil
}

// buildFieldCondition lowers a custom field comparison to an EXISTS subquery
// over the contact's field values. Negative comparators lower to NOT EXISTS
// of the positive form so that contacts without any value match, mirroring
// the evaluator's treatment of absent values.
func buildFieldCondition(dialect string, org metadata.Org, field *metadata.Field, cond *Condition) (string, []interface{}, error) {
	switch field.Type {
	case metadata.FieldTypeText:
		positive := `LOWER("field_values"."text_value") = LOWER(?)`
		if cond.Comparator == OpNotEqual {
			return notExistsFieldValue(field.Key, positive, cond.Value)
		}
		return existsFieldValue(field.Key, positive, cond.Value)

	case metadata.FieldTypeDecimal:
		value, err := parseDecimal(cond.Value)
		if err != nil {
			return "", nil, err
		}
		if cond.Comparator == OpNotEqual {
			return notExistsFieldValue(field.Key, `"field_values"."decimal_value" = ?`, value)
		}
		operator := sqlComparator(cond.Comparator)
		return existsFieldValue(field.Key, fmt.Sprintf(`"field_values"."decimal_value" %s ?`, operator), value)

	case metadata.FieldTypeDatetime:
		return buildDatetimeFieldCondition(org, field, cond)

	case metadata.FieldTypeState, metadata.FieldTypeDistrict, metadata.FieldTypeWard:
		column := locationColumn(field.Type)
		name := lastPathSegment(cond.Value)
		switch cond.Comparator {
		case OpEqual:
			return existsFieldValue(field.Key, fmt.Sprintf(`LOWER(%s) = LOWER(?)`, column), name)
		case OpNotEqual:
			return notExistsFieldValue(field.Key, fmt.Sprintf(`LOWER(%s) = LOWER(?)`, column), name)
		case OpContains:
			sql, arg := containsClause(dialect, column, name)
			return existsFieldValue(field.Key, sql, arg)
		}
	}

	return "", nil, newQueryError(ErrorCodeUnsupportedComparator,
		"comparator '%s' is not supported for a field of type %s", cond.Comparator, field.Type)
}

// buildDatetimeFieldCondition applies the day-window rules of
// buildDatetimeCondition to a datetime custom field, lowered through the
// field_values subquery. The NOT EXISTS form keeps valueless contacts
// matching `!=`.
func buildDatetimeFieldCondition(org metadata.Org, field *metadata.Field, cond *Condition) (string, []interface{}, error) {
	start, end, err := dateWindow(org, cond.Value)
	if err != nil {
		if cond.Comparator == OpEqual {
			return matchNothing, nil, nil
		}
		return "", nil, err
	}

	column := `"field_values"."datetime_value"`

	switch cond.Comparator {
	case OpEqual:
		return existsFieldValue(field.Key, fmt.Sprintf("(%s >= ? AND %s < ?)", column, column), start, end)
	case OpNotEqual:
		return notExistsFieldValue(field.Key, fmt.Sprintf("(%s >= ? AND %s < ?)", column, column), start, end)
	case OpLessThan:
		return existsFieldValue(field.Key, fmt.Sprintf("%s < ?", column), start)
	case OpLessOrEqual:
		return existsFieldValue(field.Key, fmt.Sprintf("%s < ?", column), end)
	case OpGreaterThan:
		return existsFieldValue(field.Key, fmt.Sprintf("%s >= ?", column), end)
	case OpGreaterOrEqual:
		return existsFieldValue(field.Key, fmt.Sprintf("%s >= ?", column), start)
	}

	return "", nil, newQueryError(ErrorCodeUnsupportedComparator,
		"comparator '%s' is not supported for dates", cond.Comparator)
}

// buildIsSetCondition lowers a presence check. OpEqual asks for "has no
// value", OpNotEqual for "has a value".
func buildIsSetCondition(dialect string, org metadata.Org, cond *IsSetCondition) (string, []interface{}, error) {
	resolved, err := resolveProperty(org, cond.PropKey)
	if err != nil {
		return "", nil, err
	}

	wantSet := cond.Comparator == OpNotEqual

	switch resolved.Kind {
	case metadata.KindAttribute:
		return buildAttributeIsSet(resolved.Attribute, wantSet)

	case metadata.KindURN, metadata.KindScheme:
		var sql string
		var args []interface{}
		if resolved.Scheme != "" {
			sql = `EXISTS (SELECT 1 FROM "contact_urns" WHERE "contact_urns"."contact_id" = "contacts"."id" AND "contact_urns"."scheme" = ?)`
			args = []interface{}{resolved.Scheme}
		} else {
			sql = `EXISTS (SELECT 1 FROM "contact_urns" WHERE "contact_urns"."contact_id" = "contacts"."id")`
		}
		if !wantSet {
			sql = "NOT " + sql
		}
		return sql, args, nil

	case metadata.KindField:
		// text_value is never NULL, so presence there means non-empty
		predicate := fieldValueColumn(resolved.Field.Type) + " IS NOT NULL"
		if resolved.Field.Type == metadata.FieldTypeText {
			predicate = `"field_values"."text_value" != ''`
		}
		sql := fmt.Sprintf(`EXISTS (SELECT 1 FROM "field_values" WHERE "field_values"."contact_id" = "contacts"."id" AND "field_values"."field_key" = ? AND %s)`, predicate)
		if !wantSet {
			sql = "NOT " + sql
		}
		return sql, []interface{}{resolved.Field.Key}, nil
	}

	return "", nil, newQueryError(ErrorCodeUnknownProperty, "unrecognized contact field: %s", cond.PropKey)
}

// buildAttributeIsSet lowers a presence check on a built-in attribute.
// Contacts always have a uuid, an id and a creation date, so those checks
// reduce to constants.
func buildAttributeIsSet(attr metadata.Attribute, wantSet bool) (string, []interface{}, error) {
	switch attr {
	case metadata.AttrName:
		if wantSet {
			return `("contacts"."name" IS NOT NULL AND "contacts"."name" != '')`, nil, nil
		}
		return `("contacts"."name" IS NULL OR "contacts"."name" = '')`, nil, nil

	case metadata.AttrLanguage:
		if wantSet {
			return `("contacts"."language" IS NOT NULL AND "contacts"."language" != '')`, nil, nil
		}
		return `("contacts"."language" IS NULL OR "contacts"."language" = '')`, nil, nil

	case metadata.AttrUUID, metadata.AttrID, metadata.AttrCreatedOn:
		if wantSet {
			return "1 = 1", nil, nil
		}
		return matchNothing, nil, nil
	}

	return "", nil, newQueryError(ErrorCodeUnknownProperty, "unrecognized contact attribute: %s", attr)
}

// existsFieldValue wraps a value predicate in an EXISTS subquery over the
// contact's field values for one field key.
func existsFieldValue(fieldKey, predicate string, args ...interface{}) (string, []interface{}, error) {
	sql := fmt.Sprintf(`EXISTS (SELECT 1 FROM "field_values" WHERE "field_values"."contact_id" = "contacts"."id" AND "field_values"."field_key" = ? AND %s)`, predicate)
	return sql, append([]interface{}{fieldKey}, args...), nil
}

// notExistsFieldValue is the negated form; contacts with no value for the
// field match.
func notExistsFieldValue(fieldKey, predicate string, args ...interface{}) (string, []interface{}, error) {
	sql := fmt.Sprintf(`NOT EXISTS (SELECT 1 FROM "field_values" WHERE "field_values"."contact_id" = "contacts"."id" AND "field_values"."field_key" = ? AND %s)`, predicate)
	return sql, append([]interface{}{fieldKey}, args...), nil
}

// containsClause builds a case-insensitive substring predicate for the
// dialect: ILIKE on postgres, LOWER + LIKE elsewhere.
func containsClause(dialect string, column string, value interface{}) (string, interface{}) {
	pattern := "%" + strings.ToLower(fmt.Sprint(value)) + "%"
	if dialect == "postgres" {
		return fmt.Sprintf("%s ILIKE ?", column), pattern
	}
	return fmt.Sprintf("LOWER(%s) LIKE ?", column), pattern
}

// sqlComparator maps a query comparator to its SQL spelling.
func sqlComparator(comparator Comparator) string {
	if comparator == OpEqual {
		return "="
	}
	return string(comparator)
}

// fieldValueColumn returns the field_values column that stores values of the
// given type.
func fieldValueColumn(ft metadata.FieldType) string {
	switch ft {
	case metadata.FieldTypeDecimal:
		return `"field_values"."decimal_value"`
	case metadata.FieldTypeDatetime:
		return `"field_values"."datetime_value"`
	case metadata.FieldTypeState, metadata.FieldTypeDistrict, metadata.FieldTypeWard:
		return locationColumn(ft)
	}
	return `"field_values"."text_value"`
}

// locationColumn returns the field_values column for a location hierarchy level.
func locationColumn(ft metadata.FieldType) string {
	switch ft {
	case metadata.FieldTypeState:
		return `"field_values"."state_value"`
	case metadata.FieldTypeDistrict:
		return `"field_values"."district_value"`
	}
	return `"field_values"."ward_value"`
}

// resolveProperty resolves a property key, converting resolution failures to
// query errors.
func resolveProperty(org metadata.Org, key string) (*metadata.Resolved, error) {
	resolved, err := metadata.Resolve(org, key)
	if err != nil {
		return nil, newQueryError(ErrorCodeUnknownProperty, "unrecognized contact field: %s", key)
	}
	return resolved, nil
}

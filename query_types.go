package contactql

import (
	"github.com/nlstn/go-contactql/internal/metadata"
	"github.com/nlstn/go-contactql/internal/query"
)

// ParsedQuery is a parsed and simplified contact query, ready to be compiled
// against a contact store or evaluated against a contact snapshot. Parsed
// queries are immutable and safe to share across goroutines.
type ParsedQuery = query.ParsedQuery

// QueryNode re-exports the expression tree node interface for external consumers.
type QueryNode = query.QueryNode

// Condition re-exports the leaf comparison node type.
type Condition = query.Condition

// IsSetCondition re-exports the presence check node type.
type IsSetCondition = query.IsSetCondition

// BoolCombination re-exports the binary AND/OR node type.
type BoolCombination = query.BoolCombination

// SinglePropCombination re-exports the flattened same-property node type.
type SinglePropCombination = query.SinglePropCombination

// BoolOperator joins the two sides of a boolean combination.
type BoolOperator = query.BoolOperator

// Comparator relates a property to a literal value in a condition.
type Comparator = query.Comparator

// Boolean operators.
const (
	BoolAnd = query.BoolAnd
	BoolOr  = query.BoolOr
)

// Comparators.
const (
	OpEqual          = query.OpEqual
	OpNotEqual       = query.OpNotEqual
	OpContains       = query.OpContains
	OpLessThan       = query.OpLessThan
	OpLessOrEqual    = query.OpLessOrEqual
	OpGreaterThan    = query.OpGreaterThan
	OpGreaterOrEqual = query.OpGreaterOrEqual
)

// ContactSnapshot re-exports the in-memory contact form the evaluator consumes.
type ContactSnapshot = query.ContactSnapshot

// URN re-exports one addressable identity of a contact snapshot.
type URN = query.URN

// Org supplies the per-organization context needed to interpret a query:
// timezone, date convention, anonymity and custom fields.
type Org = metadata.Org

// StaticOrg is an immutable Org backed by plain values.
type StaticOrg = metadata.StaticOrg

// NewStaticOrg creates a StaticOrg. A nil timezone defaults to UTC.
var NewStaticOrg = metadata.NewStaticOrg

// Field describes a custom contact field defined by an org.
type Field = metadata.Field

// FieldType identifies the declared value kind of a custom contact field.
type FieldType = metadata.FieldType

// Custom field value types.
const (
	FieldTypeText     = metadata.FieldTypeText
	FieldTypeDecimal  = metadata.FieldTypeDecimal
	FieldTypeDatetime = metadata.FieldTypeDatetime
	FieldTypeState    = metadata.FieldTypeState
	FieldTypeDistrict = metadata.FieldTypeDistrict
	FieldTypeWard     = metadata.FieldTypeWard
)

package query

import (
	"reflect"
	"sort"
	"strings"
)

// BoolOperator joins the two sides of a boolean combination
type BoolOperator string

const (
	BoolAnd BoolOperator = "and"
	BoolOr  BoolOperator = "or"
)

// Comparator relates a property to a literal value in a condition
type Comparator string

const (
	OpEqual          Comparator = "="
	OpNotEqual       Comparator = "!="
	OpContains       Comparator = "~"
	OpLessThan       Comparator = "<"
	OpLessOrEqual    Comparator = "<="
	OpGreaterThan    Comparator = ">"
	OpGreaterOrEqual Comparator = ">="
)

// QueryNode represents a node in the parsed query tree. Trees are built once
// per query string and reused immutably by both the compiler and the
// evaluator; they hold no org or backend state.
type QueryNode interface {
	// QueryText renders the node in canonical query syntax.
	QueryText() string

	queryNode()
}

// Condition compares a single contact property against a literal value.
// The comparator is not validated against the property's type here; legality
// is enforced when the tree is compiled or evaluated.
type Condition struct {
	PropKey    string
	Comparator Comparator
	Value      string
}

func (c *Condition) queryNode() {}

// QueryText renders the condition in canonical query syntax.
func (c *Condition) QueryText() string {
	return c.PropKey + " " + string(c.Comparator) + " " + quoteValue(c.Value)
}

// IsSetCondition tests whether a contact property has any value at all.
// The comparator is OpEqual for "has no value" and OpNotEqual for "has a
// value", mirroring the query forms `field = ""` and `field != ""`. Presence
// checks bypass per-type comparator restrictions and are legal on every
// property, including URNs in anonymous orgs.
type IsSetCondition struct {
	PropKey    string
	Comparator Comparator
}

func (c *IsSetCondition) queryNode() {}

// QueryText renders the presence check in canonical query syntax.
func (c *IsSetCondition) QueryText() string {
	return c.PropKey + " " + string(c.Comparator) + ` ""`
}

// BoolCombination combines two child nodes under AND or OR. Chains of the
// same operator parse into left-leaning binary trees.
type BoolCombination struct {
	Op    BoolOperator
	Left  QueryNode
	Right QueryNode
}

func (b *BoolCombination) queryNode() {}

// QueryText renders the combination in canonical query syntax, parenthesizing
// any child that is itself a combination.
func (b *BoolCombination) QueryText() string {
	return childText(b.Left) + " " + strings.ToUpper(string(b.Op)) + " " + childText(b.Right)
}

// SinglePropCombination is a flattened n-ary combination of conditions that
// all target the same property under the same operator. It exists to produce
// cleaner canonical text and to let backends collapse the conditions into a
// single query; evaluation semantics are identical to the equivalent
// BoolCombination tree.
type SinglePropCombination struct {
	PropKey    string
	Op         BoolOperator
	Conditions []*Condition
}

func (s *SinglePropCombination) queryNode() {}

// QueryText renders the conditions joined by the shared operator.
func (s *SinglePropCombination) QueryText() string {
	texts := make([]string, len(s.Conditions))
	for i, c := range s.Conditions {
		texts[i] = c.QueryText()
	}
	return strings.Join(texts, " "+strings.ToUpper(string(s.Op))+" ")
}

// childText renders a child node, wrapping combinations in parentheses so the
// rendered text re-parses to the same structure.
func childText(node QueryNode) string {
	switch node.(type) {
	case *BoolCombination, *SinglePropCombination:
		return "(" + node.QueryText() + ")"
	}
	return node.QueryText()
}

// quoteValue renders a literal value as a double-quoted string, escaping any
// embedded quotes.
func quoteValue(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

// Properties returns the distinct property keys referenced anywhere in the
// tree, sorted alphabetically. Dynamic groups use this to record which fields
// their queries depend on.
func Properties(node QueryNode) []string {
	seen := make(map[string]bool)
	collectProperties(node, seen)

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func collectProperties(node QueryNode, seen map[string]bool) {
	switch n := node.(type) {
	case *Condition:
		seen[n.PropKey] = true
	case *IsSetCondition:
		seen[n.PropKey] = true
	case *SinglePropCombination:
		seen[n.PropKey] = true
	case *BoolCombination:
		collectProperties(n.Left, seen)
		collectProperties(n.Right, seen)
	}
}

// Equal reports whether two query trees are structurally identical.
func Equal(a, b QueryNode) bool {
	return reflect.DeepEqual(a, b)
}

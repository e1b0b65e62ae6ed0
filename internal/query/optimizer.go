package query

// Simplify rewrites a query tree into its optimized form, merging boolean
// combinations whose two sides compare the identical property under the
// identical operator into flat SinglePropCombinations. The rewrite is
// bottom-up, idempotent and preserves left-to-right condition order.
//
// Parenthesized sub-trees arrive as separate child nodes, so content inside
// parens only merges with content outside when property and operator match
// across the boundary: `(will or felix) and matt` keeps its inner OR node,
// `(will and felix) and matt` collapses to one combination.
func Simplify(node QueryNode) QueryNode {
	b, ok := node.(*BoolCombination)
	if !ok {
		return node
	}

	left := Simplify(b.Left)
	right := Simplify(b.Right)

	if merged := mergeSameProperty(b.Op, left, right); merged != nil {
		return merged
	}
	return &BoolCombination{Op: b.Op, Left: left, Right: right}
}

// mergeSameProperty merges two nodes into one SinglePropCombination when both
// compare the same property and can take part in a combination under op.
// Returns nil when they cannot merge.
func mergeSameProperty(op BoolOperator, left, right QueryNode) *SinglePropCombination {
	leftProp, leftConds := propConditions(op, left)
	if leftConds == nil {
		return nil
	}
	rightProp, rightConds := propConditions(op, right)
	if rightConds == nil || leftProp != rightProp {
		return nil
	}

	conditions := make([]*Condition, 0, len(leftConds)+len(rightConds))
	conditions = append(conditions, leftConds...)
	conditions = append(conditions, rightConds...)
	return &SinglePropCombination{PropKey: leftProp, Op: op, Conditions: conditions}
}

// propConditions extracts the property and condition list of a node eligible
// for merging under op: a lone Condition, or a SinglePropCombination that
// already uses op. Anything else, including presence checks, returns nil.
func propConditions(op BoolOperator, node QueryNode) (string, []*Condition) {
	switch n := node.(type) {
	case *Condition:
		return n.PropKey, []*Condition{n}
	case *SinglePropCombination:
		if n.Op == op {
			return n.PropKey, n.Conditions
		}
	}
	return "", nil
}

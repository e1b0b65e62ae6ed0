package query

import (
	"strings"

	"github.com/nlstn/go-contactql/internal/metadata"
)

// Parser parses contact query tokens into a query tree. A parser is built
// per call and carries no shared state; the org is an explicit parameter
// because bare terms materialize differently for anonymous orgs.
type Parser struct {
	org     metadata.Org
	tokens  []*Token
	current int
}

// NewParser creates a new parser over the given tokens
func NewParser(org metadata.Org, tokens []*Token) *Parser {
	return &Parser{
		org:     org,
		tokens:  tokens,
		current: 0,
	}
}

// currentToken returns the current token
func (p *Parser) currentToken() *Token {
	if p.current >= len(p.tokens) {
		return &Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

// advance moves to the next token
func (p *Parser) advance() *Token {
	token := p.currentToken()
	if p.current < len(p.tokens) {
		p.current++
	}
	return token
}

// syntaxError builds the user-facing error for an unexpected token. The
// offending token text is included verbatim so callers can point at it.
func (p *Parser) syntaxError() error {
	token := p.currentToken()
	if token.Type == TokenEOF {
		return newQueryError(ErrorCodeSyntax, "invalid query syntax at end of input")
	}
	return newQueryError(ErrorCodeSyntax, "invalid query syntax at '%s'", token.Value)
}

// Parse parses the tokens into a query tree
func (p *Parser) Parse() (QueryNode, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	// Verify all tokens were consumed (except EOF)
	if p.currentToken().Type != TokenEOF {
		return nil, p.syntaxError()
	}

	return node, nil
}

// parseOr handles OR combinations (lowest precedence)
func (p *Parser) parseOr() (QueryNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenBoolOp && p.currentToken().Value == "or" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BoolCombination{Op: BoolOr, Left: left, Right: right}
	}

	return left, nil
}

// parseAnd handles AND combinations, both explicit and implicit. Two
// adjacent units with no operator between them combine under AND, so
// `will felix` parses the same as `will and felix`.
func (p *Parser) parseAnd() (QueryNode, error) {
	left, err := p.parseUnit()
	if err != nil {
		return nil, err
	}

	for {
		token := p.currentToken()
		if token.Type == TokenBoolOp && token.Value == "and" {
			p.advance()
		} else if !startsUnit(token) {
			break
		}

		right, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		left = &BoolCombination{Op: BoolAnd, Left: left, Right: right}
	}

	return left, nil
}

// startsUnit reports whether token can begin a query unit
func startsUnit(token *Token) bool {
	switch token.Type {
	case TokenLParen, TokenText, TokenString:
		return true
	}
	return false
}

// parseUnit handles a parenthesized group, an explicit condition, or a bare
// term that becomes an implicit condition.
func (p *Parser) parseUnit() (QueryNode, error) {
	token := p.currentToken()

	switch token.Type {
	case TokenLParen:
		p.advance()
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.currentToken().Type != TokenRParen {
			return nil, p.syntaxError()
		}
		p.advance()
		return node, nil

	case TokenText, TokenString:
		term := p.advance()

		// only bare text can be the property of an explicit condition
		if term.Type == TokenText && p.currentToken().Type == TokenComparator {
			comparator := p.advance()
			value := p.currentToken()
			if value.Type != TokenText && value.Type != TokenString {
				return nil, p.syntaxError()
			}
			p.advance()
			return newCondition(term.Value, Comparator(comparator.Value), value)
		}

		return p.newImplicitCondition(term), nil
	}

	return nil, p.syntaxError()
}

// newCondition builds the node for an explicit `property comparator value`
// clause. An empty string value is a presence check and gets its own node
// type since it bypasses per-type comparator rules.
func newCondition(prop string, comparator Comparator, value *Token) (QueryNode, error) {
	key := strings.ToLower(prop)

	if value.Type == TokenString && value.Value == "" {
		if comparator != OpEqual && comparator != OpNotEqual {
			return nil, newQueryError(ErrorCodeInvalidValue,
				"can only check whether '%s' is set with = or !=", key)
		}
		return &IsSetCondition{PropKey: key, Comparator: comparator}, nil
	}

	return &Condition{PropKey: key, Comparator: comparator, Value: value.Value}, nil
}

// newImplicitCondition turns a bare term into the search its author almost
// certainly meant: words search the name, digit strings search the tel URN.
// Anonymous orgs have no searchable URNs, so digit strings search the
// contact id instead.
func (p *Parser) newImplicitCondition(term *Token) QueryNode {
	if term.Type == TokenText && isNumberString(term.Value) {
		value := strings.TrimPrefix(term.Value, "+")
		if p.org.IsAnon() {
			return &Condition{PropKey: "id", Comparator: OpEqual, Value: value}
		}
		return &Condition{PropKey: "tel", Comparator: OpContains, Value: value}
	}
	return &Condition{PropKey: "name", Comparator: OpContains, Value: term.Value}
}

// ParsedQuery is a parsed and simplified contact query, ready to be compiled
// against a contact store or evaluated against a contact snapshot.
type ParsedQuery struct {
	Root QueryNode
}

// String returns the canonical text of the query. Parsing the canonical text
// again yields a structurally equal tree.
func (q *ParsedQuery) String() string {
	return q.Root.QueryText()
}

// Properties returns the distinct property keys the query references.
func (q *ParsedQuery) Properties() []string {
	return Properties(q.Root)
}

// Parse tokenizes and parses a contact query, returning the simplified tree.
// Property names and comparators are not validated against the org's fields
// here; that happens when the query is compiled or evaluated.
func Parse(org metadata.Org, text string) (*ParsedQuery, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newQueryError(ErrorCodeSyntax, "query is empty")
	}

	tokens, err := Tokenize(text)
	if err != nil {
		return nil, wrapQueryError(ErrorCodeLexical, err, "tokenization failed")
	}

	parser := NewParser(org, tokens)
	root, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	return &ParsedQuery{Root: Simplify(root)}, nil
}

package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenString
	TokenComparator
	TokenBoolOp
	TokenLParen
	TokenRParen
)

// String returns the token type name used in error messages and the shell.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenText:
		return "TEXT"
	case TokenString:
		return "STRING"
	case TokenComparator:
		return "COMPARATOR"
	case TokenBoolOp:
		return "BOOLOP"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	}
	return "UNKNOWN"
}

// Token represents a single token in a contact query
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Tokenizer tokenizes contact query expressions
type Tokenizer struct {
	input string
	pos   int
	ch    rune
	width int
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(input string) *Tokenizer {
	t := &Tokenizer{
		input: input,
		pos:   0,
	}
	if len(input) > 0 {
		t.ch, t.width = utf8.DecodeRuneInString(input)
	}
	return t
}

// advance moves to the next character
func (t *Tokenizer) advance() {
	t.pos += t.width
	if t.pos >= len(t.input) {
		t.ch = 0 // EOF
		t.width = 0
	} else {
		t.ch, t.width = utf8.DecodeRuneInString(t.input[t.pos:])
	}
}

// peek looks ahead without advancing
func (t *Tokenizer) peek() rune {
	if t.pos+t.width >= len(t.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(t.input[t.pos+t.width:])
	return ch
}

// skipWhitespace skips whitespace characters
func (t *Tokenizer) skipWhitespace() {
	for t.ch == ' ' || t.ch == '\t' || t.ch == '\n' || t.ch == '\r' {
		t.advance()
	}
}

// isTextRune reports whether ch can appear in a bare TEXT token. Besides
// word characters this includes the runes found in URN paths, decimals and
// dates so that values like +250788383383 or 01-02-2018 stay single tokens.
func isTextRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) ||
		ch == '_' || ch == '.' || ch == '+' || ch == '-' || ch == '/'
}

// readString reads a double-quoted string, unescaping backslash-quote pairs.
// The closing quote is required.
func (t *Tokenizer) readString() (string, error) {
	quote := t.ch
	start := t.pos
	t.advance() // skip opening quote

	var result strings.Builder
	for t.ch != 0 && t.ch != quote {
		if t.ch == '\\' && t.peek() == quote {
			t.advance()
			result.WriteRune(t.ch)
		} else {
			result.WriteRune(t.ch)
		}
		t.advance()
	}

	if t.ch != quote {
		return "", fmt.Errorf("unterminated string at position %d", start)
	}
	t.advance() // skip closing quote

	return result.String(), nil
}

// readText reads a maximal run of text characters
func (t *Tokenizer) readText() string {
	var result strings.Builder

	for t.ch != 0 && isTextRune(t.ch) {
		result.WriteRune(t.ch)
		t.advance()
	}

	return result.String()
}

// NextToken returns the next token
func (t *Tokenizer) NextToken() (*Token, error) {
	t.skipWhitespace()

	if t.ch == 0 {
		return &Token{Type: TokenEOF, Pos: t.pos}, nil
	}

	pos := t.pos

	if t.ch == '"' {
		value, err := t.readString()
		if err != nil {
			return nil, err
		}
		return &Token{Type: TokenString, Value: value, Pos: pos}, nil
	}

	if token := t.tokenizeParen(pos); token != nil {
		return token, nil
	}

	if token := t.tokenizeComparator(pos); token != nil {
		return token, nil
	}

	if token := t.tokenizeTextOrKeyword(pos); token != nil {
		return token, nil
	}

	return nil, fmt.Errorf("unexpected character '%c' at position %d", t.ch, t.pos)
}

// tokenizeParen tokenizes parentheses
func (t *Tokenizer) tokenizeParen(pos int) *Token {
	switch t.ch {
	case '(':
		t.advance()
		return &Token{Type: TokenLParen, Value: "(", Pos: pos}
	case ')':
		t.advance()
		return &Token{Type: TokenRParen, Value: ")", Pos: pos}
	}
	return nil
}

// tokenizeComparator tokenizes comparison operators, longest match first.
// "~~" is a legacy spelling of "~" and is normalized here.
func (t *Tokenizer) tokenizeComparator(pos int) *Token {
	switch t.ch {
	case '<', '>':
		op := string(t.ch)
		if t.peek() == '=' {
			t.advance()
			op += "="
		}
		t.advance()
		return &Token{Type: TokenComparator, Value: op, Pos: pos}
	case '!':
		if t.peek() == '=' {
			t.advance()
			t.advance()
			return &Token{Type: TokenComparator, Value: "!=", Pos: pos}
		}
		return nil
	case '~':
		if t.peek() == '~' {
			t.advance()
		}
		t.advance()
		return &Token{Type: TokenComparator, Value: "~", Pos: pos}
	case '=':
		t.advance()
		return &Token{Type: TokenComparator, Value: "=", Pos: pos}
	}
	return nil
}

// tokenizeTextOrKeyword tokenizes bare text and the reserved words
func (t *Tokenizer) tokenizeTextOrKeyword(pos int) *Token {
	if !isTextRune(t.ch) {
		return nil
	}

	value := t.readText()
	lower := strings.ToLower(value)

	if token := t.classifyKeyword(lower, pos); token != nil {
		return token
	}

	// Operand text keeps its original case; comparisons fold case later
	return &Token{Type: TokenText, Value: value, Pos: pos}
}

// classifyKeyword classifies a reserved word and returns the appropriate token
func (t *Tokenizer) classifyKeyword(lower string, pos int) *Token {
	switch lower {
	case "and":
		return &Token{Type: TokenBoolOp, Value: "and", Pos: pos}
	case "or":
		return &Token{Type: TokenBoolOp, Value: "or", Pos: pos}
	case "is":
		return &Token{Type: TokenComparator, Value: "=", Pos: pos}
	case "has":
		return &Token{Type: TokenComparator, Value: "~", Pos: pos}
	}
	return nil
}

// TokenizeAll returns all tokens from the input
func (t *Tokenizer) TokenizeAll() ([]*Token, error) {
	var tokens []*Token

	for {
		token, err := t.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}

// Tokenize tokenizes a complete query string
func Tokenize(input string) ([]*Token, error) {
	return NewTokenizer(input).TokenizeAll()
}

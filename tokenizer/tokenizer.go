// Package tokenizer splits structured query text into position-tracked
// tokens for the parser. The grammar is small: parentheses, brackets and
// braces, comma, colon, equals, bare identifiers, signed numbers, and
// single-quoted strings with backslash escapes.
package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses the Go 1.23 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// QueryTokenizer is a tokenizer that returns an iterator
type QueryTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
}

// NewQueryTokenizer creates a new QueryTokenizer
func NewQueryTokenizer(input string, options ...TokenizerOptions) *QueryTokenizer {
	var opts TokenizerOptions
	if len(options) > 0 {
		opts = options[0]
	}

	return &QueryTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens
func (t *QueryTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		scanner := &tokenizer{
			input:  t.input,
			line:   1,
			column: 1,
		}

		scanner.readChar()

		for {
			token, err := scanner.nextToken()
			if err != nil {
				if !yield(Token{}, err) {
					return
				}
				continue
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice
func (t *QueryTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 32)

	var lastError error

	for token, err := range t.Tokens() {
		if err != nil {
			lastError = err
			continue
		}

		tokens = append(tokens, token)

		if token.Type == EOF {
			break
		}
	}

	return tokens, lastError
}

// Tokenize is shorthand for tokenizing with whitespace skipped, the form
// the parser consumes.
func Tokenize(input string) ([]Token, error) {
	return NewQueryTokenizer(input, TokenizerOptions{SkipWhitespace: true}).AllTokens()
}

// Unquote reverses the wire escaping of a STRING lexeme: the surrounding
// single quotes are removed and a backslash makes the following character
// literal.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '\'' || raw[len(raw)-1] != '\'' {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuoting, raw)
	}

	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder

	escaped := false
	for _, r := range body {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		return "", fmt.Errorf("%w: trailing backslash in %q", ErrInvalidQuoting, raw)
	}

	return b.String(), nil
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int
	line     int
	column   int
	current  rune
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	switch t.current {
	case 0:
		return t.newToken(EOF, ""), nil
	case ' ', '\t', '\r', '\n':
		return t.readWhitespace(), nil
	case '(':
		return t.readSingle(OPENED_PARENS), nil
	case ')':
		return t.readSingle(CLOSED_PARENS), nil
	case '[':
		return t.readSingle(OPENED_BRACKET), nil
	case ']':
		return t.readSingle(CLOSED_BRACKET), nil
	case '{':
		return t.readSingle(OPENED_BRACE), nil
	case '}':
		return t.readSingle(CLOSED_BRACE), nil
	case ',':
		return t.readSingle(COMMA), nil
	case ':':
		return t.readSingle(COLON), nil
	case '=':
		return t.readSingle(EQUALS), nil
	case '\'':
		return t.readString()
	case '-':
		if unicode.IsDigit(t.peekChar()) {
			return t.readNumber()
		}
		return t.failChar()
	default:
		if unicode.IsLetter(t.current) || t.current == '_' {
			return t.readIdentifier(), nil
		}
		if unicode.IsDigit(t.current) {
			return t.readNumber()
		}
		return t.failChar()
	}
}

func (t *tokenizer) failChar() (Token, error) {
	err := fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedCharacter, t.current, t.line, t.column-1)
	t.readChar()
	return Token{}, err
}

// readChar reads the next character
func (t *tokenizer) readChar() {
	if t.position >= len(t.input) {
		t.current = 0
		t.position++
		return
	}

	r, width := utf8.DecodeRuneInString(t.input[t.position:])
	t.current = r
	t.position += width

	if t.current == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	if t.position >= len(t.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.input[t.position:])

	return r
}

func (t *tokenizer) startPosition() Position {
	return Position{
		Line:   t.line,
		Column: t.column - 1,
		Offset: t.position - utf8.RuneLen(t.current),
	}
}

func (t *tokenizer) newToken(tokenType TokenType, value string) Token {
	return Token{
		Type:     tokenType,
		Value:    value,
		Position: t.startPosition(),
	}
}

func (t *tokenizer) readSingle(tokenType TokenType) Token {
	token := t.newToken(tokenType, string(t.current))
	t.readChar()

	return token
}

// readWhitespace reads a whitespace run
func (t *tokenizer) readWhitespace() Token {
	var builder strings.Builder

	pos := t.startPosition()

	for unicode.IsSpace(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: WHITESPACE, Value: builder.String(), Position: pos}
}

// readIdentifier reads a bare word: operator tags, option and field names,
// and unquoted option values
func (t *tokenizer) readIdentifier() Token {
	var builder strings.Builder

	pos := t.startPosition()

	for unicode.IsLetter(t.current) || unicode.IsDigit(t.current) || t.current == '_' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: IDENTIFIER, Value: builder.String(), Position: pos}
}

// readString reads a single-quoted literal, keeping the raw lexeme
// including the quotes
func (t *tokenizer) readString() (Token, error) {
	var builder strings.Builder

	pos := t.startPosition()

	builder.WriteRune(t.current) // opening quote
	t.readChar()

	for t.current != 0 && t.current != '\'' {
		if t.current == '\\' {
			builder.WriteRune(t.current)
			t.readChar()

			if t.current == 0 {
				break
			}
		}

		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == 0 {
		return Token{}, fmt.Errorf("%w at line %d, column %d", ErrUnterminatedString, pos.Line, pos.Column)
	}

	builder.WriteRune(t.current) // closing quote
	t.readChar()

	return Token{Type: STRING, Value: builder.String(), Position: pos}, nil
}

// readNumber reads a numeric literal with optional sign, fraction, and
// exponent
func (t *tokenizer) readNumber() (Token, error) {
	var builder strings.Builder

	pos := t.startPosition()

	if t.current == '-' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	for unicode.IsDigit(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == '.' && unicode.IsDigit(t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()

		for unicode.IsDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	if t.current == 'e' || t.current == 'E' {
		builder.WriteRune(t.current)
		t.readChar()

		if t.current == '+' || t.current == '-' {
			builder.WriteRune(t.current)
			t.readChar()
		}

		if !unicode.IsDigit(t.current) {
			return Token{}, fmt.Errorf("%w: missing exponent at line %d, column %d", ErrInvalidNumber, pos.Line, pos.Column)
		}

		for unicode.IsDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	return Token{Type: NUMBER, Value: builder.String(), Position: pos}, nil
}

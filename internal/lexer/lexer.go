// Package lexer provides tokenization for deadstore source code.
//
// The lexer converts a source string into a flat sequence of tokens,
// each annotated with the 1-based line and column it starts on. It handles:
// - Keywords (if, else, end, while)
// - Single-letter variables
// - Integer and decimal literals
// - Operators, assignment and parentheses
//
// A leading minus is never folded into a number here; the parser decides
// whether a '-' is part of a negative literal.
package lexer

import "fmt"

// ----------------------------------------------------------------------------
// Token Types
// ----------------------------------------------------------------------------

// TokenKind represents the type of a token.
type TokenKind uint8

const (
	TokError TokenKind = iota
	TokEOF

	// Literals
	TokNumber

	// Identifiers
	TokIdent

	// Keywords
	TokIf
	TokElse
	TokEnd
	TokWhile

	// Operators
	TokPlus  // +
	TokMinus // -
	TokStar  // *
	TokSlash // /
	TokLt    // <
	TokGt    // >

	// Delimiters
	TokAssign // =
	TokLParen // (
	TokRParen // )
)

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "unknown"
}

var tokenNames = [...]string{
	TokError:  "error",
	TokEOF:    "EOF",
	TokNumber: "number",
	TokIdent:  "variable",
	TokIf:     "if",
	TokElse:   "else",
	TokEnd:    "end",
	TokWhile:  "while",
	TokPlus:   "+",
	TokMinus:  "-",
	TokStar:   "*",
	TokSlash:  "/",
	TokLt:     "<",
	TokGt:     ">",
	TokAssign: "=",
	TokLParen: "(",
	TokRParen: ")",
}

// ----------------------------------------------------------------------------
// Token
// ----------------------------------------------------------------------------

// Token represents a lexical token.
type Token struct {
	Kind   TokenKind
	Value  string // Source text for variables, numbers and keywords; message for TokError
	Line   int    // 1-based
	Column int    // 1-based
}

// IsKeyword reports whether the token is one of the four keywords.
func (t Token) IsKeyword() bool {
	return t.Kind >= TokIf && t.Kind <= TokWhile
}

// IsOperator reports whether the token is a binary operator.
func (t Token) IsOperator() bool {
	return t.Kind >= TokPlus && t.Kind <= TokGt
}

func (t Token) String() string {
	switch t.Kind {
	case TokNumber, TokIdent:
		return t.Value
	default:
		return t.Kind.String()
	}
}

// ----------------------------------------------------------------------------
// Keywords
// ----------------------------------------------------------------------------

// Keywords maps keyword strings to their token kinds.
var Keywords = map[string]TokenKind{
	"if":    TokIf,
	"else":  TokElse,
	"end":   TokEnd,
	"while": TokWhile,
}

// LexErrorKind classifies lexical errors.
type LexErrorKind uint8

const (
	LexUnrecognizedChar LexErrorKind = iota
	LexMalformedNumber
	LexLongIdentifier
)

// LexError reports source text that cannot be tokenized.
type LexError struct {
	Kind    LexErrorKind
	Message string
	Line    int
	Column  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// ----------------------------------------------------------------------------
// Lexer
// ----------------------------------------------------------------------------

// Lexer tokenizes deadstore source code.
type Lexer struct {
	source    string
	pos       int
	start     int
	line      int
	lineStart int
	tokens    []Token
	errKind   LexErrorKind // Kind of the last TokError returned by Next
}

// New creates a new lexer for the given source.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		tokens: make([]Token, 0, len(source)/2), // Estimate
	}
}

// Tokenize returns all tokens in the source, without the trailing EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok := l.Next()
		switch tok.Kind {
		case TokEOF:
			return l.tokens, nil
		case TokError:
			return nil, &LexError{Kind: l.errKind, Message: tok.Value, Line: tok.Line, Column: tok.Column}
		}
		l.tokens = append(l.tokens, tok)
	}
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	l.start = l.pos
	if l.pos >= len(l.source) {
		return l.makeToken(TokEOF, "")
	}

	ch := l.source[l.pos]

	if isLower(ch) {
		return l.scanWord()
	}

	if isDigit(ch) {
		return l.scanNumber()
	}

	return l.scanOperator()
}

// ----------------------------------------------------------------------------
// Scanning Helpers
// ----------------------------------------------------------------------------

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case ' ', '\t':
			l.pos++
		case '\n':
			l.pos++
			l.line++
			l.lineStart = l.pos
		case '\r':
			l.pos++
			if l.pos < len(l.source) && l.source[l.pos] == '\n' {
				l.pos++
			}
			l.line++
			l.lineStart = l.pos
		default:
			return
		}
	}
}

func (l *Lexer) makeToken(kind TokenKind, value string) Token {
	return Token{
		Kind:   kind,
		Value:  value,
		Line:   l.line,
		Column: l.start - l.lineStart + 1,
	}
}

func (l *Lexer) errorToken(kind LexErrorKind, msg string) Token {
	l.errKind = kind
	return l.makeToken(TokError, msg)
}

// scanWord reads a run of lowercase letters. A run is either a keyword
// or a single-letter variable; anything longer is rejected.
func (l *Lexer) scanWord() Token {
	for l.pos < len(l.source) && isLower(l.source[l.pos]) {
		l.pos++
	}
	word := l.source[l.start:l.pos]

	if kind, ok := Keywords[word]; ok {
		return l.makeToken(kind, word)
	}
	if len(word) != 1 {
		return l.errorToken(LexLongIdentifier, fmt.Sprintf("identifiers must be a single character, got %q", word))
	}
	return l.makeToken(TokIdent, word)
}

func (l *Lexer) scanNumber() Token {
	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.pos++
	}

	if l.pos < len(l.source) && l.source[l.pos] == '.' {
		l.pos++
		if l.pos >= len(l.source) || !isDigit(l.source[l.pos]) {
			return l.errorToken(LexMalformedNumber, fmt.Sprintf("malformed number %q", l.source[l.start:l.pos]))
		}
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.pos++
		}
		if l.pos < len(l.source) && l.source[l.pos] == '.' {
			return l.errorToken(LexMalformedNumber, fmt.Sprintf("malformed number %q", l.source[l.start:l.pos+1]))
		}
	}

	return l.makeToken(TokNumber, l.source[l.start:l.pos])
}

func (l *Lexer) scanOperator() Token {
	ch := l.source[l.pos]
	l.pos++

	switch ch {
	case '+':
		return l.makeToken(TokPlus, "+")
	case '-':
		return l.makeToken(TokMinus, "-")
	case '*':
		return l.makeToken(TokStar, "*")
	case '/':
		return l.makeToken(TokSlash, "/")
	case '<':
		return l.makeToken(TokLt, "<")
	case '>':
		return l.makeToken(TokGt, ">")
	case '=':
		return l.makeToken(TokAssign, "=")
	case '(':
		return l.makeToken(TokLParen, "(")
	case ')':
		return l.makeToken(TokRParen, ")")
	}

	return l.errorToken(LexUnrecognizedChar, fmt.Sprintf("unrecognized character %q", ch))
}

func isLower(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

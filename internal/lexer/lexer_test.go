package lexer

import (
	"errors"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test Helpers
// ----------------------------------------------------------------------------

func expectToken(t *testing.T, input string, expected TokenKind) {
	t.Helper()
	l := New(input)
	tok := l.Next()
	if tok.Kind != expected {
		t.Errorf("input %q: expected %v, got %v", input, expected, tok.Kind)
	}
}

func expectTokenValue(t *testing.T, input string, expectedKind TokenKind, expectedValue string) {
	t.Helper()
	l := New(input)
	tok := l.Next()
	if tok.Kind != expectedKind {
		t.Errorf("input %q: expected kind %v, got %v", input, expectedKind, tok.Kind)
	}
	if tok.Value != expectedValue {
		t.Errorf("input %q: expected value %q, got %q", input, expectedValue, tok.Value)
	}
}

func expectTokens(t *testing.T, input string, expected []TokenKind) {
	t.Helper()
	tokens, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("input %q: unexpected error: %v", input, err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("input %q: expected %d tokens, got %d (%v)", input, len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("input %q token %d: expected %v, got %v", input, i, exp, tokens[i].Kind)
		}
	}
}

func expectError(t *testing.T, input string, substring string) {
	t.Helper()
	_, err := New(input).Tokenize()
	if err == nil {
		t.Fatalf("input %q: expected error, got none", input)
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("input %q: expected *LexError, got %T", input, err)
	}
	if !strings.Contains(lexErr.Message, substring) {
		t.Errorf("input %q: expected error containing %q, got %q", input, substring, lexErr.Message)
	}
}

// ----------------------------------------------------------------------------
// Keyword Tests
// ----------------------------------------------------------------------------

func TestKeywords(t *testing.T) {
	cases := []struct {
		input string
		kind  TokenKind
	}{
		{"if", TokIf},
		{"else", TokElse},
		{"end", TokEnd},
		{"while", TokWhile},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			expectTokenValue(t, tc.input, tc.kind, tc.input)
		})
	}
}

func TestKeywordPrefixIsNotAKeyword(t *testing.T) {
	expectError(t, "ends", "single character")
	expectError(t, "iff", "single character")
	expectError(t, "whiles", "single character")
}

// ----------------------------------------------------------------------------
// Identifier Tests
// ----------------------------------------------------------------------------

func TestIdentifiers(t *testing.T) {
	for ch := 'a'; ch <= 'z'; ch++ {
		expectTokenValue(t, string(ch), TokIdent, string(ch))
	}
}

func TestMultiCharacterIdentifier(t *testing.T) {
	expectError(t, "ab = 1", "single character")
	expectError(t, "x = abc", `"abc"`)
}

func TestUppercaseIsRejected(t *testing.T) {
	expectError(t, "X = 1", "unrecognized character")
}

// ----------------------------------------------------------------------------
// Number Tests
// ----------------------------------------------------------------------------

func TestNumbers(t *testing.T) {
	expectTokenValue(t, "0", TokNumber, "0")
	expectTokenValue(t, "25", TokNumber, "25")
	expectTokenValue(t, "2351", TokNumber, "2351")
	expectTokenValue(t, "25.178", TokNumber, "25.178")
	expectTokenValue(t, "5.2145", TokNumber, "5.2145")
}

func TestMalformedNumbers(t *testing.T) {
	expectError(t, "1.", "malformed number")
	expectError(t, "1.x", "malformed number")
	expectError(t, "1.2.3", "malformed number")
}

func TestNegativeNumberIsTwoTokens(t *testing.T) {
	expectTokens(t, "-2351", []TokenKind{TokMinus, TokNumber})
}

// ----------------------------------------------------------------------------
// Operator Tests
// ----------------------------------------------------------------------------

func TestOperators(t *testing.T) {
	cases := []struct {
		input string
		kind  TokenKind
	}{
		{"+", TokPlus},
		{"-", TokMinus},
		{"*", TokStar},
		{"/", TokSlash},
		{"<", TokLt},
		{">", TokGt},
		{"=", TokAssign},
		{"(", TokLParen},
		{")", TokRParen},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			expectToken(t, tc.input, tc.kind)
		})
	}
}

func TestUnrecognizedCharacter(t *testing.T) {
	expectError(t, "x = 1 % 2", "unrecognized character")
	expectError(t, "x = 1;", "unrecognized character")
}

// ----------------------------------------------------------------------------
// Sequence Tests
// ----------------------------------------------------------------------------

func TestAssignmentSequence(t *testing.T) {
	expectTokens(t, "x = y * (2 - z)", []TokenKind{
		TokIdent, TokAssign, TokIdent, TokStar, TokLParen, TokNumber, TokMinus, TokIdent, TokRParen,
	})
}

func TestNoWhitespaceNeeded(t *testing.T) {
	expectTokens(t, "x=y+1", []TokenKind{TokIdent, TokAssign, TokIdent, TokPlus, TokNumber})
}

func TestControlFlowSequence(t *testing.T) {
	input := `if a < 3
  x = y
else
  y = x
end`
	expectTokens(t, input, []TokenKind{
		TokIf, TokIdent, TokLt, TokNumber,
		TokIdent, TokAssign, TokIdent,
		TokElse,
		TokIdent, TokAssign, TokIdent,
		TokEnd,
	})
}

func TestEmptySource(t *testing.T) {
	tokens, err := New("  \n\t\n").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokens)
	}
}

// ----------------------------------------------------------------------------
// Position Tests
// ----------------------------------------------------------------------------

func TestLineAndColumn(t *testing.T) {
	tokens, err := New("a = 1\n  b = a\r\nwhile b < 5\nend").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		index  int
		line   int
		column int
	}{
		{0, 1, 1},  // a
		{2, 1, 5},  // 1
		{3, 2, 3},  // b
		{5, 2, 7},  // a
		{6, 3, 1},  // while
		{7, 3, 7},  // b
		{9, 3, 11}, // 5
		{10, 4, 1}, // end
	}

	for _, tc := range cases {
		tok := tokens[tc.index]
		if tok.Line != tc.line || tok.Column != tc.column {
			t.Errorf("token %d (%v): expected %d:%d, got %d:%d",
				tc.index, tok, tc.line, tc.column, tok.Line, tok.Column)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := New("a = 1\nb = 2 # 3").Tokenize()
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %v", err)
	}
	if lexErr.Line != 2 || lexErr.Column != 7 {
		t.Errorf("expected error at 2:7, got %d:%d", lexErr.Line, lexErr.Column)
	}
	if lexErr.Error() != `2:7: unrecognized character '#'` {
		t.Errorf("unexpected error text: %s", lexErr.Error())
	}
}

func TestTokenHelpers(t *testing.T) {
	tokens, err := New("while x + 1").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tokens[0].IsKeyword() || tokens[0].IsOperator() {
		t.Errorf("while should be a keyword only")
	}
	if tokens[1].IsKeyword() || tokens[1].IsOperator() {
		t.Errorf("x should be neither keyword nor operator")
	}
	if !tokens[2].IsOperator() {
		t.Errorf("+ should be an operator")
	}
	if tokens[1].String() != "x" || tokens[2].String() != "+" || tokens[3].String() != "1" {
		t.Errorf("unexpected token strings: %v", tokens)
	}
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		input string
		kind  LexErrorKind
	}{
		{"x = 1 % 2", LexUnrecognizedChar},
		{"x = 1.", LexMalformedNumber},
		{"xy = 1", LexLongIdentifier},
	}

	for _, tc := range cases {
		_, err := New(tc.input).Tokenize()
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Fatalf("input %q: expected *LexError, got %v", tc.input, err)
		}
		if lexErr.Kind != tc.kind {
			t.Errorf("input %q: expected kind %d, got %d", tc.input, tc.kind, lexErr.Kind)
		}
	}
}

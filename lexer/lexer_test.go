package lexer

import (
	"testing"

	"github.com/skx/mathvm/token"
)

func TestParseNumbers(t *testing.T) {
	input := `3 43.5 .25 100`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.NUMBER, "3"},
		{token.NUMBER, "43.5"},
		{token.NUMBER, ".25"},
		{token.NUMBER, "100"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestParseOperatorsAndGrouping(t *testing.T) {
	input := `+ - * / ^ ( ) ,`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.ASTERISK, "*"},
		{token.SLASH, "/"},
		{token.POWER, "^"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.COMMA, ","},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestParseIdentifiers(t *testing.T) {
	input := `sin cos_2 _foo x1`

	tests := []string{"sin", "cos_2", "_foo", "x1"}

	l := New(input)
	for i, want := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Type != token.IDENT {
			t.Fatalf("tests[%d] - expected IDENT, got %q", i, tok.Type)
		}
		if tok.Literal != want {
			t.Fatalf("tests[%d] - literal wrong, expected=%q, got=%q", i, want, tok.Literal)
		}
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	l := New("3 @ 4")

	if _, err := l.NextToken(); err != nil {
		t.Fatalf("unexpected error on first token: %s", err)
	}
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected an error for '@', got none")
	}
}

func TestInvalidNumberSecondDot(t *testing.T) {
	l := New("1.2.3")

	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected an invalid-number error, got none")
	}
}

func TestWhitespaceInsensitive(t *testing.T) {
	l := New("  1\t+\n2  ")

	want := []token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}
	for i, wantType := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Type != wantType {
			t.Fatalf("tests[%d] - type wrong, expected=%q, got=%q", i, wantType, tok.Type)
		}
	}
}

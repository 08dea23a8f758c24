package lexer

import (
	"testing"

	"github.com/matexlang/matex/internal/token"
)

func collect(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return toks
		}
	}
}

func TestTokenSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Type
	}{
		{
			"arithmetic",
			"1 + 2.5 * x",
			[]token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.ASTERISK, token.IDENT, token.EOF},
		},
		{
			"two-char operators",
			"a == b ~= c <= d >= e && f || g",
			[]token.Type{
				token.IDENT, token.EQ, token.IDENT, token.NOT_EQ, token.IDENT, token.LE,
				token.IDENT, token.GE, token.IDENT, token.AMPAMP, token.IDENT, token.PIPEPIPE,
				token.IDENT, token.EOF,
			},
		},
		{
			"element-wise operators",
			"a .* b ./ c .^ d",
			[]token.Type{
				token.IDENT, token.DOT_ASTERISK, token.IDENT, token.DOT_SLASH,
				token.IDENT, token.DOT_CARET, token.IDENT, token.EOF,
			},
		},
		{
			"compound assignment",
			"x += 1; y ^= 2",
			[]token.Type{
				token.IDENT, token.PLUS_ASSIGN, token.NUMBER, token.SEMICOLON,
				token.IDENT, token.CARET_ASSIGN, token.NUMBER, token.EOF,
			},
		},
		{
			"brackets and ranges",
			"A(1:end, :)",
			[]token.Type{
				token.IDENT, token.LPAREN, token.NUMBER, token.COLON, token.END,
				token.COMMA, token.COLON, token.RPAREN, token.EOF,
			},
		},
		{
			"comment to end of line",
			"x % the rest is ignored\ny",
			[]token.Type{token.IDENT, token.NEWLINE, token.IDENT, token.EOF},
		},
		{
			"line continuation",
			"1 + ...\n2",
			[]token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.EOF},
		},
		{
			"backslash",
			"a \\ b",
			[]token.Type{token.IDENT, token.BACKSLASH, token.IDENT, token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := collect(tt.input)
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.want), toks)
			}
			for i, tok := range toks {
				if tok.Type != tt.want[i] {
					t.Errorf("token %d = %s (%q), want %s", i, tok.Type, tok.Literal, tt.want[i])
				}
			}
		})
	}
}

// A quote after a value-like token is the transpose operator; anywhere else
// it opens a string.
func TestQuoteDisambiguation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Type
	}{
		{"after identifier", "A'", []token.Type{token.IDENT, token.TRANSPOSE, token.EOF}},
		{"after rparen", "(A)'", []token.Type{token.LPAREN, token.IDENT, token.RPAREN, token.TRANSPOSE, token.EOF}},
		{"after rbracket", "[1]'", []token.Type{token.LBRACKET, token.NUMBER, token.RBRACKET, token.TRANSPOSE, token.EOF}},
		{"after number", "2'", []token.Type{token.NUMBER, token.TRANSPOSE, token.EOF}},
		{"statement start", "'abc'", []token.Type{token.STRING, token.EOF}},
		{"after operator", "x + 'a'", []token.Type{token.IDENT, token.PLUS, token.STRING, token.EOF}},
		{"after comma", "f(x, 'a')", []token.Type{token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.STRING, token.RPAREN, token.EOF}},
		{"dot transpose", "A.'", []token.Type{token.IDENT, token.DOT_TRANSPOSE, token.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := collect(tt.input)
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.want), toks)
			}
			for i, tok := range toks {
				if tok.Type != tt.want[i] {
					t.Errorf("token %d = %s (%q), want %s", i, tok.Type, tok.Literal, tt.want[i])
				}
			}
		})
	}
}

func TestStringLiterals(t *testing.T) {
	toks := collect("'it''s'")
	if toks[0].Type != token.STRING || toks[0].Literal != "it's" {
		t.Errorf("escaped quote: %s %q", toks[0].Type, toks[0].Literal)
	}

	toks = collect("'open")
	last := toks[len(toks)-1]
	if last.Type != token.ILLEGAL {
		t.Errorf("unterminated string: %s", last.Type)
	}

	toks = collect("'a\nb'")
	if toks[0].Type != token.ILLEGAL {
		t.Errorf("newline in string: %s", toks[0].Type)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		lit   string
	}{
		{"42", "42"},
		{"2.5", "2.5"},
		{".5", ".5"},
		{"1e3", "1e3"},
		{"1.5e-2", "1.5e-2"},
		{"2i", "2i"},
		{"3j", "3j"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := collect(tt.input)
			if toks[0].Type != token.NUMBER || toks[0].Literal != tt.lit {
				t.Errorf("got %s %q, want NUMBER %q", toks[0].Type, toks[0].Literal, tt.lit)
			}
		})
	}
}

func TestSpaceBefore(t *testing.T) {
	toks := collect("[1 -2]")
	// [, 1, -, 2, ]
	if !toks[2].SpaceBefore {
		t.Error("minus should carry SpaceBefore")
	}
	if toks[3].SpaceBefore {
		t.Error("2 should not carry SpaceBefore")
	}

	toks = collect("[1 - 2]")
	if !toks[2].SpaceBefore || !toks[3].SpaceBefore {
		t.Error("spaced minus should carry SpaceBefore on both sides")
	}
}

func TestPositions(t *testing.T) {
	toks := collect("x\ny")
	if toks[0].Line != 1 {
		t.Errorf("x on line %d", toks[0].Line)
	}
	if toks[2].Line != 2 {
		t.Errorf("y on line %d", toks[2].Line)
	}
}

package unparser

import (
	"strings"
	"testing"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/config"
	"github.com/matexlang/matex/internal/number"
	"github.com/matexlang/matex/internal/parser"
)

func parseOne(t *testing.T, src string) ast.Node {
	t.Helper()
	prog, errs := parser.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("Parse(%q): %v", src, errs[0])
	}
	return prog.Items[0]
}

func TestTextRoundTrip(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1+2*3", "1 + 2 * 3"},
		{"(a+b)/c", "(a + b) / c"},
		{"x'", "x'"},
		{"f(x, 1:3)", "f(x, 1:3)"},
		{"A(end, :)", "A(end, :)"},
		{"[1 2;3 4]", "[1, 2; 3, 4]"},
		{"x = -y", "x = -y"},
		{"x -= 1", "x -= 1"},
		{"disp('it''s')", "disp('it''s')"},
		{"~p | q", "~p | q"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := Text(parseOne(t, tt.src)); got != tt.want {
				t.Errorf("Text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextValueNodes(t *testing.T) {
	n := &ast.NumberLiteral{Value: number.MustParse("2.5")}
	if got := Text(n); got != "2.5" {
		t.Errorf("number = %q", got)
	}
	ch := &ast.NumberLiteral{Value: number.FromRune('a')}
	if got := Text(ch); got != "'a'" {
		t.Errorf("char = %q", got)
	}
	s := &ast.StringLiteral{Value: "it's"}
	if got := Text(s); got != "'it''s'" {
		t.Errorf("string = %q", got)
	}
}

func TestTextNeverPanics(t *testing.T) {
	if got := Text(nil); got != config.RenderPlaceholder {
		t.Errorf("Text(nil) = %q, want placeholder", got)
	}
}

func TestTextStatementList(t *testing.T) {
	prog, errs := parser.Parse("x = 1; y = 2")
	if len(errs) > 0 {
		t.Fatal(errs[0])
	}
	if got := Text(prog); got != "x = 1;\ny = 2" {
		t.Errorf("list = %q", got)
	}
}

func TestMathMLWrapping(t *testing.T) {
	got := MathML(parseOne(t, "x"), Block)
	if !strings.HasPrefix(got, `<math xmlns="http://www.w3.org/1998/Math/MathML" display="block">`) {
		t.Errorf("block wrapper missing: %s", got)
	}
	if !strings.HasSuffix(got, "</math>") {
		t.Errorf("closing tag missing: %s", got)
	}
	if got := MathML(parseOne(t, "x"), Inline); !strings.Contains(got, `display="inline"`) {
		t.Errorf("inline mode: %s", got)
	}
}

func TestMathMLStructures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"fraction", "a/b", []string{"<mfrac>", "<mi>a</mi>", "<mi>b</mi>"}},
		{"power", "x^2", []string{"<msup>", "<mi>x</mi>"}},
		{"square root", "sqrt(x)", []string{"<msqrt>", "</msqrt>"}},
		{"absolute value", "abs(x)", []string{"<mo>|</mo>"}},
		{"exponential", "exp(x)", []string{"<msup><mi>e</mi>"}},
		{"factorial", "factorial(n)", []string{"<mo>!</mo>"}},
		{"conjugate bar", "conj(z)", []string{"<mover>"}},
		{"pi glyph", "2*pi", []string{"&#x3C0;", "&#x22C5;"}},
		{"comparison glyph", "a ~= b", []string{"&#x2260;"}},
		{"transpose prime", "A'", []string{"&#x2032;"}},
		{"matrix table", "[1 2; 3 4]", []string{"<mtable>", "<mtr>", "<mtd>"}},
		{"generic call", "f(x, y)", []string{"<mo>&#x2061;</mo>", "<mo>,</mo>"}},
		{"escaped operator", "a < b", []string{"<mo>&lt;</mo>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MathML(parseOne(t, tt.src), Inline)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("MathML(%q) missing %q:\n%s", tt.src, want, got)
				}
			}
		})
	}
}

func TestMathMLNeverPanics(t *testing.T) {
	got := MathML(nil, Block)
	if !strings.Contains(got, "<merror>") {
		t.Errorf("MathML(nil) = %q, want merror", got)
	}
	if !strings.HasPrefix(got, "<math ") || !strings.HasSuffix(got, "</math>") {
		t.Errorf("merror not wrapped: %q", got)
	}
}

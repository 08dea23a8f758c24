package parser

import (
	"strings"
	"testing"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/unparser"
)

func parseOne(t *testing.T, src string) ast.Node {
	t.Helper()
	prog, errs := Parse(src)
	if len(errs) > 0 {
		t.Fatalf("Parse(%q): %v", src, errs[0])
	}
	if len(prog.Items) != 1 {
		t.Fatalf("Parse(%q): %d statements, want 1", src, len(prog.Items))
	}
	return prog.Items[0]
}

// Canonical-form tests: parse and render back. The renderer puts one space
// around infix operators and emits parentheses only for explicit groupings,
// so the output exposes the tree shape.
func TestCanonicalForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"product binds over sum", "1+2*3", "1 + 2 * 3"},
		{"explicit grouping kept", "(1+2)*3", "(1 + 2) * 3"},
		{"power right associative", "2^3^2", "2 ^ 3 ^ 2"},
		{"range", "1:10", "1:10"},
		{"strided range", "1:2:10", "1:2:10"},
		{"range of sums", "a+1:b-1", "a + 1:b - 1"},
		{"call", "f(x, y)", "f(x, y)"},
		{"index with end", "A(end, 2)", "A(end, 2)"},
		{"colon subscript", "A(:, 2)", "A(:, 2)"},
		{"transpose", "A'", "A'"},
		{"dot transpose", "A.'", "A.'"},
		{"matrix", "[1 2; 3 4]", "[1, 2; 3, 4]"},
		{"assignment", "x = 1 + 2", "x = 1 + 2"},
		{"compound assignment", "x += 2", "x += 2"},
		{"multiple assignment", "[a, b] = deal(1, 2)", "[a, b] = deal(1, 2)"},
		{"discard target", "[~, b] = size(A)", "[~, b] = size(A)"},
		{"not", "~x", "~x"},
		{"comparison chain", "a < b == c", "a < b == c"},
		{"string argument", "disp('hi')", "disp('hi')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := parseOne(t, tt.src)
			if got := unparser.Text(node); got != tt.want {
				t.Errorf("Text(parse(%q)) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestUnaryMinusBelowPower(t *testing.T) {
	node := parseOne(t, "-2^2")
	prefix, ok := node.(*ast.PrefixExpression)
	if !ok {
		t.Fatalf("got %T, want prefix", node)
	}
	if _, ok := prefix.Right.(*ast.InfixExpression); !ok {
		t.Fatalf("right of unary minus is %T, want the power", prefix.Right)
	}
}

func TestRangeStrideFolding(t *testing.T) {
	node := parseOne(t, "1:2:10")
	r, ok := node.(*ast.RangeExpression)
	if !ok {
		t.Fatalf("got %T, want range", node)
	}
	if r.Stride == nil {
		t.Fatal("stride not folded")
	}
	if unparser.Text(r.Start) != "1" || unparser.Text(r.Stride) != "2" || unparser.Text(r.Stop) != "10" {
		t.Errorf("parts = %s : %s : %s", unparser.Text(r.Start), unparser.Text(r.Stride), unparser.Text(r.Stop))
	}

	// An explicit grouping is not folded into a stride.
	node = parseOne(t, "(1:2):10")
	r = node.(*ast.RangeExpression)
	if r.Stride != nil {
		t.Error("grouped range folded into stride")
	}
}

func TestMatrixWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCols int
	}{
		{"space splits before sign", "[1 -2]", 2},
		{"spaced operator joins", "[1 - 2]", 1},
		{"comma splits", "[1, -2]", 2},
		{"plain spaces split", "[1 2 3]", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := parseOne(t, tt.src)
			m, ok := node.(*ast.MatrixLiteral)
			if !ok {
				t.Fatalf("got %T, want matrix", node)
			}
			if len(m.Rows) != 1 || len(m.Rows[0]) != tt.wantCols {
				t.Errorf("%q parsed to %d elements, want %d", tt.src, len(m.Rows[0]), tt.wantCols)
			}
		})
	}
}

func TestMatrixRows(t *testing.T) {
	node := parseOne(t, "[1 2; 3 4; 5 6]")
	m := node.(*ast.MatrixLiteral)
	if len(m.Rows) != 3 {
		t.Fatalf("%d rows, want 3", len(m.Rows))
	}
	node = parseOne(t, "[1 2\n3 4]")
	m = node.(*ast.MatrixLiteral)
	if len(m.Rows) != 2 {
		t.Fatalf("newline row split: %d rows, want 2", len(m.Rows))
	}
}

func TestParenRestoresWhitespaceRules(t *testing.T) {
	// Inside parentheses a spaced sign is an operator again.
	node := parseOne(t, "[f(1 -2)]")
	m := node.(*ast.MatrixLiteral)
	if len(m.Rows[0]) != 1 {
		t.Fatalf("call should be one element, got %d", len(m.Rows[0]))
	}
	call := m.Rows[0][0].(*ast.CallExpression)
	if len(call.Arguments) != 1 {
		t.Errorf("call has %d args, want 1 (1 - 2)", len(call.Arguments))
	}
}

func TestStatementSeparators(t *testing.T) {
	prog, errs := Parse("x = 1; y = 2\nz = 3, w = 4;")
	if len(errs) > 0 {
		t.Fatal(errs[0])
	}
	if len(prog.Items) != 4 {
		t.Fatalf("%d statements, want 4", len(prog.Items))
	}
	wantSuppressed := []bool{true, false, false, true}
	for i, want := range wantSuppressed {
		if prog.Suppressed[i] != want {
			t.Errorf("statement %d suppressed = %v, want %v", i, prog.Suppressed[i], want)
		}
	}
}

func TestCommandStatements(t *testing.T) {
	node := parseOne(t, "format long")
	cmd, ok := node.(*ast.CommandStatement)
	if !ok {
		t.Fatalf("got %T, want command", node)
	}
	if cmd.Name != "format" || len(cmd.Args) != 1 || cmd.Args[0] != "long" {
		t.Errorf("command = %s %v", cmd.Name, cmd.Args)
	}

	// An identifier followed by an operator is an expression, not a command.
	node = parseOne(t, "x + 1")
	if _, ok := node.(*ast.CommandStatement); ok {
		t.Error("x + 1 parsed as command")
	}
}

func TestParentLinks(t *testing.T) {
	node := parseOne(t, "A(end-1, 2)")
	call := node.(*ast.CallExpression)
	infix := call.Arguments[0].(*ast.InfixExpression)
	if infix.Parent() != call || infix.Position() != 0 {
		t.Errorf("first argument link = (%T, %d)", infix.Parent(), infix.Position())
	}
	end := infix.Left.(*ast.EndLiteral)
	if end.Parent() != infix {
		t.Errorf("end parent = %T", end.Parent())
	}
	if call.Arguments[1].Position() != 1 {
		t.Errorf("second argument position = %d", call.Arguments[1].Position())
	}
	if call.Callee.Position() != -1 {
		t.Errorf("callee position = %d, want -1", call.Callee.Position())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unterminated matrix", "[1, 2", "unterminated"},
		{"missing rparen", "f(1, 2", "expected"},
		{"dangling operator", "1 +", "unexpected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse(tt.src)
			if len(errs) == 0 {
				t.Fatalf("Parse(%q) succeeded", tt.src)
			}
			if !strings.Contains(errs[0].Error(), tt.want) {
				t.Errorf("error %q does not mention %q", errs[0], tt.want)
			}
		})
	}
}

func TestDepthLimit(t *testing.T) {
	src := strings.Repeat("(", 600) + "1" + strings.Repeat(")", 600)
	_, errs := Parse(src)
	if len(errs) == 0 {
		t.Fatal("deeply nested expression should fail")
	}
	if !strings.Contains(errs[0].Error(), "depth") {
		t.Errorf("error = %v", errs[0])
	}
}

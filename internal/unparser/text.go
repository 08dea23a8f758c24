// Package unparser renders syntax trees back to text. Reduced value nodes
// render through the same path as source trees, so evaluation results and
// unevaluated expressions share one renderer.
package unparser

import (
	"fmt"
	"strings"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/config"
	"github.com/matexlang/matex/internal/number"
)

// Text renders a tree as source text. Rendering never fails: any subtree the
// renderer cannot handle becomes the placeholder glyph.
func Text(node ast.Node) (out string) {
	defer func() {
		if recover() != nil {
			out = config.RenderPlaceholder
		}
	}()
	return text(node)
}

func text(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Identifier:
		return n.Value

	case *ast.NumberLiteral:
		if n.Value.Kind() == number.Char {
			return quote(string(n.Value.Rune()))
		}
		return n.Value.String()

	case *ast.StringLiteral:
		return quote(n.Value)

	case *ast.MatrixLiteral:
		if n.IsReduced() {
			return n.Value.String()
		}
		rows := make([]string, len(n.Rows))
		for i, row := range n.Rows {
			els := make([]string, len(row))
			for j, el := range row {
				els[j] = text(el)
			}
			rows[i] = strings.Join(els, ", ")
		}
		return "[" + strings.Join(rows, "; ") + "]"

	case *ast.RangeExpression:
		if n.Stride != nil {
			return text(n.Start) + ":" + text(n.Stride) + ":" + text(n.Stop)
		}
		return text(n.Start) + ":" + text(n.Stop)

	case *ast.PrefixExpression:
		return n.Operator + text(n.Right)

	case *ast.PostfixExpression:
		return text(n.Left) + n.Operator

	case *ast.InfixExpression:
		return text(n.Left) + " " + n.Operator + " " + text(n.Right)

	case *ast.ParenExpression:
		return "(" + text(n.Inner) + ")"

	case *ast.CallExpression:
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = text(a)
		}
		return text(n.Callee) + "(" + strings.Join(args, ", ") + ")"

	case *ast.AssignExpression:
		return text(n.Left) + " " + n.Operator + " " + text(n.Right)

	case *ast.ExpressionList:
		lines := make([]string, len(n.Items))
		for i, item := range n.Items {
			lines[i] = text(item)
			if i < len(n.Suppressed) && n.Suppressed[i] {
				lines[i] += ";"
			}
		}
		return strings.Join(lines, "\n")

	case *ast.ReturnList:
		vals := make([]string, len(n.Values))
		for i, v := range n.Values {
			vals[i] = text(v)
		}
		return strings.Join(vals, ", ")

	case *ast.CommandStatement:
		if len(n.Args) == 0 {
			return n.Name
		}
		return n.Name + " " + strings.Join(n.Args, " ")

	case *ast.EndLiteral:
		return "end"

	case *ast.ColonLiteral:
		return ":"
	}
	panic(fmt.Sprintf("unparser: unhandled node %T", node))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

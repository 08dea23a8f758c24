package unparser

import (
	"fmt"
	"strings"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/config"
)

// Display selects the MathML rendering mode.
type Display int

const (
	Inline Display = iota
	Block
)

// MathML renders a tree as a self-contained MathML document fragment. Like
// Text, rendering never fails.
func MathML(node ast.Node, display Display) (out string) {
	mode := "inline"
	if display == Block {
		mode = "block"
	}
	wrap := func(body string) string {
		return `<math xmlns="http://www.w3.org/1998/Math/MathML" display="` + mode + `">` + body + `</math>`
	}
	defer func() {
		if recover() != nil {
			out = wrap("<merror><mtext>" + escape(config.RenderPlaceholder) + "</mtext></merror>")
		}
	}()
	return wrap(mathml(node))
}

// symbolGlyphs maps identifier names onto mathematical glyphs.
var symbolGlyphs = map[string]string{
	"pi":  "<mi>&#x3C0;</mi>",
	"Inf": "<mi>&#x221E;</mi>",
	"NaN": "<mtext>NaN</mtext>",
	"eps": "<mi>&#x3B5;</mi>",
}

var operatorGlyphs = map[string]string{
	"*":  "&#x22C5;",
	".*": "&#x22C5;",
	"~=": "&#x2260;",
	"!=": "&#x2260;",
	"<=": "&#x2264;",
	">=": "&#x2265;",
	"&":  "&#x2227;",
	"&&": "&#x2227;",
	"|":  "&#x2228;",
	"||": "&#x2228;",
	"~":  "&#xAC;",
	"!":  "&#xAC;",
}

func mathml(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Identifier:
		if g, ok := symbolGlyphs[n.Value]; ok {
			return g
		}
		return "<mi>" + escape(n.Value) + "</mi>"

	case *ast.NumberLiteral:
		return n.Value.MathML()

	case *ast.StringLiteral:
		return "<mtext>" + escape(n.Value) + "</mtext>"

	case *ast.MatrixLiteral:
		return matrixMathML(n)

	case *ast.RangeExpression:
		var b strings.Builder
		b.WriteString("<mrow>")
		b.WriteString(mathml(n.Start))
		b.WriteString("<mo>:</mo>")
		if n.Stride != nil {
			b.WriteString(mathml(n.Stride))
			b.WriteString("<mo>:</mo>")
		}
		b.WriteString(mathml(n.Stop))
		b.WriteString("</mrow>")
		return b.String()

	case *ast.PrefixExpression:
		op := n.Operator
		if g, ok := operatorGlyphs[op]; ok {
			op = g
		}
		return "<mrow><mo>" + op + "</mo>" + mathml(n.Right) + "</mrow>"

	case *ast.PostfixExpression:
		return "<msup>" + mathml(n.Left) + "<mo>&#x2032;</mo></msup>"

	case *ast.InfixExpression:
		return infixMathML(n)

	case *ast.ParenExpression:
		return "<mrow><mo>(</mo>" + mathml(n.Inner) + "<mo>)</mo></mrow>"

	case *ast.CallExpression:
		return callMathML(n)

	case *ast.AssignExpression:
		return "<mrow>" + mathml(n.Left) + "<mo>" + escape(n.Operator) + "</mo>" + mathml(n.Right) + "</mrow>"

	case *ast.ExpressionList:
		var b strings.Builder
		for _, item := range n.Items {
			b.WriteString("<mrow>")
			b.WriteString(mathml(item))
			b.WriteString("</mrow>")
		}
		return b.String()

	case *ast.ReturnList:
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = mathml(v)
		}
		return "<mrow>" + strings.Join(parts, "<mo>,</mo>") + "</mrow>"

	case *ast.EndLiteral:
		return "<mi>end</mi>"

	case *ast.ColonLiteral:
		return "<mo>:</mo>"
	}
	panic(fmt.Sprintf("unparser: unhandled node %T", node))
}

func infixMathML(n *ast.InfixExpression) string {
	switch n.Operator {
	case "/", "./":
		return "<mfrac>" + mathml(n.Left) + mathml(n.Right) + "</mfrac>"
	case "^", ".^":
		return "<msup>" + mathml(n.Left) + mathml(n.Right) + "</msup>"
	}
	op := n.Operator
	if g, ok := operatorGlyphs[op]; ok {
		op = g
	} else {
		op = escape(op)
	}
	return "<mrow>" + mathml(n.Left) + "<mo>" + op + "</mo>" + mathml(n.Right) + "</mrow>"
}

// callTemplates renders calls of well-known functions in their conventional
// notation instead of the generic f(x) form.
var callTemplates = map[string]func(args []string) string{
	"sqrt": func(args []string) string {
		return "<msqrt>" + args[0] + "</msqrt>"
	},
	"abs": func(args []string) string {
		return "<mrow><mo>|</mo>" + args[0] + "<mo>|</mo></mrow>"
	},
	"exp": func(args []string) string {
		return "<msup><mi>e</mi>" + args[0] + "</msup>"
	},
	"factorial": func(args []string) string {
		return "<mrow>" + args[0] + "<mo>!</mo></mrow>"
	},
	"conj": func(args []string) string {
		return "<mover>" + args[0] + "<mo>&#xAF;</mo></mover>"
	},
}

func callMathML(n *ast.CallExpression) string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = mathml(a)
	}
	if id, ok := n.Callee.(*ast.Identifier); ok && len(args) == 1 {
		if tmpl, ok := callTemplates[id.Value]; ok {
			return tmpl(args)
		}
	}
	var b strings.Builder
	b.WriteString("<mrow>")
	b.WriteString(mathml(n.Callee))
	b.WriteString("<mo>&#x2061;</mo><mo>(</mo>")
	b.WriteString(strings.Join(args, "<mo>,</mo>"))
	b.WriteString("<mo>)</mo></mrow>")
	return b.String()
}

func matrixMathML(n *ast.MatrixLiteral) string {
	var b strings.Builder
	b.WriteString("<mrow><mo>[</mo><mtable>")
	if n.IsReduced() {
		t := n.Value
		rows, cols := t.Rows(), t.Cols()
		for r := 0; r < rows; r++ {
			b.WriteString("<mtr>")
			for c := 0; c < cols; c++ {
				v, err := t.At(r + c*rows + 1)
				if err != nil {
					panic(err)
				}
				b.WriteString("<mtd>" + v.MathML() + "</mtd>")
			}
			b.WriteString("</mtr>")
		}
	} else {
		for _, row := range n.Rows {
			b.WriteString("<mtr>")
			for _, el := range row {
				b.WriteString("<mtd>" + mathml(el) + "</mtd>")
			}
			b.WriteString("</mtr>")
		}
	}
	b.WriteString("</mtable><mo>]</mo></mrow>")
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

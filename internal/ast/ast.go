package ast

import (
	"github.com/matexlang/matex/internal/number"
	"github.com/matexlang/matex/internal/tensor"
	"github.com/matexlang/matex/internal/token"
)

// Node is the closed set of AST node kinds. Reduced values are nodes too:
// evaluation turns a tree into a literal-bearing tree, which keeps one
// renderer path for both source and results.
//
// Every node carries an advisory parent/position link, set once when the
// enclosing node is built (by the parser, or by the evaluator for nodes it
// synthesizes). Links only answer "what encloses me" during `end`/`:`
// resolution; a node's meaning never depends on them.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Parent() Node
	Position() int
	SetLink(parent Node, pos int)
}

type link struct {
	parent Node
	pos    int
}

func (l *link) Parent() Node  { return l.parent }
func (l *link) Position() int { return l.pos }
func (l *link) SetLink(parent Node, pos int) {
	l.parent = parent
	l.pos = pos
}

// Adopt links children to parent with consecutive positions, skipping nils.
func Adopt(parent Node, children ...Node) {
	for i, c := range children {
		if c != nil {
			c.SetLink(parent, i)
		}
	}
}

// Identifier is a bare name.
type Identifier struct {
	link
	Token token.Token
	Value string
}

func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// NumberLiteral carries a numeric scalar, either parsed from source text or
// produced by reduction.
type NumberLiteral struct {
	link
	Token token.Token
	Value number.Number
}

func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Token
}

// StringLiteral is a single-quoted character string.
type StringLiteral struct {
	link
	Token token.Token
	Value string
}

func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// MatrixLiteral is a bracketed matrix. The parser fills Rows; reduction
// replaces them with Value. Exactly one of the two is meaningful.
type MatrixLiteral struct {
	link
	Token token.Token
	Rows  [][]Node
	Value *tensor.Tensor
}

// IsReduced reports whether the literal carries an evaluated tensor.
func (m *MatrixLiteral) IsReduced() bool { return m.Value != nil }

func (m *MatrixLiteral) TokenLiteral() string { return m.Token.Literal }
func (m *MatrixLiteral) GetToken() token.Token {
	if m == nil {
		return token.Token{}
	}
	return m.Token
}

// RangeExpression is start:stop or start:stride:stop. Stride may be nil.
type RangeExpression struct {
	link
	Token  token.Token
	Start  Node
	Stride Node
	Stop   Node
}

func (r *RangeExpression) TokenLiteral() string { return r.Token.Literal }
func (r *RangeExpression) GetToken() token.Token {
	if r == nil {
		return token.Token{}
	}
	return r.Token
}

// PrefixExpression is a unary operator application, e.g. -x or ~x.
type PrefixExpression struct {
	link
	Token    token.Token
	Operator string
	Right    Node
}

func (p *PrefixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PrefixExpression) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PostfixExpression is a postfix operator application: the transposes.
type PostfixExpression struct {
	link
	Token    token.Token
	Operator string
	Left     Node
}

func (p *PostfixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PostfixExpression) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// InfixExpression is a binary operator application.
type InfixExpression struct {
	link
	Token    token.Token
	Operator string
	Left     Node
	Right    Node
}

func (i *InfixExpression) TokenLiteral() string { return i.Token.Literal }
func (i *InfixExpression) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// CallExpression is the call-or-index form callee(args...). Whether it calls
// a function or indexes a tensor is decided at evaluation time.
type CallExpression struct {
	link
	Token     token.Token
	Callee    Node
	Arguments []Node
}

func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// ParenExpression is an explicit grouping node. The unparsers emit
// parentheses only where one of these sits; they never re-derive grouping
// from precedence.
type ParenExpression struct {
	link
	Token token.Token
	Inner Node
}

func (p *ParenExpression) TokenLiteral() string { return p.Token.Literal }
func (p *ParenExpression) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// AssignExpression covers `=` and the compound forms. Left-hand validation is
// the evaluator's job.
type AssignExpression struct {
	link
	Token    token.Token
	Operator string
	Left     Node
	Right    Node
}

func (a *AssignExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignExpression) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Token
}

// ExpressionList is a sequence of statements or expressions. Suppressed
// parallels Items: true where the statement ended with ';'.
type ExpressionList struct {
	link
	Token      token.Token
	Items      []Node
	Suppressed []bool
}

func (e *ExpressionList) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionList) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// ReturnList is the deferred multi-valued result used by multiple assignment.
type ReturnList struct {
	link
	Token  token.Token
	Values []Node
}

func (r *ReturnList) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnList) GetToken() token.Token {
	if r == nil {
		return token.Token{}
	}
	return r.Token
}

// CommandStatement is word-list command syntax: `format long`.
type CommandStatement struct {
	link
	Token token.Token
	Name  string
	Args  []string
}

func (c *CommandStatement) TokenLiteral() string { return c.Token.Literal }
func (c *CommandStatement) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// EndLiteral is the `end` keyword inside an indexing expression.
type EndLiteral struct {
	link
	Token token.Token
}

func (e *EndLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *EndLiteral) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// ColonLiteral is a bare `:` subscript selecting a whole dimension.
type ColonLiteral struct {
	link
	Token token.Token
}

func (c *ColonLiteral) TokenLiteral() string { return c.Token.Literal }
func (c *ColonLiteral) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

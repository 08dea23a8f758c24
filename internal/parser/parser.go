package parser

import (
	"fmt"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/config"
	"github.com/matexlang/matex/internal/lexer"
	"github.com/matexlang/matex/internal/token"
)

// Error is a parse error with a source position. Lexical is set when the
// failure came from the tokenizer rather than the grammar.
type Error struct {
	Msg     string
	Line    int
	Column  int
	Lexical bool
}

func (e *Error) Error() string {
	stage := "parse"
	if e.Lexical {
		stage = "lex"
	}
	return fmt.Sprintf("%s error at %d:%d: %s", stage, e.Line, e.Column, e.Msg)
}

// Operator precedence, lowest binds loosest. Power binds tighter than unary
// minus (-2^2 is -4), transpose and calls tighter still.
const (
	LOWEST = iota
	ASSIGN
	OROR
	ANDAND
	OR
	AND
	EQUALITY
	RANGE
	SUM
	PRODUCT
	PREFIX
	POWER
	POSTFIX
)

var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_ASSIGN:     ASSIGN,
	token.MINUS_ASSIGN:    ASSIGN,
	token.ASTERISK_ASSIGN: ASSIGN,
	token.SLASH_ASSIGN:    ASSIGN,
	token.CARET_ASSIGN:    ASSIGN,
	token.PIPEPIPE:        OROR,
	token.AMPAMP:          ANDAND,
	token.PIPE:            OR,
	token.AMP:             AND,
	token.EQ:              EQUALITY,
	token.NOT_EQ:          EQUALITY,
	token.LT:              EQUALITY,
	token.LE:              EQUALITY,
	token.GT:              EQUALITY,
	token.GE:              EQUALITY,
	token.COLON:           RANGE,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.BACKSLASH:       PRODUCT,
	token.DOT_ASTERISK:    PRODUCT,
	token.DOT_SLASH:       PRODUCT,
	token.CARET:           POWER,
	token.DOT_CARET:       POWER,
	token.TRANSPOSE:       POSTFIX,
	token.DOT_TRANSPOSE:   POSTFIX,
	token.LPAREN:          POSTFIX,
}

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

type Parser struct {
	tokens []token.Token
	pos    int

	errors []error
	depth  int
	// matrixDepth is nonzero while parsing bracketed rows, where whitespace
	// separates elements (`[1 -2]` is two elements, `[1 - 2]` is one).
	matrixDepth int

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{}

	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			p.errors = append(p.errors, &Error{
				Msg: tok.Literal, Line: tok.Line, Column: tok.Column, Lexical: true,
			})
			p.tokens = append(p.tokens, token.Token{Type: token.EOF, Line: tok.Line, Column: tok.Column})
			break
		}
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.MINUS:    p.parsePrefixExpression,
		token.PLUS:     p.parsePrefixExpression,
		token.TILDE:    p.parseTilde,
		token.BANG:     p.parsePrefixExpression,
		token.LPAREN:   p.parseParenExpression,
		token.LBRACKET: p.parseMatrixLiteral,
		token.END:      p.parseEndLiteral,
		token.COLON:    p.parseColonLiteral,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:            p.parseInfixExpression,
		token.MINUS:           p.parseInfixExpression,
		token.ASTERISK:        p.parseInfixExpression,
		token.SLASH:           p.parseInfixExpression,
		token.BACKSLASH:       p.parseInfixExpression,
		token.CARET:           p.parseInfixExpression,
		token.DOT_ASTERISK:    p.parseInfixExpression,
		token.DOT_SLASH:       p.parseInfixExpression,
		token.DOT_CARET:       p.parseInfixExpression,
		token.EQ:              p.parseInfixExpression,
		token.NOT_EQ:          p.parseInfixExpression,
		token.LT:              p.parseInfixExpression,
		token.LE:              p.parseInfixExpression,
		token.GT:              p.parseInfixExpression,
		token.GE:              p.parseInfixExpression,
		token.AMP:             p.parseInfixExpression,
		token.PIPE:            p.parseInfixExpression,
		token.AMPAMP:          p.parseInfixExpression,
		token.PIPEPIPE:        p.parseInfixExpression,
		token.COLON:           p.parseRangeExpression,
		token.TRANSPOSE:       p.parsePostfixExpression,
		token.DOT_TRANSPOSE:   p.parsePostfixExpression,
		token.LPAREN:          p.parseCallExpression,
		token.ASSIGN:          p.parseAssignExpression,
		token.PLUS_ASSIGN:     p.parseAssignExpression,
		token.MINUS_ASSIGN:    p.parseAssignExpression,
		token.ASTERISK_ASSIGN: p.parseAssignExpression,
		token.SLASH_ASSIGN:    p.parseAssignExpression,
		token.CARET_ASSIGN:    p.parseAssignExpression,
	}

	return p
}

// Parse parses source text into a statement list.
func Parse(src string) (*ast.ExpressionList, []error) {
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	return prog, p.Errors()
}

func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) curToken() token.Token  { return p.tokens[p.pos] }
func (p *Parser) peekToken() token.Token { return p.tokenAt(p.pos + 1) }

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken().Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken().Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken(), "expected %q, got %q", string(t), p.peekToken().Literal)
	return false
}

func (p *Parser) errorf(tok token.Token, format string, a ...interface{}) {
	p.errors = append(p.errors, &Error{
		Msg:    fmt.Sprintf(format, a...),
		Line:   tok.Line,
		Column: tok.Column,
	})
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken().Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken().Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses the token stream into a statement list. Statements are
// separated by newline, comma, or semicolon; a semicolon suppresses display.
func (p *Parser) ParseProgram() *ast.ExpressionList {
	prog := &ast.ExpressionList{Token: p.curToken()}

	for !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) || p.curIs(token.COMMA) || p.curIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}

		var stmt ast.Node
		if p.isCommandStatement() {
			stmt = p.parseCommandStatement()
		} else {
			stmt = p.parseExpression(LOWEST)
		}
		if stmt == nil {
			p.recoverToStatementBoundary()
			continue
		}

		suppressed := false
		switch p.peekToken().Type {
		case token.SEMICOLON:
			suppressed = true
			p.nextToken()
		case token.NEWLINE, token.COMMA, token.EOF:
			p.nextToken()
		default:
			p.errorf(p.peekToken(), "unexpected %q after expression", p.peekToken().Literal)
			p.recoverToStatementBoundary()
		}

		stmt.SetLink(prog, len(prog.Items))
		prog.Items = append(prog.Items, stmt)
		prog.Suppressed = append(prog.Suppressed, suppressed)
		p.nextToken()
	}

	return prog
}

func (p *Parser) recoverToStatementBoundary() {
	for !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) && !p.curIs(token.EOF) {
		p.nextToken()
	}
	p.nextToken()
}

// isCommandStatement detects word-list command syntax: an identifier followed
// by a space-separated bare word (`format long`, `clear x y`).
func (p *Parser) isCommandStatement() bool {
	if !p.curIs(token.IDENT) {
		return false
	}
	peek := p.peekToken()
	if !peek.SpaceBefore {
		return false
	}
	switch peek.Type {
	case token.IDENT, token.NUMBER, token.STRING:
		return true
	}
	return false
}

func (p *Parser) parseCommandStatement() ast.Node {
	cmd := &ast.CommandStatement{Token: p.curToken(), Name: p.curToken().Literal}
	for {
		switch p.peekToken().Type {
		case token.NEWLINE, token.SEMICOLON, token.COMMA, token.EOF:
			return cmd
		}
		p.nextToken()
		cmd.Args = append(cmd.Args, p.curToken().Literal)
	}
}

func (p *Parser) parseExpression(precedence int) ast.Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > config.MaxParseDepth {
		p.errorf(p.curToken(), "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.errorf(p.curToken(), "unexpected %q", p.curToken().Literal)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		if p.matrixDepth > 0 && p.atMatrixElementBoundary() {
			break
		}
		infix := p.infixParseFns[p.peekToken().Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

// atMatrixElementBoundary reports whether the upcoming +/- starts a new matrix
// element rather than continuing the current one: `[1 -2]` has a space before
// the sign and none after it.
func (p *Parser) atMatrixElementBoundary() bool {
	peek := p.peekToken()
	if peek.Type != token.PLUS && peek.Type != token.MINUS {
		return false
	}
	return peek.SpaceBefore && !p.tokenAt(p.pos+2).SpaceBefore
}

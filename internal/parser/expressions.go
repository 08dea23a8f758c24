package parser

import (
	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/number"
	"github.com/matexlang/matex/internal/token"
)

func (p *Parser) parseIdentifier() ast.Node {
	return &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
}

func (p *Parser) parseNumberLiteral() ast.Node {
	n, err := number.Parse(p.curToken().Literal)
	if err != nil {
		p.errorf(p.curToken(), "%v", err)
		return nil
	}
	return &ast.NumberLiteral{Token: p.curToken(), Value: n}
}

func (p *Parser) parseStringLiteral() ast.Node {
	return &ast.StringLiteral{Token: p.curToken(), Value: p.curToken().Literal}
}

func (p *Parser) parseEndLiteral() ast.Node {
	return &ast.EndLiteral{Token: p.curToken()}
}

func (p *Parser) parseColonLiteral() ast.Node {
	return &ast.ColonLiteral{Token: p.curToken()}
}

func (p *Parser) parsePrefixExpression() ast.Node {
	expr := &ast.PrefixExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
	}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	ast.Adopt(expr, expr.Right)
	return expr
}

// parseTilde treats a lone `~` in a target position (`[~, b] = ...`) as the
// discard name; anywhere else it is logical negation.
func (p *Parser) parseTilde() ast.Node {
	switch p.peekToken().Type {
	case token.COMMA, token.RBRACKET, token.SEMICOLON, token.NEWLINE, token.RPAREN, token.EOF:
		return &ast.Identifier{Token: p.curToken(), Value: "~"}
	}
	return p.parsePrefixExpression()
}

func (p *Parser) parseInfixExpression(left ast.Node) ast.Node {
	expr := &ast.InfixExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	if expr.Operator == "^" || expr.Operator == ".^" {
		// Power is right-associative.
		precedence--
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	ast.Adopt(expr, expr.Left, expr.Right)
	return expr
}

func (p *Parser) parsePostfixExpression(left ast.Node) ast.Node {
	expr := &ast.PostfixExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
		Left:     left,
	}
	ast.Adopt(expr, expr.Left)
	return expr
}

// parseRangeExpression builds start:stop, folding a second colon into the
// stride form: (a:b):c becomes a:b:c.
func (p *Parser) parseRangeExpression(left ast.Node) ast.Node {
	tok := p.curToken()
	p.nextToken()
	right := p.parseExpression(RANGE)
	if right == nil {
		return nil
	}
	if r, ok := left.(*ast.RangeExpression); ok && r.Stride == nil {
		r.Stride = r.Stop
		r.Stop = right
		ast.Adopt(r, r.Start, r.Stride, r.Stop)
		return r
	}
	expr := &ast.RangeExpression{Token: tok, Start: left, Stop: right}
	ast.Adopt(expr, expr.Start, nil, expr.Stop)
	return expr
}

func (p *Parser) parseParenExpression() ast.Node {
	expr := &ast.ParenExpression{Token: p.curToken()}

	// Whitespace loses its element-splitting meaning inside parentheses.
	saved := p.matrixDepth
	p.matrixDepth = 0
	defer func() { p.matrixDepth = saved }()

	p.nextToken()
	expr.Inner = p.parseExpression(LOWEST)
	if expr.Inner == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	ast.Adopt(expr, expr.Inner)
	return expr
}

func (p *Parser) parseCallExpression(callee ast.Node) ast.Node {
	call := &ast.CallExpression{Token: p.curToken(), Callee: callee}

	saved := p.matrixDepth
	p.matrixDepth = 0
	defer func() { p.matrixDepth = saved }()

	if p.peekIs(token.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		for {
			arg := p.parseExpression(ASSIGN)
			if arg == nil {
				return nil
			}
			call.Arguments = append(call.Arguments, arg)
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	ast.Adopt(call, call.Arguments...)
	callee.SetLink(call, -1)
	return call
}

func (p *Parser) parseAssignExpression(left ast.Node) ast.Node {
	expr := &ast.AssignExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
		Left:     left,
	}
	p.nextToken()
	expr.Right = p.parseExpression(LOWEST)
	if expr.Right == nil {
		return nil
	}
	ast.Adopt(expr, expr.Left, expr.Right)
	return expr
}

func (p *Parser) parseMatrixLiteral() ast.Node {
	m := &ast.MatrixLiteral{Token: p.curToken()}
	p.matrixDepth++
	defer func() { p.matrixDepth-- }()

	var row []ast.Node
	flushRow := func() {
		if len(row) > 0 {
			ast.Adopt(m, row...)
			m.Rows = append(m.Rows, row)
			row = nil
		}
	}

	p.nextToken() // past '['
	for {
		switch p.curToken().Type {
		case token.RBRACKET:
			flushRow()
			return m
		case token.EOF:
			p.errorf(p.curToken(), "unterminated matrix literal")
			return nil
		case token.COMMA:
			p.nextToken()
		case token.SEMICOLON, token.NEWLINE:
			flushRow()
			p.nextToken()
		default:
			el := p.parseExpression(ASSIGN)
			if el == nil {
				return nil
			}
			row = append(row, el)
			p.nextToken()
		}
	}
}

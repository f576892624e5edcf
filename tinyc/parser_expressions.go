package tinyc

import (
	"strconv"
)

// parseExpression parses operators binding tighter than minPower. A
// semicolon always ends the expression.
func (p *parser) parseExpression(minPower int) Expression {
	rule := rules[p.tok.Type]
	if rule.prefix == nil {
		p.errorUnexpected(p.tok)
		return nil
	}
	left := rule.prefix(p)

	for left != nil && p.next.Type != tokenSemicolon && bindingPower(p.next.Type) > minPower {
		infix := rules[p.next.Type].infix
		if infix == nil {
			break
		}
		p.advance()
		left = infix(p, left)
	}
	return left
}

func (p *parser) parseIdentifier() Expression {
	return &Identifier{Name: p.tok.Literal, at: at(p.tok.Pos)}
}

func (p *parser) parseIntegerLiteral() Expression {
	n, err := strconv.ParseInt(p.tok.Literal, 10, 64)
	if err != nil {
		p.addError(ErrLexical, p.tok.Pos, "invalid integer literal")
		return nil
	}
	return &IntegerLiteral{Value: n, at: at(p.tok.Pos)}
}

func (p *parser) parseStringLiteral() Expression {
	return &StringLiteral{Value: p.tok.Literal, at: at(p.tok.Pos)}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &BoolLiteral{Value: p.tok.Type == tokenTrue, at: at(p.tok.Pos)}
}

func (p *parser) parseNullLiteral() Expression {
	return &NullLiteral{at: at(p.tok.Pos)}
}

func (p *parser) parseParenthesized() Expression {
	p.advance()
	inner := p.parseExpression(bindNone)
	if inner == nil || !p.expectPeek(tokenRParen) {
		return nil
	}
	return inner
}

func (p *parser) parseNegation() Expression {
	start := p.tok
	p.advance()
	operand := p.parseExpression(bindUnary)
	if operand == nil {
		return nil
	}
	return &UnaryExpr{Operator: start.Type, Right: operand, at: at(start.Pos)}
}

// parseBinary handles the left-associative arithmetic and comparison
// operators.
func (p *parser) parseBinary(left Expression) Expression {
	op := p.tok
	p.advance()
	right := p.parseExpression(bindingPower(op.Type))
	if right == nil {
		return nil
	}
	return &BinaryExpr{Left: left, Operator: op.Type, Right: right, at: at(op.Pos)}
}

// parseAssignment binds to the right so `a = b = 1` assigns both.
func (p *parser) parseAssignment(left Expression) Expression {
	target, ok := left.(*Identifier)
	if !ok {
		p.addError(ErrSyntax, p.tok.Pos, "invalid assignment target")
		return nil
	}
	p.advance()
	value := p.parseExpression(bindAssign - 1)
	if value == nil {
		return nil
	}
	return &AssignExpr{Name: target.Name, Value: value, at: at(target.Pos())}
}

func (p *parser) parseCall(callee Expression) Expression {
	name, ok := callee.(*Identifier)
	if !ok {
		p.addError(ErrSyntax, p.tok.Pos, "only named functions can be called")
		return nil
	}
	call := &CallExpr{Callee: name, Args: []Expression{}, at: at(name.Pos())}
	if p.next.Type == tokenRParen {
		p.advance()
		return call
	}

	for {
		p.advance()
		arg := p.parseExpression(bindNone)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if p.next.Type != tokenComma {
			break
		}
		p.advance()
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return call
}

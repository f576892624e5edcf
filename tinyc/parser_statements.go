package tinyc

func (p *parser) parseStatement() Statement {
	switch p.tok.Type {
	case tokenTypeInt:
		return p.parseDeclaration()
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenIf:
		return p.parseIfStatement()
	case tokenWhile:
		return p.parseWhileStatement()
	case tokenLBrace:
		block := p.parseBlockStatement()
		if block == nil {
			return nil
		}
		return block
	default:
		return p.parseExpressionStatement()
	}
}

// parseDeclaration handles `int name = expr;`, `int name;` and
// `int name(int a, ...) { ... }`. The token after the name decides which.
func (p *parser) parseDeclaration() Statement {
	pos := p.tok.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.tok.Literal

	switch p.next.Type {
	case tokenLParen:
		if p.depth > 0 {
			p.addError(ErrSyntax, p.next.Pos, "function declarations are only allowed at top level")
			return nil
		}
		p.advance()
		return p.parseFunctionRest(name, pos)
	case tokenSemicolon:
		p.advance()
		return &VarDecl{Name: name, at: at(pos)}
	case tokenAssign:
		p.advance()
		p.advance()
		value := p.parseExpression(bindNone)
		if value == nil {
			return nil
		}
		if !p.expectPeek(tokenSemicolon) {
			return nil
		}
		return &VarDecl{Name: name, Value: value, at: at(pos)}
	default:
		p.errorExpected(p.next, "\"=\", \";\" or \"(\"")
		return nil
	}
}

func (p *parser) parseFunctionRest(name string, pos Position) Statement {
	params := []string{}
	seen := map[string]bool{}
	if p.next.Type == tokenRParen {
		p.advance()
	} else {
		for {
			if !p.expectPeek(tokenTypeInt) {
				return nil
			}
			if !p.expectPeek(tokenIdent) {
				return nil
			}
			param := p.tok.Literal
			if seen[param] {
				p.addError(ErrSyntax, p.tok.Pos, "duplicate parameter "+param)
				return nil
			}
			seen[param] = true
			params = append(params, param)
			if p.next.Type != tokenComma {
				break
			}
			p.advance()
		}
		if !p.expectPeek(tokenRParen) {
			return nil
		}
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	body := p.parseBlockStatement()
	if body == nil {
		return nil
	}
	return &FunctionStmt{Name: name, Params: params, Body: body, at: at(pos)}
}

func (p *parser) parseReturnStatement() Statement {
	pos := p.tok.Pos
	if p.next.Type == tokenSemicolon {
		p.advance()
		return &ReturnStmt{at: at(pos)}
	}
	p.advance()
	value := p.parseExpression(bindNone)
	if value == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &ReturnStmt{Value: value, at: at(pos)}
}

func (p *parser) parseCondition() Expression {
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.advance()
	condition := p.parseExpression(bindNone)
	if condition == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return condition
}

func (p *parser) parseIfStatement() Statement {
	pos := p.tok.Pos
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	consequent := p.parseBlockStatement()
	if consequent == nil {
		return nil
	}

	stmt := &IfStmt{Condition: condition, Consequent: consequent, at: at(pos)}
	if p.next.Type != tokenElse {
		return stmt
	}
	p.advance()

	if p.next.Type == tokenIf {
		p.advance()
		nested := p.parseIfStatement()
		if nested == nil {
			return nil
		}
		stmt.Alternate = &BlockStmt{Statements: []Statement{nested}, at: at(nested.Pos())}
		return stmt
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	alternate := p.parseBlockStatement()
	if alternate == nil {
		return nil
	}
	stmt.Alternate = alternate
	return stmt
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.tok.Pos
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	body := p.parseBlockStatement()
	if body == nil {
		return nil
	}
	return &WhileStmt{Condition: condition, Body: body, at: at(pos)}
}

// parseBlockStatement expects the current token to be '{' and leaves it on the
// matching '}'.
func (p *parser) parseBlockStatement() *BlockStmt {
	block := &BlockStmt{Statements: []Statement{}, at: at(p.tok.Pos)}
	p.depth++
	defer func() { p.depth-- }()

	p.advance()
	for !p.failed() && p.tok.Type != tokenRBrace && p.tok.Type != tokenEOF {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.advance()
	}

	if p.failed() {
		return nil
	}
	if p.tok.Type != tokenRBrace {
		p.errorExpected(p.tok, tokenLabel(tokenRBrace))
		return nil
	}
	return block
}

func (p *parser) parseExpressionStatement() Statement {
	expr := p.parseExpression(bindNone)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &ExprStmt{Expr: expr, at: at(expr.Pos())}
}

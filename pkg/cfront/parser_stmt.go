package cfront

// parseStatement dispatches on the leading token.
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case LBRACE:
		return p.parseCompound(true)
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case DO:
		return p.parseDo()
	case FOR:
		return p.parseFor()
	case SWITCH:
		return p.parseSwitch()
	case CASE:
		return p.parseCase()
	case DEFAULT:
		return p.parseDefault()
	case RETURN:
		return p.parseReturn()
	case BREAK, CONTINUE:
		start := p.pos
		p.advance()
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		if tok.Type == BREAK {
			s := &BreakStmt{}
			s.span = p.spanFrom(start)
			return s, nil
		}
		s := &ContinueStmt{}
		s.span = p.spanFrom(start)
		return s, nil
	case GOTO:
		start := p.pos
		p.advance()
		label, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		s := &GotoStmt{Label: label.Lexeme}
		s.span = p.spanFrom(start)
		return s, nil
	case SEMICOLON:
		start := p.pos
		p.advance()
		s := &NullStmt{}
		s.span = p.spanFrom(start)
		return s, nil
	case IDENTIFIER:
		if p.peekNext().Type == COLON {
			return p.parseLabel()
		}
	}

	if p.isDeclStart(tok) {
		return p.parseDeclStmt()
	}

	start := p.pos
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	s := &ExprStmt{X: x}
	s.span = p.spanFrom(start)
	return s, nil
}

// parseCompound parses { stmt* }. Function bodies share the scope their
// parameters were declared in, so they pass newScope=false.
func (p *Parser) parseCompound(newScope bool) (*CompoundStmt, error) {
	start := p.pos
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	if newScope {
		p.syms.EnterScope()
		defer p.syms.ExitScope()
	}
	block := &CompoundStmt{}
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			return nil, p.fmtError(p.peek(), "expected '}' before end of input")
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, s)
	}
	p.advance() // }
	block.span = p.spanFrom(start)
	return block, nil
}

func (p *Parser) parseDeclStmt() (Stmt, error) {
	start := p.pos
	decls, err := p.parseDeclaration(false)
	if err != nil {
		return nil, err
	}
	s := &DeclStmt{Decls: decls}
	s.span = p.spanFrom(start)
	return s, nil
}

// parseParenCond parses "(" expression ")".
func (p *Parser) parseParenCond() (Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	start := p.pos
	p.advance() // if
	cond, err := p.parseParenCond()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	s := &IfStmt{Cond: cond, Then: then}
	if p.peek().Type == ELSE {
		p.advance()
		if s.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	s.span = p.spanFrom(start)
	return s, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	start := p.pos
	p.advance() // while
	cond, err := p.parseParenCond()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	s := &WhileStmt{Cond: cond, Body: body}
	s.span = p.spanFrom(start)
	return s, nil
}

func (p *Parser) parseDo() (Stmt, error) {
	start := p.pos
	p.advance() // do
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(WHILE); err != nil {
		return nil, err
	}
	cond, err := p.parseParenCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	s := &DoStmt{Body: body, Cond: cond}
	s.span = p.spanFrom(start)
	return s, nil
}

// parseFor handles all three clauses being optional and a declaration as the
// init clause, which opens its own scope.
func (p *Parser) parseFor() (Stmt, error) {
	start := p.pos
	p.advance() // for
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	p.syms.EnterScope()
	defer p.syms.ExitScope()

	s := &ForStmt{}
	switch {
	case p.peek().Type == SEMICOLON:
		p.advance()
	case p.isDeclStart(p.peek()):
		init, err := p.parseDeclStmt()
		if err != nil {
			return nil, err
		}
		s.Init = init
	default:
		initStart := p.pos
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		init := &ExprStmt{X: x}
		init.span = p.spanFrom(initStart)
		s.Init = init
	}

	if p.peek().Type != SEMICOLON {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		s.Cond = cond
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	if p.peek().Type != RPAREN {
		inc, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		s.Inc = inc
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	s.Body = body
	s.span = p.spanFrom(start)
	return s, nil
}

func (p *Parser) parseSwitch() (Stmt, error) {
	start := p.pos
	p.advance() // switch
	cond, err := p.parseParenCond()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	s := &SwitchStmt{Cond: cond, Body: body}
	s.span = p.spanFrom(start)
	return s, nil
}

// labelBody parses the statement after a label. A label directly before the
// closing brace gets a null statement.
func (p *Parser) labelBody() (Stmt, error) {
	if p.peek().Type == RBRACE {
		s := &NullStmt{}
		s.span = p.spanFrom(p.pos)
		return s, nil
	}
	return p.parseStatement()
}

func (p *Parser) parseCase() (Stmt, error) {
	start := p.pos
	p.advance() // case
	value, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	body, err := p.labelBody()
	if err != nil {
		return nil, err
	}
	s := &CaseStmt{Value: value, Body: body}
	s.span = p.spanFrom(start)
	return s, nil
}

func (p *Parser) parseDefault() (Stmt, error) {
	start := p.pos
	p.advance() // default
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	body, err := p.labelBody()
	if err != nil {
		return nil, err
	}
	s := &DefaultStmt{Body: body}
	s.span = p.spanFrom(start)
	return s, nil
}

func (p *Parser) parseLabel() (Stmt, error) {
	start := p.pos
	name := p.advance().Lexeme
	p.advance() // :
	body, err := p.labelBody()
	if err != nil {
		return nil, err
	}
	s := &LabelStmt{Label: name, Body: body}
	s.span = p.spanFrom(start)
	return s, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	start := p.pos
	p.advance() // return
	s := &ReturnStmt{}
	if p.peek().Type != SEMICOLON {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		s.Value = value
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	s.span = p.spanFrom(start)
	return s, nil
}

package cfront

// Expression grammar, lowest precedence first:
//
//	expression  = assignment ("," assignment)*
//	assignment  = conditional (assign-op assignment)?
//	conditional = binary ("?" expression ":" conditional)?
//	binary      = cast (binary-op cast)*          precedence climbing over binaryPrecedence
//	cast        = "(" type-name ")" cast | unary
//	unary       = ("++"|"--") unary | unary-op cast | sizeof unary | sizeof "(" type-name ")" | postfix
//	postfix     = primary ("[" expression "]" | "(" args ")" | "." IDENT | "->" IDENT | "++" | "--")*
//	primary     = INTEGER | FLOAT | CHAR | STRING+ | true | false | IDENT | "(" expression ")"

var binaryPrecedence = map[TokenType]int{
	OR_LOGICAL:  1,
	AND_LOGICAL: 2,
	PIPE:        3,
	CARET:       4,
	AND:         5,
	EQUALS:      6, NOT_EQ: 6,
	LESS: 7, GREATER: 7, LESS_EQ: 7, GREATER_EQ: 7,
	SHL_OP: 8, SHR_OP: 8,
	PLUS: 9, MINUS: 9,
	STAR: 10, SLASH: 10, PERCENT: 10,
}

// parseExpression is the entry point for expression parsing, comma included.
func (p *Parser) parseExpression() (Expr, error) {
	start := p.pos
	expr, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == COMMA {
		p.advance()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		b := &BinaryOperator{Op: COMMA, LHS: expr, RHS: right}
		b.span = p.spanFrom(start)
		b.typ = right.Type()
		expr = b
	}
	return expr, nil
}

// parseAssignment handles = and the compound assignments (right associative).
func (p *Parser) parseAssignment() (Expr, error) {
	start := p.pos
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if !isAssignOp(p.peek().Type) {
		return left, nil
	}
	op := p.advance().Type
	right, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	b := &BinaryOperator{Op: op, LHS: left, RHS: right}
	b.span = p.spanFrom(start)
	b.typ = left.Type()
	return b, nil
}

// parseConditional handles cond ? a : b.
func (p *Parser) parseConditional() (Expr, error) {
	start := p.pos
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != QUESTION {
		return cond, nil
	}
	p.advance()
	whenTrue, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	whenFalse, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	c := &ConditionalOperator{Cond: cond, True: whenTrue, False: whenFalse}
	c.span = p.spanFrom(start)
	c.typ = conditionalType(whenTrue.Type(), whenFalse.Type())
	return c, nil
}

// parseBinary climbs the binary operator precedence table.
func (p *Parser) parseBinary(minPrec int) (Expr, error) {
	start := p.pos
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().Type
		prec, ok := binaryPrecedence[op]
		if !ok || prec <= minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(prec)
		if err != nil {
			return nil, err
		}
		b := &BinaryOperator{Op: op, LHS: left, RHS: right}
		b.span = p.spanFrom(start)
		b.typ = binaryType(op, left.Type(), right.Type())
		left = b
	}
}

// parseCast handles (type) expr. A parenthesised type followed by a brace is
// a compound literal, which is parsed but left unsupported.
func (p *Parser) parseCast() (Expr, error) {
	if p.peek().Type != LPAREN || !p.isTypeStart(p.peekNext()) {
		return p.parseUnary()
	}
	start := p.pos
	p.advance() // (
	to, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if p.peek().Type == LBRACE {
		if _, err := p.parseInitializer(); err != nil {
			return nil, err
		}
		u := &UnsupportedExpr{What: "compound literal"}
		u.span = p.spanFrom(start)
		u.typ = to
		return u, nil
	}
	operand, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	c := &CastExpr{To: to, Operand: operand}
	c.span = p.spanFrom(start)
	c.typ = to
	return c, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	start := p.pos
	tok := p.peek()
	switch tok.Type {
	case PLUS_PLUS, MINUS_MINUS:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.unary(start, tok.Type, operand, false), nil
	case AND, STAR, PLUS, MINUS, TILDE, NOT:
		p.advance()
		operand, err := p.parseCast()
		if err != nil {
			return nil, err
		}
		return p.unary(start, tok.Type, operand, false), nil
	case SIZEOF, ALIGNOF:
		return p.parseSizeof()
	}
	return p.parsePostfix()
}

func (p *Parser) unary(start int, op TokenType, operand Expr, postfix bool) *UnaryOperator {
	u := &UnaryOperator{Op: op, Operand: operand, Postfix: postfix}
	u.span = p.spanFrom(start)
	u.typ = unaryType(op, operand.Type())
	return u
}

func (p *Parser) parseSizeof() (Expr, error) {
	start := p.pos
	trait := p.advance().Type
	s := &SizeofExpr{Trait: trait}
	if p.peek().Type == LPAREN && p.isTypeStart(p.peekNext()) {
		p.advance()
		t, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		s.ArgType = t
	} else {
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		s.Arg = arg
	}
	s.span = p.spanFrom(start)
	s.typ = ulongType
	return s, nil
}

func (p *Parser) parsePostfix() (Expr, error) {
	start := p.pos
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.Type {
		case LBRACKET:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			a := &ArraySubscriptExpr{Base: expr, Index: index}
			a.span = p.spanFrom(start)
			a.typ = subscriptType(expr.Type(), index.Type())
			expr = a
		case LPAREN:
			p.advance()
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			c := &CallExpr{Callee: expr, Args: args}
			c.span = p.spanFrom(start)
			c.typ = callType(expr.Type())
			expr = c
		case DOT, ARROW:
			p.advance()
			nameTok, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			arrow := tok.Type == ARROW
			rec := AsRecord(expr.Type(), arrow)
			if rec == nil {
				return nil, p.fmtError(tok, "member reference base type '%s' is not a structure or union", expr.Type().Spelling())
			}
			field := rec.Field(nameTok.Lexeme)
			if field == nil && rec.Complete {
				return nil, p.fmtError(nameTok, "no member named '%s' in '%s'", nameTok.Lexeme, rec.Name)
			}
			m := &MemberExpr{Base: expr, Member: nameTok.Lexeme, Arrow: arrow}
			m.span = p.spanFrom(start)
			m.typ = intType
			if field != nil {
				m.typ = field.Type
			}
			expr = m
		case PLUS_PLUS, MINUS_MINUS:
			p.advance()
			expr = p.unary(start, tok.Type, expr, true)
		default:
			return expr, nil
		}
	}
}

// parseCallArgs parses after the opening parenthesis up to and including the
// closing one.
func (p *Parser) parseCallArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().Type == RPAREN {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	start := p.pos
	tok := p.advance()
	switch tok.Type {
	case INTEGER:
		it, err := parseIntegerLiteral(tok.Lexeme)
		if err != nil {
			return nil, p.fmtError(tok, "%v", err)
		}
		lit := &IntegerLiteral{Text: tok.Lexeme, IntegerText: it}
		lit.span = p.spanFrom(start)
		lit.typ = integerLiteralType(it)
		return lit, nil

	case FLOAT:
		lit := &FloatingLiteral{Text: tok.Lexeme}
		lit.span = p.spanFrom(start)
		lit.typ = doubleType
		switch tok.Lexeme[len(tok.Lexeme)-1] {
		case 'f', 'F':
			lit.typ = &Builtin{Kind: Float}
		case 'l', 'L':
			lit.typ = &Builtin{Kind: LongDouble}
		}
		return lit, nil

	case CHAR_LIT:
		v, err := decodeCharLiteral(tok.Lexeme)
		if err != nil {
			return nil, p.fmtError(tok, "%v", err)
		}
		lit := &CharLiteral{Text: tok.Lexeme, Value: v}
		lit.span = p.spanFrom(start)
		lit.typ = intType
		return lit, nil

	case STRING:
		value, err := decodeStringLiteral(tok.Lexeme)
		if err != nil {
			return nil, p.fmtError(tok, "%v", err)
		}
		// adjacent string tokens concatenate
		for p.peek().Type == STRING {
			next := p.advance()
			more, err := decodeStringLiteral(next.Lexeme)
			if err != nil {
				return nil, p.fmtError(next, "%v", err)
			}
			value += more
		}
		lit := &StringLiteral{Value: value}
		lit.span = p.spanFrom(start)
		lit.typ = &Array{Elem: &Builtin{Kind: Char}, Size: len(value) + 1}
		return lit, nil

	case TRUE, FALSE:
		lit := &BoolLiteral{Value: tok.Type == TRUE}
		lit.span = p.spanFrom(start)
		lit.typ = &Builtin{Kind: Bool}
		return lit, nil

	case IDENTIFIER:
		ref := &DeclRefExpr{Name: tok.Lexeme}
		ref.span = p.spanFrom(start)
		ref.typ = intType
		if d, ok := p.syms.Lookup(tok.Lexeme); ok {
			ref.Decl = d
			ref.typ = declType(d)
		} else if p.peek().Type == LPAREN {
			// implicitly declared function
			ref.typ = &FunctionProto{Result: intType, Variadic: true}
		}
		return ref, nil

	case LPAREN:
		if p.peek().Type == LBRACE {
			return nil, p.fmtError(tok, "statement expressions are not supported")
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		paren := &ParenExpr{Inner: inner}
		paren.span = p.spanFrom(start)
		paren.typ = inner.Type()
		return paren, nil
	}
	return nil, p.fmtError(tok, "unexpected token in expression: %s (%q)", tok.Type, tok.Lexeme)
}

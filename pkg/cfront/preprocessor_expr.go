package cfront

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// evalCondition evaluates the controlling expression of #if / #elif.
// Identifiers left after macro expansion evaluate to 0, as in C.
func (pp *preprocessor) evalCondition(expr string) (bool, error) {
	expanded := pp.expand(pp.replaceDefined(expr), nil)
	toks, err := Lex(expanded)
	if err != nil {
		return false, errors.Wrap(err, "#if expression")
	}
	ev := &condEvaluator{toks: toks}
	v, err := ev.ternary()
	if err != nil {
		return false, err
	}
	if ev.peek().Type != EOF {
		return false, errors.Newf("unexpected %q in #if expression", ev.peek().Lexeme)
	}
	return v != 0, nil
}

// replaceDefined rewrites `defined NAME` and `defined(NAME)` to 1 or 0
// before macro expansion can touch NAME.
func (pp *preprocessor) replaceDefined(expr string) string {
	var sb strings.Builder
	i := 0
	for i < len(expr) {
		if !strings.HasPrefix(expr[i:], "defined") ||
			(i > 0 && isIdentPart(rune(expr[i-1]))) ||
			(i+7 < len(expr) && isIdentPart(rune(expr[i+7]))) {
			sb.WriteByte(expr[i])
			i++
			continue
		}
		j := i + 7
		for j < len(expr) && expr[j] == ' ' {
			j++
		}
		paren := j < len(expr) && expr[j] == '('
		if paren {
			j++
			for j < len(expr) && expr[j] == ' ' {
				j++
			}
		}
		name := firstWord(expr[j:])
		j += len(name)
		if paren {
			for j < len(expr) && expr[j] == ' ' {
				j++
			}
			if j < len(expr) && expr[j] == ')' {
				j++
			}
		}
		if _, ok := pp.defines[name]; ok {
			sb.WriteString(" 1 ")
		} else {
			sb.WriteString(" 0 ")
		}
		i = j
	}
	return sb.String()
}

// condEvaluator is a small precedence-climbing evaluator over lexed tokens.
type condEvaluator struct {
	toks []Token
	pos  int
}

func (e *condEvaluator) peek() Token {
	if e.pos >= len(e.toks) {
		return Token{Type: EOF}
	}
	return e.toks[e.pos]
}

func (e *condEvaluator) next() Token {
	t := e.peek()
	e.pos++
	return t
}

func (e *condEvaluator) ternary() (int64, error) {
	cond, err := e.binary(0)
	if err != nil {
		return 0, err
	}
	if e.peek().Type != QUESTION {
		return cond, nil
	}
	e.next()
	a, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if e.next().Type != COLON {
		return 0, errors.New("expected ':' in #if expression")
	}
	b, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return a, nil
	}
	return b, nil
}

var condPrecedence = map[TokenType]int{
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

func (e *condEvaluator) binary(minPrec int) (int64, error) {
	lhs, err := e.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := e.peek().Type
		prec, ok := condPrecedence[op]
		if !ok || prec <= minPrec {
			return lhs, nil
		}
		e.next()
		rhs, err := e.binary(prec)
		if err != nil {
			return 0, err
		}
		lhs, err = foldBinary(op, lhs, rhs)
		if err != nil {
			return 0, err
		}
	}
}

func (e *condEvaluator) unary() (int64, error) {
	tok := e.next()
	switch tok.Type {
	case NOT:
		v, err := e.unary()
		return boolInt(v == 0), err
	case MINUS:
		v, err := e.unary()
		return -v, err
	case PLUS:
		return e.unary()
	case TILDE:
		v, err := e.unary()
		return ^v, err
	case LPAREN:
		v, err := e.ternary()
		if err != nil {
			return 0, err
		}
		if e.next().Type != RPAREN {
			return 0, errors.New("expected ')' in #if expression")
		}
		return v, nil
	case INTEGER:
		lit, err := parseIntegerLiteral(tok.Lexeme)
		return int64(lit.Value), err
	case CHAR_LIT:
		return decodeCharLiteral(tok.Lexeme)
	case TRUE:
		return 1, nil
	case FALSE:
		return 0, nil
	case EOF:
		return 0, errors.New("unexpected end of #if expression")
	}
	if tok.Type == IDENTIFIER || tok.isWord() {
		// an unknown identifier, including a function-like macro name
		if e.peek().Type == LPAREN {
			if _, err := e.unary(); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}
	return 0, errors.Newf("unexpected %q in #if expression", tok.Lexeme)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// foldBinary applies a binary operator to two integer constants.
func foldBinary(op TokenType, a, b int64) (int64, error) {
	switch op {
	case PLUS:
		return a + b, nil
	case MINUS:
		return a - b, nil
	case STAR:
		return a * b, nil
	case SLASH, PERCENT:
		if b == 0 {
			return 0, errors.New("division by zero in constant expression")
		}
		if op == SLASH {
			return a / b, nil
		}
		return a % b, nil
	case SHL_OP:
		return a << uint64(b), nil
	case SHR_OP:
		return a >> uint64(b), nil
	case LESS:
		return boolInt(a < b), nil
	case GREATER:
		return boolInt(a > b), nil
	case LESS_EQ:
		return boolInt(a <= b), nil
	case GREATER_EQ:
		return boolInt(a >= b), nil
	case EQUALS:
		return boolInt(a == b), nil
	case NOT_EQ:
		return boolInt(a != b), nil
	case AND:
		return a & b, nil
	case PIPE:
		return a | b, nil
	case CARET:
		return a ^ b, nil
	case AND_LOGICAL:
		return boolInt(a != 0 && b != 0), nil
	case OR_LOGICAL:
		return boolInt(a != 0 || b != 0), nil
	}
	return 0, errors.Newf("operator %s is not allowed in a constant expression", op)
}

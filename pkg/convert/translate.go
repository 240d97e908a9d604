package convert

import (
	"fmt"
	"strconv"
	"strings"

	"c2cs/pkg/cfront"
	"c2cs/pkg/ctypes"
)

// Translate renders a statement, expression or local declaration as C#.
// It never fails: constructs with no C# rendering are logged and come out
// as empty text.
func (s *FunctionScope) Translate(n cfront.Node) string {
	c := s.ctx
	switch v := n.(type) {
	// literals
	case *cfront.IntegerLiteral:
		return integerLiteral(v)
	case *cfront.FloatingLiteral:
		return floatLiteral(v.Text)
	case *cfront.CharLiteral:
		return strconv.FormatInt(v.Value, 10)
	case *cfront.StringLiteral:
		return quoteString(v.Value)
	case *cfront.BoolLiteral:
		return strconv.FormatBool(v.Value)

	// expressions
	case *cfront.DeclRefExpr:
		return s.declRef(v)
	case *cfront.UnaryOperator:
		return s.unary(v)
	case *cfront.SizeofExpr:
		return s.sizeof(v)
	case *cfront.BinaryOperator:
		return s.binary(v)
	case *cfront.ConditionalOperator:
		return s.condition(v.Cond) + "?" + s.Translate(v.True) + ":" + s.Translate(v.False)
	case *cfront.MemberExpr:
		return s.member(v)
	case *cfront.CallExpr:
		return s.call(v)
	case *cfront.ArraySubscriptExpr:
		return s.Translate(v.Base) + "[" + s.Translate(v.Index) + "]"
	case *cfront.ParenExpr:
		return parentize(s.Translate(v.Inner))
	case *cfront.CastExpr:
		return s.cast(v)
	case *cfront.InitListExpr:
		return "{" + strings.Join(s.translateAll(v.Elements), ", ") + "}"
	case *cfront.UnsupportedExpr:
		c.log.Warnf("Unsupported expression (%s) at %s is left empty", v.What, s.location(v))
		return ""

	// statements
	case *cfront.CompoundStmt:
		return s.block(v)
	case *cfront.DeclStmt:
		return s.declStmt(v)
	case *cfront.ExprStmt:
		return s.Translate(v.X)
	case *cfront.IfStmt:
		return s.ifStmt(v)
	case *cfront.ForStmt:
		return s.forStmt(v)
	case *cfront.WhileStmt:
		return "while (" + s.condition(v.Cond) + ") " + ensureBraces(s.Translate(v.Body))
	case *cfront.DoStmt:
		return "do " + ensureBraces(s.Translate(v.Body)) + " while (" + s.condition(v.Cond) + ")"
	case *cfront.SwitchStmt:
		return "switch (" + s.Translate(v.Cond) + ") " + ensureBraces(s.Translate(v.Body))
	case *cfront.CaseStmt:
		return "case " + s.Translate(v.Value) + ":\n" + ensureSemicolon(s.Translate(v.Body))
	case *cfront.DefaultStmt:
		return "default:\n" + ensureSemicolon(s.Translate(v.Body))
	case *cfront.BreakStmt:
		return "break"
	case *cfront.ContinueStmt:
		return "continue"
	case *cfront.ReturnStmt:
		return s.returnStmt(v)
	case *cfront.GotoStmt:
		return "goto " + v.Label
	case *cfront.LabelStmt:
		return s.label(v)
	case *cfront.NullStmt:
		return ""
	case *cfront.UnsupportedStmt:
		c.log.Warnf("Unsupported statement (%s) at %s is left empty", v.What, s.location(v))
		return ""

	// declarations
	case *cfront.VarDecl:
		return s.varDecl(v)
	case *cfront.EnumConstantDecl:
		if v.Init == nil {
			return v.Name
		}
		return v.Name + " = " + s.Translate(v.Init)
	case *cfront.RecordDecl, *cfront.EnumDecl, *cfront.TypedefDecl:
		// emitted at file level
		return ""
	}

	c.log.Warnf("Unhandled node kind %s at %s is left empty", n.Kind(), s.location(n))
	return ""
}

func (s *FunctionScope) translateAll(exprs []cfront.Expr) []string {
	out := make([]string, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, s.Translate(e))
	}
	return out
}

func (s *FunctionScope) location(n cfront.Node) string {
	f := s.ctx.file
	if f == nil {
		return "?"
	}
	if sp := n.Span(); sp.Start >= 0 && sp.Start < len(f.Tokens) {
		return fmt.Sprintf("%s:%d", f.Path, f.Tokens[sp.Start].Line)
	}
	return f.Path
}

// integerLiteral renders the value in decimal. C's l suffix is dropped
// because long is 32 bits here; ll becomes C#'s l.
func integerLiteral(l *cfront.IntegerLiteral) string {
	suffix := ""
	if l.Unsigned() {
		suffix = "u"
	}
	if l.LongCount() >= 2 {
		suffix += "l"
	}
	return l.Decimal() + suffix
}

func floatLiteral(text string) string {
	text = strings.TrimRight(text, "lL")
	body := strings.TrimRight(text, "fF")
	suffix := text[len(body):]
	if strings.HasSuffix(body, ".") {
		body += "0"
	}
	if strings.HasPrefix(body, ".") {
		body = "0" + body
	}
	return body + suffix
}

// quoteString renders decoded C string bytes as a C# string literal.
func quoteString(v string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(v); i++ {
		ch := v[i]
		switch ch {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if ch < 0x20 || ch >= 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, ch)
			} else {
				sb.WriteByte(ch)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (s *FunctionScope) declRef(v *cfront.DeclRefExpr) string {
	switch d := v.Decl.(type) {
	case *cfront.VarDecl:
		if name, ok := s.statics[d]; ok {
			return name
		}
	case *cfront.EnumConstantDecl:
		if d.Enum != nil && d.Enum.Name != "" {
			return FixReservedWords(d.Enum.Name) + "." + FixReservedWords(d.Name)
		}
	}
	return FixReservedWords(v.Name)
}

// unary renders prefix operators before the operand and postfix ones after
// it. & and * disappear when they produce a class or a callable, since
// those are already references.
func (s *FunctionScope) unary(v *cfront.UnaryOperator) string {
	operand := s.Translate(v.Operand)
	op := v.Op.Spelling()
	if v.Postfix {
		return operand + op
	}
	if v.Op == cfront.AND || v.Op == cfront.STAR {
		d := ctypes.Resolve(v.Type())
		if s.ctx.IsClass(d) || d.Kind == ctypes.Function {
			return operand
		}
	}
	return joinTokens(op, operand)
}

// joinTokens glues an operator to the text after it, separated by one
// space where the two would otherwise lex as a different token: - -x is
// not --x, and a / *p does not open a comment.
func joinTokens(left, right string) string {
	if left == "" || right == "" {
		return left + right
	}
	switch left[len(left)-1:] + right[:1] {
	case "--", "++", "&&", "||", "//", "/*":
		return left + " " + right
	}
	return left + right
}

// sizeof handles fixed-size arrays itself and renders every other
// measurable type through sizeof(T). alignof is approximated as the default
// alignment of 4.
func (s *FunctionScope) sizeof(v *cfront.SizeofExpr) string {
	if v.Trait == cfront.ALIGNOF {
		return "4"
	}
	d := ctypes.Resolve(v.OperandType())
	switch {
	case d.IsMultiDimensional():
		s.ctx.log.Warnf("Sizeof for multidimensional arrays is unsupported at %s", s.location(v))
		return "1"
	case d.IsFixedSizeArray():
		return fmt.Sprintf("%d * sizeof(%s)", d.Size(), s.ctx.ElementTypeName(d))
	case d.IsVoid(), d.Kind == ctypes.Function && d.PointerDepth == 0:
		return s.ctx.sourceText(v)
	}
	return "sizeof(" + s.ctx.TypeName(d) + ")"
}

func (s *FunctionScope) binary(v *cfront.BinaryOperator) string {
	lhs, rhs := s.Translate(v.LHS), s.Translate(v.RHS)
	switch v.Op {
	case cfront.ASSIGN, cfront.EQUALS, cfront.NOT_EQ:
		if isNullPointerConstant(v.RHS) && cfront.IsPointerLike(v.LHS.Type()) {
			rhs = "null"
		} else if isNullPointerConstant(v.LHS) && cfront.IsPointerLike(v.RHS.Type()) {
			lhs = "null"
		}
	}
	if v.Op == cfront.ASSIGN {
		if str, ok := cString(ctypes.Resolve(v.LHS.Type()), v.RHS); ok {
			rhs = str
		}
	}
	return lhs + joinTokens(v.Op.Spelling(), rhs)
}

// cString renders a string literal stored through a char pointer. C#
// string literals are managed, so the runtime copies them into unmanaged
// memory first.
func cString(d ctypes.Descriptor, e cfront.Expr) (string, bool) {
	for {
		p, ok := e.(*cfront.ParenExpr)
		if !ok {
			break
		}
		e = p.Inner
	}
	lit, ok := e.(*cfront.StringLiteral)
	if !ok || d.Kind != ctypes.Primitive || d.PointerDepth != 1 || d.IsArray() {
		return "", false
	}
	switch d.Name {
	case "sbyte":
		return "CString(" + quoteString(lit.Value) + ")", true
	case "byte":
		return "(byte*)CString(" + quoteString(lit.Value) + ")", true
	}
	return "", false
}

// condition renders an expression used as a truth value. C tests scalars
// against zero implicitly; C# wants a bool, so numbers are compared with 0
// and pointers with null. Enums are compared through their int value.
// Parenthesised, logical, relational and negated expressions are left
// alone.
func (s *FunctionScope) condition(e cfront.Expr) string {
	text := s.Translate(e)
	if isBooleanExpr(e) {
		return text
	}
	d := ctypes.Resolve(e.Type())
	switch {
	case d.IsPointer():
		return parentize(text) + " != null"
	case d.Kind == ctypes.Primitive:
		return parentize(text) + " != 0"
	case d.Kind == ctypes.Enum:
		return "(int)" + parentize(text) + " != 0"
	}
	return text
}

func isBooleanExpr(e cfront.Expr) bool {
	switch v := e.(type) {
	case *cfront.ParenExpr, *cfront.BoolLiteral:
		return true
	case *cfront.BinaryOperator:
		switch v.Op {
		case cfront.AND_LOGICAL, cfront.OR_LOGICAL,
			cfront.EQUALS, cfront.NOT_EQ,
			cfront.LESS, cfront.GREATER, cfront.LESS_EQ, cfront.GREATER_EQ:
			return true
		}
	case *cfront.UnaryOperator:
		return v.Op == cfront.NOT && !v.Postfix
	}
	b, ok := cfront.Canonical(e.Type()).(*cfront.Builtin)
	return ok && b.Kind == cfront.Bool
}

// isNullPointerConstant matches 0, (T*)0 and NULL, with any parentheses.
func isNullPointerConstant(e cfront.Expr) bool {
	switch v := e.(type) {
	case *cfront.ParenExpr:
		return isNullPointerConstant(v.Inner)
	case *cfront.CastExpr:
		return cfront.IsPointerLike(v.To) && isNullPointerConstant(v.Operand)
	case *cfront.IntegerLiteral:
		return v.Value == 0
	}
	return false
}

// member picks . or -> from the classified type of the base: classes and
// values use ., only pointers to structs use ->.
func (s *FunctionScope) member(v *cfront.MemberExpr) string {
	base := s.Translate(v.Base)
	d := ctypes.Resolve(v.Base.Type())
	op := "."
	if base != "this" && !s.ctx.IsClass(d) && d.PointerDepth > 0 {
		op = "->"
	}
	return base + op + s.ctx.memberPath(d.Record, v.Member)
}

// memberPath spells a member access, going through the generated field of
// any anonymous struct or union the member lives in.
func (c *Context) memberPath(r *cfront.RecordDecl, member string) string {
	name := FixReservedWords(member)
	if r == nil {
		return name
	}
	for _, f := range r.Fields {
		if f.Name == member {
			return name
		}
	}
	for _, f := range r.Fields {
		if f.Name != "" || f.Nested == nil || f.Nested.Field(member) == nil {
			continue
		}
		sub, ok := c.byDecl[f.Nested]
		if !ok {
			return name
		}
		return anonymousMemberName(sub) + "." + c.memberPath(f.Nested, member)
	}
	return name
}

func (s *FunctionScope) call(v *cfront.CallExpr) string {
	callee := deparentize(s.Translate(v.Callee))
	s.ctx.log.Debugf("Generating function call %s", callee)

	var params []cfront.CType
	if proto := cfront.AsFunction(v.Callee.Type()); proto != nil {
		params = proto.Params
	}
	args := make([]string, 0, len(v.Args))
	for i, a := range v.Args {
		if i < len(params) && cfront.IsPointerLike(params[i]) && isNullPointerConstant(a) {
			args = append(args, "null")
			continue
		}
		if i < len(params) {
			if str, ok := cString(ctypes.Resolve(params[i]), a); ok {
				args = append(args, str)
				continue
			}
		}
		args = append(args, s.Translate(a))
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (s *FunctionScope) cast(v *cfront.CastExpr) string {
	operand := s.Translate(v.Operand)
	d := ctypes.Resolve(v.To)
	if d.IsVoid() {
		return operand
	}
	return "(" + s.ctx.TypeName(d) + ")" + parentize(operand)
}

package cfront

import (
	"fmt"
	"strings"
)

// NodeKind tags every AST node. The names follow clang's cursor kinds so AST
// dumps read the same as a clang -ast-dump of the same file.
type NodeKind int

const (
	KindUnexposedExpr NodeKind = iota
	KindIntegerLiteral
	KindFloatingLiteral
	KindCharacterLiteral
	KindStringLiteral
	KindBoolLiteral
	KindDeclRefExpr
	KindUnaryOperator
	KindUnaryExprOrTypeTraitExpr
	KindBinaryOperator
	KindCompoundAssignOperator
	KindConditionalOperator
	KindMemberRefExpr
	KindCallExpr
	KindArraySubscriptExpr
	KindParenExpr
	KindCStyleCastExpr
	KindInitListExpr

	KindUnexposedStmt
	KindCompoundStmt
	KindDeclStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindCaseStmt
	KindDefaultStmt
	KindBreakStmt
	KindContinueStmt
	KindReturnStmt
	KindGotoStmt
	KindLabelStmt
	KindNullStmt

	KindVarDecl
	KindParmDecl
	KindFunctionDecl
	KindStructDecl
	KindUnionDecl
	KindFieldDecl
	KindEnumDecl
	KindEnumConstantDecl
	KindTypedefDecl
	KindTranslationUnit
)

var kindNames = map[NodeKind]string{
	KindUnexposedExpr:            "UnexposedExpr",
	KindIntegerLiteral:           "IntegerLiteral",
	KindFloatingLiteral:          "FloatingLiteral",
	KindCharacterLiteral:         "CharacterLiteral",
	KindStringLiteral:            "StringLiteral",
	KindBoolLiteral:              "CXXBoolLiteralExpr",
	KindDeclRefExpr:              "DeclRefExpr",
	KindUnaryOperator:            "UnaryOperator",
	KindUnaryExprOrTypeTraitExpr: "UnaryExprOrTypeTraitExpr",
	KindBinaryOperator:           "BinaryOperator",
	KindCompoundAssignOperator:   "CompoundAssignOperator",
	KindConditionalOperator:      "ConditionalOperator",
	KindMemberRefExpr:            "MemberRefExpr",
	KindCallExpr:                 "CallExpr",
	KindArraySubscriptExpr:       "ArraySubscriptExpr",
	KindParenExpr:                "ParenExpr",
	KindCStyleCastExpr:           "CStyleCastExpr",
	KindInitListExpr:             "InitListExpr",
	KindUnexposedStmt:            "UnexposedStmt",
	KindCompoundStmt:             "CompoundStmt",
	KindDeclStmt:                 "DeclStmt",
	KindExprStmt:                 "ExprStmt",
	KindIfStmt:                   "IfStmt",
	KindForStmt:                  "ForStmt",
	KindWhileStmt:                "WhileStmt",
	KindDoStmt:                   "DoStmt",
	KindSwitchStmt:               "SwitchStmt",
	KindCaseStmt:                 "CaseStmt",
	KindDefaultStmt:              "DefaultStmt",
	KindBreakStmt:                "BreakStmt",
	KindContinueStmt:             "ContinueStmt",
	KindReturnStmt:               "ReturnStmt",
	KindGotoStmt:                 "GotoStmt",
	KindLabelStmt:                "LabelStmt",
	KindNullStmt:                 "NullStmt",
	KindVarDecl:                  "VarDecl",
	KindParmDecl:                 "ParmDecl",
	KindFunctionDecl:             "FunctionDecl",
	KindStructDecl:               "StructDecl",
	KindUnionDecl:                "UnionDecl",
	KindFieldDecl:                "FieldDecl",
	KindEnumDecl:                 "EnumDecl",
	KindEnumConstantDecl:         "EnumConstantDecl",
	KindTypedefDecl:              "TypedefDecl",
	KindTranslationUnit:          "TranslationUnit",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Span is the half-open range of token indices [Start, End) a node covers.
type Span struct {
	Start, End int
}

// Node is implemented by every AST node.
type Node interface {
	Kind() NodeKind
	Span() Span
	String() string
}

// Expr is implemented by every node that produces a value. Type is the
// static C type computed while parsing.
type Expr interface {
	Node
	Type() CType
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every declaration node.
type Decl interface {
	Node
	DeclName() string
	declNode()
}

type node struct{ span Span }

func (n *node) Span() Span { return n.span }

type expr struct {
	node
	typ CType
}

func (e *expr) Type() CType { return e.typ }
func (*expr) exprNode()     {}

type stmt struct{ node }

func (*stmt) stmtNode() {}

//  Expression nodes

// IntegerLiteral is an integer constant in any radix.
//
//	x = 0x1Fu;
//	    ^^^^^  IntegerLiteral{Text: "0x1Fu", Value: 31, Suffix: "u"}
type IntegerLiteral struct {
	expr
	Text string // the source token
	IntegerText
}

func (*IntegerLiteral) Kind() NodeKind     { return KindIntegerLiteral }
func (l *IntegerLiteral) String() string   { return l.Text }
func (l *IntegerLiteral) Decimal() string  { return fmt.Sprintf("%d", l.Value) }

// FloatingLiteral keeps its token text.
type FloatingLiteral struct {
	expr
	Text string
}

func (*FloatingLiteral) Kind() NodeKind   { return KindFloatingLiteral }
func (l *FloatingLiteral) String() string { return l.Text }

// CharLiteral is a character constant; Value is its numeric value.
type CharLiteral struct {
	expr
	Text  string
	Value int64
}

func (*CharLiteral) Kind() NodeKind   { return KindCharacterLiteral }
func (l *CharLiteral) String() string { return l.Text }

// StringLiteral is one or more adjacent string tokens, concatenated.
type StringLiteral struct {
	expr
	Value string // decoded bytes
}

func (*StringLiteral) Kind() NodeKind   { return KindStringLiteral }
func (s *StringLiteral) String() string { return fmt.Sprintf("%q", s.Value) }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	expr
	Value bool
}

func (*BoolLiteral) Kind() NodeKind   { return KindBoolLiteral }
func (b *BoolLiteral) String() string { return fmt.Sprintf("%t", b.Value) }

// DeclRefExpr names a variable, parameter, function or enum constant.
// Decl is nil for identifiers that were never declared (implicit functions).
type DeclRefExpr struct {
	expr
	Name string
	Decl Decl
}

func (*DeclRefExpr) Kind() NodeKind   { return KindDeclRefExpr }
func (d *DeclRefExpr) String() string { return d.Name }

// UnaryOperator is a prefix or postfix operator applied to Operand.
type UnaryOperator struct {
	expr
	Op      TokenType
	Postfix bool
	Operand Expr
}

func (*UnaryOperator) Kind() NodeKind { return KindUnaryOperator }
func (u *UnaryOperator) String() string {
	if u.Postfix {
		return fmt.Sprintf("(%s %s)", u.Operand, u.Op)
	}
	return fmt.Sprintf("(%s %s)", u.Op, u.Operand)
}

// SizeofExpr is sizeof or _Alignof applied to an expression or a type name.
type SizeofExpr struct {
	expr
	Trait   TokenType // SIZEOF or ALIGNOF
	Arg     Expr      // nil when ArgType is set
	ArgType CType
}

func (*SizeofExpr) Kind() NodeKind { return KindUnaryExprOrTypeTraitExpr }
func (s *SizeofExpr) String() string {
	if s.Arg != nil {
		return fmt.Sprintf("(%s %s)", s.Trait, s.Arg)
	}
	return fmt.Sprintf("(%s %s)", s.Trait, s.ArgType.Spelling())
}

// OperandType is the type sizeof measures.
func (s *SizeofExpr) OperandType() CType {
	if s.Arg != nil {
		return s.Arg.Type()
	}
	return s.ArgType
}

// BinaryOperator is LHS Op RHS, including assignment and the comma operator.
type BinaryOperator struct {
	expr
	Op       TokenType
	LHS, RHS Expr
}

func (b *BinaryOperator) Kind() NodeKind {
	if b.Op != ASSIGN && isAssignOp(b.Op) {
		return KindCompoundAssignOperator
	}
	return KindBinaryOperator
}
func (b *BinaryOperator) String() string {
	return fmt.Sprintf("(%s %s %s)", b.LHS, b.Op, b.RHS)
}

// ConditionalOperator is Cond ? True : False.
type ConditionalOperator struct {
	expr
	Cond, True, False Expr
}

func (*ConditionalOperator) Kind() NodeKind { return KindConditionalOperator }
func (c *ConditionalOperator) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Cond, c.True, c.False)
}

// MemberExpr is Base.Member or Base->Member.
type MemberExpr struct {
	expr
	Base   Expr
	Member string
	Arrow  bool
}

func (*MemberExpr) Kind() NodeKind { return KindMemberRefExpr }
func (m *MemberExpr) String() string {
	if m.Arrow {
		return fmt.Sprintf("%s->%s", m.Base, m.Member)
	}
	return fmt.Sprintf("%s.%s", m.Base, m.Member)
}

// CallExpr is Callee(Args...).
type CallExpr struct {
	expr
	Callee Expr
	Args   []Expr
}

func (*CallExpr) Kind() NodeKind { return KindCallExpr }
func (c *CallExpr) String() string {
	return fmt.Sprintf("CallExpr(%s, args=%v)", c.Callee, c.Args)
}

// ArraySubscriptExpr is Base[Index].
type ArraySubscriptExpr struct {
	expr
	Base, Index Expr
}

func (*ArraySubscriptExpr) Kind() NodeKind { return KindArraySubscriptExpr }
func (a *ArraySubscriptExpr) String() string {
	return fmt.Sprintf("%s[%s]", a.Base, a.Index)
}

// ParenExpr is a parenthesised expression.
type ParenExpr struct {
	expr
	Inner Expr
}

func (*ParenExpr) Kind() NodeKind   { return KindParenExpr }
func (p *ParenExpr) String() string { return fmt.Sprintf("(%s)", p.Inner) }

// CastExpr is (To) Operand.
type CastExpr struct {
	expr
	To      CType
	Operand Expr
}

func (*CastExpr) Kind() NodeKind { return KindCStyleCastExpr }
func (c *CastExpr) String() string {
	return fmt.Sprintf("Cast(%s, %s)", c.To.Spelling(), c.Operand)
}

// InitListExpr is { e0, e1, ... }.
type InitListExpr struct {
	expr
	Elements []Expr
}

func (*InitListExpr) Kind() NodeKind { return KindInitListExpr }
func (l *InitListExpr) String() string {
	return fmt.Sprintf("InitList(len=%d, %v)", len(l.Elements), l.Elements)
}

// UnsupportedExpr stands in for a construct the parser accepts but no later
// stage understands (compound literals, designated initializers, GNU
// statement expressions). What says which.
type UnsupportedExpr struct {
	expr
	What string
}

func (*UnsupportedExpr) Kind() NodeKind   { return KindUnexposedExpr }
func (u *UnsupportedExpr) String() string { return "Unsupported(" + u.What + ")" }

//  Statement nodes

// CompoundStmt is { Stmts... }.
type CompoundStmt struct {
	stmt
	Stmts []Stmt
}

func (*CompoundStmt) Kind() NodeKind { return KindCompoundStmt }
func (c *CompoundStmt) String() string {
	return fmt.Sprintf("Block(%d stmts)", len(c.Stmts))
}

// DeclStmt is a declaration inside a function body.
type DeclStmt struct {
	stmt
	Decls []Decl
}

func (*DeclStmt) Kind() NodeKind { return KindDeclStmt }
func (d *DeclStmt) String() string {
	names := make([]string, len(d.Decls))
	for i, decl := range d.Decls {
		names[i] = decl.DeclName()
	}
	return "Decl(" + strings.Join(names, ", ") + ")"
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	stmt
	X Expr
}

func (*ExprStmt) Kind() NodeKind   { return KindExprStmt }
func (e *ExprStmt) String() string { return e.X.String() }

// IfStmt is if (Cond) Then else Else; Else may be nil.
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) Kind() NodeKind   { return KindIfStmt }
func (i *IfStmt) String() string { return fmt.Sprintf("If(%s)", i.Cond) }

// ForStmt is for (Init; Cond; Inc) Body. Init is nil, a *DeclStmt or an
// *ExprStmt; Cond and Inc may be nil.
type ForStmt struct {
	stmt
	Init Stmt
	Cond Expr
	Inc  Expr
	Body Stmt
}

func (*ForStmt) Kind() NodeKind   { return KindForStmt }
func (f *ForStmt) String() string { return fmt.Sprintf("For(%v; %v; %v)", f.Init, f.Cond, f.Inc) }

// WhileStmt is while (Cond) Body.
type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

func (*WhileStmt) Kind() NodeKind   { return KindWhileStmt }
func (w *WhileStmt) String() string { return fmt.Sprintf("While(%s)", w.Cond) }

// DoStmt is do Body while (Cond);
type DoStmt struct {
	stmt
	Body Stmt
	Cond Expr
}

func (*DoStmt) Kind() NodeKind   { return KindDoStmt }
func (d *DoStmt) String() string { return fmt.Sprintf("Do(%s)", d.Cond) }

// SwitchStmt is switch (Cond) Body.
type SwitchStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

func (*SwitchStmt) Kind() NodeKind   { return KindSwitchStmt }
func (s *SwitchStmt) String() string { return fmt.Sprintf("Switch(%s)", s.Cond) }

// CaseStmt is `case Value: Body`.
type CaseStmt struct {
	stmt
	Value Expr
	Body  Stmt
}

func (*CaseStmt) Kind() NodeKind   { return KindCaseStmt }
func (c *CaseStmt) String() string { return fmt.Sprintf("Case(%s)", c.Value) }

// DefaultStmt is `default: Body`.
type DefaultStmt struct {
	stmt
	Body Stmt
}

func (*DefaultStmt) Kind() NodeKind { return KindDefaultStmt }
func (*DefaultStmt) String() string { return "Default" }

// BreakStmt is `break;`.
type BreakStmt struct{ stmt }

func (*BreakStmt) Kind() NodeKind { return KindBreakStmt }
func (*BreakStmt) String() string { return "Break" }

// ContinueStmt is `continue;`.
type ContinueStmt struct{ stmt }

func (*ContinueStmt) Kind() NodeKind { return KindContinueStmt }
func (*ContinueStmt) String() string { return "Continue" }

// ReturnStmt is `return Value;`; Value may be nil.
type ReturnStmt struct {
	stmt
	Value Expr
}

func (*ReturnStmt) Kind() NodeKind { return KindReturnStmt }
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "Return"
	}
	return fmt.Sprintf("Return(%s)", r.Value)
}

// GotoStmt is `goto Label;`.
type GotoStmt struct {
	stmt
	Label string
}

func (*GotoStmt) Kind() NodeKind   { return KindGotoStmt }
func (g *GotoStmt) String() string { return "Goto(" + g.Label + ")" }

// LabelStmt is `Label: Body`.
type LabelStmt struct {
	stmt
	Label string
	Body  Stmt
}

func (*LabelStmt) Kind() NodeKind   { return KindLabelStmt }
func (l *LabelStmt) String() string { return "Label(" + l.Label + ")" }

// NullStmt is a lone `;`.
type NullStmt struct{ stmt }

func (*NullStmt) Kind() NodeKind { return KindNullStmt }
func (*NullStmt) String() string { return "Null" }

// UnsupportedStmt is the statement counterpart of UnsupportedExpr.
type UnsupportedStmt struct {
	stmt
	What string
}

func (*UnsupportedStmt) Kind() NodeKind   { return KindUnexposedStmt }
func (u *UnsupportedStmt) String() string { return "Unsupported(" + u.What + ")" }

//  Declaration nodes

// StorageClass is the storage-class specifier of a declaration.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
	StorageAuto
	StorageRegister
	StorageTypedef
)

// VarDecl declares a variable at file or block scope.
type VarDecl struct {
	node
	Name    string
	Type    CType
	Init    Expr
	Storage StorageClass
	Local   bool // declared inside a function body
}

func (*VarDecl) Kind() NodeKind     { return KindVarDecl }
func (v *VarDecl) DeclName() string { return v.Name }
func (*VarDecl) declNode()          {}
func (v *VarDecl) String() string   { return fmt.Sprintf("Var(%s %s)", v.Type.Spelling(), v.Name) }

// ParamDecl is one parameter of a function definition or prototype.
type ParamDecl struct {
	node
	Name string
	Type CType
}

func (*ParamDecl) Kind() NodeKind     { return KindParmDecl }
func (p *ParamDecl) DeclName() string { return p.Name }
func (*ParamDecl) declNode()          {}
func (p *ParamDecl) String() string   { return fmt.Sprintf("Param(%s %s)", p.Type.Spelling(), p.Name) }

// FunctionDecl is a function prototype or definition. Body is nil for a
// prototype.
type FunctionDecl struct {
	node
	Name    string
	Type    *FunctionProto
	Params  []*ParamDecl
	Body    *CompoundStmt
	Storage StorageClass
	Inline  bool
}

func (*FunctionDecl) Kind() NodeKind     { return KindFunctionDecl }
func (f *FunctionDecl) DeclName() string { return f.Name }
func (*FunctionDecl) declNode()          {}
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("Function(%s, params=%d, body=%t)", f.Name, len(f.Params), f.Body != nil)
}

// RecordDecl is a struct or union. Name is the tag, or the typedef name of an
// anonymous record declared in a typedef; it is empty for a truly anonymous
// record.
type RecordDecl struct {
	node
	Name     string
	Union    bool
	Fields   []*FieldDecl
	Complete bool
	// Nested is set for records declared inside another record's body.
	Nested bool
}

func (r *RecordDecl) Kind() NodeKind {
	if r.Union {
		return KindUnionDecl
	}
	return KindStructDecl
}
func (r *RecordDecl) DeclName() string { return r.Name }
func (*RecordDecl) declNode()          {}
func (r *RecordDecl) String() string {
	return fmt.Sprintf("%s(%s, fields=%d)", r.Kind(), r.Name, len(r.Fields))
}

// Anonymous reports whether the record has neither a tag nor a typedef name.
func (r *RecordDecl) Anonymous() bool { return r.Name == "" }

// Field finds a field by name, searching through anonymous members.
func (r *RecordDecl) Field(name string) *FieldDecl {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
		if f.Name == "" && f.Nested != nil {
			if inner := f.Nested.Field(name); inner != nil {
				return inner
			}
		}
	}
	return nil
}

// FieldDecl is one member of a record. Nested is set when the member's type
// is a record defined inline in the member declaration. BitWidth is -1 for
// ordinary members.
type FieldDecl struct {
	node
	Name     string
	Type     CType
	Nested   *RecordDecl
	BitWidth int
}

func (*FieldDecl) Kind() NodeKind     { return KindFieldDecl }
func (f *FieldDecl) DeclName() string { return f.Name }
func (*FieldDecl) declNode()          {}
func (f *FieldDecl) String() string   { return fmt.Sprintf("Field(%s %s)", f.Type.Spelling(), f.Name) }

// EnumDecl is an enumeration.
type EnumDecl struct {
	node
	Name      string
	Constants []*EnumConstantDecl
	Complete  bool
}

func (*EnumDecl) Kind() NodeKind     { return KindEnumDecl }
func (e *EnumDecl) DeclName() string { return e.Name }
func (*EnumDecl) declNode()          {}
func (e *EnumDecl) String() string {
	return fmt.Sprintf("Enum(%s, constants=%d)", e.Name, len(e.Constants))
}

// EnumConstantDecl is one enumerator. Value is its folded value; Init is the
// explicit initializer expression, if any.
type EnumConstantDecl struct {
	node
	Name  string
	Init  Expr
	Value int64
	Enum  *EnumDecl
}

func (*EnumConstantDecl) Kind() NodeKind     { return KindEnumConstantDecl }
func (c *EnumConstantDecl) DeclName() string { return c.Name }
func (*EnumConstantDecl) declNode()          {}
func (c *EnumConstantDecl) String() string   { return fmt.Sprintf("EnumConstant(%s=%d)", c.Name, c.Value) }

// TypedefDecl introduces Name for Underlying. System typedefs come from the
// built-in prelude and are never part of a File's declarations.
type TypedefDecl struct {
	node
	Name       string
	Underlying CType
	System     bool
}

func (*TypedefDecl) Kind() NodeKind     { return KindTypedefDecl }
func (t *TypedefDecl) DeclName() string { return t.Name }
func (*TypedefDecl) declNode()          {}
func (t *TypedefDecl) String() string {
	return fmt.Sprintf("Typedef(%s = %s)", t.Name, t.Underlying.Spelling())
}

// compile-time interface checks
var (
	_ Expr = (*IntegerLiteral)(nil)
	_ Expr = (*UnsupportedExpr)(nil)
	_ Stmt = (*LabelStmt)(nil)
	_ Stmt = (*UnsupportedStmt)(nil)
	_ Decl = (*RecordDecl)(nil)
	_ Decl = (*TypedefDecl)(nil)
)

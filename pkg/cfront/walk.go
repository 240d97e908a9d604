package cfront

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, c := range children {
			if c != nil && !isNilNode(c) {
				out = append(out, c)
			}
		}
	}

	switch v := n.(type) {
	case *File:
		for _, d := range v.Decls {
			add(d)
		}
	case *UnaryOperator:
		add(v.Operand)
	case *SizeofExpr:
		if v.Arg != nil {
			add(v.Arg)
		}
	case *BinaryOperator:
		add(v.LHS, v.RHS)
	case *ConditionalOperator:
		add(v.Cond, v.True, v.False)
	case *MemberExpr:
		add(v.Base)
	case *CallExpr:
		add(v.Callee)
		for _, a := range v.Args {
			add(a)
		}
	case *ArraySubscriptExpr:
		add(v.Base, v.Index)
	case *ParenExpr:
		add(v.Inner)
	case *CastExpr:
		add(v.Operand)
	case *InitListExpr:
		for _, e := range v.Elements {
			add(e)
		}
	case *CompoundStmt:
		for _, s := range v.Stmts {
			add(s)
		}
	case *DeclStmt:
		for _, d := range v.Decls {
			add(d)
		}
	case *ExprStmt:
		add(v.X)
	case *IfStmt:
		add(v.Cond, v.Then)
		if v.Else != nil {
			add(v.Else)
		}
	case *ForStmt:
		if v.Init != nil {
			add(v.Init)
		}
		if v.Cond != nil {
			add(v.Cond)
		}
		if v.Inc != nil {
			add(v.Inc)
		}
		add(v.Body)
	case *WhileStmt:
		add(v.Cond, v.Body)
	case *DoStmt:
		add(v.Body, v.Cond)
	case *SwitchStmt:
		add(v.Cond, v.Body)
	case *CaseStmt:
		add(v.Value, v.Body)
	case *DefaultStmt:
		add(v.Body)
	case *ReturnStmt:
		if v.Value != nil {
			add(v.Value)
		}
	case *LabelStmt:
		add(v.Body)
	case *VarDecl:
		if v.Init != nil {
			add(v.Init)
		}
	case *FunctionDecl:
		for _, prm := range v.Params {
			add(prm)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *RecordDecl:
		for _, f := range v.Fields {
			if f.Nested != nil && f.Name == "" {
				add(f.Nested)
				continue
			}
			if f.Nested != nil {
				add(f.Nested)
			}
			add(f)
		}
	case *EnumDecl:
		for _, c := range v.Constants {
			add(c)
		}
	case *EnumConstantDecl:
		if v.Init != nil {
			add(v.Init)
		}
	}
	return out
}

// isNilNode catches typed nil pointers stored in interface fields.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *CompoundStmt:
		return v == nil
	case *ParamDecl:
		return v == nil
	case *RecordDecl:
		return v == nil
	}
	return false
}

// Inspect traverses the tree rooted at n depth first, calling f for every
// node. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

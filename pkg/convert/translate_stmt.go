package convert

import (
	"fmt"
	"strings"

	"c2cs/pkg/cfront"
	"c2cs/pkg/ctypes"
)

func (s *FunctionScope) block(v *cfront.CompoundStmt) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, st := range v.Stmts {
		if text := ensureSemicolon(s.Translate(st)); text != "" {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("}")
	return sb.String()
}

func (s *FunctionScope) declStmt(v *cfront.DeclStmt) string {
	var sb strings.Builder
	for _, d := range v.Decls {
		sb.WriteString(ensureSemicolon(s.Translate(d)))
	}
	return sb.String()
}

func (s *FunctionScope) ifStmt(v *cfront.IfStmt) string {
	then := ensureSemicolon(s.Translate(v.Then))
	if strings.TrimSpace(then) == "" {
		then = "{}"
	}
	out := "if (" + s.condition(v.Cond) + ") " + then
	if v.Else != nil {
		out += " else " + ensureBraces(s.Translate(v.Else))
	}
	return out
}

// forStmt keeps every clause position, so an omitted clause is an empty
// segment, and always gives the loop a block body.
func (s *FunctionScope) forStmt(v *cfront.ForStmt) string {
	var init, cond, inc string
	switch in := v.Init.(type) {
	case *cfront.DeclStmt:
		init = s.forInit(in)
	case *cfront.ExprStmt:
		init = s.Translate(in.X)
	}
	if v.Cond != nil {
		cond = s.condition(v.Cond)
	}
	if v.Inc != nil {
		inc = s.Translate(v.Inc)
	}
	return fmt.Sprintf("for(%s;%s;%s) %s", init, cond, inc, ensureBraces(s.Translate(v.Body)))
}

// forInit joins the declarators of a for-loop declaration into one C#
// declaration: int i=0, j=1.
func (s *FunctionScope) forInit(ds *cfront.DeclStmt) string {
	var parts []string
	var first string
	for _, d := range ds.Decls {
		v, ok := d.(*cfront.VarDecl)
		if !ok {
			continue
		}
		text := s.varDecl(v)
		if text == "" {
			continue
		}
		typ := s.ctx.TypeOf(v.Type) + " "
		if first == "" {
			first = typ
		} else if typ == first {
			text = strings.TrimPrefix(text, typ)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", ")
}

func (s *FunctionScope) returnStmt(v *cfront.ReturnStmt) string {
	if v.Value == nil {
		return "return"
	}
	if s.ReturnType.IsPointer() && isNullPointerConstant(v.Value) {
		return "return null"
	}
	ret := s.Translate(v.Value)
	if ret == "" {
		return "return"
	}
	return "return " + ret
}

// label renders the label followed by the statements nested under it,
// each on its own line and terminated. Directly nested labels are
// flattened as well.
func (s *FunctionScope) label(v *cfront.LabelStmt) string {
	lines := []string{v.Label + ":"}
	for cur := v.Body; cur != nil; {
		if l, ok := cur.(*cfront.LabelStmt); ok {
			lines = append(lines, l.Label+":")
			cur = l.Body
			continue
		}
		if text := ensureSemicolon(s.Translate(cur)); text != "" {
			lines = append(lines, text)
		}
		break
	}
	return strings.Join(lines, "\n")
}

// varDecl renders a local variable. Static locals are renamed after the
// function, hoisted to the global constants and leave nothing behind.
func (s *FunctionScope) varDecl(v *cfront.VarDecl) string {
	if v.Storage == cfront.StorageExtern {
		return ""
	}
	name := FixReservedWords(v.Name)
	hoisted := v.Local && v.Storage == cfront.StorageStatic
	if hoisted {
		name = s.FunctionName + "_" + name
		s.statics[v] = name
	}

	decl := s.declaration(v, name, hoisted || !v.Local)
	s.ctx.log.Debugf("Generating variable declaration %s", decl)

	if hoisted {
		s.ctx.out.GlobalConstants = append(s.ctx.out.GlobalConstants, "public static "+ensureSemicolon(decl))
		return ""
	}
	return decl
}

// declaration renders `T name=init` without the terminator. managed
// selects C# arrays over stack buffers for array variables, which static
// storage needs.
func (s *FunctionScope) declaration(v *cfront.VarDecl, name string, managed bool) string {
	d := ctypes.Resolve(v.Type)
	if d.IsArray() {
		return s.arrayDeclaration(v, d, name, managed)
	}

	typ := s.ctx.TypeName(d)
	var right string
	if v.Init != nil {
		right = s.initValue(d, v.Init)
	}
	if right == "" && d.Kind == ctypes.Struct && d.PointerDepth == 0 {
		right = "new " + typ + "()"
	}
	if right == "" {
		return typ + " " + name
	}
	return typ + " " + name + "=" + right
}

func (s *FunctionScope) arrayDeclaration(v *cfront.VarDecl, d ctypes.Descriptor, name string, managed bool) string {
	elem := d.Element()
	elemName := s.ctx.TypeName(elem)
	n := 1
	for _, dim := range d.ArrayDims {
		n *= dim
	}
	if d.IsMultiDimensional() {
		s.ctx.log.Warnf("Multidimensional array %s is flattened to %d elements", name, n)
	}

	var elems []string
	switch init := v.Init.(type) {
	case *cfront.InitListExpr:
		elems = s.arrayElements(elem, init)
	case *cfront.StringLiteral:
		for i := 0; i < len(init.Value); i++ {
			elems = append(elems, fmt.Sprintf("%d", init.Value[i]))
		}
		elems = append(elems, "0")
	}
	if len(elems) > n {
		elems = elems[:n]
	}
	if allZero(elems) {
		elems = nil
	}

	// every class element is constructed, like a C array of structs
	if s.ctx.IsClass(elem) && elem.PointerDepth == 0 {
		if len(elems) == 0 {
			return fmt.Sprintf("%s[] %s=NewArray<%s>(%d)", elemName, name, elemName, n)
		}
		for i, e := range elems {
			if e == "default" {
				elems[i] = "new " + elemName + "()"
			}
		}
		for len(elems) < n {
			elems = append(elems, "new "+elemName+"()")
		}
		return fmt.Sprintf("%s[] %s=new %s[%d] {%s}", elemName, name, elemName, n, strings.Join(elems, ", "))
	}

	for len(elems) > 0 && len(elems) < n {
		elems = append(elems, "default")
	}
	values := ""
	if len(elems) > 0 {
		values = " {" + strings.Join(elems, ", ") + "}"
	}

	if managed || elem.Kind == ctypes.Function || s.ctx.IsClass(elem) {
		return fmt.Sprintf("%s[] %s=new %s[%d]%s", elemName, name, elemName, n, values)
	}
	return fmt.Sprintf("%s* %s=stackalloc %s[%d]%s", elemName, name, elemName, n, values)
}

// arrayElements flattens nested initializer lists in element order.
func (s *FunctionScope) arrayElements(elem ctypes.Descriptor, il *cfront.InitListExpr) []string {
	var out []string
	for _, e := range il.Elements {
		if inner, ok := e.(*cfront.InitListExpr); ok && elem.Kind != ctypes.Struct {
			out = append(out, s.arrayElements(elem, inner)...)
			continue
		}
		out = append(out, s.initValue(elem, e))
	}
	return out
}

func allZero(elems []string) bool {
	if len(elems) == 0 {
		return false
	}
	for _, e := range elems {
		if e != "0" {
			return false
		}
	}
	return true
}

// initValue renders an initializer for a value of type d.
func (s *FunctionScope) initValue(d ctypes.Descriptor, e cfront.Expr) string {
	if d.IsPointer() && !d.IsArray() && isNullPointerConstant(e) {
		return "null"
	}
	if str, ok := cString(d, e); ok {
		return str
	}
	il, ok := e.(*cfront.InitListExpr)
	if !ok {
		return s.Translate(e)
	}
	if d.Kind == ctypes.Struct && d.PointerDepth == 0 && d.Record != nil {
		return s.structInit(d, il)
	}
	if len(il.Elements) == 0 {
		return "default"
	}
	return s.initValue(d, il.Elements[0])
}

// structInit renders a brace initializer of a struct as an object
// initializer, pairing values with fields in declaration order.
func (s *FunctionScope) structInit(d ctypes.Descriptor, il *cfront.InitListExpr) string {
	var fields []*cfront.FieldDecl
	for _, f := range d.Record.Fields {
		if f.Name != "" {
			fields = append(fields, f)
		}
	}
	parts := make([]string, 0, len(il.Elements))
	for i, e := range il.Elements {
		if i >= len(fields) {
			s.ctx.log.Warnf("Excess elements in initializer of %s are dropped", s.ctx.TypeName(d))
			break
		}
		fd := ctypes.Resolve(fields[i].Type)
		if fd.IsArray() {
			s.ctx.log.Warnf("Array field %s cannot be set by an object initializer, skipping it", fields[i].Name)
			continue
		}
		parts = append(parts, FixReservedWords(fields[i].Name)+"="+s.initValue(fd, e))
	}
	return "new " + s.ctx.TypeName(d) + "(){" + strings.Join(parts, ", ") + "}"
}

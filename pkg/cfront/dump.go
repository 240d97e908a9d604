package cfront

import (
	"fmt"
	"io"
	"strings"
)

// DumpNode is a serialisable view of one AST node.
type DumpNode struct {
	Kind     string      `yaml:"kind" json:"kind"`
	Name     string      `yaml:"name,omitempty" json:"name,omitempty"`
	Type     string      `yaml:"type,omitempty" json:"type,omitempty"`
	Value    string      `yaml:"value,omitempty" json:"value,omitempty"`
	Line     int         `yaml:"line,omitempty" json:"line,omitempty"`
	Children []*DumpNode `yaml:"children,omitempty" json:"children,omitempty"`
}

// DumpTree builds the serialisable tree for n.
func DumpTree(f *File, n Node) *DumpNode {
	d := &DumpNode{Kind: n.Kind().String()}
	d.Name, d.Type, d.Value = describe(n)
	if sp := n.Span(); sp.Start >= 0 && sp.Start < len(f.Tokens) {
		d.Line = f.Tokens[sp.Start].Line
	}
	for _, c := range Children(n) {
		d.Children = append(d.Children, DumpTree(f, c))
	}
	return d
}

// Dump writes an indented node tree, one node per line.
func Dump(w io.Writer, f *File) error {
	return dumpNode(w, DumpTree(f, f), 0)
}

func dumpNode(w io.Writer, d *DumpNode, depth int) error {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(d.Kind)
	if d.Name != "" {
		fmt.Fprintf(&sb, " [%s]", d.Name)
	}
	if d.Type != "" {
		fmt.Fprintf(&sb, " '%s'", d.Type)
	}
	if d.Value != "" {
		fmt.Fprintf(&sb, " %s", d.Value)
	}
	if d.Line > 0 {
		fmt.Fprintf(&sb, " <line:%d>", d.Line)
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	for _, c := range d.Children {
		if err := dumpNode(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// describe returns the spelling, type and extra value shown for a node.
func describe(n Node) (name, typ, value string) {
	if e, ok := n.(Expr); ok && e.Type() != nil {
		typ = e.Type().Spelling()
	}
	switch v := n.(type) {
	case *File:
		name = v.Path
	case *IntegerLiteral, *FloatingLiteral, *CharLiteral, *StringLiteral, *BoolLiteral:
		value, _ = LiteralValue(v.(Expr))
		if _, isString := v.(*StringLiteral); isString {
			value = fmt.Sprintf("%q", value)
		}
	case *DeclRefExpr:
		name = v.Name
	case *UnaryOperator:
		value = v.Op.Spelling()
		if v.Postfix {
			value = "postfix " + value
		}
	case *BinaryOperator:
		value = v.Op.Spelling()
	case *MemberExpr:
		name = v.Member
		if v.Arrow {
			value = "->"
		} else {
			value = "."
		}
	case *SizeofExpr:
		value = v.Trait.Spelling()
		if v.Arg == nil {
			value += " " + v.ArgType.Spelling()
		}
	case *CastExpr:
		value = "to " + v.To.Spelling()
	case *UnsupportedExpr:
		value = v.What
	case *UnsupportedStmt:
		value = v.What
	case *GotoStmt:
		name = v.Label
	case *LabelStmt:
		name = v.Label
	case *VarDecl:
		name, typ = v.Name, v.Type.Spelling()
		if v.Storage == StorageStatic {
			value = "static"
		} else if v.Storage == StorageExtern {
			value = "extern"
		}
	case *ParamDecl:
		name, typ = v.Name, v.Type.Spelling()
	case *FunctionDecl:
		name, typ = v.Name, v.Type.Spelling()
	case *RecordDecl:
		name = v.Name
		if !v.Complete {
			value = "incomplete"
		}
	case *FieldDecl:
		name, typ = v.Name, v.Type.Spelling()
		if v.BitWidth >= 0 {
			value = fmt.Sprintf("bits:%d", v.BitWidth)
		}
	case *EnumDecl:
		name = v.Name
	case *EnumConstantDecl:
		name, typ = v.Name, "int"
		value = fmt.Sprintf("%d", v.Value)
	case *TypedefDecl:
		name, typ = v.Name, v.Underlying.Spelling()
	}
	return name, typ, value
}

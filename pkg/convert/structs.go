package convert

import (
	"fmt"
	"strings"

	"c2cs/pkg/cfront"
	"c2cs/pkg/ctypes"
)

// GenerateStructs emits every registered top-level aggregate, in
// registration order. Aggregates declared inside another aggregate's body
// are emitted as nested types of it.
func (c *Context) GenerateStructs() {
	c.log.Debug("Generating structs")
	for _, info := range c.records {
		if info.parent != nil {
			continue
		}
		c.out.Structs = append(c.out.Structs, c.generateStruct(info))
	}
}

func (c *Context) generateStruct(info *recordInfo) string {
	c.log.Infof("Generating struct %s", info.name)

	union := info.decl.Union && !info.promoted
	var sb strings.Builder
	if union {
		sb.WriteString("[StructLayout(LayoutKind.Explicit)]\n")
	}
	kind := "struct"
	if info.promoted {
		kind = "class"
	}
	fmt.Fprintf(&sb, "public unsafe %s %s\n{\n", kind, info.name)

	var ctor []string
	nested := make(map[*cfront.RecordDecl]bool)
	for _, f := range info.decl.Fields {
		name := FixReservedWords(f.Name)
		if f.Nested != nil {
			sub, ok := c.byDecl[f.Nested]
			if !ok {
				sub = c.recordStruct(f.Nested, info)
			}
			if !nested[f.Nested] {
				nested[f.Nested] = true
				sb.WriteString(c.generateStruct(sub))
				sb.WriteByte('\n')
			}
			if name == "" {
				name = anonymousMemberName(sub)
				c.log.Warnf("Anonymous member of %s is emitted as field %s", info.name, name)
			}
		}
		if name == "" {
			// unnamed bit-field padding
			continue
		}
		if f.BitWidth >= 0 {
			c.log.Debugf("Bit-field width of %s.%s is ignored", info.name, name)
		}

		decl, init, ok := c.structField(info, f, name)
		if !ok {
			continue
		}
		if union {
			decl = "[FieldOffset(0)] " + decl
		}
		sb.WriteString(decl)
		sb.WriteByte('\n')
		if init != "" {
			ctor = append(ctor, init)
		}
	}

	if len(ctor) > 0 {
		fmt.Fprintf(&sb, "public %s()\n{\n%s\n}\n", info.name, strings.Join(ctor, "\n"))
	}
	sb.WriteString("}")
	return sb.String()
}

func anonymousMemberName(sub *recordInfo) string {
	return "_" + sub.name
}

// structField renders one field. init is a constructor statement the field
// needs, if any; ok is false when the field cannot be represented and is
// left out.
func (c *Context) structField(info *recordInfo, f *cfront.FieldDecl, name string) (decl, init string, ok bool) {
	d := ctypes.Resolve(f.Type)
	switch {
	case d.IsMultiDimensional():
		c.log.Warnf("Multidimensional array field %s.%s is not supported, skipping it", info.name, name)
		return "", "", false

	case d.IsFixedSizeArray():
		elem := d.Element()
		elemName := c.TypeName(elem)
		n := d.Size()
		if !info.promoted {
			if elem.PointerDepth == 0 && (elem.Kind == ctypes.Primitive || elem.Kind == ctypes.Enum) {
				if elem.Kind == ctypes.Enum {
					elemName = "int"
				}
				return fmt.Sprintf("public fixed %s %s[%d];", elemName, name, n), "", true
			}
			c.log.Warnf("Array field %s.%s of %s cannot be a fixed buffer, skipping it", info.name, name, elemName)
			return "", "", false
		}
		decl = fmt.Sprintf("public %s[] %s = new %s[%d];", elemName, name, elemName, n)
		if elem.PointerDepth == 0 && c.IsClass(elem) {
			init = fmt.Sprintf("for (var i = 0; i < %d; i++){ %s[i] = new %s(); }", n, name, elemName)
		}
		return decl, init, true

	case d.PointerDepth == 0 && c.IsClass(d):
		// held by value in C, so the reference must never be null
		typ := c.TypeName(d)
		return fmt.Sprintf("public %s %s = new %s();", typ, name, typ), "", true
	}
	return fmt.Sprintf("public %s %s;", c.TypeName(d), name), "", true
}

// Package convert turns a parsed C translation unit into C# declarations.
//
// A Context holds everything one file's conversion accumulates: the
// registered aggregates and their class/struct classification, the callable
// alias table and the output groups. Nothing is shared between files.
package convert

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"c2cs/pkg/cfront"
	"c2cs/pkg/ctypes"
)

// Output holds the generated declarations of one file, grouped in the order
// the writer emits them.
type Output struct {
	GlobalConstants []string `msgpack:"global_constants"`
	FunctionTypes   []string `msgpack:"function_types"`
	Enums           []string `msgpack:"enums"`
	Structs         []string `msgpack:"structs"`
	Functions       []string `msgpack:"functions"`
}

// Len is the total number of declarations.
func (o *Output) Len() int {
	return len(o.GlobalConstants) + len(o.FunctionTypes) + len(o.Enums) + len(o.Structs) + len(o.Functions)
}

type alias struct {
	name string
	fn   ctypes.Descriptor
}

// Context is the conversion state of one file.
type Context struct {
	log  *zap.SugaredLogger
	file *cfront.File

	records []*recordInfo
	byDecl  map[*cfront.RecordDecl]*recordInfo
	byName  map[string]*recordInfo
	unnamed int

	aliases        []alias
	aliasIndex     map[string]int
	aliasesEmitted int

	// globals indexes file-scope variables in GlobalConstants.
	globals map[string]int

	out Output
}

// NewContext returns an empty context for file. file may be nil when the
// context is only used to classify and emit hand-built declarations.
func NewContext(log *zap.SugaredLogger, file *cfront.File) *Context {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Context{
		log:        log,
		file:       file,
		byDecl:     make(map[*cfront.RecordDecl]*recordInfo),
		byName:     make(map[string]*recordInfo),
		aliasIndex: make(map[string]int),
	}
}

// Output returns the declarations generated so far.
func (c *Context) Output() *Output { return &c.out }

func (c *Context) nextUnnamed() string {
	n := c.unnamed
	c.unnamed++
	return fmt.Sprintf("unnamed%d", n)
}

// IsClass reports whether values of d are class references, meaning d names
// an aggregate that was promoted.
func (c *Context) IsClass(d ctypes.Descriptor) bool {
	if d.Kind != ctypes.Struct || d.Record == nil {
		return false
	}
	info, ok := c.byDecl[d.Record]
	return ok && info.promoted
}

// TypeName renders d as a C# type. Callables render as their delegate
// alias, pointers to classes lose one level of indirection, anonymous enums
// are plain ints and anonymous aggregates use their generated name.
func (c *Context) TypeName(d ctypes.Descriptor) string {
	depth := d.PointerDepth
	var name string
	switch d.Kind {
	case ctypes.Function:
		name = c.FunctionTypeAlias(d)
		if depth > 0 {
			depth--
		}
	case ctypes.Struct:
		name = c.recordName(d.Record, d.Name)
		if depth > 0 && c.IsClass(d) {
			depth--
		}
	case ctypes.Enum:
		name = d.Name
		if name == "" {
			name = "int"
		}
	default:
		name = d.Name
	}
	return name + strings.Repeat("*", depth)
}

// ElementTypeName renders the element type of an array descriptor.
func (c *Context) ElementTypeName(d ctypes.Descriptor) string {
	return c.TypeName(d.Element())
}

// TypeOf resolves and renders a C type.
func (c *Context) TypeOf(t cfront.CType) string {
	return c.TypeName(ctypes.Resolve(t))
}

func (c *Context) recordName(decl *cfront.RecordDecl, fallback string) string {
	if decl != nil {
		if info, ok := c.byDecl[decl]; ok {
			return info.qualifiedName()
		}
	}
	if fallback == "" {
		return "object"
	}
	return FixReservedWords(fallback)
}

var reservedWords = map[string]bool{
	"out":       true,
	"in":        true,
	"base":      true,
	"null":      true,
	"string":    true,
	"lock":      true,
	"internal":  true,
	"value":     true,
	"params":    true,
	"object":    true,
	"ref":       true,
	"event":     true,
	"checked":   true,
	"fixed":     true,
	"is":        true,
	"as":        true,
	"new":       true,
	"this":      true,
	"class":     true,
	"delegate":  true,
	"decimal":   true,
	"namespace": true,
	"operator":  true,
	"override":  true,
	"readonly":  true,
}

// FixReservedWords renames identifiers that are keywords in C# to _name_.
func FixReservedWords(name string) string {
	if reservedWords[name] {
		return "_" + name + "_"
	}
	return name
}

// ensureSemicolon terminates a statement unless it is empty or already ends
// in a semicolon or a closing brace.
func ensureSemicolon(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if strings.HasSuffix(t, ";") || strings.HasSuffix(t, "}") {
		return s
	}
	return s + ";"
}

// ensureBraces turns a statement into a block.
func ensureBraces(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") && enclosed(t, '{', '}') {
		return t
	}
	if t == "" {
		return "{}"
	}
	return "{" + ensureSemicolon(t) + "}"
}

// enclosed reports whether the first character of s opens a bracket that is
// closed by the last character.
func enclosed(s string, lp, rp byte) bool {
	if len(s) < 2 || s[0] != lp || s[len(s)-1] != rp {
		return false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case lp:
			depth++
		case rp:
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// parentize wraps s in parentheses unless it is already wrapped.
func parentize(s string) string {
	if enclosed(s, '(', ')') {
		return s
	}
	return "(" + s + ")"
}

// deparentize strips every redundant pair of enclosing parentheses.
func deparentize(s string) string {
	s = strings.TrimSpace(s)
	for enclosed(s, '(', ')') {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

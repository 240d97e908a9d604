package cfront

import (
	"fmt"
	"sort"
	"strings"
)

// scope holds the two C name spaces that matter to the parser: ordinary
// identifiers (variables, functions, typedef names, enum constants) and tags
// (struct, union and enum names).
type scope struct {
	ordinary map[string]Decl
	tags     map[string]Decl
}

func newScope() scope {
	return scope{ordinary: make(map[string]Decl), tags: make(map[string]Decl)}
}

// SymbolTable resolves identifiers during parsing. The first scope is file
// scope; blocks and function bodies push further scopes.
type SymbolTable struct {
	scopes []scope
}

// NewSymbolTable returns a table whose file scope already holds the
// built-in prelude typedefs.
func NewSymbolTable() *SymbolTable {
	s := &SymbolTable{scopes: []scope{newScope()}}
	for _, td := range preludeTypedefs() {
		s.scopes[0].ordinary[td.Name] = td
	}
	return s
}

func (s *SymbolTable) EnterScope() {
	s.scopes = append(s.scopes, newScope())
}

func (s *SymbolTable) ExitScope() {
	if len(s.scopes) > 1 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// AtFileScope reports whether no block scope is open.
func (s *SymbolTable) AtFileScope() bool { return len(s.scopes) == 1 }

// Define binds name in the current scope, replacing any earlier binding there.
func (s *SymbolTable) Define(name string, d Decl) {
	if name == "" {
		return
	}
	s.scopes[len(s.scopes)-1].ordinary[name] = d
}

// Lookup searches ordinary identifiers from the innermost scope outwards.
func (s *SymbolTable) Lookup(name string) (Decl, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if d, ok := s.scopes[i].ordinary[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// LookupTypedef returns the typedef bound to name, if name currently denotes
// a type. A variable declared in an inner scope hides an outer typedef.
func (s *SymbolTable) LookupTypedef(name string) (*TypedefDecl, bool) {
	d, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}
	td, ok := d.(*TypedefDecl)
	return td, ok
}

// DefineTag binds a struct, union or enum tag. Tags are file scoped in C
// unless declared inside a function, so record bodies do not open a scope.
func (s *SymbolTable) DefineTag(name string, d Decl) {
	if name == "" {
		return
	}
	s.scopes[len(s.scopes)-1].tags[name] = d
}

// LookupTag searches tags from the innermost scope outwards.
func (s *SymbolTable) LookupTag(name string) (Decl, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if d, ok := s.scopes[i].tags[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// LookupTagInCurrent only searches the innermost scope, which decides whether
// `struct S {...}` defines a new tag or completes an existing one.
func (s *SymbolTable) LookupTagInCurrent(name string) (Decl, bool) {
	d, ok := s.scopes[len(s.scopes)-1].tags[name]
	return d, ok
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	for i, sc := range s.scopes {
		if i == 0 {
			sb.WriteString("File scope:\n")
		} else {
			fmt.Fprintf(&sb, "Block scope %d:\n", i)
		}
		names := make([]string, 0, len(sc.ordinary))
		for name, d := range sc.ordinary {
			if td, ok := d.(*TypedefDecl); ok && td.System {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %-20s  %s\n", name, sc.ordinary[name])
		}
		tags := make([]string, 0, len(sc.tags))
		for name := range sc.tags {
			tags = append(tags, name)
		}
		sort.Strings(tags)
		for _, name := range tags {
			fmt.Fprintf(&sb, "  tag %-16s  %s\n", name, sc.tags[name])
		}
	}
	return sb.String()
}

// preludeTypedefs are the standard typedefs a translation unit may use
// without including the system headers that define them.
func preludeTypedefs() []*TypedefDecl {
	builtin := func(k BuiltinKind) CType { return &Builtin{Kind: k} }
	file := &RecordDecl{Name: "FILE"}
	entries := []struct {
		name string
		typ  CType
	}{
		{"size_t", builtin(ULong)},
		{"ssize_t", builtin(Long)},
		{"ptrdiff_t", builtin(Long)},
		{"intptr_t", builtin(Long)},
		{"uintptr_t", builtin(ULong)},
		{"wchar_t", builtin(UShort)},
		{"int8_t", builtin(SChar)},
		{"uint8_t", builtin(UChar)},
		{"int16_t", builtin(Short)},
		{"uint16_t", builtin(UShort)},
		{"int32_t", builtin(Int)},
		{"uint32_t", builtin(UInt)},
		{"int64_t", builtin(LongLong)},
		{"uint64_t", builtin(ULongLong)},
		{"FILE", &Record{Decl: file}},
		{"va_list", &Pointer{Elem: builtin(Char)}},
	}
	out := make([]*TypedefDecl, len(entries))
	for i, e := range entries {
		out[i] = &TypedefDecl{Name: e.name, Underlying: e.typ, System: true}
	}
	return out
}

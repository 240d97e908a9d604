package cfront

import (
	"fmt"
	"strings"
)

// CType is a C type as written in the source. Typedef sugar is preserved;
// Canonical strips it.
type CType interface {
	// Spelling renders the type the way a C compiler prints it.
	Spelling() string
	// Qualifiers returns the qualifiers applied at this level.
	Qualifiers() Qualifiers
	ctypeNode()
}

// Qualifiers is a bit set of type qualifiers.
type Qualifiers uint8

const (
	QualConst Qualifiers = 1 << iota
	QualVolatile
	QualRestrict
)

func (q Qualifiers) Const() bool { return q&QualConst != 0 }

func (q Qualifiers) prefix() string {
	var parts []string
	if q&QualConst != 0 {
		parts = append(parts, "const")
	}
	if q&QualVolatile != 0 {
		parts = append(parts, "volatile")
	}
	if q&QualRestrict != 0 {
		parts = append(parts, "restrict")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

// BuiltinKind enumerates the arithmetic and void types.
type BuiltinKind int

const (
	Void BuiltinKind = iota
	Bool
	Char // plain char, signed on every target we care about
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
)

var builtinSpellings = [...]string{
	Void:       "void",
	Bool:       "_Bool",
	Char:       "char",
	SChar:      "signed char",
	UChar:      "unsigned char",
	Short:      "short",
	UShort:     "unsigned short",
	Int:        "int",
	UInt:       "unsigned int",
	Long:       "long",
	ULong:      "unsigned long",
	LongLong:   "long long",
	ULongLong:  "unsigned long long",
	Float:      "float",
	Double:     "double",
	LongDouble: "long double",
}

func (k BuiltinKind) String() string {
	if int(k) >= 0 && int(k) < len(builtinSpellings) {
		return builtinSpellings[k]
	}
	return fmt.Sprintf("BuiltinKind(%d)", int(k))
}

// IsInteger reports whether values of the kind are integers (bool included).
func (k BuiltinKind) IsInteger() bool { return k >= Bool && k <= ULongLong }

// IsFloating reports whether the kind is float, double or long double.
func (k BuiltinKind) IsFloating() bool { return k >= Float }

// IsUnsigned reports whether the kind is an unsigned integer.
func (k BuiltinKind) IsUnsigned() bool {
	switch k {
	case Bool, UChar, UShort, UInt, ULong, ULongLong:
		return true
	}
	return false
}

// rank orders kinds for the usual arithmetic conversions.
func (k BuiltinKind) rank() int {
	switch k {
	case Bool:
		return 0
	case Char, SChar, UChar:
		return 1
	case Short, UShort:
		return 2
	case Int, UInt:
		return 3
	case Long, ULong:
		return 4
	case LongLong, ULongLong:
		return 5
	case Float:
		return 6
	case Double:
		return 7
	}
	return 8
}

// Builtin is an arithmetic type or void.
type Builtin struct {
	Kind  BuiltinKind
	Quals Qualifiers
}

func (t *Builtin) Spelling() string       { return t.Quals.prefix() + t.Kind.String() }
func (t *Builtin) Qualifiers() Qualifiers { return t.Quals }
func (*Builtin) ctypeNode()               {}

// Pointer is a pointer to Elem.
type Pointer struct {
	Elem  CType
	Quals Qualifiers
}

func (t *Pointer) Spelling() string {
	s := t.Elem.Spelling()
	if _, ok := t.Elem.(*FunctionProto); ok {
		return insertDeclarator(s, "(*)")
	}
	if _, ok := t.Elem.(*Array); ok {
		return insertDeclarator(s, "(*)")
	}
	s += " *"
	if t.Quals != 0 {
		s += strings.TrimSpace(t.Quals.prefix())
	}
	return s
}
func (t *Pointer) Qualifiers() Qualifiers { return t.Quals }
func (*Pointer) ctypeNode()               {}

// Array is a C array; Size is -1 for an incomplete array (`int a[]`).
type Array struct {
	Elem CType
	Size int
}

func (t *Array) Spelling() string {
	dim := "[]"
	if t.Size >= 0 {
		dim = fmt.Sprintf("[%d]", t.Size)
	}
	if inner, ok := t.Elem.(*Array); ok {
		// int[2][3]: dimensions read outermost first
		return insertDeclarator(inner.Spelling(), dim)
	}
	return t.Elem.Spelling() + " " + dim
}
func (t *Array) Qualifiers() Qualifiers { return 0 }
func (*Array) ctypeNode()               {}

// Record is a struct or union type.
type Record struct {
	Decl  *RecordDecl
	Quals Qualifiers
}

func (t *Record) Spelling() string {
	tag := "struct"
	if t.Decl.Union {
		tag = "union"
	}
	name := t.Decl.Name
	if name == "" {
		name = "(unnamed)"
	}
	return t.Quals.prefix() + tag + " " + name
}
func (t *Record) Qualifiers() Qualifiers { return t.Quals }
func (*Record) ctypeNode()               {}

// Enum is an enumeration type.
type Enum struct {
	Decl  *EnumDecl
	Quals Qualifiers
}

func (t *Enum) Spelling() string {
	name := t.Decl.Name
	if name == "" {
		name = "(unnamed)"
	}
	return t.Quals.prefix() + "enum " + name
}
func (t *Enum) Qualifiers() Qualifiers { return t.Quals }
func (*Enum) ctypeNode()               {}

// FunctionProto is a function type.
type FunctionProto struct {
	Result   CType
	Params   []CType
	Variadic bool
}

func (t *FunctionProto) Spelling() string {
	params := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		params = append(params, p.Spelling())
	}
	if t.Variadic {
		params = append(params, "...")
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	return fmt.Sprintf("%s (%s)", t.Result.Spelling(), strings.Join(params, ", "))
}
func (t *FunctionProto) Qualifiers() Qualifiers { return 0 }
func (*FunctionProto) ctypeNode()               {}

// Typedef is a use of a typedef name.
type Typedef struct {
	Decl  *TypedefDecl
	Quals Qualifiers
}

func (t *Typedef) Spelling() string       { return t.Quals.prefix() + t.Decl.Name }
func (t *Typedef) Qualifiers() Qualifiers { return t.Quals }
func (*Typedef) ctypeNode()               {}

// insertDeclarator places a declarator fragment after the base type of a
// spelling: "int [3]" + "(*)" gives "int (*)[3]".
func insertDeclarator(spelling, fragment string) string {
	if i := strings.IndexAny(spelling, "(["); i > 0 {
		return strings.TrimRight(spelling[:i], " ") + " " + fragment + spelling[i:]
	}
	return spelling + " " + fragment
}

// Canonical strips typedef sugar, folding the typedef's qualifiers into the
// underlying type.
func Canonical(t CType) CType {
	var quals Qualifiers
	for {
		td, ok := t.(*Typedef)
		if !ok {
			break
		}
		quals |= td.Quals
		t = td.Decl.Underlying
	}
	if quals == 0 {
		return t
	}
	return withQualifiers(t, quals)
}

func withQualifiers(t CType, q Qualifiers) CType {
	switch v := t.(type) {
	case *Builtin:
		return &Builtin{Kind: v.Kind, Quals: v.Quals | q}
	case *Pointer:
		return &Pointer{Elem: v.Elem, Quals: v.Quals | q}
	case *Record:
		return &Record{Decl: v.Decl, Quals: v.Quals | q}
	case *Enum:
		return &Enum{Decl: v.Decl, Quals: v.Quals | q}
	case *Typedef:
		return &Typedef{Decl: v.Decl, Quals: v.Quals | q}
	}
	return t
}

// Pointee returns the element type of a pointer or array, or nil.
func Pointee(t CType) CType {
	switch v := Canonical(t).(type) {
	case *Pointer:
		return v.Elem
	case *Array:
		return v.Elem
	}
	return nil
}

// IsPointerLike reports whether t is a pointer or array after canonicalisation.
func IsPointerLike(t CType) bool { return Pointee(t) != nil }

// AsFunction returns the prototype behind a function or function pointer type.
func AsFunction(t CType) *FunctionProto {
	switch v := Canonical(t).(type) {
	case *FunctionProto:
		return v
	case *Pointer:
		if fn, ok := Canonical(v.Elem).(*FunctionProto); ok {
			return fn
		}
	}
	return nil
}

// AsRecord returns the record declaration behind t, following one level of
// pointer when deref is set.
func AsRecord(t CType, deref bool) *RecordDecl {
	c := Canonical(t)
	if deref {
		if p := Pointee(c); p != nil {
			c = Canonical(p)
		}
	}
	if r, ok := c.(*Record); ok {
		return r.Decl
	}
	return nil
}

var (
	intType    = &Builtin{Kind: Int}
	ulongType  = &Builtin{Kind: ULong}
	doubleType = &Builtin{Kind: Double}
	voidType   = &Builtin{Kind: Void}
)

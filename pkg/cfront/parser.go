package cfront

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/cockroachdb/errors"
)

// Parser consumes the flat token slice produced by the Lexer and builds the
// declarations of a File.
//
// Grammar (C99 subset, no K&R definitions):
//
//	translation-unit = external-declaration* EOF
//	external-declaration = decl-specifiers (declarator ("=" initializer)? ("," ...)*)? ";"
//	                     | decl-specifiers declarator compound-statement
//	decl-specifiers = (storage | qualifier | type-specifier | "inline")+
//	type-specifier  = builtin words | struct-or-union-specifier | enum-specifier | typedef-name
//	declarator      = ("*" qualifier*)* direct-declarator
//	direct-declarator = (IDENT | "(" declarator ")")? ("[" const-expr? "]" | "(" params ")")*
//
// Statements and expressions are parsed in parser_stmt.go and parser_expr.go.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
	syms        *SymbolTable
	file        *File
	// recordDepth counts the record bodies currently open.
	recordDepth int
	// tagged remembers which tag declarations were already added to file.Decls.
	tagged map[Decl]bool
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{
		tokens:      tokens,
		sourceLines: strings.Split(rawSource, "\n"),
		syms:        NewSymbolTable(),
		tagged:      make(map[Decl]bool),
	}
}

// Parse builds the File for a lexed translation unit.
func Parse(path string, tokens []Token, rawSource string) (*File, error) {
	p := NewParser(tokens, rawSource)
	p.file = &File{Path: path, Source: rawSource, Tokens: tokens}
	for p.peek().Type != EOF {
		if err := p.parseExternalDeclaration(); err != nil {
			return nil, err
		}
	}
	return p.file, nil
}

// Symbols exposes the file-scope symbol table after parsing.
func (p *Parser) Symbols() *SymbolTable { return p.syms }

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return errors.Newf("line %d: %s\n  |> %s", tok.Line, msg, snippet)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// peekNext returns the token immediately after the current one.
func (p *Parser) peekNext() Token {
	return p.peekAt(1)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) spanFrom(start int) Span { return Span{Start: start, End: p.pos} }

// skipAttributes drops GNU __attribute__((...)) and __declspec(...) groups.
func (p *Parser) skipAttributes() {
	for {
		tok := p.peek()
		if tok.Type != IDENTIFIER || (tok.Lexeme != "__attribute__" && tok.Lexeme != "__declspec" && tok.Lexeme != "__extension__") {
			return
		}
		p.advance()
		if p.peek().Type != LPAREN {
			continue
		}
		depth := 0
		for {
			t := p.advance()
			if t.Type == LPAREN {
				depth++
			} else if t.Type == RPAREN {
				depth--
				if depth == 0 {
					break
				}
			} else if t.Type == EOF {
				return
			}
		}
	}
}

// isTypedefName reports whether name currently denotes a type.
func (p *Parser) isTypedefName(name string) bool {
	_, ok := p.syms.LookupTypedef(name)
	return ok
}

// isTypeStart reports whether tok can begin a type name.
func (p *Parser) isTypeStart(tok Token) bool {
	switch tok.Type {
	case VOID, BOOL, CHAR, SHORT, INT, LONG, FLOAT_KW, DOUBLE, SIGNED, UNSIGNED,
		STRUCT, UNION, ENUM, CONST, VOLATILE, RESTRICT:
		return true
	case IDENTIFIER:
		return p.isTypedefName(tok.Lexeme)
	}
	return false
}

// isDeclStart reports whether tok can begin a declaration.
func (p *Parser) isDeclStart(tok Token) bool {
	switch tok.Type {
	case TYPEDEF, STATIC, EXTERN, AUTO, REGISTER, INLINE:
		return true
	}
	return p.isTypeStart(tok)
}

// addTagDecl records a struct, union or enum declaration as a top-level
// declaration of the file. Records declared inside another record stay
// attached to their parent.
func (p *Parser) addTagDecl(d Decl) {
	if rd, ok := d.(*RecordDecl); ok && rd.Nested {
		return
	}
	if p.tagged[d] {
		return
	}
	p.tagged[d] = true
	p.file.Decls = append(p.file.Decls, d)
}

//  Declaration specifiers

type declSpec struct {
	storage StorageClass
	inline  bool
	quals   Qualifiers
	base    CType
	// tag is the record or enum named or defined by the specifiers; defined
	// is set when its body appeared here.
	tag     Decl
	defined bool
}

// builtinWords accumulates the type-specifier keywords of one declaration.
type builtinWords struct {
	isVoid, isBool, isChar, isShort, isInt, isFloat, isDouble bool
	longs                                                     int
	signed, unsigned                                          bool
}

func (w builtinWords) any() bool {
	return w.isVoid || w.isBool || w.isChar || w.isShort || w.isInt || w.isFloat || w.isDouble ||
		w.longs > 0 || w.signed || w.unsigned
}

func (w builtinWords) kind() BuiltinKind {
	switch {
	case w.isVoid:
		return Void
	case w.isBool:
		return Bool
	case w.isChar:
		if w.unsigned {
			return UChar
		}
		if w.signed {
			return SChar
		}
		return Char
	case w.isFloat:
		return Float
	case w.isDouble:
		if w.longs > 0 {
			return LongDouble
		}
		return Double
	case w.isShort:
		if w.unsigned {
			return UShort
		}
		return Short
	case w.longs >= 2:
		if w.unsigned {
			return ULongLong
		}
		return LongLong
	case w.longs == 1:
		if w.unsigned {
			return ULong
		}
		return Long
	}
	if w.unsigned {
		return UInt
	}
	return Int
}

func (p *Parser) parseQualifiers() Qualifiers {
	var q Qualifiers
	for {
		switch p.peek().Type {
		case CONST:
			q |= QualConst
		case VOLATILE:
			q |= QualVolatile
		case RESTRICT:
			q |= QualRestrict
		default:
			return q
		}
		p.advance()
	}
}

func (p *Parser) parseDeclSpecifiers() (*declSpec, error) {
	spec := &declSpec{}
	var words builtinWords
	first := p.peek()

loop:
	for {
		p.skipAttributes()
		tok := p.peek()
		switch tok.Type {
		case TYPEDEF:
			spec.storage = StorageTypedef
		case STATIC:
			spec.storage = StorageStatic
		case EXTERN:
			spec.storage = StorageExtern
		case AUTO:
			spec.storage = StorageAuto
		case REGISTER:
			spec.storage = StorageRegister
		case INLINE:
			spec.inline = true
		case CONST:
			spec.quals |= QualConst
		case VOLATILE:
			spec.quals |= QualVolatile
		case RESTRICT:
			spec.quals |= QualRestrict
		case VOID:
			words.isVoid = true
		case BOOL:
			words.isBool = true
		case CHAR:
			words.isChar = true
		case SHORT:
			words.isShort = true
		case INT:
			words.isInt = true
		case LONG:
			words.longs++
		case FLOAT_KW:
			words.isFloat = true
		case DOUBLE:
			words.isDouble = true
		case SIGNED:
			words.signed = true
		case UNSIGNED:
			words.unsigned = true
		case STRUCT, UNION:
			if spec.base != nil || words.any() {
				return nil, p.fmtError(tok, "two or more data types in declaration specifiers")
			}
			t, err := p.parseRecordSpecifier(spec)
			if err != nil {
				return nil, err
			}
			spec.base = t
			continue
		case ENUM:
			if spec.base != nil || words.any() {
				return nil, p.fmtError(tok, "two or more data types in declaration specifiers")
			}
			t, err := p.parseEnumSpecifier(spec)
			if err != nil {
				return nil, err
			}
			spec.base = t
			continue
		case IDENTIFIER:
			if spec.base != nil || words.any() {
				break loop
			}
			td, ok := p.syms.LookupTypedef(tok.Lexeme)
			if !ok {
				break loop
			}
			spec.base = &Typedef{Decl: td}
		default:
			break loop
		}
		p.advance()
	}

	if spec.base == nil {
		if !words.any() && spec.storage == StorageNone && spec.quals == 0 && !spec.inline {
			return nil, p.fmtError(first, "expected declaration specifiers, got %s (%q)", first.Type, first.Lexeme)
		}
		// a bare `unsigned`, `static x` or `const y` means int
		spec.base = &Builtin{Kind: words.kind()}
	}
	if spec.quals != 0 {
		spec.base = withQualifiers(spec.base, spec.quals)
	}
	return spec, nil
}

// parseRecordSpecifier handles `struct Tag`, `struct Tag {...}` and
// `struct {...}` (and the union forms).
func (p *Parser) parseRecordSpecifier(spec *declSpec) (CType, error) {
	start := p.pos
	union := p.advance().Type == UNION
	p.skipAttributes()

	name := ""
	if p.peek().Type == IDENTIFIER {
		name = p.advance().Lexeme
	}
	p.skipAttributes()

	if p.peek().Type != LBRACE {
		if name == "" {
			return nil, p.fmtError(p.peek(), "expected struct name or '{', got %q", p.peek().Lexeme)
		}
		if d, ok := p.syms.LookupTag(name); ok {
			rd, isRecord := d.(*RecordDecl)
			if !isRecord || rd.Union != union {
				return nil, p.fmtError(p.tokens[start], "%q defined as wrong kind of tag", name)
			}
			spec.tag = rd
			return &Record{Decl: rd}, nil
		}
		rd := &RecordDecl{Name: name, Union: union}
		rd.span = p.spanFrom(start)
		rd.Nested = p.recordDepth > 0
		p.syms.DefineTag(name, rd)
		spec.tag = rd
		return &Record{Decl: rd}, nil
	}

	var rd *RecordDecl
	if name != "" {
		if d, ok := p.syms.LookupTagInCurrent(name); ok {
			if prev, isRecord := d.(*RecordDecl); isRecord && !prev.Complete && prev.Union == union {
				rd = prev
			} else {
				return nil, p.fmtError(p.tokens[start], "redefinition of '%s %s'", p.tokens[start].Lexeme, name)
			}
		}
	}
	if rd == nil {
		rd = &RecordDecl{Name: name, Union: union}
		p.syms.DefineTag(name, rd)
	}
	rd.Nested = p.recordDepth > 0

	p.advance() // {
	p.recordDepth++
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			p.recordDepth--
			return nil, p.fmtError(p.peek(), "unterminated struct body")
		}
		if err := p.parseFieldDeclaration(rd); err != nil {
			p.recordDepth--
			return nil, err
		}
	}
	p.recordDepth--
	p.advance() // }
	p.skipAttributes()

	rd.Complete = true
	rd.span = p.spanFrom(start)
	spec.tag = rd
	spec.defined = true
	p.addTagDecl(rd)
	return &Record{Decl: rd}, nil
}

func (p *Parser) parseFieldDeclaration(rd *RecordDecl) error {
	start := p.pos
	if p.peek().Type == SEMICOLON {
		p.advance()
		return nil
	}
	spec, err := p.parseDeclSpecifiers()
	if err != nil {
		return err
	}

	if p.peek().Type == SEMICOLON {
		p.advance()
		nested, ok := spec.tag.(*RecordDecl)
		if !ok || !spec.defined {
			// `enum E {...};` or a stray type inside a record declares nothing
			return nil
		}
		if nested.Anonymous() {
			rd.Fields = append(rd.Fields, &FieldDecl{
				node:     node{span: p.spanFrom(start)},
				Type:     spec.base,
				Nested:   nested,
				BitWidth: -1,
			})
			return nil
		}
		// a named record with no member only declares its tag
		nested.Nested = false
		p.addTagDecl(nested)
		return nil
	}

	for {
		fieldStart := p.pos
		f := &FieldDecl{BitWidth: -1}
		if p.peek().Type != COLON {
			d, err := p.parseDeclarator(false)
			if err != nil {
				return err
			}
			f.Name = d.ident()
			f.Type = d.apply(spec.base)
		} else {
			f.Type = spec.base
		}
		if p.peek().Type == COLON {
			p.advance()
			width, err := p.parseConditional()
			if err != nil {
				return err
			}
			w, err := p.constInt(width)
			if err != nil {
				return p.fmtError(p.tokens[fieldStart], "bit-field width: %v", err)
			}
			if f.BitWidth, err = safecast.Conv[int](w); err != nil {
				return p.fmtError(p.tokens[fieldStart], "bit-field width %d is out of range", w)
			}
		}
		p.skipAttributes()
		if nested, ok := spec.tag.(*RecordDecl); ok && spec.defined {
			f.Nested = nested
		}
		f.span = p.spanFrom(fieldStart)
		if f.Name != "" || f.BitWidth < 0 {
			rd.Fields = append(rd.Fields, f)
		}
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	_, err = p.expect(SEMICOLON)
	return err
}

func (p *Parser) parseEnumSpecifier(spec *declSpec) (CType, error) {
	start := p.pos
	p.advance() // enum
	p.skipAttributes()

	name := ""
	if p.peek().Type == IDENTIFIER {
		name = p.advance().Lexeme
	}

	if p.peek().Type != LBRACE {
		if name == "" {
			return nil, p.fmtError(p.peek(), "expected enum name or '{', got %q", p.peek().Lexeme)
		}
		if d, ok := p.syms.LookupTag(name); ok {
			ed, isEnum := d.(*EnumDecl)
			if !isEnum {
				return nil, p.fmtError(p.tokens[start], "%q defined as wrong kind of tag", name)
			}
			spec.tag = ed
			return &Enum{Decl: ed}, nil
		}
		ed := &EnumDecl{Name: name}
		ed.span = p.spanFrom(start)
		p.syms.DefineTag(name, ed)
		spec.tag = ed
		return &Enum{Decl: ed}, nil
	}

	ed := &EnumDecl{Name: name}
	if name != "" {
		if d, ok := p.syms.LookupTagInCurrent(name); ok {
			if prev, isEnum := d.(*EnumDecl); isEnum && !prev.Complete {
				ed = prev
			} else {
				return nil, p.fmtError(p.tokens[start], "redefinition of 'enum %s'", name)
			}
		}
	}
	p.syms.DefineTag(name, ed)

	p.advance() // {
	next := int64(0)
	for p.peek().Type != RBRACE {
		constStart := p.pos
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		c := &EnumConstantDecl{Name: nameTok.Lexeme, Enum: ed}
		if p.peek().Type == ASSIGN {
			p.advance()
			init, err := p.parseConditional()
			if err != nil {
				return nil, err
			}
			c.Init = init
			if v, err := p.constInt(init); err == nil {
				next = v
			}
		}
		c.Value = next
		next++
		c.span = p.spanFrom(constStart)
		ed.Constants = append(ed.Constants, c)
		p.syms.Define(c.Name, c)

		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	p.skipAttributes()

	ed.Complete = true
	ed.span = p.spanFrom(start)
	spec.tag = ed
	spec.defined = true
	p.addTagDecl(ed)
	return &Enum{Decl: ed}, nil
}

//  Declarators

type declSuffix struct {
	array    bool
	size     int
	params   []*ParamDecl
	variadic bool
}

// declarator is the parsed shape of a declarator before the base type is
// known. apply builds the type inside out.
type declarator struct {
	name     string
	ptrs     []Qualifiers
	inner    *declarator
	suffixes []declSuffix
}

func (d *declarator) ident() string {
	if d.name == "" && d.inner != nil {
		return d.inner.ident()
	}
	return d.name
}

func (d *declarator) apply(base CType) CType {
	t := base
	for _, q := range d.ptrs {
		t = &Pointer{Elem: t, Quals: q}
	}
	for i := len(d.suffixes) - 1; i >= 0; i-- {
		s := d.suffixes[i]
		if s.array {
			t = &Array{Elem: t, Size: s.size}
			continue
		}
		proto := &FunctionProto{Result: t, Variadic: s.variadic}
		for _, prm := range s.params {
			proto.Params = append(proto.Params, prm.Type)
		}
		t = proto
	}
	if d.inner != nil {
		return d.inner.apply(t)
	}
	return t
}

// funcParams returns the parameter declarations of the function suffix that
// binds directly to the declared name.
func (d *declarator) funcParams() []*ParamDecl {
	if d.inner != nil {
		return d.inner.funcParams()
	}
	if len(d.suffixes) > 0 && !d.suffixes[0].array {
		return d.suffixes[0].params
	}
	return nil
}

func (p *Parser) isNestedDeclarator() bool {
	next := p.peekNext()
	switch next.Type {
	case STAR, LPAREN:
		return true
	case IDENTIFIER:
		return !p.isTypedefName(next.Lexeme) && next.Lexeme != "__attribute__"
	}
	return false
}

func (p *Parser) parseDeclarator(abstract bool) (*declarator, error) {
	d := &declarator{}
	for p.peek().Type == STAR {
		p.advance()
		d.ptrs = append(d.ptrs, p.parseQualifiers())
	}
	p.skipAttributes()

	switch tok := p.peek(); {
	case tok.Type == IDENTIFIER && !(abstract && p.isTypedefName(tok.Lexeme)):
		d.name = tok.Lexeme
		p.advance()
	case tok.Type == LPAREN && p.isNestedDeclarator():
		p.advance()
		inner, err := p.parseDeclarator(abstract)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		d.inner = inner
	default:
		if !abstract {
			return nil, p.fmtError(tok, "expected identifier in declarator, got %s (%q)", tok.Type, tok.Lexeme)
		}
	}

	for {
		switch p.peek().Type {
		case LBRACKET:
			p.advance()
			for p.peek().Type == STATIC || p.peek().Type == CONST || p.peek().Type == RESTRICT || p.peek().Type == VOLATILE {
				p.advance()
			}
			size := -1
			if p.peek().Type != RBRACKET {
				sizeTok := p.peek()
				e, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				v, err := p.constInt(e)
				if err != nil {
					return nil, p.fmtError(sizeTok, "array size is not an integer constant: %v", err)
				}
				n, err := safecast.Conv[int](v)
				if err != nil || n < 0 {
					return nil, p.fmtError(sizeTok, "array size %d is out of range", v)
				}
				size = n
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			d.suffixes = append(d.suffixes, declSuffix{array: true, size: size})
		case LPAREN:
			p.advance()
			params, variadic, err := p.parseParameterList()
			if err != nil {
				return nil, err
			}
			d.suffixes = append(d.suffixes, declSuffix{params: params, variadic: variadic})
		default:
			p.skipAttributes()
			return d, nil
		}
	}
}

// parseParameterList parses after the opening parenthesis up to and
// including the closing one.
func (p *Parser) parseParameterList() ([]*ParamDecl, bool, error) {
	if p.peek().Type == RPAREN {
		p.advance()
		return nil, false, nil
	}
	if p.peek().Type == VOID && p.peekNext().Type == RPAREN {
		p.advance()
		p.advance()
		return nil, false, nil
	}

	var params []*ParamDecl
	variadic := false
	for {
		if p.peek().Type == ELLIPSIS {
			p.advance()
			variadic = true
			break
		}
		start := p.pos
		spec, err := p.parseDeclSpecifiers()
		if err != nil {
			return nil, false, err
		}
		d, err := p.parseDeclarator(true)
		if err != nil {
			return nil, false, err
		}
		prm := &ParamDecl{Name: d.ident(), Type: adjustParamType(d.apply(spec.base))}
		prm.span = p.spanFrom(start)
		params = append(params, prm)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, false, err
	}
	return params, variadic, nil
}

// adjustParamType applies the parameter decay rules: arrays become pointers
// to their element, functions become function pointers.
func adjustParamType(t CType) CType {
	switch v := t.(type) {
	case *Array:
		return &Pointer{Elem: v.Elem}
	case *FunctionProto:
		return &Pointer{Elem: v}
	}
	return t
}

// parseTypeName parses a type name as used by casts and sizeof.
func (p *Parser) parseTypeName() (CType, error) {
	spec, err := p.parseDeclSpecifiers()
	if err != nil {
		return nil, err
	}
	if spec.storage != StorageNone {
		return nil, p.fmtError(p.peek(), "storage class in type name")
	}
	d, err := p.parseDeclarator(true)
	if err != nil {
		return nil, err
	}
	if d.ident() != "" {
		return nil, p.fmtError(p.peek(), "unexpected identifier %q in type name", d.ident())
	}
	return d.apply(spec.base), nil
}

//  Declarations

// parseExternalDeclaration parses one file-scope declaration or function
// definition and appends it to the file.
func (p *Parser) parseExternalDeclaration() error {
	p.skipAttributes()
	if p.peek().Type == SEMICOLON {
		p.advance()
		return nil
	}
	decls, err := p.parseDeclaration(true)
	if err != nil {
		return err
	}
	p.file.Decls = append(p.file.Decls, decls...)
	return nil
}

// parseDeclaration parses specifiers and a declarator list. At file scope a
// declarator followed by a body is a function definition.
func (p *Parser) parseDeclaration(fileScope bool) ([]Decl, error) {
	start := p.pos
	spec, err := p.parseDeclSpecifiers()
	if err != nil {
		return nil, err
	}

	if p.peek().Type == SEMICOLON {
		p.advance()
		// `struct S;` declares a tag even without a body
		if spec.tag != nil && !spec.defined {
			p.addTagDecl(spec.tag)
		}
		return nil, nil
	}

	var decls []Decl
	for first := true; ; first = false {
		declStart := p.pos
		if first {
			declStart = start
		}
		d, err := p.parseDeclarator(false)
		if err != nil {
			return nil, err
		}
		typ := d.apply(spec.base)
		name := d.ident()

		switch {
		case spec.storage == StorageTypedef:
			td := &TypedefDecl{Name: name, Underlying: typ}
			td.span = p.spanFrom(declStart)
			p.nameAnonymousTag(spec, name)
			p.syms.Define(name, td)
			decls = append(decls, td)

		case isFunctionType(typ):
			fd := &FunctionDecl{
				Name:    name,
				Type:    typ.(*FunctionProto),
				Params:  d.funcParams(),
				Storage: spec.storage,
				Inline:  spec.inline,
			}
			p.syms.Define(name, fd)
			if first && p.peek().Type == LBRACE {
				if !fileScope {
					return nil, p.fmtError(p.peek(), "function definition is not allowed here")
				}
				if err := p.parseFunctionBody(fd); err != nil {
					return nil, err
				}
				fd.span = p.spanFrom(declStart)
				return []Decl{fd}, nil
			}
			fd.span = p.spanFrom(declStart)
			decls = append(decls, fd)

		default:
			v := &VarDecl{Name: name, Type: typ, Storage: spec.storage, Local: !fileScope}
			// bind before the initializer so `int x = sizeof x;` resolves
			p.syms.Define(name, v)
			if p.peek().Type == ASSIGN {
				p.advance()
				init, err := p.parseInitializer()
				if err != nil {
					return nil, err
				}
				v.Init = init
				v.Type = completeArrayType(v.Type, init)
			}
			v.span = p.spanFrom(declStart)
			decls = append(decls, v)
		}

		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return decls, nil
}

// nameAnonymousTag gives an anonymous struct, union or enum defined in a
// typedef the typedef's name, so `typedef struct {...} Point;` declares Point.
func (p *Parser) nameAnonymousTag(spec *declSpec, name string) {
	if !spec.defined {
		return
	}
	switch t := spec.tag.(type) {
	case *RecordDecl:
		if t.Name == "" {
			t.Name = name
		}
	case *EnumDecl:
		if t.Name == "" {
			t.Name = name
		}
	}
}

func isFunctionType(t CType) bool {
	_, ok := t.(*FunctionProto)
	return ok
}

// completeArrayType sizes `T a[] = {...}` and `char s[] = "..."` from the
// initializer.
func completeArrayType(t CType, init Expr) CType {
	arr, ok := t.(*Array)
	if !ok || arr.Size >= 0 {
		return t
	}
	switch v := init.(type) {
	case *InitListExpr:
		return &Array{Elem: arr.Elem, Size: len(v.Elements)}
	case *StringLiteral:
		return &Array{Elem: arr.Elem, Size: len(v.Value) + 1}
	}
	return t
}

func (p *Parser) parseFunctionBody(fd *FunctionDecl) error {
	p.syms.EnterScope()
	defer p.syms.ExitScope()
	for _, prm := range fd.Params {
		p.syms.Define(prm.Name, prm)
	}
	body, err := p.parseCompound(false)
	if err != nil {
		return err
	}
	fd.Body = body
	return nil
}

// parseInitializer parses an assignment expression or a brace-enclosed list.
func (p *Parser) parseInitializer() (Expr, error) {
	if p.peek().Type != LBRACE {
		return p.parseAssignment()
	}
	start := p.pos
	p.advance() // {
	list := &InitListExpr{}
	for p.peek().Type != RBRACE {
		elemStart := p.pos
		designated := false
		for p.peek().Type == DOT || p.peek().Type == LBRACKET {
			designated = true
			if p.advance().Type == DOT {
				if _, err := p.expect(IDENTIFIER); err != nil {
					return nil, err
				}
				continue
			}
			if _, err := p.parseConditional(); err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
		}
		if designated {
			if _, err := p.expect(ASSIGN); err != nil {
				return nil, err
			}
		}
		elem, err := p.parseInitializer()
		if err != nil {
			return nil, err
		}
		if designated {
			u := &UnsupportedExpr{What: "designated initializer"}
			u.span = p.spanFrom(elemStart)
			u.typ = elem.Type()
			elem = u
		}
		list.Elements = append(list.Elements, elem)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	list.span = p.spanFrom(start)
	list.typ = voidType
	return list, nil
}

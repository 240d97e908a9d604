package cfront

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// File is a parsed translation unit.
type File struct {
	Path string
	// Source is the preprocessed text the tokens were lexed from.
	Source string
	// Includes lists the files spliced in by #include.
	Includes []string
	Tokens   []Token
	// Decls holds the top-level declarations in source order. Struct, union
	// and enum declarations appear before the declarations that define them
	// inline.
	Decls []Decl
}

func (*File) Kind() NodeKind { return KindTranslationUnit }

func (f *File) Span() Span { return Span{Start: 0, End: len(f.Tokens)} }

func (f *File) String() string {
	return fmt.Sprintf("TranslationUnit(%s, decls=%d)", f.Path, len(f.Decls))
}

// Enums returns the top-level enum declarations with a body.
func (f *File) Enums() []*EnumDecl {
	var out []*EnumDecl
	for _, d := range f.Decls {
		if e, ok := d.(*EnumDecl); ok && e.Complete {
			out = append(out, e)
		}
	}
	return out
}

// Records returns the top-level struct and union declarations, including
// ones that were only forward declared.
func (f *File) Records() []*RecordDecl {
	var out []*RecordDecl
	for _, d := range f.Decls {
		if r, ok := d.(*RecordDecl); ok {
			out = append(out, r)
		}
	}
	return out
}

// Vars returns the file-scope variable declarations.
func (f *File) Vars() []*VarDecl {
	var out []*VarDecl
	for _, d := range f.Decls {
		if v, ok := d.(*VarDecl); ok {
			out = append(out, v)
		}
	}
	return out
}

// Functions returns every function declaration, prototypes included.
func (f *File) Functions() []*FunctionDecl {
	var out []*FunctionDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FunctionDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Typedefs returns the typedef declarations made by the file itself.
func (f *File) Typedefs() []*TypedefDecl {
	var out []*TypedefDecl
	for _, d := range f.Decls {
		if t, ok := d.(*TypedefDecl); ok {
			out = append(out, t)
		}
	}
	return out
}

// TokenText returns the raw lexemes covered by n.
func (f *File) TokenText(n Node) []string {
	sp := n.Span()
	if sp.Start < 0 || sp.End > len(f.Tokens) || sp.Start > sp.End {
		return nil
	}
	out := make([]string, 0, sp.End-sp.Start)
	for _, t := range f.Tokens[sp.Start:sp.End] {
		out = append(out, t.Lexeme)
	}
	return out
}

// SourceText re-joins the tokens of n, with a single space between adjacent
// word tokens and no other separators.
func (f *File) SourceText(n Node) string {
	sp := n.Span()
	if sp.Start < 0 || sp.End > len(f.Tokens) || sp.Start > sp.End {
		return ""
	}
	var sb strings.Builder
	var prev Token
	for i, t := range f.Tokens[sp.Start:sp.End] {
		if i > 0 && prev.isWord() && t.isWord() {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Lexeme)
		prev = t
	}
	return sb.String()
}

// LiteralValue returns the literal text of an integer, floating, character,
// string or boolean literal. Integer literals keep their source token.
func LiteralValue(e Expr) (string, bool) {
	switch v := e.(type) {
	case *IntegerLiteral:
		return v.Text, true
	case *FloatingLiteral:
		return v.Text, true
	case *CharLiteral:
		return fmt.Sprintf("%d", v.Value), true
	case *StringLiteral:
		return v.Value, true
	case *BoolLiteral:
		return fmt.Sprintf("%t", v.Value), true
	}
	return "", false
}

// ParseSource runs the whole frontend over src, which was read from path.
func ParseSource(path, src string, opts PreprocessOptions) (*File, error) {
	pre, includes, err := Preprocess(src, filepath.Dir(path), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "preprocessing %s", path)
	}
	return ParsePreprocessed(path, pre, includes)
}

// ParsePreprocessed lexes and parses already preprocessed text.
func ParsePreprocessed(path, pre string, includes []string) (*File, error) {
	tokens, err := Lex(pre)
	if err != nil {
		return nil, errors.Wrapf(err, "lexing %s", path)
	}
	file, err := Parse(path, tokens, pre)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	file.Includes = includes
	return file, nil
}

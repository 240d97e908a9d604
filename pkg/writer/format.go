package writer

import (
	"strings"
	"unicode"
)

// Format re-indents one generated declaration and returns its lines, each
// prefixed with one tab per block level. A brace that opens a block goes on
// its own line and a statement ends its line at ';'. String and character
// literals, parenthesised text and initializer braces are kept on one line.
func Format(decl string) []string {
	f := &formatter{}
	f.run(decl)
	return f.lines
}

type formatter struct {
	lines  []string
	cur    strings.Builder
	depth  int
	parens int
	inits  int  // open initializer braces
	alloc  bool // current line has seen `new` or `stackalloc`
}

func (f *formatter) emit(s string) {
	f.lines = append(f.lines, strings.Repeat("\t", f.depth)+s)
}

func (f *formatter) flush() {
	s := strings.TrimSpace(f.cur.String())
	f.cur.Reset()
	f.alloc = false
	if s != "" {
		f.emit(s)
	}
}

func (f *formatter) inline() bool {
	return f.parens > 0 || f.inits > 0
}

func (f *formatter) run(src string) {
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			end := literalEnd(src, i)
			f.cur.WriteString(src[i:end])
			i = end - 1
		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			if word == "new" || word == "stackalloc" {
				f.alloc = true
			}
			f.cur.WriteString(word)
			i = j - 1
		case c == '\r':
		case c == '\n':
			if f.inline() {
				f.cur.WriteByte(' ')
			} else {
				f.flush()
			}
		case c == '(':
			f.parens++
			f.cur.WriteByte(c)
		case c == ')':
			if f.parens > 0 {
				f.parens--
			}
			f.cur.WriteByte(c)
		case c == '{':
			if f.inline() || f.alloc {
				f.inits++
				f.cur.WriteByte(c)
				continue
			}
			f.flush()
			f.emit("{")
			f.depth++
		case c == '}':
			if f.inits > 0 {
				f.inits--
				f.cur.WriteByte(c)
				continue
			}
			f.flush()
			if f.depth > 0 {
				f.depth--
			}
			f.emit("}")
		case c == ';':
			f.cur.WriteByte(c)
			if !f.inline() {
				f.flush()
			}
		default:
			f.cur.WriteByte(c)
		}
	}
	f.flush()
}

// literalEnd returns the index just past the quoted literal starting at i.
func literalEnd(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(src)
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

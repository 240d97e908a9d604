package cfront

import (
	"unicode"

	"github.com/cockroachdb/errors"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"void":          VOID,
	"_Bool":         BOOL,
	"bool":          BOOL,
	"char":          CHAR,
	"short":         SHORT,
	"int":           INT,
	"long":          LONG,
	"float":         FLOAT_KW,
	"double":        DOUBLE,
	"signed":        SIGNED,
	"__signed__":    SIGNED,
	"unsigned":      UNSIGNED,
	"struct":        STRUCT,
	"union":         UNION,
	"enum":          ENUM,
	"typedef":       TYPEDEF,
	"const":         CONST,
	"__const":       CONST,
	"volatile":      VOLATILE,
	"restrict":      RESTRICT,
	"__restrict":    RESTRICT,
	"static":        STATIC,
	"extern":        EXTERN,
	"auto":          AUTO,
	"register":      REGISTER,
	"inline":        INLINE,
	"__inline":      INLINE,
	"__inline__":    INLINE,
	"if":            IF,
	"else":          ELSE,
	"while":         WHILE,
	"do":            DO,
	"for":           FOR,
	"switch":        SWITCH,
	"case":          CASE,
	"default":       DEFAULT,
	"break":         BREAK,
	"continue":      CONTINUE,
	"return":        RETURN,
	"goto":          GOTO,
	"sizeof":        SIZEOF,
	"_Alignof":      ALIGNOF,
	"alignof":       ALIGNOF,
	"__alignof":     ALIGNOF,
	"__alignof__":   ALIGNOF,
	"true":          TRUE,
	"false":         FALSE,
}

// punctuators is ordered longest first so that the scanner is greedy.
var punctuators = []struct {
	text string
	tt   TokenType
}{
	{"...", ELLIPSIS},
	{"<<=", SHL_ASSIGN},
	{">>=", SHR_ASSIGN},
	{"->", ARROW},
	{"++", PLUS_PLUS},
	{"--", MINUS_MINUS},
	{"<<", SHL_OP},
	{">>", SHR_OP},
	{"<=", LESS_EQ},
	{">=", GREATER_EQ},
	{"==", EQUALS},
	{"!=", NOT_EQ},
	{"&&", AND_LOGICAL},
	{"||", OR_LOGICAL},
	{"+=", PLUS_ASSIGN},
	{"-=", MINUS_ASSIGN},
	{"*=", STAR_ASSIGN},
	{"/=", SLASH_ASSIGN},
	{"%=", PERCENT_ASSIGN},
	{"&=", AND_ASSIGN},
	{"|=", OR_ASSIGN},
	{"^=", XOR_ASSIGN},
	{"{", LBRACE},
	{"}", RBRACE},
	{"(", LPAREN},
	{")", RPAREN},
	{"[", LBRACKET},
	{"]", RBRACKET},
	{".", DOT},
	{";", SEMICOLON},
	{",", COMMA},
	{":", COLON},
	{"?", QUESTION},
	{"+", PLUS},
	{"-", MINUS},
	{"*", STAR},
	{"/", SLASH},
	{"%", PERCENT},
	{"&", AND},
	{"|", PIPE},
	{"^", CARET},
	{"~", TILDE},
	{"!", NOT},
	{"<", LESS},
	{">", GREATER},
	{"=", ASSIGN},
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) peek() rune  { return l.peekAt(0) }
func (l *Lexer) peek2() rune { return l.peekAt(1) }

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return errors.Newf("unterminated block comment (opened on line %d)", startLine)
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scanIdent collects a full identifier or keyword token.
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isIdentRune(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanNumber collects an integer or floating literal. The lexeme keeps the
// radix prefix and any suffix; interpretation happens in the parser.
func (l *Lexer) scanNumber() Token {
	line := l.line
	start := l.pos
	isFloat := false

	if l.peek() == '0' && (l.peek2() == 'x' || l.peek2() == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
	} else {
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == '.' {
			isFloat = true
			l.advance()
			for unicode.IsDigit(l.peek()) {
				l.advance()
			}
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			next := l.peek2()
			if unicode.IsDigit(next) || ((next == '+' || next == '-') && unicode.IsDigit(l.peekAt(2))) {
				isFloat = true
				l.advance()
				if l.peek() == '+' || l.peek() == '-' {
					l.advance()
				}
				for unicode.IsDigit(l.peek()) {
					l.advance()
				}
			}
		}
	}

	// suffix letters: u, l, f in any legal combination
	for {
		r := l.peek()
		if r == 'u' || r == 'U' || r == 'l' || r == 'L' {
			l.advance()
			continue
		}
		if (r == 'f' || r == 'F') && isFloat {
			l.advance()
			continue
		}
		break
	}

	tt := INTEGER
	if isFloat {
		tt = FLOAT
	}
	return Token{Type: tt, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// scanQuoted collects a character or string literal, keeping the quotes and
// escapes verbatim in the lexeme. Decoding happens in the parser.
func (l *Lexer) scanQuoted(quote rune, tt TokenType) (Token, error) {
	line := l.line
	start := l.pos
	if l.peek() == 'L' {
		l.advance()
	}
	l.advance() // opening quote

	for {
		r := l.peek()
		if l.pos >= len(l.src) || r == '\n' {
			if tt == STRING {
				return Token{}, errors.Newf("unterminated string literal on line %d", line)
			}
			return Token{}, errors.Newf("unterminated character literal on line %d", line)
		}
		if r == '\\' {
			l.advance()
			l.advance()
			continue
		}
		l.advance()
		if r == quote {
			break
		}
	}

	lexeme := string(l.src[start:l.pos])
	if tt == CHAR_LIT && (lexeme == "''" || lexeme == "L''") {
		return Token{}, errors.Newf("empty character literal on line %d", line)
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}, nil
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	switch {
	case ch == 'L' && l.peek2() == '"':
		return l.scanQuoted('"', STRING)
	case ch == 'L' && l.peek2() == '\'':
		return l.scanQuoted('\'', CHAR_LIT)
	case unicode.IsLetter(ch) || ch == '_':
		return l.scanIdent(), nil
	case unicode.IsDigit(ch) || (ch == '.' && unicode.IsDigit(l.peek2())):
		return l.scanNumber(), nil
	case ch == '"':
		return l.scanQuoted('"', STRING)
	case ch == '\'':
		return l.scanQuoted('\'', CHAR_LIT)
	}

	for _, p := range punctuators {
		if l.matches(p.text) {
			for range p.text {
				l.advance()
			}
			return Token{Type: p.tt, Lexeme: p.text, Line: line}, nil
		}
	}
	return Token{}, errors.Newf("unexpected character %q on line %d", ch, line)
}

func (l *Lexer) matches(text string) bool {
	i := 0
	for _, r := range text {
		if l.peekAt(i) != r {
			return false
		}
		i++
	}
	return true
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first illegal character or unterminated literal.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

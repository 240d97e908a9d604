package cfront

import (
	"fmt"
	"strings"
)

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER
	INTEGER // integer literal, any radix, suffix kept in the lexeme
	FLOAT   // floating literal
	CHAR_LIT
	STRING

	// Type and storage keywords
	VOID
	BOOL // _Bool or bool
	CHAR
	SHORT
	INT
	LONG
	FLOAT_KW
	DOUBLE
	SIGNED
	UNSIGNED
	STRUCT
	UNION
	ENUM
	TYPEDEF
	CONST
	VOLATILE
	RESTRICT
	STATIC
	EXTERN
	AUTO
	REGISTER
	INLINE

	// Statement keywords
	IF
	ELSE
	WHILE
	DO
	FOR
	SWITCH
	CASE
	DEFAULT
	BREAK
	CONTINUE
	RETURN
	GOTO

	// Operator keywords
	SIZEOF
	ALIGNOF
	TRUE
	FALSE

	// Paired delimiters
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET

	// Punctuation
	DOT
	ARROW
	ELLIPSIS
	SEMICOLON
	COMMA
	COLON
	QUESTION

	// Arithmetic and bitwise operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AND
	PIPE
	CARET
	TILDE
	SHL_OP
	SHR_OP
	AND_LOGICAL
	OR_LOGICAL
	NOT
	PLUS_PLUS
	MINUS_MINUS

	// Assignment
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	AND_ASSIGN
	OR_ASSIGN
	XOR_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN

	// Comparison
	EQUALS
	NOT_EQ
	LESS
	GREATER
	LESS_EQ
	GREATER_EQ

	tokenTypeCount
)

var tokenNames = [...]string{
	EOF:            "EOF",
	IDENTIFIER:     "IDENTIFIER",
	INTEGER:        "INTEGER",
	FLOAT:          "FLOAT",
	CHAR_LIT:       "CHAR_LIT",
	STRING:         "STRING",
	VOID:           "VOID",
	BOOL:           "BOOL",
	CHAR:           "CHAR",
	SHORT:          "SHORT",
	INT:            "INT",
	LONG:           "LONG",
	FLOAT_KW:       "FLOAT_KW",
	DOUBLE:         "DOUBLE",
	SIGNED:         "SIGNED",
	UNSIGNED:       "UNSIGNED",
	STRUCT:         "STRUCT",
	UNION:          "UNION",
	ENUM:           "ENUM",
	TYPEDEF:        "TYPEDEF",
	CONST:          "CONST",
	VOLATILE:       "VOLATILE",
	RESTRICT:       "RESTRICT",
	STATIC:         "STATIC",
	EXTERN:         "EXTERN",
	AUTO:           "AUTO",
	REGISTER:       "REGISTER",
	INLINE:         "INLINE",
	IF:             "IF",
	ELSE:           "ELSE",
	WHILE:          "WHILE",
	DO:             "DO",
	FOR:            "FOR",
	SWITCH:         "SWITCH",
	CASE:           "CASE",
	DEFAULT:        "DEFAULT",
	BREAK:          "BREAK",
	CONTINUE:       "CONTINUE",
	RETURN:         "RETURN",
	GOTO:           "GOTO",
	SIZEOF:         "SIZEOF",
	ALIGNOF:        "ALIGNOF",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	DOT:            "DOT",
	ARROW:          "ARROW",
	ELLIPSIS:       "ELLIPSIS",
	SEMICOLON:      "SEMICOLON",
	COMMA:          "COMMA",
	COLON:          "COLON",
	QUESTION:       "QUESTION",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	STAR:           "STAR",
	SLASH:          "SLASH",
	PERCENT:        "PERCENT",
	AND:            "AND",
	PIPE:           "PIPE",
	CARET:          "CARET",
	TILDE:          "TILDE",
	SHL_OP:         "SHL_OP",
	SHR_OP:         "SHR_OP",
	AND_LOGICAL:    "AND_LOGICAL",
	OR_LOGICAL:     "OR_LOGICAL",
	NOT:            "NOT",
	PLUS_PLUS:      "PLUS_PLUS",
	MINUS_MINUS:    "MINUS_MINUS",
	ASSIGN:         "ASSIGN",
	PLUS_ASSIGN:    "PLUS_ASSIGN",
	MINUS_ASSIGN:   "MINUS_ASSIGN",
	STAR_ASSIGN:    "STAR_ASSIGN",
	SLASH_ASSIGN:   "SLASH_ASSIGN",
	PERCENT_ASSIGN: "PERCENT_ASSIGN",
	AND_ASSIGN:     "AND_ASSIGN",
	OR_ASSIGN:      "OR_ASSIGN",
	XOR_ASSIGN:     "XOR_ASSIGN",
	SHL_ASSIGN:     "SHL_ASSIGN",
	SHR_ASSIGN:     "SHR_ASSIGN",
	EQUALS:         "EQUALS",
	NOT_EQ:         "NOT_EQ",
	LESS:           "LESS",
	GREATER:        "GREATER",
	LESS_EQ:        "LESS_EQ",
	GREATER_EQ:     "GREATER_EQ",
}

// compile-time check that every TokenType has a name.
var _ = [1]struct{}{}[len(tokenNames)-int(tokenTypeCount)]

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based line in the preprocessed source
}

func (t Token) String() string {
	return fmt.Sprintf("%-14s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

// isWord reports whether the token renders as an identifier-like word, so two
// adjacent word tokens need a space between them when re-joined.
func (t Token) isWord() bool {
	switch t.Type {
	case IDENTIFIER, INTEGER, FLOAT:
		return true
	}
	return t.Type >= VOID && t.Type <= FALSE
}

// Spelling returns the source text of an operator or punctuator token type,
// or its name for any other type.
func (tt TokenType) Spelling() string {
	for _, p := range punctuators {
		if p.tt == tt {
			return p.text
		}
	}
	for text, kw := range keywords {
		if kw == tt && text == strings.ToLower(tokenNames[tt]) {
			return text
		}
	}
	return tt.String()
}

// isAssignOp reports whether tt is = or a compound assignment.
func isAssignOp(tt TokenType) bool {
	return tt >= ASSIGN && tt <= SHR_ASSIGN
}

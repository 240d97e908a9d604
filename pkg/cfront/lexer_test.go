package cfront

import (
	"reflect"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []Token{{Type: EOF, Lexeme: "", Line: 1}},
		},
		{
			name:  "Greedy Punctuators",
			input: "a->b ... <<= x++ != y",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "a", Line: 1},
				{Type: ARROW, Lexeme: "->", Line: 1},
				{Type: IDENTIFIER, Lexeme: "b", Line: 1},
				{Type: ELLIPSIS, Lexeme: "...", Line: 1},
				{Type: SHL_ASSIGN, Lexeme: "<<=", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: PLUS_PLUS, Lexeme: "++", Line: 1},
				{Type: NOT_EQ, Lexeme: "!=", Line: 1},
				{Type: IDENTIFIER, Lexeme: "y", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Keyword Spellings",
			input: "_Bool bool __inline__ sizeof _Alignof unsigned",
			expected: []Token{
				{Type: BOOL, Lexeme: "_Bool", Line: 1},
				{Type: BOOL, Lexeme: "bool", Line: 1},
				{Type: INLINE, Lexeme: "__inline__", Line: 1},
				{Type: SIZEOF, Lexeme: "sizeof", Line: 1},
				{Type: ALIGNOF, Lexeme: "_Alignof", Line: 1},
				{Type: UNSIGNED, Lexeme: "unsigned", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Numbers Keep Prefix And Suffix",
			input: "0x1Fu 017 42ULL 3.5f 1e10 .5",
			expected: []Token{
				{Type: INTEGER, Lexeme: "0x1Fu", Line: 1},
				{Type: INTEGER, Lexeme: "017", Line: 1},
				{Type: INTEGER, Lexeme: "42ULL", Line: 1},
				{Type: FLOAT, Lexeme: "3.5f", Line: 1},
				{Type: FLOAT, Lexeme: "1e10", Line: 1},
				{Type: FLOAT, Lexeme: ".5", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Comments And Lines",
			input: "int x; // trailing\n/* spans\nlines */ y",
			expected: []Token{
				{Type: INT, Lexeme: "int", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: SEMICOLON, Lexeme: ";", Line: 1},
				{Type: IDENTIFIER, Lexeme: "y", Line: 3},
				{Type: EOF, Lexeme: "", Line: 3},
			},
		},
		{
			name:  "Quoted Literals Stay Verbatim",
			input: `"a\"b" 'c' '\n' L"w"`,
			expected: []Token{
				{Type: STRING, Lexeme: `"a\"b"`, Line: 1},
				{Type: CHAR_LIT, Lexeme: `'c'`, Line: 1},
				{Type: CHAR_LIT, Lexeme: `'\n'`, Line: 1},
				{Type: STRING, Lexeme: `L"w"`, Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lex() =\n%v\nwant\n%v", got, tt.expected)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Unterminated String", `char *s = "abc;`, "unterminated string literal on line 1"},
		{"Unterminated Char", "'a", "unterminated character literal"},
		{"Empty Char", "''", "empty character literal"},
		{"Unterminated Comment", "int x;\n/* never closed", "unterminated block comment (opened on line 2)"},
		{"Stray Character", "int @x;", `unexpected character '@' on line 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestTokenTypeNames(t *testing.T) {
	if got := SHL_ASSIGN.String(); got != "SHL_ASSIGN" {
		t.Errorf("SHL_ASSIGN.String() = %q", got)
	}
	if got := ARROW.Spelling(); got != "->" {
		t.Errorf("ARROW.Spelling() = %q", got)
	}
	if got := IDENTIFIER.Spelling(); got != "IDENTIFIER" {
		t.Errorf("IDENTIFIER.Spelling() = %q", got)
	}
}

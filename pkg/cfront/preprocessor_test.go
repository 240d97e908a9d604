package cfront

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// squash collapses all whitespace so expectations ignore the blank lines
// directives leave behind.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		defines  []string
		expected string
	}{
		{
			name:     "Object Macro",
			src:      "#define A 10\nint x = A;",
			expected: "int x = 10;",
		},
		{
			name:     "Function Macro",
			src:      "#define SQ(x) ((x)*(x))\nint y = SQ(a+1);",
			expected: "int y = ((a+1)*(a+1));",
		},
		{
			name:     "Function Macro Name Without Call",
			src:      "#define F(x) x\nint F;",
			expected: "int F;",
		},
		{
			name:     "String Literal Ignored",
			src:      "#define A 1\nchar *s = \"A\";",
			expected: `char *s = "A";`,
		},
		{
			name:     "Word Boundary",
			src:      "#define A 10\nint AA = A;",
			expected: "int AA = 10;",
		},
		{
			name:     "Self Reference Stops",
			src:      "#define X X+1\nint v = X;",
			expected: "int v = X+1;",
		},
		{
			name:     "Line Continuation",
			src:      "#define SUM 1 + \\\n 2\nint s = SUM;",
			expected: "int s = 1 + 2;",
		},
		{
			name:     "Undef",
			src:      "#define A 1\n#undef A\nint x = A;",
			expected: "int x = A;",
		},
		{
			name:     "Predefined NULL",
			src:      "void *p = NULL;",
			expected: "void *p = ((void*)0);",
		},
		{
			name:     "Line Comment Untouched",
			src:      "#define A 1\nint x; // A",
			expected: "int x; // A",
		},
		{
			name:     "Ifdef Else",
			src:      "#ifdef FOO\nint a;\n#else\nint b;\n#endif",
			expected: "int b;",
		},
		{
			name:     "Ifdef With Define",
			src:      "#ifdef FOO\nint a;\n#else\nint b;\n#endif",
			defines:  []string{"FOO"},
			expected: "int a;",
		},
		{
			name:     "If Expression",
			src:      "#if defined(BAR) && BAR > 2\nint big;\n#elif 1\nint small;\n#endif",
			defines:  []string{"BAR=3"},
			expected: "int big;",
		},
		{
			name:     "Elif Taken",
			src:      "#if defined(BAR) && BAR > 2\nint big;\n#elif 1\nint small;\n#endif",
			expected: "int small;",
		},
		{
			name:     "Nested Inactive",
			src:      "#if 0\n#if 1\nint a;\n#else\nint b;\n#endif\n#endif\nint c;",
			expected: "int c;",
		},
		{
			name:     "Unknown Identifier Is Zero",
			src:      "#if UNSET\nint a;\n#endif\nint b;",
			expected: "int b;",
		},
		{
			name:     "System Header Dropped",
			src:      "#include <stdio.h>\nint x;",
			expected: "int x;",
		},
		{
			name:     "Pragma Ignored",
			src:      "#pragma once\nint x;",
			expected: "int x;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Preprocess(tt.src, t.TempDir(), PreprocessOptions{Defines: tt.defines})
			if err != nil {
				t.Fatalf("Preprocess() error = %v", err)
			}
			if squash(got) != tt.expected {
				t.Errorf("Preprocess() = %q, want %q", squash(got), tt.expected)
			}
		})
	}
}

func TestPreprocessKeepsLineNumbers(t *testing.T) {
	got, _, err := Preprocess("#define A 1\n#ifdef A\nint x = A;\n#endif\n", ".", PreprocessOptions{})
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := Lex(got)
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Lexeme != "int" || tokens[0].Line != 3 {
		t.Errorf("first token = %v, want int on line 3", tokens[0])
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPreprocessIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "defs.h"), "#define N 4\nint arr[N];")
	writeFile(t, filepath.Join(dir, "inc", "extra.h"), "int extra;")

	src := "#include \"defs.h\"\n#include \"defs.h\"\n#include <extra.h>\nint y = N;"
	got, deps, err := Preprocess(src, dir, PreprocessOptions{IncludeDirs: []string{filepath.Join(dir, "inc")}})
	if err != nil {
		t.Fatalf("Preprocess() error = %v", err)
	}
	if want := "int arr[4]; int extra; int y = 4;"; squash(got) != want {
		t.Errorf("Preprocess() = %q, want %q", squash(got), want)
	}
	wantDeps := []string{filepath.Join(dir, "defs.h"), filepath.Join(dir, "inc", "extra.h")}
	if !reflect.DeepEqual(deps, wantDeps) {
		t.Errorf("deps = %v, want %v", deps, wantDeps)
	}
}

func TestPreprocessErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.h"), "#include \"b.h\"")
	writeFile(t, filepath.Join(dir, "b.h"), "#include \"a.h\"")

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Missing Include", "#include \"nope.h\"", `include file "nope.h" not found`},
		{"Circular Include", "#include \"a.h\"", "circular include detected: a.h"},
		{"Stray Endif", "int x;\n#endif", "line 2: #endif without #if"},
		{"Stray Else", "#else", "#else without #if"},
		{"Unterminated If", "#ifdef X\nint x;", "unterminated conditional directive"},
		{"Error Directive", "#error stop here", "#error stop here"},
		{"Unknown Directive", "#frobnicate", "unknown directive #frobnicate"},
		{"Division By Zero", "#if 1/0\n#endif", "division by zero"},
		{"Bad Include", "#include stdio.h", "invalid include directive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Preprocess(tt.src, dir, PreprocessOptions{})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestMissingIncludeHint(t *testing.T) {
	_, _, err := Preprocess("#include \"nope.h\"", t.TempDir(), PreprocessOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if hints := errors.FlattenHints(err); !strings.Contains(hints, "include_directories") {
		t.Errorf("hints = %q", hints)
	}
}

func TestDefinedNames(t *testing.T) {
	got := DefinedNames(PreprocessOptions{Defines: []string{"B=2", " A ", "="}})
	want := []string{"A", "B", "NULL", "__C2CS__", "__STDC__"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DefinedNames() = %v, want %v", got, want)
	}
}

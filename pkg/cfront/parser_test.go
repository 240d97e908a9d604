package cfront

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := ParseSource("test.c", src, PreprocessOptions{})
	require.NoError(t, err)
	return f
}

func findVar(t *testing.T, f *File, name string) *VarDecl {
	t.Helper()
	for _, v := range f.Vars() {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("no variable %q", name)
	return nil
}

func TestParseTopLevelOrder(t *testing.T) {
	f := parse(t, `
struct point { int x, y; };
enum color { RED, GREEN = 5, BLUE };
typedef struct point point_t;
int add(int a, int b);
int counter = 3;
`)
	var got []string
	for _, d := range f.Decls {
		got = append(got, d.Kind().String()+" "+d.DeclName())
	}
	assert.Equal(t, []string{
		"StructDecl point",
		"EnumDecl color",
		"TypedefDecl point_t",
		"FunctionDecl add",
		"VarDecl counter",
	}, got)

	e := f.Enums()[0]
	values := map[string]int64{}
	for _, c := range e.Constants {
		values[c.Name] = c.Value
	}
	assert.Equal(t, map[string]int64{"RED": 0, "GREEN": 5, "BLUE": 6}, values)
}

func TestParseDeclaratorTypes(t *testing.T) {
	f := parse(t, `
int (*fp)(int, char *);
int (*pa)[4];
char s[] = "abc";
int arr[] = {1, 2, 3};
unsigned long long big;
const char *msg;
short int si;
unsigned u;
long double ld;
size_t n;
`)
	tests := map[string]string{
		"fp":  "int (*)(int, char *)",
		"pa":  "int (*)[4]",
		"s":   "char [4]",
		"arr": "int [3]",
		"big": "unsigned long long",
		"msg": "const char *",
		"si":  "short",
		"u":   "unsigned int",
		"ld":  "long double",
		"n":   "size_t",
	}
	for name, want := range tests {
		assert.Equal(t, want, findVar(t, f, name).Type.Spelling(), name)
	}

	n := findVar(t, f, "n")
	assert.Equal(t, &Builtin{Kind: ULong}, Canonical(n.Type))
	assert.Empty(t, f.Typedefs(), "prelude typedefs are not part of the file")
}

func TestParseRecords(t *testing.T) {
	f := parse(t, `
struct node;
struct node { int v; struct node *next; };
typedef struct { int a; } Anon;
struct flags { unsigned a : 3; unsigned : 5; int b; };
struct variant {
	int kind;
	union { int i; float f; };
	struct inner { int x; } in;
};
`)
	records := f.Records()
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"node", "Anon", "flags", "variant"}, names)

	node := records[0]
	assert.True(t, node.Complete)
	require.Len(t, node.Fields, 2)
	assert.Same(t, node, AsRecord(node.Fields[1].Type, true), "self reference resolves to the same declaration")

	flags := records[2]
	require.Len(t, flags.Fields, 2)
	assert.Equal(t, "a", flags.Fields[0].Name)
	assert.Equal(t, 3, flags.Fields[0].BitWidth)
	assert.Equal(t, -1, flags.Fields[1].BitWidth)

	variant := records[3]
	require.Len(t, variant.Fields, 3)
	anon := variant.Fields[1]
	assert.Empty(t, anon.Name)
	require.NotNil(t, anon.Nested)
	assert.True(t, anon.Nested.Union)
	assert.Same(t, anon.Nested.Fields[1], variant.Field("f"))

	in := variant.Fields[2]
	require.NotNil(t, in.Nested)
	assert.Equal(t, "inner", in.Nested.Name)
	assert.True(t, in.Nested.Nested)
}

func TestParseFunctions(t *testing.T) {
	f := parse(t, `
void f(void);
int printf(const char *fmt, ...);
static int twice(int v) { return v * 2; }
int main() { foo(1); return 0; }
`)
	fns := f.Functions()
	require.Len(t, fns, 4)

	assert.Empty(t, fns[0].Params)
	assert.Nil(t, fns[0].Body)
	assert.True(t, fns[1].Type.Variadic)
	assert.Equal(t, "fmt", fns[1].Params[0].Name)

	twice := fns[2]
	assert.Equal(t, StorageStatic, twice.Storage)
	require.NotNil(t, twice.Body)
	ret, ok := twice.Body.Stmts[0].(*ReturnStmt)
	require.True(t, ok)
	mul, ok := ret.Value.(*BinaryOperator)
	require.True(t, ok)
	assert.Equal(t, STAR, mul.Op)
	ref, ok := mul.LHS.(*DeclRefExpr)
	require.True(t, ok)
	assert.Same(t, twice.Params[0], ref.Decl)

	call := fns[3].Body.Stmts[0].(*ExprStmt).X.(*CallExpr)
	callee := call.Callee.(*DeclRefExpr)
	assert.Equal(t, "foo", callee.Name)
	assert.Nil(t, callee.Decl, "undeclared callee is implicit")
	assert.Equal(t, "int", call.Type().Spelling())
}

func TestParseStatements(t *testing.T) {
	f := parse(t, `
void f(int n) {
	int i;
	for (i = 0; i < n; i++) { if (i == 2) continue; else break; }
	while (n) n--;
	do { n++; } while (n < 3);
	switch (n) { case 1: break; default: ; }
	goto end;
	;
end:
	return;
}
`)
	body := f.Functions()[0].Body
	var kinds []string
	for _, s := range body.Stmts {
		kinds = append(kinds, s.Kind().String())
	}
	assert.Equal(t, []string{
		"DeclStmt", "ForStmt", "WhileStmt", "DoStmt", "SwitchStmt",
		"GotoStmt", "NullStmt", "LabelStmt",
	}, kinds)

	loop := body.Stmts[1].(*ForStmt)
	assert.IsType(t, &ExprStmt{}, loop.Init)
	assert.Equal(t, "(i LESS n)", loop.Cond.String())
	inc := loop.Inc.(*UnaryOperator)
	assert.True(t, inc.Postfix)

	label := body.Stmts[7].(*LabelStmt)
	assert.Equal(t, "end", label.Label)
	assert.IsType(t, &ReturnStmt{}, label.Body)
}

func TestParseExpressionTypes(t *testing.T) {
	f := parse(t, `
struct pt { int x; double y; };
void g(struct pt *p, char c, unsigned u) {
	p->y + c;
	c + c;
	u + 1;
	p + 1;
	sizeof(struct pt);
	c ? p : 0;
	1UL;
}
`)
	stmts := f.Functions()[0].Body.Stmts
	want := []string{"double", "int", "unsigned int", "struct pt *", "unsigned long", "struct pt *", "unsigned long"}
	require.Len(t, stmts, len(want))
	for i, s := range stmts {
		assert.Equal(t, want[i], s.(*ExprStmt).X.Type().Spelling(), s.String())
	}
}

func TestParseInitializers(t *testing.T) {
	f := parse(t, `
struct pt { int x, y; };
struct pt a = { 1, 2 };
struct pt b = { .x = 1 };
int grid[2] = { 0 };
`)
	a := findVar(t, f, "a").Init.(*InitListExpr)
	assert.Len(t, a.Elements, 2)

	b := findVar(t, f, "b").Init.(*InitListExpr)
	require.Len(t, b.Elements, 1)
	u, ok := b.Elements[0].(*UnsupportedExpr)
	require.True(t, ok)
	assert.Equal(t, "designated initializer", u.What)
	assert.Equal(t, "int [2]", findVar(t, f, "grid").Type.Spelling())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Missing Semicolon", "int x", "expected SEMICOLON, got EOF"},
		{"Redefinition", "struct s { int a; };\nstruct s { int b; };", "line 2: redefinition of 'struct s'"},
		{"Wrong Tag Kind", "union u { int a; };\nstruct u *p;", `"u" defined as wrong kind of tag`},
		{"Non Constant Bound", "int n;\nint a[n];", "array size is not an integer constant"},
		{"Two Types", "int struct s x;", "two or more data types"},
		{"Unterminated Body", "void f() { return;", "expected '}' before end of input"},
		{"Statement Expression", "int f() { return ({ 1; }); }", "statement expressions are not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource("bad.c", tt.src, PreprocessOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "parsing bad.c")
		})
	}
}

func TestSourceText(t *testing.T) {
	f := parse(t, "int limit = sizeof(long) * 2;")
	v := findVar(t, f, "limit")
	assert.Equal(t, "sizeof(long)*2", f.SourceText(v.Init))
	assert.Equal(t, []string{"sizeof", "(", "long", ")", "*", "2"}, f.TokenText(v.Init))
}

func TestDump(t *testing.T) {
	f := parse(t, "int add(int a, int b) {\n\treturn a + b;\n}\n")
	var sb strings.Builder
	require.NoError(t, Dump(&sb, f))
	out := sb.String()

	assert.True(t, strings.HasPrefix(out, "TranslationUnit [test.c] <line:1>\n"), out)
	assert.Contains(t, out, "\n  FunctionDecl [add] 'int (int, int)' <line:1>\n")
	assert.Contains(t, out, "\n    ParmDecl [b] 'int' <line:1>\n")
	assert.Contains(t, out, "\n        BinaryOperator 'int' + <line:2>\n")
	assert.Contains(t, out, "\n          DeclRefExpr [a] 'int' <line:2>\n")

	var kinds []string
	Inspect(f, func(n Node) bool {
		kinds = append(kinds, n.Kind().String())
		return n.Kind() != KindReturnStmt
	})
	assert.Equal(t, []string{
		"TranslationUnit", "FunctionDecl", "ParmDecl", "ParmDecl", "CompoundStmt", "ReturnStmt",
	}, kinds)
}

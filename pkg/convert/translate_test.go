package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// body returns the translated body of the only function in src.
func body(t *testing.T, src string) string {
	t.Helper()
	out := generate(t, src)
	require.Len(t, out.Functions, 1)
	return out.Functions[0]
}

func TestTranslateLiterals(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"hex", "0x1F", "return 31;"},
		{"decimal", "31", "return 31;"},
		{"octal", "017", "return 15;"},
		{"unsigned", "10u", "return 10u;"},
		{"long dropped", "10L", "return 10;"},
		{"long long", "10LL", "return 10l;"},
		{"unsigned long long", "0xFFull", "return 255ul;"},
		{"char", "'A'", "return 65;"},
		{"escaped char", `'\n'`, "return 10;"},
		{"float", "1.5f", "return 1.5f;"},
		{"trailing dot", "2.", "return 2.0;"},
		{"long double", "2.5L", "return 2.5;"},
		{"bool", "true", "return true;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := body(t, "double f(void) { return "+tt.expr+"; }")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestHexAndDecimalRenderTheSame(t *testing.T) {
	hex := body(t, "int f(void) { return 0x1F; }")
	dec := body(t, "int f(void) { return 31; }")
	assert.Equal(t, dec, hex)
}

func TestTranslateString(t *testing.T) {
	got := body(t, `void f(void) { puts("say \"hi\"\n\ttab\\"); }`)
	assert.Contains(t, got, `puts("say \"hi\"\n\ttab\\");`)
}

func TestTranslateTernary(t *testing.T) {
	tests := []struct {
		name string
		cond string
		want string
	}{
		{"bare identifier", "x", "return (x) != 0?a:b;"},
		{"parenthesised", "(x)", "return (x)?a:b;"},
		{"logical and", "x && y", "return x&&y?a:b;"},
		{"logical or", "x || y", "return x||y?a:b;"},
		{"bitwise or", "x | y", "return (x|y) != 0?a:b;"},
		{"relational", "x < y", "return x<y?a:b;"},
		{"negation", "!x", "return !x?a:b;"},
		{"pointer", "p", "return (p) != null?a:b;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := body(t, "int f(int x, int y, int a, int b, int *p) { return "+tt.cond+" ? a : b; }")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestTranslateStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "for with empty clauses",
			body: "int i = 0; for(;i<10;) i++;",
			want: "for(;i<10;) {i++;}",
		},
		{
			name: "for with everything omitted",
			body: "for(;;) break;",
			want: "for(;;) {break;}",
		},
		{
			name: "for declaration",
			body: "for (int i = 0, j = 9; i < j; i++, j--) {}",
			want: "for(int i=0, j=9;i<j;i++,j--) {\n}",
		},
		{
			name: "if else",
			body: "int x = 1; if (x) x = 2; else x = 3;",
			want: "if ((x) != 0) x=2; else {x=3;}",
		},
		{
			name: "while",
			body: "int n = 3; while (n) n--;",
			want: "while ((n) != 0) {n--;}",
		},
		{
			name: "do while",
			body: "int n = 3; do { n--; } while (n > 0);",
			want: "do {\nn--;\n} while (n>0);",
		},
		{
			name: "switch",
			body: "int n = 1; switch (n) { case 1: n = 2; break; default: n = 0; }",
			want: "switch (n) {\ncase 1:\nn=2;\nbreak;\ndefault:\nn=0;\n}",
		},
		{
			name: "compound assignment",
			body: "int n = 1; n <<= 2; n += 3;",
			want: "n<<=2;\nn+=3;",
		},
		{
			name: "struct value gets constructed",
			body: "struct P p;",
			want: "P p=new P();",
		},
		{
			name: "null pointer literal",
			body: "int *p = 0; char *q = NULL; void *r = (void *)0;",
			want: "int* p=null;\nsbyte* q=null;\nvoid* r=null;",
		},
		{
			name: "null comparison",
			body: "int *p = 0; if (p == NULL) return;",
			want: "if (p==null) return;",
		},
		{
			name: "stack array",
			body: "int a[4];",
			want: "int* a=stackalloc int[4];",
		},
		{
			name: "stack array initializer",
			body: "int a[3] = {1, 2};",
			want: "int* a=stackalloc int[3] {1, 2, default};",
		},
		{
			name: "zeroed array",
			body: "int a[8] = {0};",
			want: "int* a=stackalloc int[8];",
		},
		{
			name: "char array from string",
			body: `char s[] = "hi";`,
			want: "sbyte* s=stackalloc sbyte[3] {104, 105, 0};",
		},
		{
			name: "struct initializer",
			body: "struct P p = {1, 2};",
			want: "P p=new P(){x=1, y=2};",
		},
		{
			name: "sizeof fixed array",
			body: "int a[4]; int n = sizeof(a);",
			want: "int n=4 * sizeof(int);",
		},
		{
			name: "sizeof type",
			body: "int n = sizeof(struct P);",
			want: "int n=sizeof(P);",
		},
		{
			name: "alignof is fixed",
			body: "int n = _Alignof(double);",
			want: "int n=4;",
		},
		{
			name: "cast",
			body: "double d = 1.5; int n = (int)d;",
			want: "int n=(int)(d);",
		},
		{
			name: "reserved words",
			body: "int base = 1; int string = base;",
			want: "int _base_=1;\nint _string_=_base_;",
		},
		{
			name: "negated negation",
			body: "int a = 1; int b = -(-a); int c = - -a;",
			want: "int c=- -a;",
		},
		{
			name: "minus before predecrement",
			body: "int a = 1; int c = a - --a;",
			want: "int c=a- --a;",
		},
		{
			name: "minus before negation",
			body: "int a = 1; int b = 2; int c = a - -b;",
			want: "int c=a- -b;",
		},
		{
			name: "plus before unary plus",
			body: "int a = 1; int b = 2; int c = a + +b;",
			want: "int c=a+ +b;",
		},
		{
			name: "division by dereference",
			body: "int a = 4; int *p = &a; int c = a / *p;",
			want: "int c=a/ *p;",
		},
		{
			name: "compound assignment of negation",
			body: "int a = 1; a -= -a;",
			want: "a-=-a;",
		},
		{
			name: "char pointer from string",
			body: `const char *s = "hi"; s = "yo";`,
			want: "sbyte* s=CString(\"hi\");\ns=CString(\"yo\");",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := body(t, "struct P { int x, y; };\nvoid f(void) { "+tt.body+" }")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestEnumConditionIsCompared(t *testing.T) {
	got := body(t, "enum mode { OFF, ON };\nint f(enum mode m) { if (m) return 1; while (m) m = OFF; return m ? 2 : 3; }")
	assert.Contains(t, got, "if ((int)(m) != 0) return 1;")
	assert.Contains(t, got, "while ((int)(m) != 0) {m=mode.OFF;}")
	assert.Contains(t, got, "return (int)(m) != 0?2:3;")
}

func TestStringArgumentToCharPointer(t *testing.T) {
	got := body(t, `void say(const char *msg); void f(void) { say("x"); puts("y"); }`)
	assert.Contains(t, got, `say(CString("x"));`)
	assert.Contains(t, got, `puts("y");`)
}

func TestClassArraysAreConstructed(t *testing.T) {
	out := generate(t, `
		struct C { void (*cb)(void); };
		struct C g[2];
		struct C h[3] = { {0} };
		struct C *refs[2];
		void f(void) { struct C a[2]; a[0].cb = 0; }`)
	assert.Equal(t, []string{
		"public static C[] g=NewArray<C>(2);",
		"public static C[] h=new C[3] {new C(){cb=null}, new C(), new C()};",
		"public static C[] refs=new C[2];",
	}, out.GlobalConstants)
	assert.Contains(t, function(t, out, 0), "C[] a=NewArray<C>(2);\na[0].cb=null;")
}

func TestTranslateLabelFlattening(t *testing.T) {
	got := body(t, `
		void f(void) {
			int x = 0;
			goto end;
		end:
			x = 1;
			x = 2;
		}`)
	assert.Equal(t, "public static void f()\n{\nint x=0;\ngoto end;\nend:\nx=1;\nx=2;\n}", got)
}

func TestTranslateNestedLabels(t *testing.T) {
	got := body(t, "void f(void) { int x; a: b: x = 1; }")
	assert.Contains(t, got, "a:\nb:\nx=1;\n")
}

func TestTranslateMemberAccess(t *testing.T) {
	src := `
		struct vec { int x, y; };
		struct node { struct node *next; void (*visit)(struct node *); };
		struct tagged { union { int i; float f; }; int tag; };
		int f(struct vec v, struct vec *pv, struct node *n, struct tagged t) {
			n->visit(n);
			(*n->visit)(n->next);
			return v.x + pv->y + t.i;
		}`
	got := body(t, src)
	assert.Contains(t, got, "public static int f(vec v, vec* pv, node n, tagged t)")
	assert.Contains(t, got, "n.visit(n);")
	assert.Contains(t, got, "n.visit(n.next);")
	assert.Contains(t, got, "return v.x+pv->y+t._unnamed0.i;")
}

func TestTranslateAddressOfClassIsElided(t *testing.T) {
	src := `
		struct cb { void (*fn)(void); };
		void use(struct cb *c);
		void f(void) { struct cb c; struct cb *p = &c; use(&c); *p = c; }`
	got := body(t, src)
	assert.Contains(t, got, "cb c=new cb();")
	assert.Contains(t, got, "cb p=c;")
	assert.Contains(t, got, "use(c);")
	assert.Contains(t, got, "p=c;")
}

func TestTranslateAddressOfValue(t *testing.T) {
	got := body(t, "void f(void) { int x = 1; int *p = &x; *p = 2; }")
	assert.Contains(t, got, "int* p=&x;\n*p=2;")
}

func TestStaticLocalsAreHoisted(t *testing.T) {
	out := generate(t, `
		int counter(void) {
			static int calls = 0;
			calls++;
			return calls;
		}`)
	assert.Equal(t, []string{"public static int counter_calls=0;"}, out.GlobalConstants)
	assert.Equal(t, "public static int counter()\n{\ncounter_calls++;\nreturn counter_calls;\n}", function(t, out, 0))
}

func TestNamedEnumConstantsAreQualified(t *testing.T) {
	got := body(t, "enum color { RED, GREEN }; enum { LOOSE = 3 }; int f(void) { return GREEN + LOOSE; }")
	assert.Contains(t, got, "return color.GREEN+LOOSE;")
}

func TestCallableCastUsesAlias(t *testing.T) {
	out := generate(t, "typedef void (*fn_t)(int); void f(void *p) { fn_t g = (fn_t)p; g(1); }")
	assert.Contains(t, function(t, out, 0), "delegateType0 g=(delegateType0)(p);")
	assert.Equal(t, []string{"public delegate void delegateType0(int arg0);"}, out.FunctionTypes)
}

func TestUnsupportedNodesLogAndRenderEmpty(t *testing.T) {
	log, logs := observed()
	out := Generate(log, parse(t, "struct P { int x; }; void f(void) { struct P p; p = (struct P){1}; }"))
	assert.Contains(t, function(t, out, 0), "p=;")
	assert.Equal(t, 1, logs.FilterMessageSnippet("Unsupported expression").Len())
}

func TestSizeofMultidimensionalArrayWarns(t *testing.T) {
	log, logs := observed()
	out := Generate(log, parse(t, "int f(void) { int m[2][3]; return sizeof(m); }"))
	assert.Contains(t, function(t, out, 0), "return 1;")
	assert.Equal(t, 1, logs.FilterMessageSnippet("Sizeof for multidimensional arrays is unsupported").Len())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "(a)", parentize("a"))
	assert.Equal(t, "(a)", parentize("(a)"))
	assert.Equal(t, "((a)+(b))", parentize("(a)+(b)"))
	assert.Equal(t, "f", deparentize("((f))"))
	assert.Equal(t, "(a)+(b)", deparentize("(a)+(b)"))
	assert.Equal(t, "x;", ensureSemicolon("x"))
	assert.Equal(t, "{}", ensureSemicolon("{}"))
	assert.Equal(t, "", ensureSemicolon("  "))
	assert.Equal(t, "{x;}", ensureBraces("x"))
	assert.Equal(t, "{}", ensureBraces(""))
	assert.Equal(t, "_params_", FixReservedWords("params"))
	assert.Equal(t, "count", FixReservedWords("count"))
}

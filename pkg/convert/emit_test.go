package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"c2cs/pkg/ctypes"
)

func TestGenerateEnums(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		enums     []string
		constants []string
	}{
		{
			name:  "named",
			src:   "enum color { RED, GREEN = 5, BLUE };",
			enums: []string{"public enum color\n{\nRED,\nGREEN = 5,\nBLUE\n}"},
		},
		{
			name:  "typedef names anonymous enum",
			src:   "typedef enum { OFF, ON = 'y' } state;",
			enums: []string{"public enum state\n{\nOFF,\nON = 121\n}"},
		},
		{
			name:  "negative and parenthesised values",
			src:   "enum level { LOW = -1, MID = (4), HIGH = +(7) };",
			enums: []string{"public enum level\n{\nLOW = -1,\nMID = 4,\nHIGH = 7\n}"},
		},
		{
			name: "anonymous restarts at explicit values",
			src:  "enum { A, B = 5, C };",
			constants: []string{
				"public const int A = 0;",
				"public const int B = 5;",
				"public const int C = 6;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := generate(t, tt.src)
			assert.Equal(t, tt.enums, out.Enums)
			assert.Equal(t, tt.constants, out.GlobalConstants)
		})
	}
}

func TestEnumNonLiteralInitializerWarns(t *testing.T) {
	log, logs := observed()
	out := Generate(log, parse(t, "enum flags { READ = 1 << 0, WRITE = 1 << 1, EXEC };"))
	assert.Equal(t, []string{"public enum flags\n{\nREAD = 0,\nWRITE = 0,\nEXEC\n}"}, out.Enums)

	warnings := logs.FilterMessageSnippet("Couldn't resolve enum literal value").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "Couldn't resolve enum literal value [1<<0]", warnings[0].Message)
}

func TestEnumOverflowWarns(t *testing.T) {
	log, logs := observed()
	out := Generate(log, parse(t, "enum { A = 0x7FFFFFFF, B };\nenum big { X = 2147483647, Y, Z = 1, W };"))
	assert.Equal(t, []string{
		"public const int A = 2147483647;",
		"public const int B = -2147483648;",
	}, out.GlobalConstants)
	assert.Equal(t, []string{"public enum big\n{\nX = 2147483647,\nY,\nZ = 1,\nW\n}"}, out.Enums)

	warnings := logs.FilterMessageSnippet("overflows int").All()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Message, "B")
	assert.Contains(t, warnings[1].Message, "big.Y")
}

func TestGenerateUnion(t *testing.T) {
	out := generate(t, "union number { int i; float f; };")
	assert.Equal(t, []string{
		"[StructLayout(LayoutKind.Explicit)]\npublic unsafe struct number\n{\n[FieldOffset(0)] public int i;\n[FieldOffset(0)] public float f;\n}",
	}, out.Structs)
}

func TestGenerateStructFields(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "fixed buffers",
			src:  "enum kind { K0 }; struct s { int a[4]; char name[16]; enum kind kinds[2]; unsigned char *raw; };",
			want: []string{
				"public unsafe struct s\n{\npublic fixed int a[4];\npublic fixed sbyte name[16];\npublic fixed int kinds[2];\npublic byte* raw;\n}",
			},
		},
		{
			name: "callable field",
			src:  "struct button { int id; void (*on_click)(struct button *self, int x); };",
			want: []string{
				"public unsafe class button\n{\npublic int id;\npublic delegateType0 on_click;\n}",
			},
		},
		{
			name: "class array with constructor",
			src:  "struct cb { void (*fn)(void); }; struct holder { struct cb items[3]; int n; };",
			want: []string{
				"public unsafe class cb\n{\npublic delegateType0 fn;\n}",
				"public unsafe class holder\n{\npublic cb[] items = new cb[3];\npublic int n;\npublic holder()\n{\nfor (var i = 0; i < 3; i++){ items[i] = new cb(); }\n}\n}",
			},
		},
		{
			name: "value struct array inside class",
			src:  "struct pt { int x; }; struct poly { struct pt pts[4]; };",
			want: []string{
				"public unsafe struct pt\n{\npublic int x;\n}",
				"public unsafe class poly\n{\npublic pt[] pts = new pt[4];\n}",
			},
		},
		{
			name: "class held by value",
			src:  "struct cb { void (*fn)(void); }; struct owner { struct cb c; struct cb *ref; };",
			want: []string{
				"public unsafe class cb\n{\npublic delegateType0 fn;\n}",
				"public unsafe class owner\n{\npublic cb c = new cb();\npublic cb _ref_;\n}",
			},
		},
		{
			name: "reserved field names",
			src:  "struct r { int in, out, lock; };",
			want: []string{"public unsafe struct r\n{\npublic int _in_;\npublic int _out_;\npublic int _lock_;\n}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generate(t, tt.src).Structs)
		})
	}
}

func TestMultidimensionalFieldIsSkipped(t *testing.T) {
	log, logs := observed()
	out := Generate(log, parse(t, "struct grid { int cells[3][3]; int w; };"))
	assert.Equal(t, []string{"public unsafe class grid\n{\npublic int w;\n}"}, out.Structs)
	assert.Equal(t, 1, logs.FilterMessageSnippet("Multidimensional array field grid.cells").Len())
}

func TestGenerateFunctionTypes(t *testing.T) {
	out := generate(t, `
		typedef int (*binop)(int, int);
		typedef binop (*factory)(const char *name);
		struct calc { binop op; factory make; binop other; };`)
	assert.Equal(t, []string{
		"public delegate int delegateType0(int arg0, int arg1);",
		"public delegate delegateType0 delegateType1(sbyte* arg0);",
	}, out.FunctionTypes)
	assert.Equal(t, []string{
		"public unsafe class calc\n{\npublic delegateType0 op;\npublic delegateType1 make;\npublic delegateType0 other;\n}",
	}, out.Structs)
}

func TestFunctionTypeAliasDedup(t *testing.T) {
	c := NewContext(zaptest.NewLogger(t).Sugar(), nil)
	intArg := ctypes.Descriptor{Kind: ctypes.Primitive, Name: "int"}
	void := ctypes.Descriptor{Kind: ctypes.Primitive, Name: "void"}
	fn := ctypes.Descriptor{Kind: ctypes.Function, PointerDepth: 1, Return: &void, Params: []ctypes.Descriptor{intArg}}
	other := ctypes.Descriptor{Kind: ctypes.Function, PointerDepth: 1, Return: &intArg}

	assert.Equal(t, "delegateType0", c.FunctionTypeAlias(fn))
	assert.Equal(t, "delegateType1", c.FunctionTypeAlias(other))
	assert.Equal(t, "delegateType0", c.FunctionTypeAlias(fn))

	c.GenerateFunctionTypes()
	c.GenerateFunctionTypes()
	assert.Equal(t, []string{
		"public delegate void delegateType0(int arg0);",
		"public delegate int delegateType1();",
	}, c.Output().FunctionTypes)
}

func TestGenerateGlobalsAndFunctions(t *testing.T) {
	out := generate(t, `
		extern int shared;
		int counter;
		int counter = 3;
		static const char *greeting = "hi";
		int table[3] = {1, 2, 3};
		int twice(int value);
		int twice(int value) { return value * 2; }
		void noop(void) {}`)
	assert.Equal(t, []string{
		"public static int counter=3;",
		`public static sbyte* greeting=CString("hi");`,
		"public static int[] table=new int[3] {1, 2, 3};",
	}, out.GlobalConstants)
	assert.Equal(t, []string{
		"public static int twice(int _value_)\n{\nreturn _value_*2;\n}",
		"public static void noop()\n{\n}",
	}, out.Functions)
}

func TestOutputLen(t *testing.T) {
	out := generate(t, "enum e { X }; struct s { int a; }; int g; void f(void) {}")
	assert.Equal(t, 4, out.Len())
}

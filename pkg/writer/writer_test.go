package writer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"c2cs/pkg/convert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{
			name: "enum",
			decl: "public enum color\n{\nRED,\nGREEN = 5,\nBLUE\n}",
			want: []string{"public enum color", "{", "\tRED,", "\tGREEN = 5,", "\tBLUE", "}"},
		},
		{
			name: "if else",
			decl: "public static void f()\n{\nint x=1;\nif ((x) != 0) x=2; else {x=3;}\n}",
			want: []string{
				"public static void f()", "{",
				"\tint x=1;",
				"\tif ((x) != 0) x=2;",
				"\telse", "\t{", "\t\tx=3;", "\t}",
				"}",
			},
		},
		{
			name: "for header stays on one line",
			decl: "for(int i=0, j=9;i<j;i++,j--) {\n}",
			want: []string{"for(int i=0, j=9;i<j;i++,j--)", "{", "}"},
		},
		{
			name: "do while",
			decl: "do {\nn--;\n} while (n>0);",
			want: []string{"do", "{", "\tn--;", "}", "while (n>0);"},
		},
		{
			name: "array initializer is inline",
			decl: "sbyte* s=stackalloc sbyte[3] {104, 105, 0};",
			want: []string{"sbyte* s=stackalloc sbyte[3] {104, 105, 0};"},
		},
		{
			name: "object initializer is inline",
			decl: "P p=new P(){x=1, y=2};\nint[] a=new int[2] {1, 2};",
			want: []string{"P p=new P(){x=1, y=2};", "int[] a=new int[2] {1, 2};"},
		},
		{
			name: "literals keep braces and semicolons",
			decl: `puts("{ a; }"); x = '}';`,
			want: []string{`puts("{ a; }");`, `x = '}';`},
		},
		{
			name: "escaped quote",
			decl: `puts("say \"{\"");`,
			want: []string{`puts("say \"{\"");`},
		},
		{
			name: "class constructor",
			decl: "public unsafe class holder\n{\npublic cb[] items = new cb[3];\npublic holder()\n{\nfor (var i = 0; i < 3; i++){ items[i] = new cb(); }\n}\n}",
			want: []string{
				"public unsafe class holder", "{",
				"\tpublic cb[] items = new cb[3];",
				"\tpublic holder()", "\t{",
				"\t\tfor (var i = 0; i < 3; i++)", "\t\t{",
				"\t\t\titems[i] = new cb();",
				"\t\t}", "\t}",
				"}",
			},
		},
		{
			name: "label",
			decl: "{\nend:\nx=1;\n}",
			want: []string{"{", "\tend:", "\tx=1;", "}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.decl))
		})
	}
}

var stamp = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

const preamble = "// Generated by c2cs\n" +
	"// From: src/a.c @ 2024-03-01 12:30:00\n\n" +
	"using System;\n" +
	"using System.Runtime.InteropServices;\n" +
	"using static C2CS.CRuntime;\n\n" +
	"namespace Demo\n{\n" +
	"\tpublic unsafe partial class DemoClass\n\t{\n"

func TestWrite(t *testing.T) {
	out := &convert.Output{
		GlobalConstants: []string{"public static int g=1;", "public const int A = 0;"},
		FunctionTypes:   []string{"public delegate void delegateType0();"},
		Enums:           []string{"public enum a\n{\nX\n}", "public enum b\n{\nY\n}"},
		Functions:       []string{"public static void f()\n{\nreturn;\n}"},
	}

	var buf bytes.Buffer
	err := Write(&buf, zaptest.NewLogger(t).Sugar(), Header{Source: "src/a.c", Time: stamp, Namespace: "Demo"}, out)
	require.NoError(t, err)

	want := preamble +
		"\t\tpublic static int g=1;\n" +
		"\t\tpublic const int A = 0;\n" +
		"\n" +
		"\t\tpublic delegate void delegateType0();\n" +
		"\n" +
		"\t\tpublic enum a\n\t\t{\n\t\t\tX\n\t\t}\n" +
		"\n" +
		"\t\tpublic enum b\n\t\t{\n\t\t\tY\n\t\t}\n" +
		"\n" +
		"\t\tpublic static void f()\n\t\t{\n\t\t\treturn;\n\t\t}\n" +
		"\n" +
		"\t}\n}\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteWithoutOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, Header{Source: "src/a.c", Time: stamp, Namespace: "Demo"}, nil))
	assert.Equal(t, preamble+"\t}\n}\n", buf.String())
}

func TestWriteRequiresNamespace(t *testing.T) {
	err := Write(&bytes.Buffer{}, nil, Header{Source: "a.c", Time: stamp}, &convert.Output{})
	assert.ErrorContains(t, err, "empty namespace")
}

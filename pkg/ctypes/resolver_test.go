package ctypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c2cs/pkg/cfront"
)

const declarations = `
typedef unsigned char byte_t;
typedef byte_t *bytes_t;
typedef struct point { int x, y; } point_t;
typedef int (*binop)(int, int);
enum mode { OFF, ON };

int i;
long l;
unsigned long ul;
long long ll;
char c;
unsigned char uc;
_Bool flag;
long double ld;
void *raw;
char **argv;
int grid[3][4];
int *ptrs[5];
int (*rowp)[4];
bytes_t buf;
point_t origin;
struct point *pp;
enum mode m;
binop op;
point_t (*make)(bytes_t, enum mode);
`

func resolveAll(t *testing.T) map[string]Descriptor {
	t.Helper()
	f, err := cfront.ParseSource("decls.c", declarations, cfront.PreprocessOptions{})
	require.NoError(t, err)
	out := make(map[string]Descriptor)
	for _, v := range f.Vars() {
		out[v.Name] = Resolve(v.Type)
	}
	return out
}

func TestResolve(t *testing.T) {
	got := resolveAll(t)
	tests := []struct {
		name   string
		kind   Kind
		target string
		depth  int
		dims   []int
	}{
		{"i", Primitive, "int", 0, nil},
		{"l", Primitive, "int", 0, nil},
		{"ul", Primitive, "uint", 0, nil},
		{"ll", Primitive, "long", 0, nil},
		{"c", Primitive, "sbyte", 0, nil},
		{"uc", Primitive, "byte", 0, nil},
		{"flag", Primitive, "bool", 0, nil},
		{"ld", Primitive, "double", 0, nil},
		{"raw", Primitive, "void", 1, nil},
		{"argv", Primitive, "sbyte", 2, nil},
		{"grid", Primitive, "int", 2, []int{3, 4}},
		{"ptrs", Primitive, "int", 2, []int{5}},
		{"rowp", Primitive, "int", 2, nil},
		{"buf", Primitive, "byte", 1, nil},
		{"origin", Struct, "point", 0, nil},
		{"pp", Struct, "point", 1, nil},
		{"m", Enum, "mode", 0, nil},
		{"op", Function, "int(int, int)", 1, nil},
		{"make", Function, "point(byte*, mode)", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := got[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.target, d.Name)
			assert.Equal(t, tt.depth, d.PointerDepth)
			assert.Equal(t, tt.dims, d.ArrayDims)
		})
	}
}

func TestResolveDeclarations(t *testing.T) {
	got := resolveAll(t)

	origin := got["origin"]
	require.NotNil(t, origin.Record)
	assert.Len(t, origin.Record.Fields, 2)

	m := got["m"]
	require.NotNil(t, m.EnumDecl)
	assert.Len(t, m.EnumDecl.Constants, 2)

	ctor := got["make"]
	require.NotNil(t, ctor.Return)
	assert.Equal(t, Struct, ctor.Return.Kind)
	require.Len(t, ctor.Params, 2)
	assert.Equal(t, 1, ctor.Params[0].PointerDepth)
	assert.Equal(t, Enum, ctor.Params[1].Kind)
}

func TestDescriptorHelpers(t *testing.T) {
	got := resolveAll(t)

	grid := got["grid"]
	assert.True(t, grid.IsArray())
	assert.True(t, grid.IsMultiDimensional())
	assert.False(t, grid.IsFixedSizeArray())
	assert.Equal(t, 3, grid.Size())
	assert.Equal(t, 0, grid.ElementDepth())

	ptrs := got["ptrs"]
	assert.True(t, ptrs.IsFixedSizeArray())
	el := ptrs.Element()
	assert.Equal(t, 1, el.PointerDepth)
	assert.Nil(t, el.ArrayDims)
	assert.Equal(t, "int*", el.TargetName())

	assert.True(t, got["raw"].IsPointer())
	assert.False(t, got["raw"].IsVoid())
	assert.True(t, Descriptor{Name: "void"}.IsVoid())
	assert.Equal(t, 0, got["i"].Size())
	assert.Equal(t, "sbyte**", got["argv"].TargetName())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "primitive", Primitive.String())
	assert.Equal(t, "function", Function.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestPrimitiveName(t *testing.T) {
	assert.Equal(t, "ushort", PrimitiveName(cfront.UShort))
	assert.Equal(t, "ulong", PrimitiveName(cfront.ULongLong))
	assert.Equal(t, "int", PrimitiveName(cfront.BuiltinKind(99)))
}

package ctypes

import (
	"c2cs/pkg/cfront"
)

// primitiveNames maps C builtin kinds to C# primitive names. C long is
// treated as 32 bits, matching the LLP64 model of the original tooling.
var primitiveNames = map[cfront.BuiltinKind]string{
	cfront.Void:       "void",
	cfront.Bool:       "bool",
	cfront.Char:       "sbyte",
	cfront.SChar:      "sbyte",
	cfront.UChar:      "byte",
	cfront.Short:      "short",
	cfront.UShort:     "ushort",
	cfront.Int:        "int",
	cfront.UInt:       "uint",
	cfront.Long:       "int",
	cfront.ULong:      "uint",
	cfront.LongLong:   "long",
	cfront.ULongLong:  "ulong",
	cfront.Float:      "float",
	cfront.Double:     "double",
	cfront.LongDouble: "double",
}

// PrimitiveName returns the C# name of a builtin kind.
func PrimitiveName(k cfront.BuiltinKind) string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return "int"
}

// Resolve reduces a C type to its descriptor. Typedefs are unwrapped at
// every level; every pointer or array level adds one to PointerDepth.
// Array bounds are collected only along the leading run of array levels,
// so a pointer to an array has no dimensions. Resolve does not cache.
func Resolve(t cfront.CType) Descriptor {
	var d Descriptor
	collecting := true
	for {
		switch v := cfront.Canonical(t).(type) {
		case *cfront.Pointer:
			d.PointerDepth++
			collecting = false
			t = v.Elem
			continue
		case *cfront.Array:
			d.PointerDepth++
			if v.Size < 0 {
				collecting = false
			} else if collecting {
				d.ArrayDims = append(d.ArrayDims, v.Size)
			}
			t = v.Elem
			continue
		case *cfront.Builtin:
			d.Kind = Primitive
			d.Name = PrimitiveName(v.Kind)
		case *cfront.Enum:
			d.Kind = Enum
			d.Name = v.Decl.Name
			d.EnumDecl = v.Decl
		case *cfront.Record:
			d.Kind = Struct
			d.Name = v.Decl.Name
			d.Record = v.Decl
		case *cfront.FunctionProto:
			d.Kind = Function
			ret := Resolve(v.Result)
			d.Return = &ret
			d.Params = make([]Descriptor, 0, len(v.Params))
			for _, p := range v.Params {
				d.Params = append(d.Params, Resolve(p))
			}
			d.Name = d.Signature()
		default:
			d.Kind = Primitive
			d.Name = "int"
		}
		return d
	}
}

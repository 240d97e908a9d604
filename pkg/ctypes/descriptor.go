// Package ctypes reduces C types to the flat descriptors the C# emitter
// works from.
package ctypes

import (
	"strconv"
	"strings"

	"c2cs/pkg/cfront"
)

// Kind classifies a resolved type.
type Kind int

const (
	Primitive Kind = iota
	Enum
	Struct
	Function
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Enum:
		return "enum"
	case Struct:
		return "struct"
	case Function:
		return "function"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Descriptor is a resolved C type.
//
// PointerDepth counts every pointer level and every array level the value
// decays through, so `int *a[3]` has depth 2 and dimensions [3].
// ArrayDims is set only when the declared type itself is an array.
type Descriptor struct {
	Kind Kind
	// Name is the target primitive name for primitives, the tag or typedef
	// name for enums and aggregates, and the canonical signature for
	// callables. It is empty for anonymous aggregates and enums.
	Name         string
	PointerDepth int
	ArrayDims    []int
	// Return and Params are set for callables.
	Return *Descriptor
	Params []Descriptor
	// Record is the declaration behind a Struct descriptor.
	Record *cfront.RecordDecl
	// EnumDecl is the declaration behind an Enum descriptor.
	EnumDecl *cfront.EnumDecl
}

// IsArray reports whether the declared type was an array with known bounds.
func (d Descriptor) IsArray() bool { return len(d.ArrayDims) > 0 }

// IsFixedSizeArray reports a single-dimension array with known bound.
func (d Descriptor) IsFixedSizeArray() bool { return len(d.ArrayDims) == 1 }

// IsMultiDimensional reports an array of arrays.
func (d Descriptor) IsMultiDimensional() bool { return len(d.ArrayDims) > 1 }

// ElementDepth is the pointer depth of an array's element type.
func (d Descriptor) ElementDepth() int { return d.PointerDepth - len(d.ArrayDims) }

// Element returns the descriptor of an array's element.
func (d Descriptor) Element() Descriptor {
	e := d
	e.PointerDepth = d.ElementDepth()
	e.ArrayDims = nil
	return e
}

// IsPointer reports whether values of the type are addresses.
func (d Descriptor) IsPointer() bool { return d.PointerDepth > 0 }

// IsVoid reports the plain void type.
func (d Descriptor) IsVoid() bool {
	return d.Kind == Primitive && d.Name == "void" && d.PointerDepth == 0
}

// Size returns the first array dimension, or 0.
func (d Descriptor) Size() int {
	if len(d.ArrayDims) == 0 {
		return 0
	}
	return d.ArrayDims[0]
}

// TargetName is Name followed by one star per pointer level. It is the
// spelling used inside callable signatures.
func (d Descriptor) TargetName() string {
	return d.Name + strings.Repeat("*", d.PointerDepth)
}

// Signature renders a callable as `ret(p0, p1)`.
func (d Descriptor) Signature() string {
	var sb strings.Builder
	if d.Return != nil {
		sb.WriteString(d.Return.TargetName())
	}
	sb.WriteByte('(')
	for i, p := range d.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.TargetName())
	}
	sb.WriteByte(')')
	return sb.String()
}

package cfront

import (
	"fortio.org/safecast"
	"github.com/cockroachdb/errors"
)

// pointerSize is the width of a data pointer on the 64-bit targets the
// generated code runs on.
const pointerSize = 8

// constInt folds an integer constant expression, as required for array
// bounds, bit-field widths and enumerator values.
func (p *Parser) constInt(e Expr) (int64, error) {
	return EvalConst(e)
}

// EvalConst folds an integer constant expression.
func EvalConst(e Expr) (int64, error) {
	switch v := e.(type) {
	case *IntegerLiteral:
		n, err := safecast.Conv[int64](v.Value)
		if err != nil {
			return 0, errors.Wrapf(err, "integer literal %s", v.Text)
		}
		return n, nil
	case *CharLiteral:
		return v.Value, nil
	case *BoolLiteral:
		return boolInt(v.Value), nil
	case *ParenExpr:
		return EvalConst(v.Inner)
	case *CastExpr:
		if _, ok := arithmeticKind(v.To); !ok {
			return 0, errors.Newf("cast to %s in constant expression", v.To.Spelling())
		}
		return EvalConst(v.Operand)
	case *DeclRefExpr:
		if c, ok := v.Decl.(*EnumConstantDecl); ok {
			return c.Value, nil
		}
		return 0, errors.Newf("%q is not a constant", v.Name)
	case *UnaryOperator:
		x, err := EvalConst(v.Operand)
		if err != nil {
			return 0, err
		}
		switch v.Op {
		case MINUS:
			return -x, nil
		case PLUS:
			return x, nil
		case TILDE:
			return ^x, nil
		case NOT:
			return boolInt(x == 0), nil
		}
	case *BinaryOperator:
		l, err := EvalConst(v.LHS)
		if err != nil {
			return 0, err
		}
		r, err := EvalConst(v.RHS)
		if err != nil {
			return 0, err
		}
		return foldBinary(v.Op, l, r)
	case *ConditionalOperator:
		c, err := EvalConst(v.Cond)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return EvalConst(v.True)
		}
		return EvalConst(v.False)
	case *SizeofExpr:
		var (
			n   int
			err error
		)
		if v.Trait == ALIGNOF {
			n, err = AlignOf(v.OperandType())
		} else {
			n, err = SizeOf(v.OperandType())
		}
		return int64(n), err
	}
	return 0, errors.Newf("expression %s is not an integer constant", e)
}

// SizeOf returns the byte size of t using the data model of the generated
// code: long is 4 bytes, pointers are 8.
func SizeOf(t CType) (int, error) {
	switch v := Canonical(t).(type) {
	case *Builtin:
		switch v.Kind {
		case Void:
			return 1, nil
		case Bool, Char, SChar, UChar:
			return 1, nil
		case Short, UShort:
			return 2, nil
		case Int, UInt, Long, ULong, Float:
			return 4, nil
		}
		return 8, nil
	case *Pointer:
		return pointerSize, nil
	case *Enum:
		return 4, nil
	case *Array:
		if v.Size < 0 {
			return 0, errors.New("sizeof applied to an incomplete array")
		}
		elem, err := SizeOf(v.Elem)
		return elem * v.Size, err
	case *Record:
		return recordSize(v.Decl)
	case *FunctionProto:
		return 0, errors.New("sizeof applied to a function type")
	}
	return 0, errors.Newf("sizeof applied to %s", t.Spelling())
}

// AlignOf returns the alignment of t.
func AlignOf(t CType) (int, error) {
	switch v := Canonical(t).(type) {
	case *Array:
		return AlignOf(v.Elem)
	case *Record:
		best := 1
		for _, f := range v.Decl.Fields {
			a, err := AlignOf(f.Type)
			if err != nil {
				return 0, err
			}
			best = max(best, a)
		}
		return best, nil
	}
	return SizeOf(t)
}

func recordSize(rd *RecordDecl) (int, error) {
	if !rd.Complete {
		return 0, errors.Newf("sizeof applied to incomplete type '%s'", rd.Name)
	}
	size, align := 0, 1
	for _, f := range rd.Fields {
		fs, err := SizeOf(f.Type)
		if err != nil {
			return 0, err
		}
		fa, err := AlignOf(f.Type)
		if err != nil {
			return 0, err
		}
		align = max(align, fa)
		if rd.Union {
			size = max(size, fs)
			continue
		}
		size = (size+fa-1)/fa*fa + fs
	}
	return (size + align - 1) / align * align, nil
}

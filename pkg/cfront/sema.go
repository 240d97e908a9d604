package cfront

// Static typing of expressions. The rules are the C ones, simplified where
// the difference never reaches the translator: integer promotion keeps the
// wider operand, and pointer arithmetic keeps the pointer type.

func declType(d Decl) CType {
	switch v := d.(type) {
	case *VarDecl:
		return v.Type
	case *ParamDecl:
		return v.Type
	case *FunctionDecl:
		return v.Type
	case *EnumConstantDecl:
		return intType
	}
	return intType
}

func integerLiteralType(it IntegerText) CType {
	long := it.LongCount()
	unsigned := it.Unsigned()
	switch {
	case long >= 2 && unsigned:
		return &Builtin{Kind: ULongLong}
	case long >= 2:
		return &Builtin{Kind: LongLong}
	case long == 1 && unsigned:
		return &Builtin{Kind: ULong}
	case long == 1:
		return &Builtin{Kind: Long}
	case unsigned:
		return &Builtin{Kind: UInt}
	case it.Value > 0x7FFFFFFF && it.Radix != 10 && it.Value <= 0xFFFFFFFF:
		return &Builtin{Kind: UInt}
	case it.Value > 0x7FFFFFFF:
		return &Builtin{Kind: LongLong}
	}
	return intType
}

// decay converts array and function types to the pointer an rvalue has.
func decay(t CType) CType {
	switch v := Canonical(t).(type) {
	case *Array:
		return &Pointer{Elem: v.Elem}
	case *FunctionProto:
		return &Pointer{Elem: v}
	}
	return t
}

// arithmeticKind returns the builtin kind an operand contributes to the
// usual arithmetic conversions; enums count as int.
func arithmeticKind(t CType) (BuiltinKind, bool) {
	switch v := Canonical(t).(type) {
	case *Builtin:
		return v.Kind, v.Kind != Void
	case *Enum:
		return Int, true
	}
	return 0, false
}

func promote(t CType) CType {
	k, ok := arithmeticKind(t)
	if !ok {
		return t
	}
	if k.rank() < Int.rank() {
		return intType
	}
	return &Builtin{Kind: k}
}

func arithmeticType(l, r CType) CType {
	lk, lok := arithmeticKind(l)
	rk, rok := arithmeticKind(r)
	switch {
	case !lok && !rok:
		return l
	case !lok:
		return r
	case !rok:
		return l
	}
	k := lk
	if rk.rank() > lk.rank() || (rk.rank() == lk.rank() && rk.IsUnsigned()) {
		k = rk
	}
	if k.rank() < Int.rank() {
		return intType
	}
	return &Builtin{Kind: k}
}

func binaryType(op TokenType, l, r CType) CType {
	switch op {
	case EQUALS, NOT_EQ, LESS, GREATER, LESS_EQ, GREATER_EQ, AND_LOGICAL, OR_LOGICAL:
		return intType
	case SHL_OP, SHR_OP:
		return promote(l)
	case PLUS:
		if IsPointerLike(l) {
			return decay(l)
		}
		if IsPointerLike(r) {
			return decay(r)
		}
	case MINUS:
		if IsPointerLike(l) && IsPointerLike(r) {
			return &Builtin{Kind: Long}
		}
		if IsPointerLike(l) {
			return decay(l)
		}
	}
	return arithmeticType(l, r)
}

func unaryType(op TokenType, operand CType) CType {
	switch op {
	case AND:
		return &Pointer{Elem: operand}
	case STAR:
		if fn, ok := Canonical(operand).(*FunctionProto); ok {
			// *f on a function designator is the function again
			return fn
		}
		if elem := Pointee(operand); elem != nil {
			return elem
		}
		return intType
	case NOT:
		return intType
	case PLUS, MINUS, TILDE:
		return promote(operand)
	}
	return operand
}

func subscriptType(base, index CType) CType {
	if elem := Pointee(base); elem != nil {
		return elem
	}
	if elem := Pointee(index); elem != nil {
		return elem
	}
	return intType
}

func callType(callee CType) CType {
	if fn := AsFunction(callee); fn != nil {
		return fn.Result
	}
	return intType
}

func conditionalType(a, b CType) CType {
	if IsPointerLike(a) {
		return decay(a)
	}
	if IsPointerLike(b) {
		return decay(b)
	}
	if AsRecord(a, false) != nil {
		return a
	}
	return arithmeticType(a, b)
}

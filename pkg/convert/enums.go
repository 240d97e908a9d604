package convert

import (
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"

	"c2cs/pkg/cfront"
)

// GenerateEnum emits a named enum as a C# enum and the constants of an
// anonymous enum as int constants.
func (c *Context) GenerateEnum(e *cfront.EnumDecl) {
	if e.Name == "" {
		c.generateUnnamedEnum(e)
		return
	}
	name := FixReservedWords(e.Name)
	c.log.Infof("Generating enum %s", name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "public enum %s\n{\n", name)
	var next int32
	last := false
	for i, k := range e.Constants {
		sb.WriteString(FixReservedWords(k.Name))
		value := next
		if k.Init != nil {
			value = c.enumValue(k)
			fmt.Fprintf(&sb, " = %d", value)
		} else if last {
			c.log.Warnf("Enum value of %s.%s overflows int", name, k.Name)
		}
		last = value == math.MaxInt32
		next = value + 1
		if i < len(e.Constants)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}")
	c.out.Enums = append(c.out.Enums, sb.String())
}

// generateUnnamedEnum numbers the constants itself since C# has no
// anonymous enums: each constant is one more than the previous, and an
// explicit value restarts the count.
func (c *Context) generateUnnamedEnum(e *cfront.EnumDecl) {
	c.log.Info("Generating unnamed enum")
	var next int32
	last := false
	for _, k := range e.Constants {
		value := next
		if k.Init != nil {
			value = c.enumValue(k)
		} else if last {
			c.log.Warnf("Enum value of %s overflows int, wrapping to %d", k.Name, value)
		}
		last = value == math.MaxInt32
		next = value + 1
		c.out.GlobalConstants = append(c.out.GlobalConstants,
			fmt.Sprintf("public const int %s = %d;", FixReservedWords(k.Name), value))
	}
}

// enumValue reads an enumerator's explicit initializer, which must be an
// integer or character literal. Anything else is logged and reads as 0.
func (c *Context) enumValue(k *cfront.EnumConstantDecl) int32 {
	v, ok := literalInt(k.Init)
	if ok {
		if n, err := safecast.Conv[int32](v); err == nil {
			return n
		}
	}
	c.log.Warnf("Couldn't resolve enum literal value [%s]", c.sourceText(k.Init))
	return 0
}

// literalInt folds a possibly signed, possibly parenthesised integer or
// character literal.
func literalInt(e cfront.Expr) (int64, bool) {
	switch v := e.(type) {
	case *cfront.ParenExpr:
		return literalInt(v.Inner)
	case *cfront.IntegerLiteral:
		n, err := safecast.Conv[int64](v.Value)
		return n, err == nil
	case *cfront.CharLiteral:
		return v.Value, true
	case *cfront.UnaryOperator:
		if v.Postfix {
			return 0, false
		}
		n, ok := literalInt(v.Operand)
		switch v.Op {
		case cfront.MINUS:
			return -n, ok
		case cfront.PLUS:
			return n, ok
		}
	}
	return 0, false
}

func (c *Context) sourceText(n cfront.Node) string {
	if c.file != nil {
		if s := c.file.SourceText(n); s != "" {
			return s
		}
	}
	return n.String()
}

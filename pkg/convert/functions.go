package convert

import (
	"fmt"
	"strings"

	"c2cs/pkg/cfront"
	"c2cs/pkg/ctypes"
)

// FunctionScope is the translator state of one function body.
type FunctionScope struct {
	FunctionName string
	ReturnType   ctypes.Descriptor

	ctx *Context
	// statics maps function-static locals to their hoisted names.
	statics map[*cfront.VarDecl]string
}

// NewFunctionScope opens a scope for translating the body of function name.
// An empty name is used for file-scope initializers.
func (c *Context) NewFunctionScope(name string, ret ctypes.Descriptor) *FunctionScope {
	return &FunctionScope{
		FunctionName: name,
		ReturnType:   ret,
		ctx:          c,
		statics:      make(map[*cfront.VarDecl]string),
	}
}

// GenerateFunction emits a function definition as a static method.
// Prototypes without a body produce nothing.
func (c *Context) GenerateFunction(fn *cfront.FunctionDecl) {
	if fn.Body == nil {
		return
	}
	name := FixReservedWords(fn.Name)
	c.log.Infof("Generating function %s", name)

	ret := ctypes.Resolve(fn.Type.Result)
	scope := c.NewFunctionScope(name, ret)

	params := make([]string, 0, len(fn.Params))
	for i, p := range fn.Params {
		pname := FixReservedWords(p.Name)
		if pname == "" {
			pname = fmt.Sprintf("arg%d", i)
		}
		params = append(params, c.TypeOf(p.Type)+" "+pname)
	}
	if fn.Type.Variadic {
		c.log.Warnf("Variadic arguments of %s are dropped", name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "public static %s %s(%s)\n", c.TypeName(ret), name, strings.Join(params, ", "))
	sb.WriteString(scope.Translate(fn.Body))
	c.out.Functions = append(c.out.Functions, sb.String())
}

// GenerateGlobalVariable emits a file-scope variable as a static field.
// extern declarations refer to storage defined elsewhere and are skipped; a
// repeated tentative definition is merged into the first one.
func (c *Context) GenerateGlobalVariable(v *cfront.VarDecl) {
	if v.Storage == cfront.StorageExtern {
		c.log.Debugf("Skipping extern variable %s", v.Name)
		return
	}
	name := FixReservedWords(v.Name)
	c.log.Infof("Generating global variable %s", name)

	scope := c.NewFunctionScope("", ctypes.Descriptor{})
	decl := "public static " + ensureSemicolon(scope.declaration(v, name, true))

	if c.globals == nil {
		c.globals = make(map[string]int)
	}
	if i, seen := c.globals[name]; seen {
		if v.Init != nil {
			c.out.GlobalConstants[i] = decl
		}
		return
	}
	c.globals[name] = len(c.out.GlobalConstants)
	c.out.GlobalConstants = append(c.out.GlobalConstants, decl)
}

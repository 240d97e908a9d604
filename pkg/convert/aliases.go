package convert

import (
	"fmt"
	"strings"

	"c2cs/pkg/ctypes"
)

// FunctionTypeAlias returns the delegate name for a callable descriptor,
// registering the signature on first use. Aliases are numbered in the order
// their signatures are first seen.
func (c *Context) FunctionTypeAlias(d ctypes.Descriptor) string {
	key := d.Signature()
	if i, ok := c.aliasIndex[key]; ok {
		return c.aliases[i].name
	}
	fn := d
	fn.PointerDepth = 0
	fn.ArrayDims = nil
	a := alias{name: fmt.Sprintf("delegateType%d", len(c.aliases)), fn: fn}
	c.aliasIndex[key] = len(c.aliases)
	c.aliases = append(c.aliases, a)
	c.log.Debugf("Registered function type %s as %s", key, a.name)
	return a.name
}

// GenerateFunctionTypes emits a delegate for every registered signature
// that has not been emitted yet. Rendering a delegate can register further
// signatures (callables returning callables); those are emitted in the same
// call.
func (c *Context) GenerateFunctionTypes() {
	c.log.Debug("Generating function types")
	for ; c.aliasesEmitted < len(c.aliases); c.aliasesEmitted++ {
		a := c.aliases[c.aliasesEmitted]
		ret := "void"
		if a.fn.Return != nil {
			ret = c.TypeName(*a.fn.Return)
		}
		params := make([]string, 0, len(a.fn.Params))
		for i, p := range a.fn.Params {
			params = append(params, fmt.Sprintf("%s arg%d", c.TypeName(p), i))
		}
		c.out.FunctionTypes = append(c.out.FunctionTypes,
			fmt.Sprintf("public delegate %s %s(%s);", ret, a.name, strings.Join(params, ", ")))
	}
}

package convert

import (
	"go.uber.org/zap"

	"c2cs/pkg/cfront"
)

// Generate converts one parsed file. Enums are emitted and aggregates
// registered in declaration order; aggregates are classified before
// anything that renders a type is emitted. Delegates come last so they
// cover the callable types met in function bodies.
func Generate(log *zap.SugaredLogger, file *cfront.File) *Output {
	c := NewContext(log, file)
	c.log.Info("Generating code")

	for _, d := range file.Decls {
		switch v := d.(type) {
		case *cfront.EnumDecl:
			if v.Complete {
				c.GenerateEnum(v)
			}
		case *cfront.RecordDecl:
			c.RecordStruct(v)
		}
	}
	c.ClassifyAll()
	c.GenerateStructs()

	for _, v := range file.Vars() {
		c.GenerateGlobalVariable(v)
	}
	for _, fn := range file.Functions() {
		c.GenerateFunction(fn)
	}
	c.GenerateFunctionTypes()

	out := c.Output()
	c.log.Infof("Generated %d constants, %d function types, %d enums, %d structs and %d functions",
		len(out.GlobalConstants), len(out.FunctionTypes), len(out.Enums), len(out.Structs), len(out.Functions))
	return out
}

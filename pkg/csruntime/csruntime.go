// Package csruntime ships the C# support files copied next to every
// conversion: the runtime class the generated code imports statically and
// the project file that builds it.
package csruntime

import (
	_ "embed"
	"strings"
)

// RuntimeFile is the name the runtime is written under.
const RuntimeFile = "CRuntime.cs"

//go:embed CRuntime.cs
var runtime []byte

//go:embed project.csproj
var projectTemplate string

// Runtime returns the C# runtime source.
func Runtime() []byte {
	return append([]byte(nil), runtime...)
}

// ProjectFile returns the csproj for a project named name.
func ProjectFile(name string) []byte {
	return []byte(strings.ReplaceAll(projectTemplate, "[ProjectName]", name))
}

// ProjectFileName is the csproj file name for a project.
func ProjectFileName(name string) string {
	return name + ".csproj"
}

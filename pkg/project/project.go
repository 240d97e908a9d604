// Package project holds the settings of one conversion project and loads
// them from a project file, the environment and command-line flags.
package project

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultFile is the project file looked up when none is given.
const DefaultFile = "c2cs.toml"

// Project is the configuration of one conversion run.
type Project struct {
	ProjectName        string   `mapstructure:"project_name" toml:"project_name"`
	SourceFiles        []string `mapstructure:"source_files" toml:"source_files"`
	Defines            []string `mapstructure:"defines" toml:"defines"`
	IncludeDirectories []string `mapstructure:"include_directories" toml:"include_directories"`
	OutputDirectory    string   `mapstructure:"output_directory" toml:"output_directory"`
	DumpAST            bool     `mapstructure:"dump_ast" toml:"dump_ast"`
	Jobs               int      `mapstructure:"jobs" toml:"jobs"`
	CacheDirectory     string   `mapstructure:"cache_directory" toml:"cache_directory,omitempty"`

	// Dir is the directory relative paths are resolved against. It is the
	// project file's directory, or empty for the working directory.
	Dir string `mapstructure:"-" toml:"-"`
}

var (
	ErrInvalidName = errors.New("invalid project name")
	ErrNoSources   = errors.New("no source files present")
)

// validName matches names usable as a C# namespace and class prefix.
var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the settings that would otherwise produce broken output.
func (p *Project) Validate() error {
	if !validName.MatchString(p.ProjectName) {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidName, "%q", p.ProjectName),
			"project_name becomes a C# namespace: use letters, digits and underscores")
	}
	if p.Jobs < 0 {
		return errors.Newf("jobs must be >= 0, got %d", p.Jobs)
	}
	if strings.TrimSpace(p.OutputDirectory) == "" {
		return errors.New("output_directory cannot be empty")
	}
	return nil
}

// Workers returns the number of files converted at once. Zero means one.
func (p *Project) Workers() int {
	if p.Jobs < 1 {
		return 1
	}
	return p.Jobs
}

// ResolveOutputDirectory normalises the configured output directory: `//`
// and `\` become the path separator and [ProjectName] is substituted.
func (p *Project) ResolveOutputDirectory() string {
	dir := p.OutputDirectory
	dir = strings.ReplaceAll(dir, "//", "$")
	dir = strings.ReplaceAll(dir, `\`, "$")
	dir = strings.ReplaceAll(dir, "$", string(os.PathSeparator))
	dir = strings.ReplaceAll(dir, "[ProjectName]", p.ProjectName)
	return p.Path(dir)
}

// Path resolves a project-relative path.
func (p *Project) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || p.Dir == "" {
		return name
	}
	return filepath.Join(p.Dir, name)
}

// Sources returns the resolved source file paths.
func (p *Project) Sources() []string {
	out := make([]string, len(p.SourceFiles))
	for i, f := range p.SourceFiles {
		out[i] = p.Path(f)
	}
	return out
}

// Includes returns the resolved include directories.
func (p *Project) Includes() []string {
	out := make([]string, len(p.IncludeDirectories))
	for i, d := range p.IncludeDirectories {
		out[i] = p.Path(d)
	}
	return out
}

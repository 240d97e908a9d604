package project

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. C2CS_PROJECT_NAME.
const EnvPrefix = "C2CS"

// SetDefaults registers every key so that environment overrides apply even
// when the project file omits it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "Untitled")
	v.SetDefault("source_files", []string{})
	v.SetDefault("defines", []string{})
	v.SetDefault("include_directories", []string{})
	v.SetDefault("output_directory", "Output-[ProjectName]")
	v.SetDefault("dump_ast", false)
	v.SetDefault("jobs", 1)
	v.SetDefault("cache_directory", "")
}

// NewViper returns a viper instance with defaults and environment binding.
// Callers may bind flags on it before calling Read.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Read loads the project file into v. An empty path looks for DefaultFile in
// the working directory and is not an error when absent. The format follows
// the file extension (toml, yaml or json).
func Read(v *viper.Viper, path string) error {
	if path == "" {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil
			}
			return errors.Wrap(err, "reading project file")
		}
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading project file %s", path)
	}
	return nil
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Project, error) {
	var p Project
	if err := v.Unmarshal(&p); err != nil {
		return nil, errors.Wrap(err, "decoding project settings")
	}
	if used := v.ConfigFileUsed(); used != "" {
		p.Dir = filepath.Dir(used)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads the project file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Project, error) {
	v := NewViper()
	if err := Read(v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

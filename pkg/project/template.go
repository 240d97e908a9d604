package project

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Template returns the project file written by `c2cs init`.
func Template(name string) ([]byte, error) {
	p := Project{
		ProjectName:        name,
		SourceFiles:        []string{"main.c"},
		Defines:            []string{},
		IncludeDirectories: []string{},
		OutputDirectory:    "Output-[ProjectName]",
		Jobs:               1,
	}

	var buf bytes.Buffer
	buf.WriteString("# c2cs project file\n")
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return nil, errors.Wrap(err, "encoding project template")
	}
	return buf.Bytes(), nil
}

// WriteTemplate creates DefaultFile in dir. It refuses to overwrite an
// existing project file.
func WriteTemplate(dir, name string) (string, error) {
	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); err == nil {
		return "", errors.Newf("project already initialized: %s exists", path)
	}
	data, err := Template(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}

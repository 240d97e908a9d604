package utils

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// GetPathInfo returns the absolute path of relPath and the directory holding
// it, which is where quoted includes are searched first.
func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "resolving %s", relPath)
	}
	return fullPath, filepath.Dir(fullPath), nil
}

// FileStem returns the base name of path without its extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath names the file in dir generated from source, e.g.
// OutputPath("out", "src/list.c", ".cs") is out/list.cs.
func OutputPath(dir, source, ext string) string {
	return filepath.Join(dir, FileStem(source)+ext)
}

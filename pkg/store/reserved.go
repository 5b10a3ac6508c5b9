package store

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// reservedNames are file names the store refuses to own, since rewriting them would clobber
// build or package metadata living next to the application.
var reservedNames = map[string]bool{
	"go.mod":            true,
	"go.sum":            true,
	"go.work":           true,
	"go.work.sum":       true,
	"package.json":      true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"tsconfig.json":     true,
	".env":              true,
}

// ValidatePath returns ErrReservedPath if the storage path is empty, names a directory,
// or has one of the reserved file names.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.Wrap(ErrReservedPath, "empty storage path")
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return errors.Wrapf(ErrReservedPath, "%s is a directory", path)
	}
	base := strings.ToLower(filepath.Base(path))
	if reservedNames[base] {
		return errors.Wrapf(ErrReservedPath, "%s", path)
	}
	return nil
}

// Package fsext provides the filesystem abstraction the rest of the code is
// written against, so commands stay testable on an in-memory filesystem.
package fsext

import (
	"io/fs"

	"github.com/spf13/afero"
)

// Fs represents a file system.
type Fs = afero.Fs

// NewOsFs returns an Fs backed by the host filesystem.
func NewOsFs() Fs {
	return afero.NewOsFs()
}

// NewMemMapFs returns an in-memory Fs.
func NewMemMapFs() Fs {
	return afero.NewMemMapFs()
}

// NewReadOnlyFs wraps the provided Fs, returning an error for any operation
// that would modify it.
func NewReadOnlyFs(fs Fs) Fs {
	return afero.NewReadOnlyFs(fs)
}

// ReadFile reads the whole named file.
func ReadFile(fs Fs, filename string) ([]byte, error) {
	return afero.ReadFile(fs, filename)
}

// WriteFile writes data to the named file, creating it if necessary.
func WriteFile(fs Fs, filename string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(fs, filename, data, perm)
}

// Exists reports whether the given path exists.
func Exists(fs Fs, path string) (bool, error) {
	return afero.Exists(fs, path)
}

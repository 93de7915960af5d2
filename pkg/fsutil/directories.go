// Package fsutil provides utility functions and constants for file system operations.
package fsutil

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// EnsureDir creates a directory and all necessary parent directories with default permissions if they don't exist.
func EnsureDir(path string) error {
	return EnsureDirFs(afero.NewOsFs(), path)
}

// EnsureDirFs is EnsureDir on an arbitrary afero filesystem.
func EnsureDirFs(fs afero.Fs, path string) error {
	return fs.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't exist.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// EnsureFileDirFs is EnsureFileDir on an arbitrary afero filesystem.
func EnsureFileDirFs(fs afero.Fs, filePath string) error {
	return EnsureDirFs(fs, filepath.Dir(filePath))
}

// IsWithin reports whether path lies inside dir once both are cleaned and made absolute.
// dir itself counts as inside.
func IsWithin(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	if rel == ".." || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
		return false, nil
	}
	return !filepath.IsAbs(rel), nil
}

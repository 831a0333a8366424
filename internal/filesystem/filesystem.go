// Package filesystem abstracts the read-only filesystem probes used to
// validate inputs and inspect the configuration registry.
package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// FileSystem exposes the filesystem metadata operations the tool relies on.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Resolve returns the provided filesystem or an OS-backed default.
func Resolve(existing FileSystem) FileSystem {
	if existing != nil {
		return existing
	}
	return OSFileSystem{}
}

// IsDirectory reports whether path exists and is a directory. Absence is not an error.
func IsDirectory(fileSystem FileSystem, path string) (bool, error) {
	return probe(fileSystem, path, true)
}

// IsRegularFile reports whether path exists and is not a directory. Absence is not an error.
func IsRegularFile(fileSystem FileSystem, path string) (bool, error) {
	return probe(fileSystem, path, false)
}

func probe(fileSystem FileSystem, path string, wantDirectory bool) (bool, error) {
	fileInfo, statError := fileSystem.Stat(path)
	if statError != nil {
		if isAbsence(statError) {
			return false, nil
		}
		return false, statError
	}
	return fileInfo.IsDir() == wantDirectory, nil
}

// ENOTDIR surfaces when a parent path component is a regular file.
func isAbsence(statError error) bool {
	if os.IsNotExist(statError) {
		return true
	}
	var pathError *fs.PathError
	if errors.As(statError, &pathError) && errors.Is(pathError.Err, syscall.ENOTDIR) {
		return true
	}
	return false
}

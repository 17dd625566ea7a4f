// Package fsutil reads and writes report and config files.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxReadSize caps files read through ReadFileScoped.
const MaxReadSize = 32 << 20

// ReadFileScoped reads a file by opening a root at the file's directory, so the
// name cannot escape that directory through symlinks or "..".
func ReadFileScoped(path string) ([]byte, error) {
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	if path == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file path: %q", path)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	file, err := root.Open(base)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxReadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxReadSize {
		return nil, fmt.Errorf("%s: file larger than %d bytes", path, MaxReadSize)
	}
	return data, nil
}

// WriteFileAtomic writes data to path, creating parent directories. Readers
// see either the previous content or the new one.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return writeAtomic(path, data, perm)
}

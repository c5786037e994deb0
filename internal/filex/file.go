// Package filex has the small filesystem helpers used by the CLI.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// MaxUploadSize caps files the CLI attaches to a task.
const MaxUploadSize = 25 << 20

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// ReadUpload reads a regular file of at most limit bytes and returns its
// base name and content.
func ReadUpload(path string, limit int64) (string, []byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, err
	}
	if !info.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > limit {
		return "", nil, fmt.Errorf("%s is too large (%d bytes, limit %d)", path, info.Size(), limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(path), data, nil
}

package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WriteFileWithDirs creates parent directories (0755) and writes the file with perm.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LastSegment returns the part of a dotted identifier after the final dot.
func LastSegment(identifier string) string {
	if i := strings.LastIndexByte(identifier, '.'); i >= 0 {
		return identifier[i+1:]
	}
	return identifier
}

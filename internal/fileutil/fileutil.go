// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyName     = errors.New("new name cannot be empty")
	ErrSourceMissing = errors.New("source file does not exist")
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a
// name. A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// ReplaceExt returns path with its extension replaced by newExt.
// newExt must include the leading dot. A path without an extension gets
// newExt appended.
func ReplaceExt(path, newExt string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + newExt
}

// RenameKeepExt renames source within its directory, keeping the current
// extension unless newName carries one of its own.
//
//	RenameKeepExt("output/tmp.svg", "foo_bar") -> output/foo_bar.svg
//
// Returns the new path.
func RenameKeepExt(source, newName string) (string, error) {
	if newName == "" {
		return "", ErrEmptyName
	}
	if !FileExists(source) {
		return "", fmt.Errorf("%w: %s", ErrSourceMissing, source)
	}

	targetName := newName
	if filepath.Ext(newName) == "" {
		targetName = newName + filepath.Ext(source)
	}
	target := filepath.Join(filepath.Dir(source), filepath.Base(targetName))

	if err := os.Rename(source, target); err != nil {
		return "", fmt.Errorf("renaming %s: %w", source, err)
	}
	return target, nil
}

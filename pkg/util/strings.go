package util

import (
	"path/filepath"
	"strings"
)

// MaxLogBodySize is the default maximum body size quoted in messages (2KB).
const MaxLogBodySize = 2 * 1024

// TruncateBody truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}

// SafeFilePath cleans a relative path and reports whether it stays inside
// its base directory. Absolute paths, empty paths and paths that still
// contain ".." after cleaning are rejected. Backslashes are treated as
// separators so Windows-style traversal is caught on every platform.
func SafeFilePath(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "/") || filepath.IsAbs(p) {
		return "", false
	}

	cleaned := filepath.ToSlash(filepath.Clean(p))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}

package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// TranslatePath expands a leading "~" to the user home directory and makes the path absolute.
// Paths with a URL scheme (e.g. "s3://bucket/key") are returned untouched.
func TranslatePath(path string) (string, error) {
	if path == "" || HasScheme(path) {
		return path, nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

// HasScheme reports whether the path starts with a "scheme://" prefix.
func HasScheme(path string) bool {
	return Scheme(path) != ""
}

// Scheme returns the "scheme" part of "scheme://rest" or an empty string.
func Scheme(path string) string {
	idx := strings.Index(path, "://")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(path[:idx])
}

// SplitLocation splits "scheme://bucket/some/key" into the bucket and the key.
func SplitLocation(path string) (bucket, key string) {
	if idx := strings.Index(path, "://"); idx >= 0 {
		path = path[idx+3:]
	}
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

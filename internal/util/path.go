package util

import (
	"os"
	"strings"
	"sync"
)

var (
	homeDir     string
	homeDirOnce sync.Once
)

// cachedHomeDir returns the user's home directory, cached after the first call.
func cachedHomeDir() string {
	homeDirOnce.Do(func() {
		homeDir, _ = os.UserHomeDir()
	})
	return homeDir
}

// ExpandHome expands a leading ~ or ~/ to the user's home directory.
// Returns the path unchanged if it doesn't start with ~, or if
// the home directory cannot be determined.
func ExpandHome(path string) string {
	home := cachedHomeDir()
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return path
}

// TrimTrailingSlash removes a single trailing '/' from path, if present.
func TrimTrailingSlash(path string) string {
	return strings.TrimSuffix(path, "/")
}

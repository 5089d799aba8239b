package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolveOutputDir expands a leading "~" and checks that dir is an existing
// directory. The vault is never created implicitly.
func resolveOutputDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", &ConfigurationError{Msg: "cannot expand ~ in vault directory", Err: err}
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", &ConfigurationError{Msg: fmt.Sprintf("vault directory %s is not accessible", dir), Err: err}
	}
	if !info.IsDir() {
		return "", &ConfigurationError{Msg: fmt.Sprintf("vault directory %s is not a directory", dir)}
	}
	return filepath.Clean(dir), nil
}

// normalizeURL trims the input and adds https:// when no scheme was given.
func normalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimLeft(s, "/")
	}
	return s
}

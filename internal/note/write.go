// Package note holds the rules a generated note must satisfy before it lands
// in the vault: frontmatter shape, file name safety and collision handling.
package note

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Extension is appended to every note file name.
const Extension = ".md"

// fallbackTitle names notes whose article had no title.
const fallbackTitle = "article"

// WriteOptions tunes Write. The zero value is usable.
type WriteOptions struct {
	// MaxFilenameLen caps the sanitized title in runes. Zero means
	// DefaultMaxFilenameLen.
	MaxFilenameLen int
	// OnPath is called with the chosen path before the file is created.
	OnPath func(path string)
}

// PathFor derives the target path for a note titled title inside dir without
// checking for collisions.
func PathFor(dir, title string, maxLen int) string {
	if strings.TrimSpace(title) == "" {
		title = fallbackTitle
	}
	return filepath.Join(dir, SanitizeFilename(title, maxLen)+Extension)
}

// Write stores body as a note named after title inside dir and returns the
// path it used. An existing file is never overwritten; a numeric suffix is
// added instead. The file always ends with exactly one newline. When creating
// or writing the chosen file fails, that path is returned with the error.
func Write(dir, title, body string, opts WriteOptions) (string, error) {
	path, err := UniquePath(PathFor(dir, title, opts.MaxFilenameLen))
	if err != nil {
		return "", err
	}
	if opts.OnPath != nil {
		opts.OnPath(path)
	}
	if err := WriteFile(path, body); err != nil {
		return path, err
	}
	return path, nil
}

// WriteFile stores the normalized body at path with mode 0644, refusing to
// replace an existing file.
func WriteFile(path, body string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(Normalize(body)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Normalize trims trailing whitespace and terminates body with one newline.
func Normalize(body string) string {
	return strings.TrimRightFunc(body, unicode.IsSpace) + "\n"
}

package note

import (
	"errors"
	"strings"
)

// Delimiter opens and closes the frontmatter block of a note.
const Delimiter = "---"

var (
	// ErrNoOpeningDelimiter means the text does not start with a Delimiter line.
	ErrNoOpeningDelimiter = errors.New("output did not start with YAML frontmatter ('---')")
	// ErrNoClosingDelimiter means the frontmatter block is never closed.
	ErrNoClosingDelimiter = errors.New("output did not include a closing YAML frontmatter delimiter ('---')")
)

// StructureError reports model output that does not have the minimal shape of
// a note. Err is one of ErrNoOpeningDelimiter or ErrNoClosingDelimiter.
type StructureError struct {
	Err error
}

func (e *StructureError) Error() string { return "structure: " + e.Err.Error() }

func (e *StructureError) Unwrap() error { return e.Err }

// ValidateFrontmatter checks that text starts with a Delimiter line and that
// a later line, after position 3, closes the block. It does not parse the
// block. On success the input is returned unchanged.
func ValidateFrontmatter(text string) (string, error) {
	first, _, _ := strings.Cut(text, "\n")
	if !isDelimiterLine(first) {
		return "", &StructureError{Err: ErrNoOpeningDelimiter}
	}
	if !hasClosingDelimiter(text[len(Delimiter):]) {
		return "", &StructureError{Err: ErrNoClosingDelimiter}
	}
	return text, nil
}

// hasClosingDelimiter scans rest for a newline followed by a Delimiter line.
func hasClosingDelimiter(rest string) bool {
	for {
		i := strings.Index(rest, "\n"+Delimiter)
		if i < 0 {
			return false
		}
		rest = rest[i+1:]
		line, _, _ := strings.Cut(rest, "\n")
		if isDelimiterLine(line) {
			return true
		}
	}
}

func isDelimiterLine(line string) bool {
	return strings.TrimRight(line, " \t\r") == Delimiter
}

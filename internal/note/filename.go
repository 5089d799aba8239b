package note

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxFilenameLen is the rune cap applied when callers pass maxLen <= 0.
const DefaultMaxFilenameLen = 120

// FallbackFilename replaces names that sanitize to nothing.
const FallbackFilename = "untitled"

// illegalFilenameChars are rejected by Windows, the most restrictive of the
// filesystems a vault is likely to be synced to.
const illegalFilenameChars = `<>:"/\|?*`

// SanitizeFilename turns an arbitrary title into a string usable as a file
// name on common filesystems. It never fails: names that end up empty are
// replaced by FallbackFilename. The length cut is a hard cut on runes, not
// word-aware. Sanitizing an already sanitized name returns it unchanged.
func SanitizeFilename(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxFilenameLen
	}
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalFilenameChars, r) {
			return -1
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	// composition only after removal, or a dropped rune can join two others
	name = norm.NFC.String(name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, " .")
	if name == "" {
		name = FallbackFilename
	}
	if runes := []rune(name); len(runes) > maxLen {
		// the cut may expose a trailing space or dot
		name = strings.TrimRight(string(runes[:maxLen]), " .")
	}
	return name
}

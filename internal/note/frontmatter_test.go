package note

import (
	"errors"
	"testing"
)

func TestValidateFrontmatter_PassThrough(t *testing.T) {
	in := "---\ntitle: x\n---\nbody"
	out, err := ValidateFrontmatter(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Fatalf("output changed: %q", out)
	}
}

func TestValidateFrontmatter_MissingOpening(t *testing.T) {
	for _, in := range []string{"", "title: x\n---\nbody", "# Heading\n---\n---", " ---\ntitle: x\n---\n"} {
		_, err := ValidateFrontmatter(in)
		var se *StructureError
		if !errors.As(err, &se) {
			t.Fatalf("ValidateFrontmatter(%q): expected StructureError, got %v", in, err)
		}
		if !errors.Is(err, ErrNoOpeningDelimiter) {
			t.Fatalf("ValidateFrontmatter(%q): expected ErrNoOpeningDelimiter, got %v", in, err)
		}
	}
}

func TestValidateFrontmatter_MissingClosing(t *testing.T) {
	for _, in := range []string{"---", "---\ntitle: x\nbody", "---\ntitle: x\n----- not a delimiter\n"} {
		_, err := ValidateFrontmatter(in)
		var se *StructureError
		if !errors.As(err, &se) {
			t.Fatalf("ValidateFrontmatter(%q): expected StructureError, got %v", in, err)
		}
		if !errors.Is(err, ErrNoClosingDelimiter) {
			t.Fatalf("ValidateFrontmatter(%q): expected ErrNoClosingDelimiter, got %v", in, err)
		}
	}
}

func TestValidateFrontmatter_ClosingVariants(t *testing.T) {
	inputs := []string{
		"---\ntitle: x\n---",
		"---\r\ntitle: x\r\n---\r\nbody",
		"---\ntitle: \"a --- b\"\n---\n## Summary\n",
		"---\ntags:\n  - news\n---   \nbody",
	}
	for _, in := range inputs {
		if _, err := ValidateFrontmatter(in); err != nil {
			t.Fatalf("ValidateFrontmatter(%q): unexpected error %v", in, err)
		}
	}
}

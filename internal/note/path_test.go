package note

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUniquePath_FreePathUnchanged(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "note.md")
	got, err := UniquePath(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != p {
		t.Fatalf("got %q, want %q", got, p)
	}
}

func TestUniquePath_AppendsCounter(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "note.md")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := UniquePath(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "note (2).md"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if err := os.WriteFile(got, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = UniquePath(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "note (3).md"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

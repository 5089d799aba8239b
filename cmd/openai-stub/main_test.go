package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePrompt = "rules...\n\nNOW CONVERT THIS ARTICLE\nURL: https://example.com/a\n\nMETADATA (as extracted)\ntitle: Example Headline\nauthors: Jane Doe, John Roe\npublished: 2026-01-23\nsource: example.com\n\nARTICLE TEXT\ntitle: not metadata\n"

func TestParsePrompt(t *testing.T) {
	m := parsePrompt(samplePrompt)
	if m.URL != "https://example.com/a" || m.Title != "Example Headline" || m.Published != "2026-01-23" || m.Source != "example.com" {
		t.Fatalf("unexpected meta: %+v", m)
	}
	if len(m.Authors) != 2 || m.Authors[1] != "John Roe" {
		t.Fatalf("authors=%v", m.Authors)
	}
}

func TestBuildNote_Modes(t *testing.T) {
	m := parsePrompt(samplePrompt)
	ok := buildNote(m, false)
	if !strings.HasPrefix(ok, "---\ntitle: \"Example Headline\"\n") || strings.Count(ok, "\n---\n") != 1 {
		t.Fatalf("expected closed frontmatter:\n%s", ok)
	}
	// same body headings the formatter prompt asks for, in the same order
	last := -1
	for _, h := range []string{"## Summary\n", "## Key details\n", "## Claims & attribution\n", "## Entities\n", "## Analyst notes\n"} {
		i := strings.Index(ok, h)
		if i < 0 || i < last {
			t.Fatalf("heading %q missing or out of order:\n%s", strings.TrimSpace(h), ok)
		}
		last = i
	}
	broken := buildNote(m, true)
	if strings.Contains(broken, "\n---\n") {
		t.Fatalf("broken mode should not close frontmatter:\n%s", broken)
	}
}

func TestChatCompletionsHandler(t *testing.T) {
	srv := httptest.NewServer(newMux("m", false))
	defer srv.Close()
	body, _ := json.Marshal(map[string]any{
		"model":    "m",
		"messages": []map[string]string{{"role": "system", "content": "s"}, {"role": "user", "content": samplePrompt}},
	})
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Choices) != 1 || !strings.Contains(out.Choices[0].Message.Content, "# Example Headline") {
		t.Fatalf("unexpected reply: %+v", out)
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apppkg "github.com/hyperifyio/vaultclip/internal/app"
)

func noEnv(string) (string, bool) { return "", false }

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-vault", "/notes", "-llm.model", "m", "-dry-run", "https://example.com/a"}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if o.cfg.OutputDir != "/notes" || o.cfg.LLMModel != "m" || !o.cfg.DryRun {
		t.Fatalf("unexpected cfg: %+v", o.cfg)
	}
	if o.url != "https://example.com/a" {
		t.Fatalf("positional URL not used: %q", o.url)
	}
}

func TestBuildConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("OPENAI_API_KEY=file-key\nLLM_MODEL=dotenv-model\nLANGUAGE=de\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(cfgFile, []byte("llm:\n  model: yaml-model\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	process := map[string]string{"LANGUAGE": "fi"}
	lookup := func(k string) (string, bool) { v, ok := process[k]; return v, ok }

	o := options{configPath: cfgFile, envFiles: envFile}
	o.cfg.OutputDir = dir
	cfg, err := buildConfig(o, lookup, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.LLMModel != "yaml-model" {
		t.Fatalf("LLMModel=%q, want config file over dotenv", cfg.LLMModel)
	}
	if cfg.LLMAPIKey != "file-key" {
		t.Fatalf("LLMAPIKey=%q, want dotenv value", cfg.LLMAPIKey)
	}
	if cfg.LanguageHint != "fi" {
		t.Fatalf("LanguageHint=%q, want process env over dotenv", cfg.LanguageHint)
	}
	if cfg.OutputDir != dir {
		t.Fatalf("OutputDir=%q, want flag value", cfg.OutputDir)
	}
}

func TestBuildConfig_SystemPromptFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(p, []byte("file prompt"), 0o600); err != nil {
		t.Fatal(err)
	}
	o := options{systemPromptFile: p}
	o.cfg.SystemPrompt = "inline"
	cfg, err := buildConfig(o, noEnv, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SystemPrompt != "file prompt" {
		t.Fatalf("SystemPrompt=%q", cfg.SystemPrompt)
	}

	_, err = buildConfig(options{systemPromptFile: p + ".missing"}, noEnv, nil)
	var cfgErr *apppkg.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestRun_QuitAndEmptyInput(t *testing.T) {
	cfg := apppkg.Config{OutputDir: t.TempDir(), LLMAPIKey: "k"}
	for _, in := range []string{"q\n", "Q\n", "\n", ""} {
		var out bytes.Buffer
		if err := run(context.Background(), cfg, "", strings.NewReader(in), &out); err != nil {
			t.Fatalf("input %q: %v", in, err)
		}
		if !strings.HasPrefix(out.String(), urlPrompt) || !strings.Contains(out.String(), "Exiting.") {
			t.Fatalf("input %q: output %q", in, out.String())
		}
	}
}

func TestRun_MissingKeyBeforePrompt(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), apppkg.Config{OutputDir: t.TempDir()}, "", strings.NewReader("https://example.com\n"), &out)
	var cfgErr *apppkg.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if strings.Contains(out.String(), urlPrompt) {
		t.Fatalf("should fail before prompting")
	}
}

// Smoke test: dry run reads the URL from stdin and writes nothing.
func TestRun_DryRunFromStdin(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Dry Story</title></head><body><article><p>Short body.</p></article></body></html>`))
	}))
	defer page.Close()

	dir := t.TempDir()
	cfg := apppkg.Config{OutputDir: dir, DryRun: true}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, "", strings.NewReader(page.URL+"\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Note would be saved to: "+filepath.Join(dir, "Dry Story.md")) {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("dry run wrote %d files", len(entries))
	}
}

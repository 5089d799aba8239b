package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/vaultclip/internal/extract"
	"github.com/hyperifyio/vaultclip/internal/fetch"
	"github.com/hyperifyio/vaultclip/internal/format"
	"github.com/hyperifyio/vaultclip/internal/llm"
	"github.com/hyperifyio/vaultclip/internal/note"
)

// ArticleSource downloads and parses the article behind a URL.
type ArticleSource interface {
	Extract(ctx context.Context, rawURL string) (extract.Article, error)
}

// NoteFormatter turns an article into note text.
type NoteFormatter interface {
	Format(ctx context.Context, a extract.Article) (string, error)
}

// App runs the pipeline for one URL at a time: extract, format, validate,
// write. Status lines for humans go to the status writer; diagnostics go to
// the global logger.
type App struct {
	cfg       Config
	outDir    string
	source    ArticleSource
	formatter NoteFormatter
	status    io.Writer
}

// New validates cfg and wires the HTTP extractor and the OpenAI-compatible
// formatter. A nil status writer discards status lines.
func New(cfg Config, status io.Writer) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	src := &webSource{client: &fetch.Client{
		HTTPClient:        newHTTPClient(cfg.FetchTimeout),
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.FetchTimeout,
	}}
	f := &format.Formatter{
		Client:       llm.NewOpenAI(cfg.LLMAPIKey, cfg.LLMBaseURL, newHTTPClient(cfg.LLMTimeout)),
		Model:        cfg.LLMModel,
		SystemPrompt: cfg.SystemPrompt,
		LanguageHint: cfg.LanguageHint,
		Temperature:  cfg.Temperature,
		MinTextChars: cfg.MinTextChars,
	}
	return NewWithStages(cfg, status, src, f)
}

// NewWithStages is New with caller-supplied stages.
func NewWithStages(cfg Config, status io.Writer, src ArticleSource, f NoteFormatter) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if src == nil || f == nil {
		return nil, errors.New("app: source and formatter are required")
	}
	dir, err := resolveOutputDir(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if status == nil {
		status = io.Discard
	}
	return &App{cfg: cfg, outDir: dir, source: src, formatter: f, status: status}, nil
}

// Run processes rawURL and returns the path of the saved note. In dry-run
// mode it returns the path the note would get and writes nothing.
func (a *App) Run(ctx context.Context, rawURL string) (string, error) {
	target := normalizeURL(rawURL)
	if target == "" {
		return "", &ExtractionError{URL: rawURL, Err: errors.New("empty URL")}
	}

	a.statusf("[1/3] Downloading + parsing article...")
	art, err := a.source.Extract(ctx, target)
	if err != nil {
		return "", &ExtractionError{URL: target, Err: err}
	}
	log.Info().
		Str("url", target).
		Str("title", art.Title).
		Int("chars", utf8.RuneCountInString(art.Text)).
		Msg("article extracted")
	if strings.TrimSpace(art.Text) == "" {
		log.Warn().Str("url", target).Msg("extracted text is empty")
		a.statusf("Warning: extracted text is empty (the page may be paywalled or script-rendered). Continuing.")
	}

	if a.cfg.DryRun {
		return a.dryRun(art)
	}

	a.statusf("[2/3] Sending to the model for Obsidian formatting...")
	body, err := a.formatter.Format(ctx, art)
	if err != nil {
		return "", &FormattingError{Err: err}
	}
	if _, err := note.ValidateFrontmatter(body); err != nil {
		log.Debug().Str("output", preview(body, 200)).Msg("rejected model output")
		return "", &ValidationError{Err: err}
	}

	path, err := note.Write(a.outDir, art.Title, body, note.WriteOptions{
		MaxFilenameLen: a.cfg.MaxFilenameLen,
		OnPath: func(p string) {
			a.statusf("[3/3] Saving note to: %s", p)
		},
	})
	if err != nil {
		return "", &WriteError{Path: firstNonEmpty(path, a.outDir), Err: err}
	}
	log.Info().Str("path", path).Int("chars", len(body)).Msg("note saved")
	a.statusf("Done.")
	return path, nil
}

func (a *App) dryRun(art extract.Article) (string, error) {
	path, err := note.UniquePath(note.PathFor(a.outDir, art.Title, a.cfg.MaxFilenameLen))
	if err != nil {
		return "", &WriteError{Path: a.outDir, Err: err}
	}
	a.statusf("Dry run: no model call, nothing written.")
	a.statusf("Title: %s", art.Title)
	a.statusf("Authors: %s", strings.Join(art.Authors, ", "))
	a.statusf("Published: %s", art.Published)
	a.statusf("Source: %s", firstNonEmpty(art.SiteName, art.SourceGuess))
	if art.Language != "" {
		a.statusf("Language: %s", art.Language)
	}
	a.statusf("Text characters: %d", utf8.RuneCountInString(art.Text))
	if f, ok := a.formatter.(*format.Formatter); ok {
		est := estimateNoteBudget(f, art)
		a.statusf("Model: %s", f.Model)
		a.statusf("Estimated prompt tokens: %d", est.PromptTokens)
		a.statusf("Reserved output tokens: %d", est.ReservedOutput)
		a.statusf("Model context window: %d", est.ModelContext)
		a.statusf("Fits: %t", est.Fits)
	}
	a.statusf("Note would be saved to: %s", path)
	return path, nil
}

func (a *App) statusf(msg string, args ...any) {
	fmt.Fprintf(a.status, msg+"\n", args...)
}

// webSource fetches the page over HTTP and parses it.
type webSource struct {
	client *fetch.Client
}

func (s *webSource) Extract(ctx context.Context, rawURL string) (extract.Article, error) {
	page, err := s.client.Get(ctx, rawURL)
	if err != nil {
		return extract.Article{}, err
	}
	art, err := extract.Parse(page.Body, page.URL)
	if err != nil {
		return extract.Article{}, err
	}
	// The note links to what the user pasted, not where redirects ended.
	art.URL = rawURL
	art.SourceGuess = extract.SourceGuess(rawURL)
	return art, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

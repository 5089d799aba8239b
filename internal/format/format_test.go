package format

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/vaultclip/internal/extract"
)

type capturingClient struct {
	lastReq openai.ChatCompletionRequest
	calls   int
	reply   string
	err     error
}

func (c *capturingClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.reply},
		}},
	}, nil
}

func sampleArticle() extract.Article {
	return extract.Article{
		URL:         "https://www.example.com/news/example-headline",
		Title:       "  Example Headline ",
		Authors:     []string{"Jane Doe", "John Roe"},
		Published:   "2026-01-23",
		Text:        strings.Repeat("Officials confirmed the delivery. ", 40),
		SourceGuess: "example.com",
	}
}

func TestFormat_BuildsPromptWithMetadata(t *testing.T) {
	cc := &capturingClient{reply: "\n---\ntitle: \"Example Headline\"\n---\nbody\n\n"}
	f := &Formatter{Client: cc, Model: "test-model", LanguageHint: "fi"}
	out, err := f.Format(context.Background(), sampleArticle())
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	if out != "---\ntitle: \"Example Headline\"\n---\nbody" {
		t.Fatalf("expected trimmed output, got %q", out)
	}
	if cc.calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", cc.calls)
	}
	if len(cc.lastReq.Messages) != 2 {
		t.Fatalf("expected system and user messages")
	}
	if cc.lastReq.Messages[0].Content != DefaultSystemPrompt {
		t.Fatalf("unexpected system prompt %q", cc.lastReq.Messages[0].Content)
	}
	user := cc.lastReq.Messages[1].Content
	for _, want := range []string{
		"URL: https://www.example.com/news/example-headline",
		"title: Example Headline\n",
		"authors: Jane Doe, John Roe",
		"published: 2026-01-23",
		"source: example.com",
		"Write the note body in language: fi",
		"ARTICLE TEXT\nOfficials confirmed the delivery.",
		"## Claims & attribution",
	} {
		if !strings.Contains(user, want) {
			t.Fatalf("expected user message to contain %q", want)
		}
	}
	if strings.Contains(user, shortTextNote) {
		t.Fatalf("did not expect the short-text note for a long article")
	}
}

func TestFormat_ShortTextAddsExtractionNote(t *testing.T) {
	cc := &capturingClient{reply: "---\nx: 1\n---\n"}
	a := sampleArticle()
	a.Text = ""
	f := &Formatter{Client: cc, Model: "test-model"}
	if _, err := f.Format(context.Background(), a); err != nil {
		t.Fatalf("format error: %v", err)
	}
	user := cc.lastReq.Messages[1].Content
	if !strings.HasSuffix(user, "ARTICLE TEXT\n"+shortTextNote) {
		t.Fatalf("expected the extraction note in place of the text; got tail %q", user[len(user)-200:])
	}
}

func TestFormat_SystemPromptOverrideAndSiteName(t *testing.T) {
	cc := &capturingClient{reply: "---\nx: 1\n---\n"}
	a := sampleArticle()
	a.SiteName = "Example News"
	f := &Formatter{Client: cc, Model: "test-model", SystemPrompt: "custom role"}
	if _, err := f.Format(context.Background(), a); err != nil {
		t.Fatalf("format error: %v", err)
	}
	if got := cc.lastReq.Messages[0].Content; got != "custom role" {
		t.Fatalf("system prompt=%q, want override", got)
	}
	if !strings.Contains(cc.lastReq.Messages[1].Content, "source: Example News") {
		t.Fatalf("expected declared site name as source")
	}
}

func TestFormat_TransportErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	cc := &capturingClient{err: boom}
	f := &Formatter{Client: cc, Model: "test-model"}
	_, err := f.Format(context.Background(), sampleArticle())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if cc.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", cc.calls)
	}
}

func TestFormat_EmptyReply(t *testing.T) {
	f := &Formatter{Client: &capturingClient{reply: "  \n "}, Model: "test-model"}
	if _, err := f.Format(context.Background(), sampleArticle()); !errors.Is(err, ErrEmptyOutput) {
		t.Fatalf("expected ErrEmptyOutput, got %v", err)
	}
}

func TestFormat_NotConfigured(t *testing.T) {
	f := &Formatter{Model: "test-model"}
	if _, err := f.Format(context.Background(), sampleArticle()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestFormat_TruncatesToModelContext(t *testing.T) {
	cc := &capturingClient{reply: "---\nx: 1\n---\n"}
	a := sampleArticle()
	a.Text = strings.Repeat("Paragraph of reporting that goes on and on.\n\n", 1500)
	f := &Formatter{Client: cc, Model: "gpt-4", ReservedOutputTokens: 512}
	if _, err := f.Format(context.Background(), a); err != nil {
		t.Fatalf("format error: %v", err)
	}
	user := cc.lastReq.Messages[1].Content
	if !strings.HasSuffix(user, truncatedNote) {
		t.Fatalf("expected truncation marker at the end of the prompt")
	}
	if len(user) >= len(a.Text) {
		t.Fatalf("expected prompt shorter than the raw article (%d >= %d)", len(user), len(a.Text))
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```markdown\n---\na: 1\n---\nbody\n```": "---\na: 1\n---\nbody",
		"```\n---\na: 1\n---\n```":              "---\na: 1\n---",
		"---\na: 1\n---\n```go\nx\n```":         "---\na: 1\n---\n```go\nx\n```",
		"```":                                   "```",
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q)=%q, want %q", in, got, want)
		}
	}
}

// Package format turns an extracted article into an Obsidian note by asking
// a chat model to rewrite it under a strict formatting contract.
package format

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/vaultclip/internal/budget"
	"github.com/hyperifyio/vaultclip/internal/extract"
	"github.com/hyperifyio/vaultclip/internal/llm"
)

const (
	// DefaultMinTextChars is the extraction length below which the model is
	// warned that the page may be paywalled.
	DefaultMinTextChars = 500
	// DefaultReservedOutputTokens is kept free in the context for the note.
	DefaultReservedOutputTokens = 4096
)

// ErrEmptyOutput indicates the model returned no usable text.
var ErrEmptyOutput = errors.New("model returned no content")

// ErrNotConfigured is returned when Client or Model is missing.
var ErrNotConfigured = errors.New("formatter not configured")

// Formatter calls the model once per article. It does not retry.
type Formatter struct {
	Client llm.Client
	Model  string
	// SystemPrompt, when non-empty, overrides DefaultSystemPrompt.
	SystemPrompt string
	// LanguageHint asks for the note body in a given language.
	LanguageHint string
	// Temperature is sent only when non-zero; some models reject it.
	Temperature float32
	// MinTextChars overrides DefaultMinTextChars when positive.
	MinTextChars int
	// ReservedOutputTokens overrides DefaultReservedOutputTokens when positive.
	ReservedOutputTokens int
}

// Format builds the prompt for a and returns the model's note, trimmed. The
// output is not validated here.
func (f *Formatter) Format(ctx context.Context, a extract.Article) (string, error) {
	if f.Client == nil || strings.TrimSpace(f.Model) == "" {
		return "", ErrNotConfigured
	}
	system, user := f.Messages(a)

	log.Debug().
		Str("model", f.Model).
		Int("promptChars", len(system)+len(user)).
		Int("estTokens", budget.EstimateTokens(system)+budget.EstimateTokens(user)).
		Msg("requesting note")

	req := openai.ChatCompletionRequest{
		Model: f.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: f.Temperature,
		N:           1,
	}
	resp, err := f.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyOutput
	}
	out := stripCodeFence(strings.TrimSpace(resp.Choices[0].Message.Content))
	if out == "" {
		return "", ErrEmptyOutput
	}
	log.Debug().Int("chars", len(out)).Str("finishReason", string(resp.Choices[0].FinishReason)).Msg("model replied")
	return out, nil
}

// Messages returns the system and user messages Format would send for a.
func (f *Formatter) Messages(a extract.Article) (system, user string) {
	system = DefaultSystemPrompt
	if strings.TrimSpace(f.SystemPrompt) != "" {
		system = f.SystemPrompt
	}
	header := buildUserHeader(a, f.LanguageHint)
	return system, header + f.articleText(a, system, header)
}

// articleText returns the article body for the prompt: cut to the model's
// context when needed and annotated when the extraction looks thin.
func (f *Formatter) articleText(a extract.Article, system, header string) string {
	text := strings.TrimSpace(a.Text)

	reserved := f.ReservedOutputTokens
	if reserved <= 0 {
		reserved = DefaultReservedOutputTokens
	}
	fixed := budget.EstimateTokens(system) + budget.EstimateTokens(header) + budget.EstimateTokens(shortTextNote+truncatedNote)
	allowed := budget.RemainingContextWithHeadroom(f.Model, reserved, fixed)
	if allowed > 0 && budget.EstimateTokens(text) > allowed {
		cut, _ := budget.TruncateToTokens(text, allowed)
		log.Warn().Int("fromChars", len(text)).Int("toChars", len(cut)).Str("model", f.Model).Msg("article text truncated to fit model context")
		text = cut + "\n\n" + truncatedNote
	}

	minChars := f.MinTextChars
	if minChars <= 0 {
		minChars = DefaultMinTextChars
	}
	if utf8.RuneCountInString(a.Text) < minChars {
		text = strings.TrimSpace(text + "\n\n" + shortTextNote)
	}
	return text
}

// stripCodeFence removes a ```markdown fence wrapped around the whole reply.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	first, rest, ok := strings.Cut(s, "\n")
	if !ok || strings.Contains(first[3:], "`") {
		return s
	}
	return strings.TrimSpace(strings.TrimSuffix(rest, "```"))
}

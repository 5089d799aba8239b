// Command openai-stub serves a minimal OpenAI-compatible API that answers
// every chat completion with a well-formed note built from the prompt's
// metadata block. MODE=broken drops the closing frontmatter delimiter.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	broken := strings.EqualFold(strings.TrimSpace(os.Getenv("MODE")), "broken")

	log.Info().Str("addr", addr).Str("model", model).Bool("broken", broken).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model, broken)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func newMux(model string, broken bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		user := ""
		for _, m := range req.Messages {
			if m.Role == "user" {
				user = m.Content
			}
		}
		if user == "" {
			http.Error(w, "missing user message", http.StatusBadRequest)
			return
		}
		content := buildNote(parsePrompt(user), broken)
		log.Debug().Str("model", req.Model).Int("chars", len(content)).Msg("chat completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "stub-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return mux
}

// promptMeta is what the stub reads back out of the user message.
type promptMeta struct {
	URL       string
	Title     string
	Authors   []string
	Published string
	Source    string
}

func parsePrompt(user string) promptMeta {
	var m promptMeta
	inMeta := false
	for _, line := range strings.Split(user, "\n") {
		switch {
		case strings.HasPrefix(line, "URL: "):
			m.URL = strings.TrimSpace(strings.TrimPrefix(line, "URL: "))
		case strings.HasPrefix(line, "METADATA"):
			inMeta = true
		case inMeta && strings.TrimSpace(line) == "":
			inMeta = false
		case inMeta:
			key, val, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			val = strings.TrimSpace(val)
			switch strings.TrimSpace(key) {
			case "title":
				m.Title = val
			case "authors":
				for _, a := range strings.Split(val, ",") {
					if a = strings.TrimSpace(a); a != "" {
						m.Authors = append(m.Authors, a)
					}
				}
			case "published":
				m.Published = val
			case "source":
				m.Source = val
			}
		}
	}
	return m
}

func buildNote(m promptMeta, broken bool) string {
	title := m.Title
	if title == "" {
		title = "Untitled article"
	}
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("title: " + quote(title) + "\n")
	if m.Source != "" {
		sb.WriteString("source: " + quote(m.Source) + "\n")
	}
	if m.URL != "" {
		sb.WriteString("url: " + quote(m.URL) + "\n")
	}
	if m.Published != "" {
		sb.WriteString("published: " + m.Published + "\n")
	}
	switch len(m.Authors) {
	case 0:
	case 1:
		sb.WriteString("author: " + quote(m.Authors[0]) + "\n")
	default:
		sb.WriteString("authors:\n")
		for _, a := range m.Authors {
			sb.WriteString("  - " + quote(a) + "\n")
		}
	}
	sb.WriteString("type: \"news_article\"\ntags:\n  - stub\n")
	if !broken {
		sb.WriteString("---\n")
	}
	sb.WriteString("\n# " + title + "\n\n")
	sb.WriteString("## Summary\n- Generated by openai-stub.\n\n")
	sb.WriteString("## Key details\n- Stub output.\n\n")
	sb.WriteString("## Claims & attribution\n- None.\n\n")
	sb.WriteString("## Entities\n- None.\n\n")
	sb.WriteString("## Analyst notes\n- None.\n")
	return sb.String()
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

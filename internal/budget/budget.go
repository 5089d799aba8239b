package budget

import (
	"math"
	"strings"
	"unicode/utf8"
)

// charsPerToken is the conservative English average used for estimates.
const charsPerToken = 4

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token in English). The
// result is always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / charsPerToken))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Unknown models fall back to a sensible default.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	for _, p := range knownPrefixes {
		if strings.HasPrefix(name, p.prefix) {
			return p.tokens
		}
	}
	switch {
	case strings.HasSuffix(name, "1m"):
		return 1_000_000
	case strings.HasSuffix(name, "200k"):
		return 200_000
	case strings.HasSuffix(name, "128k"):
		return 128_000
	case strings.HasSuffix(name, "32k"):
		return 32_768
	case strings.Contains(name, "-mini"):
		// Many "mini" models expose large contexts nowadays, assume 128k.
		return 128_000
	}
	return 8192
}

// HeadroomTokens returns a safety margin for tokenizer and message framing
// overheads: the larger of 5% of the model context or 512 tokens.
func HeadroomTokens(modelName string) int {
	dyn := int(math.Ceil(float64(ModelContextTokens(modelName)) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContextWithHeadroom computes the input tokens left after the
// prompt, the output reservation and the headroom. Never negative.
func RemainingContextWithHeadroom(modelName string, reservedForOutput int, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := ModelContextTokens(modelName) - HeadroomTokens(modelName) - reservedForOutput - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TruncateToTokens cuts s so that its estimate fits within maxTokens. The cut
// prefers the last paragraph or line break in the final tenth of the allowed
// span, and never splits a UTF-8 sequence. The second result reports whether
// anything was removed.
func TruncateToTokens(s string, maxTokens int) (string, bool) {
	if maxTokens <= 0 {
		return "", s != ""
	}
	limit := maxTokens * charsPerToken
	if len(s) <= limit {
		return s, false
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	head := s[:cut]
	floor := cut - cut/10
	if i := strings.LastIndex(head, "\n\n"); i >= floor {
		head = head[:i]
	} else if i := strings.LastIndexByte(head, '\n'); i >= floor {
		head = head[:i]
	}
	return strings.TrimRight(head, " \t\r\n"), true
}

// knownModelMax contains rough context sizes for common model identifiers.
// These are best-effort and do not need to be exhaustive.
var knownModelMax = map[string]int{
	"gpt-4o":        128_000,
	"gpt-4o-mini":   128_000,
	"gpt-4-turbo":   128_000,
	"gpt-4":         8_192,
	"gpt-3.5-turbo": 16_384,

	"llama-3":   8_192,
	"llama-3.1": 128_000,

	// Common OSS OpenAI-compatible backends seen in the wild
	"openai/gpt-oss-20b": 4_096,
	"gpt-oss-20b":        4_096,
}

// knownPrefixes covers model families whose dated variants share a window.
var knownPrefixes = []struct {
	prefix string
	tokens int
}{
	{"gpt-5", 400_000},
	{"gpt-4.1", 1_000_000},
	{"o3", 200_000},
	{"o4", 200_000},
	{"claude-", 200_000},
}

package app

import "time"

// Defaults applied by ApplyDefaults to fields left unset by flags, the
// environment and the config file.
const (
	DefaultModel          = "gpt-5.2"
	DefaultFetchTimeout   = 30 * time.Second
	DefaultLLMTimeout     = 5 * time.Minute
	DefaultMaxFilenameLen = 120
	DefaultMinTextChars   = 500
)

// Config holds runtime configuration for the application. It is built once
// in main and passed by value; nothing reads the process environment after
// that.
type Config struct {
	// Output
	OutputDir      string
	MaxFilenameLen int

	// LLM
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	LLMTimeout   time.Duration
	SystemPrompt string
	LanguageHint string
	Temperature  float32

	// Fetch
	UserAgent    string
	FetchTimeout time.Duration
	MinTextChars int

	// Behavior
	DryRun  bool
	Verbose bool
}

// ApplyDefaults fills zero fields with their defaults. OutputDir defaults to
// the working directory.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = DefaultModel
	}
	if cfg.LLMTimeout == 0 {
		cfg.LLMTimeout = DefaultLLMTimeout
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.MaxFilenameLen == 0 {
		cfg.MaxFilenameLen = DefaultMaxFilenameLen
	}
	if cfg.MinTextChars == 0 {
		cfg.MinTextChars = DefaultMinTextChars
	}
}

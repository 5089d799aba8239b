package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
	Vault struct {
		Dir            string `yaml:"dir" json:"dir"`
		MaxFilenameLen int    `yaml:"maxFilenameLen" json:"maxFilenameLen"`
	} `yaml:"vault" json:"vault"`

	LLM struct {
		BaseURL          string        `yaml:"base" json:"base"`
		Model            string        `yaml:"model" json:"model"`
		APIKey           string        `yaml:"key" json:"key"`
		Timeout          time.Duration `yaml:"timeout" json:"timeout"`
		Temperature      float32       `yaml:"temperature" json:"temperature"`
		SystemPrompt     string        `yaml:"systemPrompt" json:"systemPrompt"`
		SystemPromptFile string        `yaml:"systemPromptFile" json:"systemPromptFile"`
	} `yaml:"llm" json:"llm"`

	Fetch struct {
		UserAgent    string        `yaml:"ua" json:"ua"`
		Timeout      time.Duration `yaml:"timeout" json:"timeout"`
		MinTextChars int           `yaml:"minTextChars" json:"minTextChars"`
	} `yaml:"fetch" json:"fetch"`

	Language string `yaml:"language" json:"language"`
	DryRun   bool   `yaml:"dryRun" json:"dryRun"`
	Verbose  bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig. A systemPromptFile is
// resolved relative to the config file and read into SystemPrompt.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	if p := strings.TrimSpace(fc.LLM.SystemPromptFile); p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), p)
		}
		sp, err := os.ReadFile(p)
		if err != nil {
			return fc, fmt.Errorf("read system prompt: %w", err)
		}
		fc.LLM.SystemPrompt = string(sp)
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags should already have been parsed; this
// function lets file config supply values while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = fc.Vault.Dir
	}
	if cfg.MaxFilenameLen == 0 && fc.Vault.MaxFilenameLen > 0 {
		cfg.MaxFilenameLen = fc.Vault.MaxFilenameLen
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.LLMTimeout == 0 && fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = fc.LLM.Timeout
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = fc.LLM.Temperature
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = fc.LLM.SystemPrompt
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.MinTextChars == 0 && fc.Fetch.MinTextChars > 0 {
		cfg.MinTextChars = fc.Fetch.MinTextChars
	}

	if cfg.LanguageHint == "" {
		cfg.LanguageHint = fc.Language
	}
	if !cfg.DryRun && fc.DryRun {
		cfg.DryRun = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal validation for required settings. For
// dry-run, the LLM credential may be omitted.
func ValidateConfig(cfg Config) error {
	if !cfg.DryRun {
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			return &ConfigurationError{Msg: "Missing OPENAI_API_KEY. Add it to a .env file or set it in the environment."}
		}
		if strings.TrimSpace(cfg.LLMModel) == "" {
			return &ConfigurationError{Msg: "Missing LLM_MODEL. Set it with -llm.model or in the environment."}
		}
	}
	if cfg.MaxFilenameLen < 0 || cfg.MinTextChars < 0 {
		return &ConfigurationError{Msg: "negative limits are not allowed"}
	}
	if cfg.FetchTimeout < 0 || cfg.LLMTimeout < 0 {
		return &ConfigurationError{Msg: "negative timeouts are not allowed"}
	}
	return nil
}

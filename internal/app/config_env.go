package app

import (
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from env. Explicit cfg
// values (flags) take precedence over env.
func ApplyEnvToConfig(cfg *Config, env Env) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, keys ...string) {
		if *dst == "" {
			*dst = env.Get(keys...)
		}
	}
	setString(&cfg.LLMAPIKey, "OPENAI_API_KEY", "LLM_API_KEY")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL", "OPENAI_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.OutputDir, "VAULT_DIR", "OUTPUT_DIR")
	setString(&cfg.LanguageHint, "LANGUAGE")
	setString(&cfg.UserAgent, "USER_AGENT")
	setString(&cfg.SystemPrompt, "SYSTEM_PROMPT")

	setDuration := func(dst *time.Duration, key string) {
		if *dst != 0 {
			return
		}
		if s := strings.TrimSpace(env.Get(key)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.FetchTimeout, "FETCH_TIMEOUT")
	setDuration(&cfg.LLMTimeout, "LLM_TIMEOUT")

	setInt := func(dst *int, key string) {
		if *dst != 0 {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(env.Get(key))); err == nil && n > 0 {
			*dst = n
		}
	}
	setInt(&cfg.MaxFilenameLen, "MAX_FILENAME_LEN")
	setInt(&cfg.MinTextChars, "MIN_TEXT_CHARS")

	if cfg.Temperature == 0 {
		if f, err := strconv.ParseFloat(strings.TrimSpace(env.Get("LLM_TEMPERATURE")), 32); err == nil {
			cfg.Temperature = float32(f)
		}
	}

	// Booleans
	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(env.Get(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Verbose, "VERBOSE")
}

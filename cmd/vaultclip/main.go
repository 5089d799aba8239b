package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/vaultclip/internal/app"
)

const urlPrompt = "Paste article URL (or 'q' to quit): "

// options are the command line settings that are not part of app.Config.
type options struct {
	cfg              app.Config
	url              string
	configPath       string
	envFiles         string
	systemPromptFile string
	showVersion      bool
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if o.showVersion {
		fmt.Println(app.VersionString())
		return
	}

	cfg, err := buildConfig(o, os.LookupEnv, defaultEnvFiles())
	if err != nil {
		app.Report(os.Stdout, err)
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(context.Background(), cfg, o.url, os.Stdin, os.Stdout); err != nil {
		log.Debug().Err(err).Msg("run failed")
		app.Report(os.Stdout, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, errOut io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("vaultclip", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&o.url, "url", "", "Article URL; when empty the URL is read from standard input")
	fs.StringVar(&o.cfg.OutputDir, "vault", "", "Vault directory to write the note into (default: current directory)")
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML or JSON config file")
	fs.StringVar(&o.envFiles, "env", "", "Comma-separated dotenv files read before the defaults (./.env and .env next to the binary)")
	fs.StringVar(&o.cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	fs.StringVar(&o.cfg.LLMModel, "llm.model", "", "Model name (default "+app.DefaultModel+")")
	fs.StringVar(&o.cfg.LLMAPIKey, "llm.key", "", "API key for the OpenAI-compatible server")
	fs.DurationVar(&o.cfg.LLMTimeout, "llm.timeout", 0, "Timeout for the model call")
	var temperature float64
	fs.Float64Var(&temperature, "llm.temperature", 0, "Sampling temperature; 0 leaves the server default")
	fs.StringVar(&o.cfg.SystemPrompt, "system-prompt", "", "Override the system prompt (inline string)")
	fs.StringVar(&o.systemPromptFile, "system-prompt-file", "", "Path to a file containing the system prompt")
	fs.StringVar(&o.cfg.LanguageHint, "lang", "", "Optional language for the note body, e.g. 'en' or 'fi'")
	fs.DurationVar(&o.cfg.FetchTimeout, "fetch.timeout", 0, "Timeout for downloading the article")
	fs.StringVar(&o.cfg.UserAgent, "ua", "", "User-Agent for article requests")
	fs.IntVar(&o.cfg.MinTextChars, "min.textChars", 0, "Extracted text shorter than this is flagged to the model as possibly paywalled")
	fs.IntVar(&o.cfg.MaxFilenameLen, "max.filenameLen", 0, "Maximum note file name length in characters")
	fs.BoolVar(&o.cfg.DryRun, "dry-run", false, "Extract and show the planned note path without calling the model or writing")
	fs.BoolVar(&o.cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.cfg.Temperature = float32(temperature)
	if o.url == "" && fs.NArg() > 0 {
		o.url = fs.Arg(0)
	}
	return o, nil
}

// buildConfig merges flags, the config file, the process environment and
// dotenv files, in that order of precedence, then applies defaults.
func buildConfig(o options, lookup func(string) (string, bool), defaultEnv []string) (app.Config, error) {
	cfg := o.cfg

	// If a file-based prompt is provided, it takes precedence over the inline string
	if p := strings.TrimSpace(o.systemPromptFile); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return cfg, &app.ConfigurationError{Msg: "cannot read system prompt file", Err: err}
		}
		cfg.SystemPrompt = string(b)
	}

	if p := strings.TrimSpace(o.configPath); p != "" {
		fc, err := app.LoadConfigFile(p)
		if err != nil {
			return cfg, &app.ConfigurationError{Msg: "cannot load config file " + p, Err: err}
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	paths := splitList(o.envFiles)
	paths = append(paths, defaultEnv...)
	fileVals, err := app.LoadEnvFiles(paths...)
	if err != nil {
		return cfg, &app.ConfigurationError{Msg: "cannot read dotenv file", Err: err}
	}
	env := app.NewEnv(lookup, fileVals)
	app.ApplyEnvToConfig(&cfg, env)
	if cfg.SystemPrompt == "" {
		if p := strings.TrimSpace(env.Get("SYSTEM_PROMPT_FILE")); p != "" {
			b, err := os.ReadFile(p)
			if err != nil {
				return cfg, &app.ConfigurationError{Msg: "cannot read SYSTEM_PROMPT_FILE", Err: err}
			}
			cfg.SystemPrompt = string(b)
		}
	}

	app.ApplyDefaults(&cfg)
	return cfg, nil
}

// defaultEnvFiles lists ./.env and the .env next to the executable.
func defaultEnvFiles() []string {
	paths := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ".env"))
	}
	return paths
}

func run(ctx context.Context, cfg app.Config, rawURL string, in io.Reader, out io.Writer) error {
	a, err := app.New(cfg, out)
	if err != nil {
		return err
	}

	if strings.TrimSpace(rawURL) == "" {
		rawURL, err = promptURL(in, out)
		if err != nil {
			return err
		}
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.EqualFold(rawURL, "q") {
		fmt.Fprintln(out, "Exiting.")
		return nil
	}

	_, err = a.Run(ctx, rawURL)
	return err
}

// promptURL reads a single line. EOF without input yields an empty string.
func promptURL(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, urlPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read url: %w", err)
	}
	fmt.Fprintln(out)
	return strings.TrimSpace(line), nil
}

func splitList(s string) []string {
	var list []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}

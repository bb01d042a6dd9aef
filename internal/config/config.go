// Package config parses the receipt processor's settings from flags,
// environment variables and an optional config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/receipt-processor/internal/logo"
	"github.com/zombor/receipt-processor/internal/scanning"
)

// EnvVarPrefix prefixes every environment variable, e.g. RECEIPT_PROCESSOR_PORT
const EnvVarPrefix = "RECEIPT_PROCESSOR"

const (
	defaultPort        = 8080
	defaultVeryfiURL   = "https://api.veryfi.com/api/v8/partner/documents/"
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// Categorizer backends
const (
	CategorizerKeyword = "keyword"
	CategorizerGemini  = "gemini"
	CategorizerOllama  = "ollama"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Veryfi      scanning.VeryfiConfig
	LogoURL     string
	Categorizer string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
	LogLevel    slog.Level
	LogFormat   string
	ShowVersion bool
}

// Parse reads the configuration from args, the environment and the file named by --config.
// The returned FlagSet is used to render help on error.
func Parse(args []string) (*Config, *ff.FlagSet, error) {
	fs := ff.NewFlagSet("receipt-processor")
	var (
		port           = fs.IntLong("port", defaultPort, "HTTP server port")
		_              = fs.StringLong("config", "", "Config file path (optional)")
		veryfiURL      = fs.StringLong("veryfi-url", defaultVeryfiURL, "Veryfi documents API URL")
		veryfiClientID = fs.StringLong("veryfi-client-id", "", "Veryfi client id")
		veryfiUsername = fs.StringLong("veryfi-username", "", "Veryfi username")
		veryfiAPIKey   = fs.StringLong("veryfi-api-key", "", "Veryfi API key")
		logoURL        = fs.StringLong("logo-url", logo.DefaultBaseURL, "Logo lookup base URL")
		categorizer    = fs.StringLong("categorizer", CategorizerKeyword, "Categorizer: 'keyword', 'gemini' or 'ollama'")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", defaultGeminiModel, "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", defaultOllamaURL, "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", defaultOllamaModel, "Ollama model name")
		logLevel       = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat      = fs.StringLong("log-format", "text", "Log format: text or json")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix(EnvVarPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		return nil, fs, err
	}

	cfg := &Config{
		Port: *port,
		Veryfi: scanning.VeryfiConfig{
			APIURL:   *veryfiURL,
			ClientID: *veryfiClientID,
			Username: *veryfiUsername,
			APIKey:   *veryfiAPIKey,
		},
		LogoURL:     *logoURL,
		Categorizer: strings.ToLower(strings.TrimSpace(*categorizer)),
		GeminiKey:   *geminiKey,
		GeminiModel: *geminiModel,
		OllamaURL:   *ollamaURL,
		OllamaModel: *ollamaModel,
		LogFormat:   strings.ToLower(*logFormat),
		ShowVersion: *showVersion,
	}
	if cfg.GeminiKey == "" {
		cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return nil, fs, fmt.Errorf("invalid log level %q: %w", *logLevel, err)
	}

	return cfg, fs, nil
}

// Validate checks that the configuration can start the service
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Veryfi.APIURL == "" {
		return fmt.Errorf("veryfi-url is required")
	}
	if c.Veryfi.ClientID == "" || c.Veryfi.Username == "" || c.Veryfi.APIKey == "" {
		return fmt.Errorf("veryfi-client-id, veryfi-username and veryfi-api-key are required")
	}

	switch c.Categorizer {
	case CategorizerKeyword, CategorizerOllama:
	case CategorizerGemini:
		if c.GeminiKey == "" {
			return fmt.Errorf("gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
		}
	default:
		return fmt.Errorf("invalid categorizer %q, valid: keyword, gemini or ollama", c.Categorizer)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, valid: text or json", c.LogFormat)
	}

	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/receipt-processor/internal/categorize"
	"github.com/zombor/receipt-processor/internal/config"
	"github.com/zombor/receipt-processor/internal/logo"
	"github.com/zombor/receipt-processor/internal/receipt"
	"github.com/zombor/receipt-processor/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	cfg, fs, err := config.Parse(os.Args[1:])
	if errors.Is(err, ff.ErrHelp) {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		os.Exit(0)
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Initialize OCR provider
	logger.Info("Initializing Veryfi scanner...", "url", cfg.Veryfi.APIURL)
	scanner, err := scanning.NewVeryfi(cfg.Veryfi, nil, logger)
	if err != nil {
		logger.Error("Failed to initialize Veryfi", "error", err)
		os.Exit(1)
	}

	// Initialize categorizer based on type
	var categorizer categorize.Categorizer
	switch cfg.Categorizer {
	case config.CategorizerGemini:
		logger.Info("Initializing Gemini categorizer...", "model", cfg.GeminiModel)
		gemini, err := categorize.NewGemini(cfg.GeminiKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		categorizer = gemini
	case config.CategorizerOllama:
		logger.Info("Initializing Ollama categorizer...", "url", cfg.OllamaURL, "model", cfg.OllamaModel)
		categorizer, err = categorize.NewOllama(cfg.OllamaURL, cfg.OllamaModel, logger)
		if err != nil {
			logger.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		logger.Info("Using keyword categorizer")
		categorizer = categorize.NewKeyword()
	}

	logos, err := logo.NewFinder(cfg.LogoURL, nil, logger)
	if err != nil {
		logger.Error("Failed to initialize logo finder", "error", err)
		os.Exit(1)
	}

	service := receipt.NewService(scanner, categorizer, logos, logger)
	server := receipt.NewServer(service, logger, version)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(cfg.Addr())
	}()

	logger.Info("Server started", "address", fmt.Sprintf("http://localhost%s", cfg.Addr()), "version", version)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	case <-sigChan:
	}

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
}

package main

import (
	"log/slog"
	"os"

	"github.com/BretMeraki/Forest7-15-sub006/cmd/forest/internal"
	"github.com/BretMeraki/Forest7-15-sub006/internal/config"
	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/llm"
	"github.com/BretMeraki/Forest7-15-sub006/internal/planning"
	"github.com/BretMeraki/Forest7-15-sub006/internal/store"
)

// app bundles the wired collaborators a command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.ProjectStore
	engine *planning.Engine
}

// newApp wires the engine and store from the loaded configuration.
func newApp() (*app, error) {
	logger := newLogger(cfg.Core.LogLevel)

	projectStore, err := store.NewFileStore(cfg.ProjectsDir(), store.WithStoreLogger(logger))
	if err != nil {
		return nil, internal.WrapError(internal.ExitStoreError, "failed to open project store", err)
	}

	classifier := content.DomainClassifier(content.NewKeywordClassifier())
	generator, err := newGenerator(cfg, classifier, logger)
	if err != nil {
		return nil, err
	}

	engine := planning.NewEngine(classifier, generator,
		planning.WithEngineLogger(logger))

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  projectStore,
		engine: engine,
	}, nil
}

// newGenerator selects the content generator: the deterministic template
// library by default, or an LLM generator falling back to templates when
// the provider misbehaves.
func newGenerator(cfg *config.Config, classifier content.DomainClassifier, logger *slog.Logger) (content.Generator, error) {
	templates := content.NewTemplateGenerator(classifier)
	if !cfg.LLM.Enabled {
		return templates, nil
	}

	provider, err := llm.NewLangchainProvider(llm.ProviderConfig{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "failed to initialize LLM provider", err)
	}

	primary := content.NewLLMGenerator(provider,
		content.WithLLMGeneratorLogger(logger),
		content.WithTemperature(cfg.LLM.Temperature),
		content.WithMaxTokens(cfg.LLM.MaxTokens))

	return content.NewFallbackGenerator(primary, templates, logger), nil
}

// newLogger builds the slog logger for the configured level. CLI logs go
// to stderr so structured output on stdout stays parseable.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if internal.IsVerbose() {
		lvl = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Package config loads and validates Forest configuration from YAML files
// with environment variable interpolation and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	Core     CoreConfig     `mapstructure:"core" yaml:"core"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Planning PlanningConfig `mapstructure:"planning" yaml:"planning"`
}

// CoreConfig holds paths and logging settings.
type CoreConfig struct {
	// HomeDir is the forest home directory. Project snapshots live in
	// its "projects" subdirectory.
	HomeDir string `mapstructure:"home_dir" yaml:"home_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// LLMConfig configures the optional LLM content generator. When disabled,
// plans are built from the deterministic template library.
type LLMConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Provider string `mapstructure:"provider" yaml:"provider"`
	Model    string `mapstructure:"model" yaml:"model"`

	// BaseURL overrides the provider endpoint (required for ollama).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// PlanningConfig holds default learner preferences applied when a project
// doesn't specify its own.
type PlanningConfig struct {
	// DefaultStyle is the preference profile applied to new projects
	// (e.g. "project-driven"). Empty means no profile.
	DefaultStyle string `mapstructure:"default_style" yaml:"default_style"`

	// DefaultGranularity is "high", "low", or empty for the default
	// task sizing.
	DefaultGranularity string `mapstructure:"default_granularity" yaml:"default_granularity"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		Core: CoreConfig{
			HomeDir:  filepath.Join(home, ".forest"),
			LogLevel: "info",
		},
		LLM: LLMConfig{
			Enabled:     false,
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   2048,
		},
		Planning: PlanningConfig{},
	}
}

// ProjectsDir returns the directory holding project snapshots.
func (c *Config) ProjectsDir() string {
	return filepath.Join(c.Core.HomeDir, "projects")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Core.HomeDir == "" {
		return fmt.Errorf("core.home_dir cannot be empty")
	}

	switch c.Core.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("core.log_level must be one of debug, info, warn, error; got %q", c.Core.LogLevel)
	}

	if c.LLM.Enabled {
		switch c.LLM.Provider {
		case "openai", "anthropic", "ollama":
		default:
			return fmt.Errorf("llm.provider must be one of openai, anthropic, ollama; got %q", c.LLM.Provider)
		}
		if c.LLM.Model == "" {
			return fmt.Errorf("llm.model cannot be empty when llm is enabled")
		}
		if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
			return fmt.Errorf("llm.temperature must be within [0, 2]; got %v", c.LLM.Temperature)
		}
	}

	switch c.Planning.DefaultGranularity {
	case "", "high", "low":
	default:
		return fmt.Errorf("planning.default_granularity must be high, low, or empty; got %q", c.Planning.DefaultGranularity)
	}

	return nil
}

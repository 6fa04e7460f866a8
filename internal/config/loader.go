package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// envVarRe matches ${VAR_NAME} references in config values.
var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load loads configuration from the specified YAML file. Environment
// variable references in ${VAR_NAME} form are interpolated before parsing;
// unset variables are left as-is so validation can surface them.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	interpolated := interpolateEnvVars(string(raw))

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewReader([]byte(interpolated))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, returns the default configuration.
func LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("default configuration validation failed: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// setDefaults seeds viper with the default configuration so partial config
// files inherit the rest.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("core.home_dir", defaults.Core.HomeDir)
	v.SetDefault("core.log_level", defaults.Core.LogLevel)
	v.SetDefault("llm.enabled", defaults.LLM.Enabled)
	v.SetDefault("llm.provider", defaults.LLM.Provider)
	v.SetDefault("llm.model", defaults.LLM.Model)
	v.SetDefault("llm.temperature", defaults.LLM.Temperature)
	v.SetDefault("llm.max_tokens", defaults.LLM.MaxTokens)
}

// interpolateEnvVars replaces ${VAR_NAME} references with environment
// variable values. References to unset variables are left unchanged.
func interpolateEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if value := os.Getenv(name); value != "" {
			return value
		}
		return match
	})
}

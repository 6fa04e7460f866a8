package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Core.LogLevel)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, filepath.Join(cfg.Core.HomeDir, "projects"), cfg.ProjectsDir())
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
core:
  home_dir: /tmp/forest-test
  log_level: debug
llm:
  enabled: true
  provider: ollama
  model: llama3
  base_url: http://localhost:11434
  temperature: 0.2
  max_tokens: 1024
planning:
  default_style: project-driven
  default_granularity: high
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/forest-test", cfg.Core.HomeDir)
	assert.Equal(t, "debug", cfg.Core.LogLevel)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.Equal(t, "project-driven", cfg.Planning.DefaultStyle)
	assert.Equal(t, "high", cfg.Planning.DefaultGranularity)
}

func TestLoad_PartialFileInheritsDefaults(t *testing.T) {
	path := writeConfig(t, `
core:
  home_dir: /tmp/forest-partial
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/forest-partial", cfg.Core.HomeDir)
	assert.Equal(t, "info", cfg.Core.LogLevel)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Setenv("FOREST_TEST_HOME", "/tmp/forest-env")
	t.Setenv("FOREST_TEST_MODEL", "gpt-4o")

	path := writeConfig(t, `
core:
  home_dir: ${FOREST_TEST_HOME}
llm:
  enabled: true
  provider: openai
  model: ${FOREST_TEST_MODEL}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/forest-env", cfg.Core.HomeDir)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoad_UnsetEnvVarLeftVerbatim(t *testing.T) {
	path := writeConfig(t, `
core:
  home_dir: ${FOREST_DEFINITELY_UNSET_VAR}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${FOREST_DEFINITELY_UNSET_VAR}", cfg.Core.HomeDir)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "core:\n  log_level: loud\n"},
		{"bad provider", "llm:\n  enabled: true\n  provider: skynet\n"},
		{"missing model", "llm:\n  enabled: true\n  provider: openai\n  model: \"\"\n"},
		{"temperature out of range", "llm:\n  enabled: true\n  temperature: 3.5\n"},
		{"bad granularity", "planning:\n  default_granularity: medium\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "core: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithDefaults(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Core.LogLevel)
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		path := writeConfig(t, "core:\n  home_dir: /tmp/forest-explicit\n")
		cfg, err := LoadWithDefaults(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/forest-explicit", cfg.Core.HomeDir)
	})
}

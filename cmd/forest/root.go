package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BretMeraki/Forest7-15-sub006/cmd/forest/internal"
	"github.com/BretMeraki/Forest7-15-sub006/internal/config"
)

// Global flag values.
var (
	flagHomeDir    string
	flagConfigFile string
	flagOutput     string
	flagVerbose    bool
)

// cfg is the loaded configuration, populated by loadConfig before any
// command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "forest",
	Short: "Forest - hierarchical goal decomposition and adaptive planning",
	Long: `Forest turns a free-form goal statement into a dependency-ordered
plan: strategic branches for each phase of the pursuit, concrete tasks
inside each branch, and an evolution engine that adapts the plan as
feedback arrives.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig runs before every command: resolve the config file, load it
// (or defaults), and apply flag overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	internal.SetVerbose(flagVerbose)

	if _, err := internal.ParseFormat(flagOutput); err != nil {
		return internal.WrapError(internal.ExitError, "invalid --output", err)
	}

	homeDir := flagHomeDir
	if homeDir == "" {
		homeDir = os.Getenv("FOREST_HOME")
	}

	configFile := flagConfigFile
	if configFile == "" {
		if homeDir != "" {
			configFile = filepath.Join(homeDir, "config.yaml")
		} else {
			defaults := config.DefaultConfig()
			configFile = filepath.Join(defaults.Core.HomeDir, "config.yaml")
		}
	}

	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to load configuration", err)
	}
	if homeDir != "" {
		loaded.Core.HomeDir = homeDir
	}

	cfg = loaded
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHomeDir, "home", "", "forest home directory (default $HOME/.forest, env FOREST_HOME)")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file path (default <home>/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format: text, json, or yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(evolveCmd)
}

// formatter returns the output formatter for the selected format.
func formatter(cmd *cobra.Command) internal.Formatter {
	format, err := internal.ParseFormat(flagOutput)
	if err != nil {
		format = internal.FormatText
	}
	return internal.NewFormatter(format, cmd.OutOrStdout())
}

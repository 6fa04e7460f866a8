package main

import (
	"github.com/spf13/cobra"
)

// Version metadata, overridable at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return formatter(cmd).PrintData(map[string]string{
			"version": version,
			"commit":  commit,
		})
	},
}

// Package main is the entry point for the babelbox API server and its
// maintenance commands.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "babelbox",
	Short: "Knowledge item API with categories and AI content review",
	Long: `babelbox serves paginated knowledge items and their categories over HTTP,
backed by a relational store, plus an AI-assisted content review endpoint.

Without a subcommand it runs the HTTP server, same as "babelbox serve".
Settings come from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

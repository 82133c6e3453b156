// Package cmd implements the stocktracker CLI commands. Commands are thin
// views over the session and portfolio stores: they forward user intents
// and render store state, nothing more.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stocktracker/stocktracker-cli/internal/logging"
)

var Version = "dev"

// jsonOutput controls whether output is formatted as JSON
var jsonOutput bool

// verbose enables debug logging
var verbose bool

var rootCmd = &cobra.Command{
	Use:     "stocktracker",
	Short:   "Stock portfolio tracking CLI",
	Long:    `Track investment portfolios and record buy/sell transactions against a stocktracker server.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

// newLogger builds the CLI logger honoring the --verbose flag.
func newLogger() zerolog.Logger {
	if verbose {
		return logging.New("debug")
	}
	return logging.New("warn")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

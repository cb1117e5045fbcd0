// Package main provides the refdex CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// jsonOutput controls whether to emit JSON instead of human-readable text
var jsonOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Argument and usage errors land here; run errors exit earlier
		// with their own codes.
		fmt.Fprintf(os.Stderr, "error: %v\nRun 'refdex help' for usage.\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refdex",
	Short: "Personal PDF reference-library manager",
	Long: `refdex indexes PDF files whose names encode bibliographic metadata
(year, authors, venue, topic), searches that index by keyword or tag,
and keeps free-text annotation records per paper.

The human-editable YAML index file is the source of truth; a SQLite
database derived from it answers all queries and is rebuilt on every
index operation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Use JSON output instead of human-readable text")
	rootCmd.Version = Version
}

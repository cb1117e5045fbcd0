package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(revealCmd)
}

var revealCmd = &cobra.Command{
	Use:   "reveal <filename>",
	Short: "Show a paper's PDF in the file manager",
	Args:  cobra.ExactArgs(1),
	RunE:  runReveal,
}

func runReveal(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	rec, err := newEngine(cfg).ReviewOne(args[0])
	exitOnLookupError(err)

	launcher := newLauncher(cfg)
	fullPath, err := launcher.Resolve(rec.Filename)
	if err != nil {
		exitWithError(ExitLookupError, "%v", err)
	}

	if err := launcher.Reveal(fullPath); err != nil {
		exitWithError(ExitError, "revealing PDF: %v", err)
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "revealed", Path: fullPath})
	}
	fmt.Printf("Revealing: %s\n", rec.Filename)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <filename>",
	Short: "Open a paper's PDF in the configured viewer",
	Long: `Open a paper's PDF in the configured viewer.

The argument is matched as a substring against indexed filenames and
must identify exactly one record.

Examples:
  refdex open 2019_Bevacqua
  refdex open CompoundFlooding`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	rec, err := newEngine(cfg).ReviewOne(args[0])
	exitOnLookupError(err)

	launcher := newLauncher(cfg)
	fullPath, err := launcher.Resolve(rec.Filename)
	if err != nil {
		exitWithError(ExitLookupError, "%v", err)
	}

	if err := launcher.OpenPDF(fullPath); err != nil {
		exitWithError(ExitError, "opening PDF: %v", err)
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "opened", Path: fullPath})
	}
	fmt.Printf("Opening: %s\n", rec.Filename)
	return nil
}

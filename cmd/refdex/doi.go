package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eamonnk/refdex/internal/pdfmeta"
)

func init() {
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi <filename>",
	Short: "Extract the DOI from a paper's PDF",
	Long: `Scan the first pages of a paper's PDF for its DOI.

Useful for citing an indexed paper without opening it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDOI,
}

// DOIResult is the response for the doi command.
type DOIResult struct {
	Filename string `json:"filename"`
	DOI      string `json:"doi"`
}

func runDOI(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	rec, err := newEngine(cfg).ReviewOne(args[0])
	exitOnLookupError(err)

	fullPath, err := newLauncher(cfg).Resolve(rec.Filename)
	if err != nil {
		exitWithError(ExitLookupError, "%v", err)
	}

	doi, err := pdfmeta.ExtractDOI(fullPath)
	if err != nil {
		exitWithError(ExitError, "reading PDF: %v", err)
	}

	if jsonOutput {
		return outputJSON(DOIResult{Filename: rec.Filename, DOI: doi})
	}
	if doi == "" {
		fmt.Println("No DOI found")
	} else {
		fmt.Println(doi)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eamonnk/refdex/internal/config"
	"github.com/eamonnk/refdex/internal/index"
	"github.com/eamonnk/refdex/internal/store"
)

var buildYes bool

func init() {
	indexBuildCmd.Flags().BoolVar(&buildYes, "yes", false, "Skip the confirmation prompt")
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexUpdateCmd)
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or update the record index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the index from scratch",
	Long: `Rebuild the whole index from the PDF directory.

This is destructive: every record is re-derived from its filename and
all hand-written tags and notes are discarded, so the command asks for
confirmation first. Use --yes to skip the prompt.`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

var indexUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Index PDFs added since the last sync",
	Long: `Append records for PDFs modified after the last index sync, leaving
all existing records, tags, and notes untouched, then regenerate the
query database.`,
	Args: cobra.NoArgs,
	RunE: runIndexUpdate,
}

// IndexResult is the response for index build/update commands.
type IndexResult struct {
	Status  string `json:"status"`
	Indexed int    `json:"indexed"`
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if err := config.ValidatePDFDir(cfg.PDFDir); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	var confirm io.Reader = os.Stdin
	var prompt io.Writer = os.Stdout
	if buildYes {
		confirm = strings.NewReader("yes\n")
		prompt = io.Discard
	}

	b := index.New(cfg.PDFDir, newStore(cfg))
	n, err := b.Build(confirm, prompt)
	if err != nil {
		if errors.Is(err, index.ErrAborted) {
			// A decline is a clean no-op, not a failure.
			if jsonOutput {
				return outputJSON(IndexResult{Status: "cancelled"})
			}
			fmt.Println("\nCancelled, index unchanged")
			return nil
		}
		if errors.Is(err, index.ErrInvalidAnswer) {
			exitWithError(ExitError, "%v (answer y or n)", err)
		}
		exitWithError(ExitError, "building index: %v", err)
	}

	if jsonOutput {
		return outputJSON(IndexResult{Status: "built", Indexed: n})
	}
	fmt.Printf("Indexed %d PDF files\n", n)
	return nil
}

func runIndexUpdate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if err := config.ValidatePDFDir(cfg.PDFDir); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	b := index.New(cfg.PDFDir, newStore(cfg))
	n, err := b.Update()
	if err != nil {
		if errors.Is(err, store.ErrIndexNotFound) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitError, "updating index: %v", err)
	}

	if jsonOutput {
		return outputJSON(IndexResult{Status: "updated", Indexed: n})
	}
	if n == 0 {
		fmt.Println("No new PDF files")
	} else {
		fmt.Printf("Indexed %d new PDF files\n", n)
	}
	return nil
}

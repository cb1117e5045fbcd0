package main

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(reviewCmd)
}

var reviewCmd = &cobra.Command{
	Use:   "review <filename>",
	Short: "Display a paper's full record",
	Long: `Display one paper's full record, including tags and notes.

The argument is matched as a substring against indexed filenames and
must identify exactly one record; an ambiguous match lists the
candidates instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	rec, err := newEngine(cfg).ReviewOne(args[0])
	exitOnLookupError(err)

	if jsonOutput {
		return outputJSON(rec)
	}
	printRecordDetail(rec)
	return nil
}

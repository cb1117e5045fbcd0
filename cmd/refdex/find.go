package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find <keyword>...",
	Short: "Search records by filename keywords",
	Long: `Search records whose filename contains every given keyword.

Matching is case-sensitive substring matching; keywords combine with
AND. Results are ordered by filename descending, so year-prefixed
names list the newest papers first.

Examples:
  refdex find 2019 Bevacqua
  refdex find SciAdv Flooding`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	eng := newEngine(cfg)

	recs, err := eng.Find(args)
	exitOnLookupError(err)

	if jsonOutput {
		return outputJSON(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No matching records")
		return nil
	}
	fmt.Printf("Found %d records:\n\n", len(recs))
	printRecordList(recs)
	return nil
}

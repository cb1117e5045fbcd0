package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tagsCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags [tag]...",
	Short: "List tags or search records by tag",
	Long: `With no arguments, list every distinct tag with the number of
records carrying it. With arguments, list the records whose tag field
contains all given tags (substring AND matching).

Examples:
  refdex tags
  refdex tags unread
  refdex tags new favorite`,
	Args: cobra.ArbitraryArgs,
	RunE: runTags,
}

// TagCount pairs a tag with its record count for JSON output.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func runTags(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	eng := newEngine(cfg)

	if len(args) > 0 {
		recs, err := eng.FindByTags(args)
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

	counts, err := eng.TagCounts()
	exitOnLookupError(err)

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	if jsonOutput {
		out := make([]TagCount, 0, len(tags))
		for _, tag := range tags {
			out = append(out, TagCount{Tag: tag, Count: counts[tag]})
		}
		return outputJSON(out)
	}

	for _, tag := range tags {
		fmt.Printf("%-20s %d\n", tag, counts[tag])
	}
	return nil
}

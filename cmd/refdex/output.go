package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/eamonnk/refdex/internal/biblio"
	"github.com/eamonnk/refdex/internal/query"
	"github.com/eamonnk/refdex/internal/store"
)

const (
	// TitleMaxLen truncates long derived titles in list output.
	TitleMaxLen = 70
	// AuthorMaxCount limits authors shown in summaries.
	AuthorMaxCount = 3
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that perform a
// side effect.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		outputJSON(ErrorResponse{Error: msg})
	} else {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	os.Exit(code)
}

// exitOnLookupError maps the error taxonomy to exit codes and exits.
// Does nothing for a nil error.
func exitOnLookupError(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, store.ErrIndexNotFound):
		exitWithError(ExitConfigError, "%v (run 'refdex index build' first)", err)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, query.ErrAmbiguous):
		exitWithError(ExitLookupError, "%v", err)
	default:
		exitWithError(ExitError, "%v", err)
	}
}

// printRecordList prints numbered one-per-paper summaries.
func printRecordList(recs []biblio.Record) {
	for i, rec := range recs {
		printRecordSummary(i+1, rec)
	}
}

func printRecordSummary(num int, rec biblio.Record) {
	fmt.Printf("[%d] %s\n", num, rec.Filename)
	fmt.Printf("    %s\n", truncateString(rec.Title, TitleMaxLen))

	line := formatAuthorsShort(rec.Authors, AuthorMaxCount)
	if rec.Venue != "" {
		line += ", " + rec.Venue
	}
	if rec.Year != "" {
		line += " (" + rec.Year + ")"
	}
	fmt.Printf("    %s\n", line)

	if len(rec.Tags) > 0 {
		fmt.Printf("    tags: %s\n", biblio.JoinTags(rec.Tags))
	}
	fmt.Println()
}

// printRecordDetail prints the full record including notes.
func printRecordDetail(rec *biblio.Record) {
	fmt.Printf("File:    %s\n", rec.Filename)
	fmt.Printf("Title:   %s\n", rec.Title)
	fmt.Printf("Authors: %s\n", biblio.JoinAuthors(rec.Authors))
	fmt.Printf("Journal: %s\n", rec.Venue)
	fmt.Printf("Year:    %s\n", rec.Year)
	if rec.Issue != "" {
		fmt.Printf("Issue:   %s\n", rec.Issue)
	}
	if rec.Pages != "" {
		fmt.Printf("Pages:   %s\n", rec.Pages)
	}
	fmt.Printf("Tags:    %s\n", biblio.JoinTags(rec.Tags))

	fmt.Println("Notes:")
	fmt.Printf("  Question: %s\n", rec.Notes.KeyQuestion)
	fmt.Printf("  Results:  %s\n", rec.Notes.KeyResults)
	fmt.Printf("  Impact:   %s\n", rec.Notes.KeyImpact)
	for _, point := range rec.Notes.KeyPoints {
		fmt.Printf("  - %s\n", point)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort joins authors, abbreviating with "et al." past maxCount.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}

	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a)
	}

	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}

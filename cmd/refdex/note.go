package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(noteCmd)
}

var noteCmd = &cobra.Command{
	Use:   "note <filename>",
	Short: "Edit a paper's annotation record",
	Long: `Open the structured index in the configured editor with the cursor
positioned at the paper's entry, ready for annotating tags and notes.

The filename is matched as a substring against the index file's lines;
the first matching line wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runNote,
}

func runNote(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	st := newStore(cfg)

	line, err := st.Locate(args[0])
	exitOnLookupError(err)

	if err := newLauncher(cfg).EditAt(st.StructuredPath(), line); err != nil {
		exitWithError(ExitError, "opening editor: %v", err)
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "editing", Path: st.StructuredPath()})
	}
	fmt.Printf("Editing %s at line %d\n", st.StructuredPath(), line)
	return nil
}

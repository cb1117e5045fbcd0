package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mailCmd)
}

var mailCmd = &cobra.Command{
	Use:   "mail <filename>",
	Short: "Compose an email with a paper's PDF attached",
	Args:  cobra.ExactArgs(1),
	RunE:  runMail,
}

func runMail(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	rec, err := newEngine(cfg).ReviewOne(args[0])
	exitOnLookupError(err)

	launcher := newLauncher(cfg)
	fullPath, err := launcher.Resolve(rec.Filename)
	if err != nil {
		exitWithError(ExitLookupError, "%v", err)
	}

	if err := launcher.MailAttachment(fullPath); err != nil {
		exitWithError(ExitError, "composing mail: %v", err)
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "composing", Path: fullPath})
	}
	fmt.Printf("Composing mail with attachment: %s\n", rec.Filename)
	return nil
}

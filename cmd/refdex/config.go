package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eamonnk/refdex/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the effective configuration after merging environment
variables, the config file, and defaults.

Config file location: $XDG_CONFIG_HOME/refdex/config.yml
Environment overrides: REFDEX_PDF_DIR, REFDEX_INDEX_STRUCTURED,
REFDEX_INDEX_QUERYABLE, REFDEX_VIEWER, REFDEX_EDITOR.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the JSON form of the resolved configuration.
type ConfigResponse struct {
	PDFDir         string `json:"pdf_dir"`
	StructuredPath string `json:"index_structured"`
	QueryablePath  string `json:"index_queryable"`
	Viewer         string `json:"viewer,omitempty"`
	Editor         string `json:"editor,omitempty"`
	ConfigFile     string `json:"config_file,omitempty"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if jsonOutput {
		return outputJSON(ConfigResponse{
			PDFDir:         cfg.PDFDir,
			StructuredPath: cfg.StructuredPath,
			QueryablePath:  cfg.QueryablePath,
			Viewer:         cfg.Viewer,
			Editor:         cfg.Editor,
			ConfigFile:     config.Path(),
		})
	}

	fmt.Printf("pdf_dir:          %s\n", cfg.PDFDir)
	fmt.Printf("index_structured: %s\n", cfg.StructuredPath)
	fmt.Printf("index_queryable:  %s\n", cfg.QueryablePath)
	if cfg.Viewer != "" {
		fmt.Printf("viewer:           %s\n", cfg.Viewer)
	}
	if cfg.Editor != "" {
		fmt.Printf("editor:           %s\n", cfg.Editor)
	}
	fmt.Printf("config file:      %s\n", config.Path())
	return nil
}

// Package config resolves refdex configuration from the environment and
// an optional YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every path and command the components need. It is
// built once at startup and passed down explicitly; no component reads
// the environment on its own.
type Config struct {
	PDFDir         string `yaml:"pdf_dir"`          // Directory of managed PDFs (non-recursive)
	StructuredPath string `yaml:"index_structured"` // Human-editable YAML index
	QueryablePath  string `yaml:"index_queryable"`  // Derived SQLite index
	Viewer         string `yaml:"viewer,omitempty"` // PDF viewer command, empty = system default
	Editor         string `yaml:"editor,omitempty"` // Line-addressable editor, empty = $EDITOR
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refdex"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// Environment variables, highest precedence.
	EnvPDFDir     = "REFDEX_PDF_DIR"
	EnvStructured = "REFDEX_INDEX_STRUCTURED"
	EnvQueryable  = "REFDEX_INDEX_QUERYABLE"
	EnvViewer     = "REFDEX_VIEWER"
	EnvEditor     = "REFDEX_EDITOR"
)

// Path returns the location of the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refdex/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load builds the effective configuration. Precedence, highest first:
// environment variables (a .env file in the working directory is loaded
// into the environment beforehand), the YAML config file, built-in
// defaults. A missing config file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := loadFile(Path())
	if err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if cfg.PDFDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.PDFDir = filepath.Join(home, "Documents", "papers")
	}
	cfg.PDFDir = ExpandTilde(cfg.PDFDir)

	if cfg.StructuredPath == "" {
		cfg.StructuredPath = filepath.Join(cfg.PDFDir, "index.yml")
	}
	cfg.StructuredPath = ExpandTilde(cfg.StructuredPath)

	if cfg.QueryablePath == "" {
		cfg.QueryablePath = filepath.Join(cfg.PDFDir, "index.db")
	}
	cfg.QueryablePath = ExpandTilde(cfg.QueryablePath)

	return cfg, nil
}

// loadFile reads the YAML config file, returning an empty config when
// the file does not exist.
func loadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides config fields from environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvPDFDir); v != "" {
		cfg.PDFDir = v
	}
	if v := os.Getenv(EnvStructured); v != "" {
		cfg.StructuredPath = v
	}
	if v := os.Getenv(EnvQueryable); v != "" {
		cfg.QueryablePath = v
	}
	if v := os.Getenv(EnvViewer); v != "" {
		cfg.Viewer = v
	}
	if v := os.Getenv(EnvEditor); v != "" {
		cfg.Editor = v
	}
}

// ValidatePDFDir checks that the managed PDF directory exists.
func ValidatePDFDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("pdf directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("pdf directory is not a directory: %s", path)
	}
	return nil
}

// ExpandTilde expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}

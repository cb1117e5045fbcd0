// Package launch resolves PDF paths and starts the external
// collaborators: PDF viewer, file manager, line-addressable editor,
// and mail composer. Every launch is fire and forget: the child is
// started and never waited on, and its exit status is not observed.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Launcher starts external programs with the configured commands.
type Launcher struct {
	pdfDir string
	viewer string
	editor string
}

// New creates a Launcher. Empty viewer or editor fall back to the
// platform default and $EDITOR respectively.
func New(pdfDir, viewer, editor string) *Launcher {
	return &Launcher{pdfDir: pdfDir, viewer: viewer, editor: editor}
}

// Resolve turns an indexed base name into an absolute path inside the
// managed PDF directory, checking that the file exists.
func (l *Launcher) Resolve(filename string) (string, error) {
	if l.pdfDir == "" {
		return "", fmt.Errorf("pdf directory not configured")
	}
	if filename == "" {
		return "", fmt.Errorf("no filename specified")
	}

	fullPath := filepath.Join(l.pdfDir, filename)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("PDF not found: %s", fullPath)
		}
		return "", fmt.Errorf("checking PDF: %w", err)
	}

	return fullPath, nil
}

// OpenPDF opens a PDF in the configured viewer.
func (l *Launcher) OpenPDF(fullPath string) error {
	if l.viewer != "" {
		return start(exec.Command(l.viewer, fullPath))
	}

	switch runtime.GOOS {
	case "darwin":
		return start(exec.Command("open", fullPath))
	case "linux":
		return start(exec.Command("xdg-open", fullPath))
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Reveal shows the file in the system file manager.
func (l *Launcher) Reveal(fullPath string) error {
	switch runtime.GOOS {
	case "darwin":
		return start(exec.Command("open", "-R", fullPath))
	case "linux":
		return start(exec.Command("xdg-open", filepath.Dir(fullPath)))
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// EditAt opens the given file in the configured editor with the cursor
// positioned at a 1-based line, using the +<line> convention that vi,
// vim, nano, and emacs all understand.
func (l *Launcher) EditAt(path string, line int) error {
	editor := l.editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, fmt.Sprintf("+%d", line), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return start(cmd)
}

// MailAttachment opens the system mail composer with the file attached.
func (l *Launcher) MailAttachment(fullPath string) error {
	switch runtime.GOOS {
	case "darwin":
		return start(exec.Command("open", "-a", "Mail", fullPath))
	case "linux":
		return start(exec.Command("xdg-email", "--attach", fullPath))
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	return nil
}

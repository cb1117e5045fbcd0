// Package index synchronizes the on-disk PDF collection with the
// record store, either by full rebuild or incremental append.
package index

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eamonnk/refdex/internal/biblio"
	"github.com/eamonnk/refdex/internal/store"
)

var (
	// ErrAborted is returned when the user declines the rebuild.
	ErrAborted = errors.New("index build cancelled")
	// ErrInvalidAnswer is returned for a confirmation answer that is
	// neither affirmative nor negative.
	ErrInvalidAnswer = errors.New("unrecognized answer")
)

// Builder runs index builds and updates against one PDF directory and
// one store.
type Builder struct {
	pdfDir string
	store  *store.Store
}

// New creates a Builder. The PDF directory is scanned non-recursively.
func New(pdfDir string, st *store.Store) *Builder {
	return &Builder{pdfDir: pdfDir, store: st}
}

// Build destructively rebuilds the whole index: every existing record,
// including hand-written tags and notes, is discarded and replaced by
// freshly parsed records for the PDFs currently on disk.
//
// The confirmation gate runs strictly before any file is touched. Only
// "y"/"yes" proceeds; "n"/"no" returns ErrAborted; anything else
// returns ErrInvalidAnswer. Returns the number of indexed files.
func (b *Builder) Build(confirm io.Reader, prompt io.Writer) (int, error) {
	fmt.Fprint(prompt, "Rebuilding discards all existing tags and notes. Continue? [y/n] ")

	answer, err := readAnswer(confirm)
	if err != nil {
		return 0, err
	}
	switch answer {
	case "y", "yes":
	case "n", "no":
		return 0, ErrAborted
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAnswer, answer)
	}

	names, err := b.listPDFs()
	if err != nil {
		return 0, err
	}

	records := make([]biblio.Record, 0, len(names))
	for _, name := range names {
		records = append(records, biblio.Parse(name))
	}

	if err := b.store.WriteAll(records); err != nil {
		return 0, err
	}
	if _, err := b.store.Sync(); err != nil {
		return 0, err
	}

	return len(records), nil
}

// Update appends records for PDFs modified strictly after the current
// watermark (the queryable form's mtime) that are not yet indexed, then
// regenerates the queryable form. With nothing new it still syncs and
// reports zero. Tags and notes of existing records are untouched.
func (b *Builder) Update() (int, error) {
	names, err := b.listPDFs()
	if err != nil {
		return 0, err
	}

	mark, err := b.store.Watermark()
	if err != nil {
		return 0, err
	}

	existing, err := b.store.Filenames()
	if err != nil {
		if errors.Is(err, store.ErrIndexNotFound) {
			return 0, fmt.Errorf("%w (run index build first)", err)
		}
		return 0, err
	}

	var fresh []biblio.Record
	for _, name := range names {
		if existing[name] {
			continue
		}
		info, err := os.Stat(filepath.Join(b.pdfDir, name))
		if err != nil {
			return 0, fmt.Errorf("stat %s: %w", name, err)
		}
		if info.ModTime().After(mark) {
			fresh = append(fresh, biblio.Parse(name))
		}
	}

	if len(fresh) > 0 {
		if err := b.store.Append(fresh); err != nil {
			return 0, err
		}
	}

	if _, err := b.store.Sync(); err != nil {
		return 0, err
	}

	return len(fresh), nil
}

// listPDFs enumerates PDF base names in the managed directory, in
// directory enumeration order. A missing directory is fatal.
func (b *Builder) listPDFs() ([]string, error) {
	entries, err := os.ReadDir(b.pdfDir)
	if err != nil {
		return nil, fmt.Errorf("reading pdf directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// readAnswer reads one trimmed, lowercased line.
func readAnswer(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", fmt.Errorf("%w: no answer", ErrInvalidAnswer)
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())), nil
}

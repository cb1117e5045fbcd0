// Package store manages the dual-form record store: a human-editable
// YAML index file that is the source of truth, and a SQLite database
// derived from it for queries.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eamonnk/refdex/internal/biblio"
)

var (
	// ErrIndexNotFound is returned when the index has not been built yet.
	ErrIndexNotFound = errors.New("index not found")
	// ErrNotFound is returned when a filename lookup matches nothing.
	ErrNotFound = errors.New("not found")
)

// Store reads and writes the two persisted index forms. The structured
// YAML file is authoritative; the SQLite file is a regenerable cache.
// No cross-process locking is provided: concurrent writers may race,
// which is accepted for a single-user local tool.
type Store struct {
	structuredPath string
	queryablePath  string
}

// New creates a Store over the given structured and queryable paths.
func New(structuredPath, queryablePath string) *Store {
	return &Store{
		structuredPath: structuredPath,
		queryablePath:  queryablePath,
	}
}

// StructuredPath returns the path of the human-editable YAML index.
func (s *Store) StructuredPath() string {
	return s.structuredPath
}

// QueryablePath returns the path of the derived SQLite index.
func (s *Store) QueryablePath() string {
	return s.queryablePath
}

// ReadAll parses the structured form and returns all records in stored
// (append) order. A missing file yields ErrIndexNotFound.
func (s *Store) ReadAll() ([]biblio.Record, error) {
	data, err := os.ReadFile(s.structuredPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, s.structuredPath)
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	return decodeIndex(data)
}

// Append renders the given records and appends them to the structured
// form. Prior entries are never rewritten: the file is opened in append
// mode, so a crash mid-write cannot truncate existing records. The file
// is created with the document header when absent.
func (s *Store) Append(records []biblio.Record) error {
	f, err := os.OpenFile(s.structuredPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening index for append: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat index: %w", err)
	}

	var buf strings.Builder
	if info.Size() == 0 {
		buf.WriteString(indexHeader)
	}
	for i := range records {
		renderEntry(&buf, records[i])
	}

	if _, err := f.WriteString(buf.String()); err != nil {
		return fmt.Errorf("appending records: %w", err)
	}
	return nil
}

// WriteAll replaces the entire structured form with the given records.
// The rewrite goes through a temp file and rename so an interrupted
// write leaves the previous index intact. Only the destructive index
// build uses this.
func (s *Store) WriteAll(records []biblio.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.structuredPath), ".tmp-index-*.yml")
	if err != nil {
		return fmt.Errorf("creating temp index: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	var buf strings.Builder
	buf.WriteString(indexHeader)
	for i := range records {
		renderEntry(&buf, records[i])
	}

	if _, err := tmp.WriteString(buf.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp index: %w", err)
	}

	if err := os.Rename(tmpPath, s.structuredPath); err != nil {
		return fmt.Errorf("replacing index: %w", err)
	}

	success = true
	return nil
}

// Filenames returns the set of filenames already present in the
// structured form.
func (s *Store) Filenames() (map[string]bool, error) {
	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		seen[rec.Filename] = true
	}
	return seen, nil
}

// Locate returns the 1-based line number of the first line in the
// structured form containing filename as a substring, for use by a
// line-addressable editor. If filename also occurs in an unrelated
// field, the first occurrence wins; callers that need record identity
// should resolve through the query engine instead.
func (s *Store) Locate(filename string) (int, error) {
	f, err := os.Open(s.structuredPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrIndexNotFound, s.structuredPath)
		}
		return 0, fmt.Errorf("opening index: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if strings.Contains(scanner.Text(), filename) {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanning index: %w", err)
	}

	return 0, fmt.Errorf("%w: %s", ErrNotFound, filename)
}

// Watermark returns the modification time of the queryable form, the
// sync cursor for incremental updates. A missing queryable form yields
// the zero time, so every file counts as new.
func (s *Store) Watermark() (time.Time, error) {
	info, err := os.Stat(s.queryablePath)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("stat queryable index: %w", err)
	}
	return info.ModTime(), nil
}

// Package query answers read-only searches against the queryable form
// of the record store.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eamonnk/refdex/internal/biblio"
	"github.com/eamonnk/refdex/internal/store"
)

// ErrAmbiguous is returned when a single-record lookup matches more
// than one record.
var ErrAmbiguous = errors.New("ambiguous filename")

// Engine runs searches over the queryable form. It never writes.
type Engine struct {
	store *store.Store
}

// New creates an Engine over the given store.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Find returns every record whose filename contains all keywords as
// case-sensitive substrings, ordered by filename descending so that
// year-prefixed names surface the newest papers first.
func (e *Engine) Find(keywords []string) ([]biblio.Record, error) {
	return e.findBySubstrings("filename", keywords)
}

// FindByTags returns every record whose stored tag field contains all
// given tags as substrings.
func (e *Engine) FindByTags(tags []string) ([]biblio.Record, error) {
	return e.findBySubstrings("tags", tags)
}

// findBySubstrings matches conjunctively against one column.
func (e *Engine) findBySubstrings(column string, terms []string) ([]biblio.Record, error) {
	db, err := e.store.QueryDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var conds []string
	var args []any
	for _, term := range terms {
		conds = append(conds, fmt.Sprintf("instr(%s, ?) > 0", column))
		args = append(args, term)
	}

	q := "SELECT " + store.SelectPaperFields + " FROM papers"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY filename DESC"

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return store.ScanPapers(rows)
}

// ReviewOne returns the single record whose filename contains the
// given substring. No match yields ErrNotFound; several matches yield
// ErrAmbiguous naming the candidates, so the caller can narrow the
// substring rather than act on an arbitrary record.
func (e *Engine) ReviewOne(substr string) (*biblio.Record, error) {
	db, err := e.store.QueryDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		"SELECT "+store.SelectPaperFields+" FROM papers WHERE instr(filename, ?) > 0 ORDER BY position",
		substr,
	)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	matches, err := store.ScanPapers(rows)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, substr)
	case 1:
		return &matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Filename
		}
		return nil, fmt.Errorf("%w %q: matches %s", ErrAmbiguous, substr, strings.Join(names, ", "))
	}
}

// TagCounts returns how many records carry each distinct tag. A tag is
// counted once per record however often it appears in the stored field.
func (e *Engine) TagCounts() (map[string]int, error) {
	db, err := e.store.QueryDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT tags FROM papers")
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var field string
		if err := rows.Scan(&field); err != nil {
			return nil, fmt.Errorf("scanning tags: %w", err)
		}

		seen := make(map[string]bool)
		for _, tag := range biblio.SplitTags(field) {
			if !seen[tag] {
				seen[tag] = true
				counts[tag]++
			}
		}
	}
	return counts, rows.Err()
}

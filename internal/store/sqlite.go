package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eamonnk/refdex/internal/biblio"
)

// SelectPaperFields is the standard field list for SELECT queries,
// aligned with ScanPapers.
const SelectPaperFields = `filename, title, authors, journal, year,
	issue, pages, tags,
	key_question, key_results, key_impact, key_points_json`

// schema for the queryable form. One row per record; authors and tags
// keep their stored comma-separated shape so substring matching works
// the same way as against the structured form.
const schemaDDL = `
	CREATE TABLE IF NOT EXISTS papers (
		filename TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		journal TEXT,
		year TEXT,
		issue TEXT,
		pages TEXT,
		tags TEXT,
		key_question TEXT,
		key_results TEXT,
		key_impact TEXT,
		key_points_json TEXT,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS _meta (
		key TEXT PRIMARY KEY,
		value TEXT
	);
`

// openDB opens a SQLite database at the given path.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	return db, nil
}

// QueryDB opens the queryable form read-only for the query engine.
// A missing database means no index has been built.
func (s *Store) QueryDB() (*sql.DB, error) {
	if _, err := os.Stat(s.queryablePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, s.queryablePath)
		}
		return nil, fmt.Errorf("stat queryable index: %w", err)
	}
	return openDB(s.queryablePath)
}

// Sync regenerates the queryable form from the structured form in full.
// The rebuild happens in a fresh database which then replaces the old
// one by rename, so the queryable form is always either the previous
// complete projection or the new one. Returns the record count.
func (s *Store) Sync() (int, error) {
	records, err := s.ReadAll()
	if err != nil {
		return 0, err
	}

	hash, err := ComputeSourceHash(s.structuredPath)
	if err != nil {
		return 0, fmt.Errorf("hashing index: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.queryablePath), ".tmp-index-*.db")
	if err != nil {
		return 0, fmt.Errorf("creating temp database: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	db, err := openDB(tmpPath)
	if err != nil {
		return 0, err
	}

	if err := buildQueryable(db, records, hash); err != nil {
		db.Close()
		return 0, err
	}
	if err := db.Close(); err != nil {
		return 0, fmt.Errorf("closing database: %w", err)
	}

	if err := os.Rename(tmpPath, s.queryablePath); err != nil {
		return 0, fmt.Errorf("replacing queryable index: %w", err)
	}

	success = true
	return len(records), nil
}

// buildQueryable creates the schema and inserts all records.
func buildQueryable(db *sql.DB, records []biblio.Record, hash string) error {
	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	stmt, err := db.Prepare(`
		INSERT INTO papers (
			filename, title, authors, journal, year,
			issue, pages, tags,
			key_question, key_results, key_impact, key_points_json,
			position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		points, err := json.Marshal(rec.Notes.KeyPoints)
		if err != nil {
			return fmt.Errorf("encoding key points for %s: %w", rec.Filename, err)
		}

		_, err = stmt.Exec(
			rec.Filename, rec.Title, biblio.JoinAuthors(rec.Authors), rec.Venue, rec.Year,
			rec.Issue, rec.Pages, biblio.JoinTags(rec.Tags),
			rec.Notes.KeyQuestion, rec.Notes.KeyResults, rec.Notes.KeyImpact, string(points),
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", rec.Filename, err)
		}
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('source_hash', ?)`, hash); err != nil {
		return fmt.Errorf("storing source hash: %w", err)
	}

	return nil
}

// NeedsSync reports whether the queryable form is stale relative to the
// structured form.
func (s *Store) NeedsSync() (bool, error) {
	currentHash, err := ComputeSourceHash(s.structuredPath)
	if err != nil {
		return true, err
	}

	db, err := s.QueryDB()
	if err != nil {
		return true, nil // No queryable form yet
	}
	defer db.Close()

	var stored sql.NullString
	err = db.QueryRow(`SELECT value FROM _meta WHERE key = 'source_hash'`).Scan(&stored)
	if err == sql.ErrNoRows || !stored.Valid {
		return true, nil
	}
	if err != nil {
		return true, err
	}

	return currentHash != stored.String, nil
}

// ComputeSourceHash computes a SHA256 hash of the structured form's
// contents. A missing file hashes as empty.
func ComputeSourceHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256([]byte{})
			return hex.EncodeToString(h[:]), nil
		}
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ScanPapers converts rows selected with SelectPaperFields to records.
func ScanPapers(rows *sql.Rows) ([]biblio.Record, error) {
	var records []biblio.Record
	for rows.Next() {
		var p struct {
			filename, title, authors, journal, year string
			issue, pages, tags                      string
			keyQuestion, keyResults, keyImpact      string
			keyPointsJSON                           string
		}
		err := rows.Scan(
			&p.filename, &p.title, &p.authors, &p.journal, &p.year,
			&p.issue, &p.pages, &p.tags,
			&p.keyQuestion, &p.keyResults, &p.keyImpact, &p.keyPointsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		var points []string
		if p.keyPointsJSON != "" {
			if err := json.Unmarshal([]byte(p.keyPointsJSON), &points); err != nil {
				return nil, fmt.Errorf("decoding key points for %s: %w", p.filename, err)
			}
		}
		if len(points) == 0 {
			points = nil
		}

		records = append(records, biblio.Record{
			Filename: p.filename,
			Title:    p.title,
			Authors:  biblio.SplitAuthors(p.authors),
			Venue:    p.journal,
			Year:     p.year,
			Issue:    p.issue,
			Pages:    p.pages,
			Tags:     biblio.SplitTags(p.tags),
			Notes: biblio.Notes{
				KeyQuestion: p.keyQuestion,
				KeyResults:  p.keyResults,
				KeyImpact:   p.keyImpact,
				KeyPoints:   points,
			},
		})
	}
	return records, rows.Err()
}

package index

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eamonnk/refdex/internal/store"
)

func setup(t *testing.T) (string, *store.Store, *Builder) {
	t.Helper()
	pdfDir := t.TempDir()
	stateDir := t.TempDir()
	st := store.New(filepath.Join(stateDir, "index.yml"), filepath.Join(stateDir, "index.db"))
	return pdfDir, st, New(pdfDir, st)
}

func addPDF(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuild(t *testing.T) {
	pdfDir, st, b := setup(t)
	addPDF(t, pdfDir, "2019_Bevacqua_etal_SciAdv_Flooding.pdf")
	addPDF(t, pdfDir, "2021_Smith_Nature_Heatwaves.pdf")
	addPDF(t, pdfDir, "notes.txt") // Ignored: not a PDF

	n, err := b.Build(strings.NewReader("y\n"), io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n != 2 {
		t.Errorf("Build indexed %d files, want 2", n)
	}

	recs, err := st.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("store holds %d records, want 2", len(recs))
	}
	if recs[0].Year != "2019" || recs[0].Venue != "SciAdv" {
		t.Errorf("first record not parsed: %+v", recs[0])
	}
}

func TestBuildDeclined(t *testing.T) {
	pdfDir, st, b := setup(t)
	addPDF(t, pdfDir, "2019_A_B_C.pdf")

	_, err := b.Build(strings.NewReader("n\n"), io.Discard)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	// Declining must leave the store untouched.
	if _, err := os.Stat(st.StructuredPath()); !os.IsNotExist(err) {
		t.Error("declined build still wrote the structured form")
	}
}

func TestBuildInvalidAnswer(t *testing.T) {
	pdfDir, st, b := setup(t)
	addPDF(t, pdfDir, "2019_A_B_C.pdf")

	_, err := b.Build(strings.NewReader("maybe\n"), io.Discard)
	if !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
	if _, err := os.Stat(st.StructuredPath()); !os.IsNotExist(err) {
		t.Error("aborted build still wrote the structured form")
	}
}

func TestBuildPreservesExistingOnDecline(t *testing.T) {
	pdfDir, st, b := setup(t)
	addPDF(t, pdfDir, "2019_A_B_C.pdf")

	if _, err := b.Build(strings.NewReader("yes\n"), io.Discard); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(st.StructuredPath())
	if err != nil {
		t.Fatal(err)
	}

	addPDF(t, pdfDir, "2020_D_E_F.pdf")
	if _, err := b.Build(strings.NewReader("no\n"), io.Discard); !errors.Is(err, ErrAborted) {
		t.Fatal(err)
	}

	after, err := os.ReadFile(st.StructuredPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("declined rebuild modified the structured form")
	}
}

func TestBuildMissingDirectory(t *testing.T) {
	stateDir := t.TempDir()
	st := store.New(filepath.Join(stateDir, "index.yml"), filepath.Join(stateDir, "index.db"))
	b := New(filepath.Join(stateDir, "no-such-dir"), st)

	if _, err := b.Build(strings.NewReader("y\n"), io.Discard); err == nil {
		t.Error("expected error for missing pdf directory")
	}
	if _, err := b.Update(); err == nil {
		t.Error("expected error for missing pdf directory")
	}
}

func TestUpdateIncremental(t *testing.T) {
	pdfDir, st, b := setup(t)
	addPDF(t, pdfDir, "2019_A_B_C.pdf")

	if _, err := b.Build(strings.NewReader("y\n"), io.Discard); err != nil {
		t.Fatal(err)
	}

	// Nothing new: a second update appends zero records.
	n, err := b.Update()
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n != 0 {
		t.Errorf("no-op Update appended %d records", n)
	}

	// A file newer than the watermark gets appended exactly once.
	addPDF(t, pdfDir, "2022_X_Y_Z.pdf")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(pdfDir, "2022_X_Y_Z.pdf"), future, future); err != nil {
		t.Fatal(err)
	}

	n, err = b.Update()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Update appended %d records, want 1", n)
	}

	n, err = b.Update()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("repeated Update appended %d records, want 0", n)
	}

	recs, err := st.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("store holds %d records, want 2", len(recs))
	}
}

func TestUpdatePreservesHandEdits(t *testing.T) {
	pdfDir, st, b := setup(t)
	addPDF(t, pdfDir, "2019_A_B_C.pdf")
	if _, err := b.Build(strings.NewReader("y\n"), io.Discard); err != nil {
		t.Fatal(err)
	}

	// Simulate a hand edit: mark the record read.
	data, err := os.ReadFile(st.StructuredPath())
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), "Tags: new, unread", "Tags: read", 1)
	if err := os.WriteFile(st.StructuredPath(), []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}

	addPDF(t, pdfDir, "2022_X_Y_Z.pdf")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(pdfDir, "2022_X_Y_Z.pdf"), future, future); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Update(); err != nil {
		t.Fatal(err)
	}

	recs, err := st.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("store holds %d records, want 2", len(recs))
	}
	if len(recs[0].Tags) != 1 || recs[0].Tags[0] != "read" {
		t.Errorf("update lost hand-edited tags: %v", recs[0].Tags)
	}
}

func TestUpdateWithoutBuild(t *testing.T) {
	pdfDir, _, b := setup(t)
	addPDF(t, pdfDir, "2019_A_B_C.pdf")

	if _, err := b.Update(); !errors.Is(err, store.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

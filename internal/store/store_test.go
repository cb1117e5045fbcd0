package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/eamonnk/refdex/internal/biblio"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "index.yml"), filepath.Join(dir, "index.db"))
}

func sampleRecords() []biblio.Record {
	return []biblio.Record{
		biblio.Parse("2019_Bevacqua_etal_SciAdv_CompoundFloodingStormSurgeEuropeClimateChange.pdf"),
		biblio.Parse("2021_Smith_Nature_Heatwaves.pdf"),
	}
}

func TestReadAllMissing(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.ReadAll(); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestAppendAndReadAll(t *testing.T) {
	st := newTestStore(t)
	recs := sampleRecords()

	if err := st.Append(recs); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := st.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !reflect.DeepEqual(got, recs) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, recs)
	}
}

func TestAppendNeverRewritesPriorEntries(t *testing.T) {
	st := newTestStore(t)
	recs := sampleRecords()

	if err := st.Append(recs[:1]); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	before, err := os.ReadFile(st.StructuredPath())
	if err != nil {
		t.Fatal(err)
	}

	if err := st.Append(recs[1:]); err != nil {
		t.Fatalf("second Append: %v", err)
	}
	after, err := os.ReadFile(st.StructuredPath())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(after), string(before)) {
		t.Error("second append modified previously written bytes")
	}

	// A then B equals appending both at once.
	st2 := newTestStore(t)
	if err := st2.Append(recs); err != nil {
		t.Fatal(err)
	}
	all, err := os.ReadFile(st2.StructuredPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(all) {
		t.Error("incremental appends diverge from a single append")
	}
}

func TestWriteAllReplaces(t *testing.T) {
	st := newTestStore(t)
	if err := st.Append(sampleRecords()); err != nil {
		t.Fatal(err)
	}

	replacement := []biblio.Record{biblio.Parse("1997_Mantua_BAMS_PDO.pdf")}
	if err := st.WriteAll(replacement); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	got, err := st.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Filename != "1997_Mantua_BAMS_PDO.pdf" {
		t.Errorf("unexpected records after WriteAll: %+v", got)
	}
}

func TestLocate(t *testing.T) {
	st := newTestStore(t)
	recs := sampleRecords()
	if err := st.Append(recs); err != nil {
		t.Fatal(err)
	}

	// Header is line 1, first entry opens at line 2, PDF_file at line 3.
	line, err := st.Locate(recs[0].Filename)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if line != 3 {
		t.Errorf("Locate line = %d, want 3", line)
	}

	// Second entry sits after the 14 lines of the first.
	line, err = st.Locate(recs[1].Filename)
	if err != nil {
		t.Fatalf("Locate second: %v", err)
	}
	if line != 17 {
		t.Errorf("Locate second line = %d, want 17", line)
	}

	if _, err := st.Locate("2020_Nobody_Nowhere_Nothing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncAndNeedsSync(t *testing.T) {
	st := newTestStore(t)
	recs := sampleRecords()
	if err := st.Append(recs); err != nil {
		t.Fatal(err)
	}

	n, err := st.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n != len(recs) {
		t.Errorf("Sync count = %d, want %d", n, len(recs))
	}

	stale, err := st.NeedsSync()
	if err != nil {
		t.Fatalf("NeedsSync: %v", err)
	}
	if stale {
		t.Error("store stale immediately after Sync")
	}

	if err := st.Append([]biblio.Record{biblio.Parse("2022_Lee_GRL_Jetstream.pdf")}); err != nil {
		t.Fatal(err)
	}
	stale, err = st.NeedsSync()
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("store not stale after append without sync")
	}
}

func TestSyncIdempotent(t *testing.T) {
	st := newTestStore(t)
	if err := st.Append(sampleRecords()); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Sync(); err != nil {
		t.Fatal(err)
	}
	first := queryAll(t, st)

	if _, err := st.Sync(); err != nil {
		t.Fatal(err)
	}
	second := queryAll(t, st)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Sync changed the queryable projection")
	}
}

func TestSyncMissingStructured(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.Sync(); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestWatermark(t *testing.T) {
	st := newTestStore(t)

	mark, err := st.Watermark()
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if !mark.IsZero() {
		t.Error("missing queryable form should yield zero watermark")
	}

	if err := st.Append(sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Sync(); err != nil {
		t.Fatal(err)
	}

	mark, err = st.Watermark()
	if err != nil {
		t.Fatal(err)
	}
	if mark.IsZero() {
		t.Error("watermark still zero after Sync")
	}
}

func queryAll(t *testing.T, st *Store) []biblio.Record {
	t.Helper()
	db, err := st.QueryDB()
	if err != nil {
		t.Fatalf("QueryDB: %v", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT " + SelectPaperFields + " FROM papers ORDER BY position")
	if err != nil {
		t.Fatalf("querying papers: %v", err)
	}
	defer rows.Close()

	recs, err := ScanPapers(rows)
	if err != nil {
		t.Fatalf("scanning papers: %v", err)
	}
	return recs
}

func TestRoundTripAwkwardScalars(t *testing.T) {
	st := newTestStore(t)

	// Legal filenames can yield tokens YAML mistakes for syntax or
	// numbers; rendering must quote them so the index stays parseable.
	recs := []biblio.Record{
		biblio.Parse("2019_A_B_C:.pdf"),       // Trailing-colon title token
		biblio.Parse("2020_Ed_Tech_0x1F.pdf"), // Hex-integer title token
	}
	recs[1].Notes.KeyPoints = []string{"claim ends with colon:", "0o17"}

	if err := st.Append(recs); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := st.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll after Append: %v", err)
	}
	if !reflect.DeepEqual(got, recs) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, recs)
	}
}

func TestYamlScalarQuoting(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SciAdv", "SciAdv"},
		{"new, unread", "new, unread"},
		{"2019_A_B_C:.pdf", "2019_A_B_C:.pdf"}, // Colon mid-string is fine plain
		{"", `""`},
		{"C:", `"C:"`},
		{"0x1F", `"0x1F"`},
		{"0o17", `"0o17"`},
		{"0b11", `"0b11"`},
		{"3.14", `"3.14"`},
		{"true", `"true"`},
		{"- leading dash", `"- leading dash"`},
	}

	for _, tt := range tests {
		if got := yamlScalar(tt.in); got != tt.want {
			t.Errorf("yamlScalar(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDecodeHandEditedEntry(t *testing.T) {
	// Hand edits may use YAML styles the renderer never emits.
	data := `Index:
- Paper:
    PDF_file: 2018_Doe_JClim_Monsoon.pdf
    Title: Monsoon
    Authors: "Doe"
    Journal: JClim
    Year: 2018
    Issue: "3"
    Pages: 10-22
    Tags: read, favorite
    Notes:
      Key_Question: How does X affect Y?
      Key_Results: ""
      Key_Impact: ""
      Key_Points:
      - first point
      - second point
`
	recs, err := decodeIndex([]byte(data))
	if err != nil {
		t.Fatalf("decodeIndex: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records", len(recs))
	}
	rec := recs[0]
	if rec.Year != "2018" {
		t.Errorf("unquoted year decoded as %q", rec.Year)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"read", "favorite"}) {
		t.Errorf("tags = %v", rec.Tags)
	}
	if !reflect.DeepEqual(rec.Notes.KeyPoints, []string{"first point", "second point"}) {
		t.Errorf("key points = %v", rec.Notes.KeyPoints)
	}
}

package store

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eamonnk/refdex/internal/biblio"
)

// indexHeader opens the structured document. Everything after it is a
// sequence of Paper entries in append order.
const indexHeader = "Index:\n"

// Wire shape of the structured YAML form. Authors and Tags are stored
// as comma-separated strings so the file stays pleasant to hand-edit.
type indexDoc struct {
	Index []entryDoc `yaml:"Index"`
}

type entryDoc struct {
	Paper paperDoc `yaml:"Paper"`
}

type paperDoc struct {
	PDFFile string     `yaml:"PDF_file"`
	Title   string     `yaml:"Title"`
	Authors string     `yaml:"Authors"`
	Journal string     `yaml:"Journal"`
	Year    looseValue `yaml:"Year"`
	Issue   looseValue `yaml:"Issue"`
	Pages   looseValue `yaml:"Pages"`
	Tags    string     `yaml:"Tags"`
	Notes   notesDoc   `yaml:"Notes"`
}

// looseValue decodes any YAML scalar as its literal text. Hand edits
// often leave years, issues, and page ranges unquoted, which YAML would
// otherwise type as integers and refuse to unmarshal into a string.
type looseValue string

func (v *looseValue) UnmarshalYAML(node *yaml.Node) error {
	*v = looseValue(node.Value)
	return nil
}

type notesDoc struct {
	KeyQuestion string   `yaml:"Key_Question"`
	KeyResults  string   `yaml:"Key_Results"`
	KeyImpact   string   `yaml:"Key_Impact"`
	KeyPoints   []string `yaml:"Key_Points"`
}

// decodeIndex parses the structured form into records, preserving
// stored order.
func decodeIndex(data []byte) ([]biblio.Record, error) {
	var doc indexDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}

	records := make([]biblio.Record, 0, len(doc.Index))
	for _, entry := range doc.Index {
		p := entry.Paper
		points := p.Notes.KeyPoints
		if len(points) == 0 {
			points = nil
		}
		records = append(records, biblio.Record{
			Filename: p.PDFFile,
			Title:    p.Title,
			Authors:  biblio.SplitAuthors(p.Authors),
			Venue:    p.Journal,
			Year:     string(p.Year),
			Issue:    string(p.Issue),
			Pages:    string(p.Pages),
			Tags:     biblio.SplitTags(p.Tags),
			Notes: biblio.Notes{
				KeyQuestion: p.Notes.KeyQuestion,
				KeyResults:  p.Notes.KeyResults,
				KeyImpact:   p.Notes.KeyImpact,
				KeyPoints:   points,
			},
		})
	}
	return records, nil
}

// renderEntry writes one Paper entry in the fixed field order and
// indentation the whole system relies on. Line-addressed editing and
// append-only writes both assume this layout never shifts, so the
// rendering is hand-rolled rather than delegated to yaml.Marshal.
func renderEntry(buf *strings.Builder, rec biblio.Record) {
	buf.WriteString("- Paper:\n")
	fmt.Fprintf(buf, "    PDF_file: %s\n", yamlScalar(rec.Filename))
	fmt.Fprintf(buf, "    Title: %s\n", yamlScalar(rec.Title))
	fmt.Fprintf(buf, "    Authors: %s\n", yamlScalar(biblio.JoinAuthors(rec.Authors)))
	fmt.Fprintf(buf, "    Journal: %s\n", yamlScalar(rec.Venue))
	fmt.Fprintf(buf, "    Year: %s\n", strconv.Quote(rec.Year))
	fmt.Fprintf(buf, "    Issue: %s\n", yamlScalar(rec.Issue))
	fmt.Fprintf(buf, "    Pages: %s\n", yamlScalar(rec.Pages))
	fmt.Fprintf(buf, "    Tags: %s\n", yamlScalar(biblio.JoinTags(rec.Tags)))
	buf.WriteString("    Notes:\n")
	fmt.Fprintf(buf, "      Key_Question: %s\n", yamlScalar(rec.Notes.KeyQuestion))
	fmt.Fprintf(buf, "      Key_Results: %s\n", yamlScalar(rec.Notes.KeyResults))
	fmt.Fprintf(buf, "      Key_Impact: %s\n", yamlScalar(rec.Notes.KeyImpact))
	if len(rec.Notes.KeyPoints) == 0 {
		buf.WriteString("      Key_Points: []\n")
	} else {
		buf.WriteString("      Key_Points:\n")
		for _, point := range rec.Notes.KeyPoints {
			fmt.Fprintf(buf, "      - %s\n", yamlScalar(point))
		}
	}
}

// yamlScalar renders a string value, quoting only when the plain style
// would be ambiguous. Filenames and comma-joined lists stay unquoted.
//
// Quoting uses strconv.Quote: Go's double-quote escapes (\n, \t, \\,
// \", \xHH, \uHHHH, \UHHHHHHHH) are all valid YAML double-quote
// escapes as well, so the quoted form decodes back to the same string.
func yamlScalar(s string) string {
	if s == "" {
		return `""`
	}
	if plainSafe(s) {
		return s
	}
	return strconv.Quote(s)
}

// plainSafe reports whether s can be written as a YAML plain scalar
// without changing meaning.
func plainSafe(s string) bool {
	if strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		return false
	}
	switch s[0] {
	case '-', '?', ':', ',', '[', ']', '{', '}', '#', '&', '*', '!', '|',
		'>', '\'', '"', '%', '@', '`':
		return false
	}
	// A trailing colon would read as a mapping key.
	if s[len(s)-1] == ':' {
		return false
	}
	// Values that YAML would type-convert away from string.
	switch strings.ToLower(s) {
	case "true", "false", "null", "~", "yes", "no", "on", "off":
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	// Non-decimal integer forms (0x1F, 0o17, 0b11).
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return false
	}
	if strings.ContainsAny(s, "\n\t") {
		return false
	}
	if strings.Contains(s, ": ") || strings.Contains(s, " #") {
		return false
	}
	return true
}

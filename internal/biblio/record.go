// Package biblio defines the bibliographic record type and the filename
// parsing rules that derive records from structured PDF file names.
package biblio

import "strings"

// Record represents one indexed paper, keyed by its PDF file name.
type Record struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Venue    string   `json:"venue"`
	Year     string   `json:"year"` // Raw leading token, not validated as numeric
	Issue    string   `json:"issue,omitempty"`
	Pages    string   `json:"pages,omitempty"`
	Tags     []string `json:"tags"`
	Notes    Notes    `json:"notes"`
}

// Notes holds the free-form annotation fields for a record.
type Notes struct {
	KeyQuestion string   `json:"key_question"`
	KeyResults  string   `json:"key_results"`
	KeyImpact   string   `json:"key_impact"`
	KeyPoints   []string `json:"key_points"`
}

// DefaultTags are assigned to every freshly parsed record.
var DefaultTags = []string{"new", "unread"}

// JoinAuthors renders an author list in the stored comma-separated form.
func JoinAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}

// JoinAuthorsFilename renders an author list in the underscore-separated
// filename form.
func JoinAuthorsFilename(authors []string) string {
	return strings.Join(authors, fieldSep)
}

// SplitAuthors parses the stored comma-separated author form back into
// an ordered list. Empty elements are dropped.
func SplitAuthors(s string) []string {
	var authors []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			authors = append(authors, part)
		}
	}
	return authors
}

// JoinTags renders a tag list in the stored comma-separated form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// SplitTags parses a stored tag field, splitting on commas and
// whitespace and dropping empty elements.
func SplitTags(s string) []string {
	var tags []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

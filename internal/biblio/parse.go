package biblio

import (
	"path/filepath"
	"strings"
)

// fieldSep separates the metadata tokens inside a file name. Tokens that
// themselves contain an underscore cannot be represented.
const fieldSep = "_"

// Parse derives a Record from a PDF base name of the form
// <year>_<author>[_<author>...]_<venue>_<title>.pdf.
//
// The leading token becomes the year, the trailing token the title, the
// token before it the venue, and everything in between the author list.
// Parse never fails: a name with fewer tokens yields a record with the
// unresolvable fields left blank.
func Parse(basename string) Record {
	rec := Record{
		Filename: basename,
		Tags:     append([]string(nil), DefaultTags...),
	}

	stem := strings.TrimSuffix(basename, filepath.Ext(basename))
	tokens := strings.Split(stem, fieldSep)

	rec.Year = tokens[0]
	tokens = tokens[1:]

	if len(tokens) > 0 {
		rec.Title = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > 0 {
		rec.Venue = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > 0 {
		rec.Authors = append([]string(nil), tokens...)
	}

	return rec
}

// Package pdfmeta extracts metadata from PDF file contents.
package pdfmeta

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches DOIs of the form 10.<registrant>/<suffix>.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// doiScanPages limits the scan; the DOI is almost always on page 1.
const doiScanPages = 3

// ExtractDOI scans the first pages of a PDF for a DOI. An absent DOI
// is reported as an empty string, not an error.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := doiScanPages
	if r.NumPage() < pages {
		pages = r.NumPage()
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // Unextractable page, keep looking
		}

		for _, match := range doiPattern.FindAllString(text, -1) {
			match = strings.TrimRight(match, ".,;:)")
			if plausibleDOI(match) {
				return match, nil
			}
		}
	}

	return "", nil
}

// plausibleDOI filters out regex matches that cannot be real DOIs.
func plausibleDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}

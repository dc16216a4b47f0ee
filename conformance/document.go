package conformance

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Markdown documents carry their results table between these two markers.
const (
	BeginTableMarker = "<!-- BEGIN CONFORMANCE TABLE -->"
	EndTableMarker   = "<!-- END CONFORMANCE TABLE -->"
)

// ErrMissingMarkers is returned when a document does not contain a usable
// marker pair.
var ErrMissingMarkers = errors.New("conformance table markers not found")

// CurrentTable returns the trimmed text between the document's first marker
// pair. ok is false when either marker is missing or they are reversed.
func CurrentTable(doc string) (table string, ok bool) {
	start := strings.Index(doc, BeginTableMarker)
	end := strings.Index(doc, EndTableMarker)
	if start == -1 || end == -1 || end < start+len(BeginTableMarker) {
		return "", false
	}
	return strings.TrimSpace(doc[start+len(BeginTableMarker) : end]), true
}

// Splice replaces the text between the document's markers with table,
// keeping everything around the markers intact. The table goes in trimmed,
// padded with one newline on each side, so splicing the same table twice
// yields identical documents.
func Splice(doc, table string) (string, error) {
	start := strings.Index(doc, BeginTableMarker)
	end := strings.Index(doc, EndTableMarker)
	if start == -1 || end == -1 {
		return "", ErrMissingMarkers
	}
	if end < start+len(BeginTableMarker) {
		return "", fmt.Errorf("%w: end marker precedes begin marker", ErrMissingMarkers)
	}

	before := doc[:start+len(BeginTableMarker)]
	after := doc[end:]
	return before + "\n" + strings.TrimSpace(table) + "\n" + after, nil
}

// Stale reports whether the document's current table differs from table.
// Both sides are compared trimmed, so a freshly spliced document is never
// stale, whatever the surrounding whitespace. A document without a marker
// pair cannot be checked at all and fails with ErrMissingMarkers.
func Stale(doc, table string) (bool, error) {
	current, ok := CurrentTable(doc)
	if !ok {
		return false, ErrMissingMarkers
	}
	return current != strings.TrimSpace(table), nil
}

// BadgeRefs scans a document for proportional badge references under
// badgeDir and returns their pass/total pairs in document order, each pair
// once. Named badges (required.svg, ...) living in the same directory are
// not pass/total pairs and are left alone.
func BadgeRefs(doc, badgeDir string) []Section {
	re := regexp.MustCompile(regexp.QuoteMeta(badgeDir) + `/([0-9]+)_([0-9]+)\.svg`)

	seen := make(map[Section]bool)
	var refs []Section
	for _, m := range re.FindAllStringSubmatch(doc, -1) {
		passing, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		total, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		section := Section{Passing: passing, Total: total}
		if seen[section] {
			continue
		}
		seen[section] = true
		refs = append(refs, section)
	}
	return refs
}

package conformance

import (
	"errors"
	"fmt"
	"strings"
)

// A failing-test enumeration is scraped from runner output between these
// two lines: the runner echoes its --add flag right before the enumeration
// and complains about the missing file right after it.
const (
	listingStartMarker = "--add /failing_tests.txt"
	listingEndMarker   = "Failed to open file: /failing_tests.txt"
)

// ErrMalformedListing is returned when runner output does not contain a
// failing-test enumeration.
var ErrMalformedListing = errors.New("malformed test listing")

// ExtractListing pulls the failing-test identifiers out of raw runner
// output, in order. Trailing " # ..." comments are stripped from each line
// and blank lines are skipped, so a run that fails nothing yields an empty
// listing rather than an error.
func ExtractListing(text string) ([]string, error) {
	_, afterStart, found := strings.Cut(text, listingStartMarker)
	if !found {
		return nil, fmt.Errorf("%w: start marker %q not found", ErrMalformedListing, listingStartMarker)
	}
	listing, _, found := strings.Cut(afterStart, listingEndMarker)
	if !found {
		return nil, fmt.Errorf("%w: end marker %q not found", ErrMalformedListing, listingEndMarker)
	}

	lines := strings.Split(strings.TrimSpace(listing), "\n")
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		id, _, _ := strings.Cut(line, " # ")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// BuildBaseline constructs the canonical result tree from the listing of an
// exhaustive all-fail run. Such a run fails every test the runner has, so
// the listing enumerates the entire suite; each test starts out passing and
// per-implementation failures are applied to copies later.
func BuildBaseline(ids []string) (*Tree, error) {
	tree := NewTree()
	for _, id := range ids {
		path, err := ParsePath(id)
		if err != nil {
			return nil, err
		}
		if err := tree.Insert(path, true); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// ApplyFailures returns a copy of the canonical tree with every listed test
// flipped to failing. An identifier the canonical tree does not know means
// the baseline and the implementation ran different suites; that aborts the
// whole diff and the partial copy is discarded.
func ApplyFailures(canonical *Tree, ids []string) (*Tree, error) {
	report := canonical.Clone()
	for _, id := range ids {
		path, err := ParsePath(id)
		if err != nil {
			return nil, err
		}
		if err := report.SetExisting(path, false); err != nil {
			return nil, err
		}
	}
	return report, nil
}

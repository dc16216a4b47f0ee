package conformance

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBadgeDir is where badge files live, relative to the document that
// references them.
const DefaultBadgeDir = ".github/badges"

// ErrNoTests is returned when a percentage is requested for a section
// without any tests in it.
var ErrNoTests = errors.New("no tests in section")

// Section is the pass/total tally of one category subtree.
type Section struct {
	Passing int
	Total   int
}

// NewSection tallies the given tree.
func NewSection(tree *Tree) Section {
	return Section{Passing: tree.CountPassing(), Total: tree.CountTests()}
}

// Percent returns the passing percentage. An empty section has no
// meaningful percentage and returns ErrNoTests instead of dividing by zero.
func (s Section) Percent() (float64, error) {
	if s.Total == 0 {
		return 0, ErrNoTests
	}
	return float64(s.Passing) / float64(s.Total) * 100, nil
}

// String renders "87.5% (7/8)", or "N/A (0/0)" for empty sections.
func (s Section) String() string {
	pct, err := s.Percent()
	if err != nil {
		return fmt.Sprintf("N/A (%d/%d)", s.Passing, s.Total)
	}
	return fmt.Sprintf("%.1f%% (%d/%d)", pct, s.Passing, s.Total)
}

// BadgeRef returns the markdown image reference of this section's badge
// file. The passing/total pair doubles as the file stem, so equal tallies
// share one badge.
func (s Section) BadgeRef(badgeDir string) string {
	stem := fmt.Sprintf("%d_%d", s.Passing, s.Total)
	return fmt.Sprintf("![%s](%s/%s.svg)", stem, badgeDir, stem)
}

// DefaultCategories returns the table rows rendered when no category file
// is given. The leading empty row is the whole-tree "Overall" line.
func DefaultCategories() [][]string {
	return [][]string{
		{},
		{"Required"},
		{"Required", "Proto2"},
		{"Required", "Proto3"},
		{"Required", "Editions_Proto2"},
		{"Required", "Editions_Proto3"},
		{"Recommended"},
		{"Recommended", "Proto2"},
		{"Recommended", "Proto3"},
		{"Recommended", "Editions_Proto2"},
		{"Recommended", "Editions_Proto3"},
	}
}

// ParseCategories reads a replacement for the default category rows: a YAML
// list of category paths, e.g.
//
//	- []
//	- [Required]
//	- [Required, Proto2]
func ParseCategories(data []byte) ([][]string, error) {
	var rows [][]string
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("could not parse category rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("category file contains no rows")
	}
	return rows, nil
}

// TableOptions controls markdown table rendering.
type TableOptions struct {
	Categories [][]string // table rows; nil renders DefaultCategories
	BadgeDir   string     // directory of badge references; "" means DefaultBadgeDir
	Plain      bool       // percent text cells instead of badge references
}

// MarkdownTable renders the category rows of every report into a markdown
// table, one column per report. Reports and names must line up. A category
// row absent from any report fails with the subtree lookup error, so a
// typoed row can't render as an empty 0/0 cell.
func MarkdownTable(reports []*Tree, names []string, opts TableOptions) (string, error) {
	if len(reports) != len(names) {
		return "", fmt.Errorf("got %d reports but %d names", len(reports), len(names))
	}
	rows := opts.Categories
	if rows == nil {
		rows = DefaultCategories()
	}
	badgeDir := opts.BadgeDir
	if badgeDir == "" {
		badgeDir = DefaultBadgeDir
	}

	separator := make([]string, 1+len(reports))
	for i := range separator {
		separator[i] = "---------"
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(append([]string{"Category"}, names...), "|"))
	sb.WriteByte('\n')
	sb.WriteString(strings.Join(separator, "|"))

	for _, path := range rows {
		label := "Overall"
		if len(path) > 0 {
			label = strings.Join(path, " ")
		}
		cells := make([]string, 0, 1+len(reports))
		cells = append(cells, label)
		for _, report := range reports {
			subtree, err := report.Subtree(path)
			if err != nil {
				return "", err
			}
			section := NewSection(subtree)
			if opts.Plain {
				cells = append(cells, section.String())
			} else {
				cells = append(cells, section.BadgeRef(badgeDir))
			}
		}
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(cells, " | "))
	}

	return sb.String(), nil
}

package conformance

import (
	"fmt"
	"math"
	"strings"
)

// Total test counts of the upstream edition 2023 conformance suite, taken
// from the protobuf-conformance baseline. The fixed-totals summary scores
// against these; bump them in lock step with suite upgrades.
const (
	TotalRequired    = 4267
	TotalRecommended = 1300
)

// SummaryTotals are the suite sizes a summary report scores against.
type SummaryTotals struct {
	Required    int
	Recommended int
}

// DefaultSummaryTotals returns the edition 2023 suite sizes.
func DefaultSummaryTotals() SummaryTotals {
	return SummaryTotals{Required: TotalRequired, Recommended: TotalRecommended}
}

// SummaryBadge is one named badge file a summary table references.
type SummaryBadge struct {
	Name    string
	Percent float64
}

// SummaryOptions control the fixed-totals summary report.
type SummaryOptions struct {
	Name          string // primary column name
	SecondaryName string // secondary column name, shown even without results
	BadgeDir      string // directory of badge references; "" means DefaultBadgeDir
	Totals        SummaryTotals
}

type summaryColumn struct {
	required, recommended, overall             string
	reqWireP2, reqWireP3, reqJSONP2, reqJSONP3 string
	recWire, recJSON                           string
}

// SummaryReport renders the fixed-totals category table for one or two run
// logs and returns it together with the named badges its cells reference.
// The secondary column always renders; without a secondary result its cells
// read N/A and no secondary badges are produced.
func SummaryReport(primary RunResult, secondary *RunResult, opts SummaryOptions) (string, []SummaryBadge) {
	name := opts.Name
	if name == "" {
		name = "primary"
	}
	secondaryName := opts.SecondaryName
	if secondaryName == "" {
		secondaryName = "secondary"
	}
	totals := opts.Totals
	if totals.Required <= 0 || totals.Recommended <= 0 {
		totals = DefaultSummaryTotals()
	}
	badgeDir := opts.BadgeDir
	if badgeDir == "" {
		badgeDir = DefaultBadgeDir
	}

	counts := countFailures(primary)

	// The primary implementation is assumed to run the full suite, so the
	// fixed totals score it directly.
	badges := []SummaryBadge{
		{"required", percentOf(totals.Required-counts.byLevel[LevelRequired], totals.Required)},
		{"recommended", percentOf(totals.Recommended-counts.byLevel[LevelRecommended], totals.Recommended)},
		{"overall", percentOf(primary.Passed, primary.Passed+primary.NumFailed())},
	}

	primaryCol := summaryColumn{
		required:    badgeCell(badgeDir, "", "required"),
		recommended: badgeCell(badgeDir, "", "recommended"),
		overall:     badgeCell(badgeDir, "", "overall"),
		reqWireP2:   counts.status(LevelRequired, "Proto2", FormatWire),
		reqWireP3:   counts.status(LevelRequired, "Proto3", FormatWire),
		reqJSONP2:   counts.status(LevelRequired, "Proto2", FormatJSON),
		reqJSONP3:   counts.status(LevelRequired, "Proto3", FormatJSON),
		recWire:     counts.status(LevelRecommended, "", FormatWire),
		recJSON:     counts.status(LevelRecommended, "", FormatJSON),
	}

	secondaryCol := summaryColumn{
		required: "N/A", recommended: "N/A", overall: "N/A",
		reqWireP2: "N/A", reqWireP3: "N/A", reqJSONP2: "N/A", reqJSONP3: "N/A",
		recWire: "N/A", recJSON: "N/A",
	}
	if secondary != nil {
		prefix := badgeNamePrefix(secondaryName)
		secCounts := countFailures(*secondary)

		// Skipped tests count as failures here, since they stand for
		// unsupported features. The skips are split across the two levels in
		// proportion to the level sizes.
		suiteSize := float64(totals.Required + totals.Recommended)
		skipped := float64(secondary.Skipped)
		reqScore := float64(totals.Required-secCounts.byLevel[LevelRequired]) -
			skipped*float64(totals.Required)/suiteSize
		recScore := float64(totals.Recommended-secCounts.byLevel[LevelRecommended]) -
			skipped*float64(totals.Recommended)/suiteSize

		badges = append(badges,
			SummaryBadge{prefix + "required", math.Max(0, 100*reqScore/float64(totals.Required))},
			SummaryBadge{prefix + "recommended", math.Max(0, 100*recScore/float64(totals.Recommended))},
			SummaryBadge{prefix + "overall", percentOf(secondary.Passed,
				secondary.Passed+secondary.NumFailed()+secondary.Skipped)},
		)

		secondaryCol = summaryColumn{
			required:    badgeCell(badgeDir, prefix, "required"),
			recommended: badgeCell(badgeDir, prefix, "recommended"),
			overall:     badgeCell(badgeDir, prefix, "overall"),
			reqWireP2:   secCounts.status(LevelRequired, "Proto2", FormatWire),
			reqWireP3:   secCounts.status(LevelRequired, "Proto3", FormatWire),
			reqJSONP2:   secCounts.status(LevelRequired, "Proto2", FormatJSON),
			reqJSONP3:   secCounts.status(LevelRequired, "Proto3", FormatJSON),
			recWire:     secCounts.status(LevelRecommended, "", FormatWire),
			recJSON:     secCounts.status(LevelRecommended, "", FormatJSON),
		}
	}

	lines := []string{
		fmt.Sprintf("| Category | %s | %s |", name, secondaryName),
		"|----------|-------------|--------------|",
		fmt.Sprintf("| **Required** | %s | %s |", primaryCol.required, secondaryCol.required),
		fmt.Sprintf("| Wire format (proto2) | %s | %s |", primaryCol.reqWireP2, secondaryCol.reqWireP2),
		fmt.Sprintf("| Wire format (proto3) | %s | %s |", primaryCol.reqWireP3, secondaryCol.reqWireP3),
		fmt.Sprintf("| JSON (proto2) | %s | %s |", primaryCol.reqJSONP2, secondaryCol.reqJSONP2),
		fmt.Sprintf("| JSON (proto3) | %s | %s |", primaryCol.reqJSONP3, secondaryCol.reqJSONP3),
		fmt.Sprintf("| **Recommended** | %s | %s |", primaryCol.recommended, secondaryCol.recommended),
		fmt.Sprintf("| Wire format | %s | %s |", primaryCol.recWire, secondaryCol.recWire),
		fmt.Sprintf("| JSON | %s | %s |", primaryCol.recJSON, secondaryCol.recJSON),
		fmt.Sprintf("| **Overall** | %s | %s |", primaryCol.overall, secondaryCol.overall),
	}
	return strings.Join(lines, "\n"), badges
}

type failureCounts struct {
	byCategory map[Test]int
	byLevel    map[string]int
}

func countFailures(result RunResult) failureCounts {
	counts := failureCounts{
		byCategory: make(map[Test]int),
		byLevel:    make(map[string]int),
	}
	for _, test := range result.Failed {
		counts.byCategory[test]++
		counts.byLevel[test.Level]++
	}
	return counts
}

// status renders a per-category failure cell. An empty protoVersion
// combines Proto2 and Proto3.
func (c failureCounts) status(level, protoVersion, format string) string {
	var failed int
	if protoVersion == "" {
		failed = c.byCategory[Test{level, "Proto2", format}] +
			c.byCategory[Test{level, "Proto3", format}]
	} else {
		failed = c.byCategory[Test{level, protoVersion, format}]
	}
	return fmt.Sprintf("%d failures", failed)
}

func percentOf(passing, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(passing) / float64(total)
}

func badgeCell(badgeDir, prefix, name string) string {
	return fmt.Sprintf("![%s](%s/%s%s.svg)", name, badgeDir, prefix, name)
}

// badgeNamePrefix derives a badge file prefix from a column name, e.g.
// "zig-protobuf" becomes "zig_protobuf_".
func badgeNamePrefix(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return mapped + "_"
}

package conformance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryReport(t *testing.T) {
	t.Parallel()

	primary := RunResult{
		Failed: []Test{
			{LevelRequired, "Proto2", FormatWire},
			{LevelRequired, "Proto2", FormatWire},
			{LevelRequired, "Proto3", FormatJSON},
			{LevelRecommended, "Proto2", FormatJSON},
		},
		Passed: 96,
	}
	secondary := RunResult{
		Failed: []Test{
			{LevelRequired, "Proto2", FormatWire},
			{LevelRequired, "Proto3", FormatWire},
		},
		Passed:  118,
		Skipped: 30,
	}

	table, badges := SummaryReport(primary, &secondary, SummaryOptions{
		Name:          "upb-zig",
		SecondaryName: "zig-protobuf",
		Totals:        SummaryTotals{Required: 100, Recommended: 50},
	})

	expected := strings.Join([]string{
		"| Category | upb-zig | zig-protobuf |",
		"|----------|-------------|--------------|",
		"| **Required** | ![required](.github/badges/required.svg) | ![required](.github/badges/zig_protobuf_required.svg) |",
		"| Wire format (proto2) | 2 failures | 1 failures |",
		"| Wire format (proto3) | 0 failures | 1 failures |",
		"| JSON (proto2) | 0 failures | 0 failures |",
		"| JSON (proto3) | 1 failures | 0 failures |",
		"| **Recommended** | ![recommended](.github/badges/recommended.svg) | ![recommended](.github/badges/zig_protobuf_recommended.svg) |",
		"| Wire format | 0 failures | 0 failures |",
		"| JSON | 1 failures | 0 failures |",
		"| **Overall** | ![overall](.github/badges/overall.svg) | ![overall](.github/badges/zig_protobuf_overall.svg) |",
	}, "\n")
	assert.Equal(t, expected, table)

	require.Len(t, badges, 6)
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{
		"required", "recommended", "overall",
		"zig_protobuf_required", "zig_protobuf_recommended", "zig_protobuf_overall",
	}, names)

	// Primary runs the full suite: 3 of 100 required and 1 of 50
	// recommended tests failed, 96 of 100 run tests passed.
	assert.Equal(t, 97.0, badges[0].Percent)
	assert.Equal(t, 98.0, badges[1].Percent)
	assert.Equal(t, 96.0, badges[2].Percent)

	// Secondary skipped 30 tests; those count as failures, split 100:50
	// across the levels (20 and 10).
	assert.Equal(t, 78.0, badges[3].Percent)
	assert.Equal(t, 80.0, badges[4].Percent)
	assert.InDelta(t, 100.0*118/150, badges[5].Percent, 1e-9)
}

func TestSummaryReportWithoutSecondary(t *testing.T) {
	t.Parallel()

	primary := RunResult{
		Failed: []Test{{LevelRequired, "Proto3", FormatWire}},
		Passed: 42,
	}

	table, badges := SummaryReport(primary, nil, SummaryOptions{
		Name:          "upb-zig",
		SecondaryName: "zig-protobuf",
		Totals:        SummaryTotals{Required: 100, Recommended: 50},
	})

	assert.Contains(t, table, "| Category | upb-zig | zig-protobuf |")
	assert.Contains(t, table, "| Wire format (proto3) | 1 failures | N/A |")
	assert.Contains(t, table, "| **Overall** | ![overall](.github/badges/overall.svg) | N/A |")
	assert.Len(t, badges, 3)
}

func TestSummaryReportDefaults(t *testing.T) {
	t.Parallel()

	// Zero options: fixed suite totals, placeholder names, nothing ran.
	table, badges := SummaryReport(RunResult{}, nil, SummaryOptions{})

	assert.Contains(t, table, "| Category | primary | secondary |")
	require.Len(t, badges, 3)
	assert.Equal(t, 100.0, badges[0].Percent)
	assert.Equal(t, 100.0, badges[1].Percent)
	// Nothing ran, so "overall" cannot claim success.
	assert.Equal(t, 0.0, badges[2].Percent)
}

func TestSummaryReportCustomBadgeDir(t *testing.T) {
	t.Parallel()

	table, _ := SummaryReport(RunResult{}, nil, SummaryOptions{BadgeDir: "assets"})
	assert.Contains(t, table, "![required](assets/required.svg)")
}

func TestSummaryReportSecondaryNeverNegative(t *testing.T) {
	t.Parallel()

	// More skips than the whole suite would push the score below zero.
	secondary := RunResult{Skipped: 1000}
	_, badges := SummaryReport(RunResult{}, &secondary, SummaryOptions{
		Totals: SummaryTotals{Required: 100, Recommended: 50},
	})

	require.Len(t, badges, 6)
	assert.Equal(t, 0.0, badges[3].Percent)
	assert.Equal(t, 0.0, badges[4].Percent)
}

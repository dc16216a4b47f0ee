package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadosystems/conformance-report/errext/exitcodes"
	"github.com/sadosystems/conformance-report/internal/cmd/tests"
	"github.com/sadosystems/conformance-report/lib/fsext"
	"github.com/sadosystems/conformance-report/lib/testutils"
)

// testSuiteIDs covers every category row the default table renders, so the
// fixtures exercise the full default layout.
var testSuiteIDs = []string{
	"Required.Proto2.ProtobufInput.PrematureEofInPackedField.BOOL",
	"Required.Proto3.JsonInput.FieldMaskTooManyUnderscore",
	"Required.Editions_Proto2.ProtobufInput.UnknownOrdering.ProtobufOutput",
	"Required.Editions_Proto3.ProtobufInput.RepeatedScalarSelectsLast.INT32",
	"Recommended.Proto2.JsonInput.FieldNameExtension.Validator",
	"Recommended.Proto3.JsonInput.BytesFieldBase64Url.JsonOutput",
	"Recommended.Editions_Proto2.JsonInput.BoolFieldDoubleQuotedFalse",
	"Recommended.Editions_Proto3.JsonInput.BoolFieldDoubleQuotedTrue",
}

var testFailingIDs = []string{
	"Required.Proto3.JsonInput.FieldMaskTooManyUnderscore",
	"Recommended.Proto2.JsonInput.FieldNameExtension.Validator",
}

// listingFixture wraps identifiers in the output a conformance runner prints
// around its failing-test enumeration.
func listingFixture(ids ...string) string {
	var sb strings.Builder
	sb.WriteString("CONFORMANCE TEST BEGIN ====================================\n\n")
	sb.WriteString("  ./conformance-test-runner --failure_list failure_list.txt --add /failing_tests.txt\n\n")
	for _, id := range ids {
		sb.WriteString("  " + id + " # Should have succeeded.\n")
	}
	sb.WriteString("Failed to open file: /failing_tests.txt\n")
	return sb.String()
}

func writeTestFile(t *testing.T, ts *tests.GlobalTestState, name, content string) {
	t.Helper()
	require.NoError(t, fsext.WriteFile(ts.FS, filepath.Join(ts.Cwd, name), []byte(content), 0o644))
}

func TestGenerateTable(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{"conformance-report", "generate-table", "all.txt", "upb_zig.txt"}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)

	lines := strings.Split(strings.TrimRight(ts.Stdout.String(), "\n"), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Category|upb_zig", lines[0])
	assert.Equal(t, "---------|---------", lines[1])
	assert.Equal(t, "Overall | ![6_8](.github/badges/6_8.svg)", lines[2])
	assert.Equal(t, "Required | ![3_4](.github/badges/3_4.svg)", lines[3])
	assert.Equal(t, "Required Proto2 | ![1_1](.github/badges/1_1.svg)", lines[4])
	assert.Equal(t, "Required Proto3 | ![0_1](.github/badges/0_1.svg)", lines[5])
	assert.Equal(t, "Required Editions_Proto2 | ![1_1](.github/badges/1_1.svg)", lines[6])
	assert.Equal(t, "Required Editions_Proto3 | ![1_1](.github/badges/1_1.svg)", lines[7])
	assert.Equal(t, "Recommended | ![3_4](.github/badges/3_4.svg)", lines[8])
	assert.Equal(t, "Recommended Proto2 | ![0_1](.github/badges/0_1.svg)", lines[9])
	assert.Equal(t, "Recommended Editions_Proto3 | ![1_1](.github/badges/1_1.svg)", lines[12])
}

func TestGenerateTableNamesAndPlain(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{
		"conformance-report", "generate-table", "all.txt", "upb_zig.txt",
		"--name", "upb-zig", "--plain", "--reference",
	}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)

	lines := strings.Split(strings.TrimRight(ts.Stdout.String(), "\n"), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Category|reference|upb-zig", lines[0])
	assert.Equal(t, "Overall | 100.0% (8/8) | 75.0% (6/8)", lines[2])
	assert.Equal(t, "Required Proto3 | 100.0% (1/1) | 0.0% (0/1)", lines[5])
}

func TestGenerateTableCustomCategories(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))
	writeTestFile(t, ts, "rows.yaml", "- []\n- [Required, Proto3]\n")

	ts.CmdArgs = []string{
		"conformance-report", "generate-table", "all.txt", "upb_zig.txt",
		"--categories", "rows.yaml", "--plain",
	}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)
	assert.Equal(t,
		"Category|upb_zig\n---------|---------\nOverall | 75.0% (6/8)\nRequired Proto3 | 0.0% (0/1)\n",
		ts.Stdout.String())
}

func TestGenerateTableBadgeDirFlag(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{
		"conformance-report", "generate-table", "all.txt", "upb_zig.txt", "--badge-dir", "img/badges",
	}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)
	assert.Contains(t, ts.Stdout.String(), "Overall | ![6_8](img/badges/6_8.svg)")
}

func TestGenerateTableNameCountMismatch(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{
		"conformance-report", "generate-table", "all.txt", "upb_zig.txt", "upb_zig.txt", "--name", "solo",
	}
	ts.ExpectedExitCode = int(exitcodes.InvalidConfig)
	newRootCommand(ts.GlobalState).execute()

	entries := ts.LoggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel,
		"got 1 --name values for 2 implementation listings"))
}

func TestGenerateTableBaselineMismatch(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture("Required.Proto3.JsonInput.NotInTheSuite"))

	ts.CmdArgs = []string{"conformance-report", "generate-table", "all.txt", "upb_zig.txt"}
	ts.ExpectedExitCode = int(exitcodes.BaselineMismatch)
	newRootCommand(ts.GlobalState).execute()

	entries := ts.LoggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "listing upb_zig.txt"))
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "unknown test"))
}

func TestGenerateTableMissingInputFile(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))

	ts.CmdArgs = []string{"conformance-report", "generate-table", "all.txt", "absent.txt"}
	ts.ExpectedExitCode = int(exitcodes.InvalidInput)
	newRootCommand(ts.GlobalState).execute()

	entries := ts.LoggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "absent.txt"))
}

func TestGenerateTableTooFewArgs(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))

	ts.CmdArgs = []string{"conformance-report", "generate-table", "all.txt"}
	ts.ExpectedExitCode = -1
	newRootCommand(ts.GlobalState).execute()

	entries := ts.LoggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "requires at least 2 arg(s)"))
}

package cmd

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadosystems/conformance-report/conformance"
	"github.com/sadosystems/conformance-report/errext/exitcodes"
	"github.com/sadosystems/conformance-report/internal/cmd/tests"
	"github.com/sadosystems/conformance-report/lib/fsext"
	"github.com/sadosystems/conformance-report/lib/testutils"
)

const testReadme = `# upb-zig

Conformance status:

<!-- BEGIN CONFORMANCE TABLE -->
this table is stale
<!-- END CONFORMANCE TABLE -->

Footer stays.
`

func TestUpdate(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "README.md", testReadme)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{"conformance-report", "update", "README.md", "all.txt", "upb_zig.txt"}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)
	assert.Equal(t, "Updated README.md and 4 badge file(s).\n", ts.Stdout.String())

	data, err := fsext.ReadFile(ts.FS, "/test/README.md")
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "# upb-zig\n\nConformance status:\n")
	assert.Contains(t, doc, "Footer stays.\n")

	table, ok := conformance.CurrentTable(doc)
	require.True(t, ok)
	assert.Contains(t, table, "Category|upb_zig")
	assert.Contains(t, table, "Overall | ![6_8](.github/badges/6_8.svg)")

	// One badge file per distinct pass/total pair of the new table.
	for _, name := range []string{"6_8", "3_4", "1_1", "0_1"} {
		path := "/test/.github/badges/" + name + ".svg"
		exists, err := fsext.Exists(ts.FS, path)
		require.NoError(t, err)
		assert.True(t, exists, path)
	}

	svg, err := fsext.ReadFile(ts.FS, "/test/.github/badges/6_8.svg")
	require.NoError(t, err)
	assert.Contains(t, string(svg), ">75.0% (6/8)</text>")
}

func TestUpdateIsIdempotent(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "README.md", testReadme)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{"conformance-report", "update", "README.md", "all.txt", "upb_zig.txt"}
	newRootCommand(ts.GlobalState).execute()
	assert.Len(t, ts.LoggerHook.Drain(), 0)

	first, err := fsext.ReadFile(ts.FS, "/test/README.md")
	require.NoError(t, err)

	ts.Stdout.Reset()
	newRootCommand(ts.GlobalState).execute()
	assert.Len(t, ts.LoggerHook.Drain(), 0)
	assert.Equal(t, "README.md is already up to date.\n", ts.Stdout.String())

	second, err := fsext.ReadFile(ts.FS, "/test/README.md")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestUpdateQuiet(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "README.md", testReadme)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{"conformance-report", "--quiet", "update", "README.md", "all.txt", "upb_zig.txt"}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)
	assert.Empty(t, ts.Stdout.String())
}

func TestUpdateWithTableFile(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "README.md", testReadme)
	writeTestFile(t, ts, "table.md", "Category|x\n---------|---------\nOverall | 100.0% (1/1)\n")

	ts.CmdArgs = []string{"conformance-report", "update", "README.md", "--table", "table.md"}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)
	assert.Equal(t, "Updated README.md and 0 badge file(s).\n", ts.Stdout.String())

	data, err := fsext.ReadFile(ts.FS, "/test/README.md")
	require.NoError(t, err)
	table, ok := conformance.CurrentTable(string(data))
	require.True(t, ok)
	assert.Equal(t, "Category|x\n---------|---------\nOverall | 100.0% (1/1)", table)
}

func TestUpdateTableFileRejectsListingArgs(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "README.md", testReadme)
	writeTestFile(t, ts, "table.md", "Overall | 100.0% (1/1)\n")

	ts.CmdArgs = []string{
		"conformance-report", "update", "README.md", "all.txt", "upb_zig.txt", "--table", "table.md",
	}
	ts.ExpectedExitCode = -1
	newRootCommand(ts.GlobalState).execute()

	entries := ts.LoggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel,
		"accepts only the document path when --table is used"))
}

func TestUpdateMissingMarkers(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "README.md", "# upb-zig\n\nNo markers in sight.\n")
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{"conformance-report", "update", "README.md", "all.txt", "upb_zig.txt"}
	ts.ExpectedExitCode = int(exitcodes.InvalidDocument)
	newRootCommand(ts.GlobalState).execute()

	entries := ts.LoggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel,
		"README.md: conformance table markers not found"))
}

func TestUpdateCustomBadgeDir(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	writeTestFile(t, ts, "README.md", testReadme)
	writeTestFile(t, ts, "all.txt", listingFixture(testSuiteIDs...))
	writeTestFile(t, ts, "upb_zig.txt", listingFixture(testFailingIDs...))

	ts.CmdArgs = []string{
		"conformance-report", "update", "README.md", "all.txt", "upb_zig.txt",
		"--badge-dir", "img/badges",
	}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.LoggerHook.Drain(), 0)

	data, err := fsext.ReadFile(ts.FS, "/test/README.md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "![6_8](img/badges/6_8.svg)")

	exists, err := fsext.Exists(ts.FS, "/test/img/badges/6_8.svg")
	require.NoError(t, err)
	assert.True(t, exists)
}

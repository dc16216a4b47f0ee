package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `# my-protobuf

Conformance results:

<!-- BEGIN CONFORMANCE TABLE -->
Category|impl
---------|---------
Overall | 0.0% (0/2)
<!-- END CONFORMANCE TABLE -->

Footer.
`

const freshTable = `Category|impl
---------|---------
Overall | 50.0% (1/2)`

func TestCurrentTable(t *testing.T) {
	t.Parallel()

	t.Run("between markers", func(t *testing.T) {
		t.Parallel()
		table, ok := CurrentTable(testDoc)
		require.True(t, ok)
		assert.Equal(t, "Category|impl\n---------|---------\nOverall | 0.0% (0/2)", table)
	})

	t.Run("no markers", func(t *testing.T) {
		t.Parallel()
		_, ok := CurrentTable("# readme without a table\n")
		assert.False(t, ok)
	})

	t.Run("only begin marker", func(t *testing.T) {
		t.Parallel()
		_, ok := CurrentTable(BeginTableMarker + "\nsomething\n")
		assert.False(t, ok)
	})

	t.Run("reversed markers", func(t *testing.T) {
		t.Parallel()
		_, ok := CurrentTable(EndTableMarker + "\n" + BeginTableMarker + "\n")
		assert.False(t, ok)
	})
}

func TestSplice(t *testing.T) {
	t.Parallel()

	spliced, err := Splice(testDoc, freshTable)
	require.NoError(t, err)

	// Everything around the markers survives untouched.
	assert.Contains(t, spliced, "# my-protobuf")
	assert.Contains(t, spliced, "Footer.")
	assert.Contains(t, spliced, BeginTableMarker+"\n"+freshTable+"\n"+EndTableMarker)
	assert.NotContains(t, spliced, "0.0% (0/2)")

	current, ok := CurrentTable(spliced)
	require.True(t, ok)
	assert.Equal(t, freshTable, current)
}

func TestSpliceIdempotent(t *testing.T) {
	t.Parallel()

	once, err := Splice(testDoc, freshTable)
	require.NoError(t, err)
	twice, err := Splice(once, freshTable)
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	// Trailing whitespace on the table must not change the result either.
	again, err := Splice(once, freshTable+"\n\n")
	require.NoError(t, err)
	assert.Equal(t, once, again)
}

func TestSpliceMissingMarkers(t *testing.T) {
	t.Parallel()

	_, err := Splice("# readme without a table\n", freshTable)
	require.ErrorIs(t, err, ErrMissingMarkers)

	_, err = Splice(EndTableMarker+"\n"+BeginTableMarker+"\n", freshTable)
	require.ErrorIs(t, err, ErrMissingMarkers)
}

func TestStale(t *testing.T) {
	t.Parallel()

	t.Run("differing table is stale", func(t *testing.T) {
		t.Parallel()
		stale, err := Stale(testDoc, freshTable)
		require.NoError(t, err)
		assert.True(t, stale)
	})

	t.Run("spliced document is fresh", func(t *testing.T) {
		t.Parallel()
		spliced, err := Splice(testDoc, freshTable)
		require.NoError(t, err)

		stale, err := Stale(spliced, freshTable)
		require.NoError(t, err)
		assert.False(t, stale)

		// Not even a trailing newline makes it stale again.
		stale, err = Stale(spliced, freshTable+"\n")
		require.NoError(t, err)
		assert.False(t, stale)
	})

	t.Run("no markers", func(t *testing.T) {
		t.Parallel()
		_, err := Stale("# readme without a table\n", freshTable)
		require.ErrorIs(t, err, ErrMissingMarkers)
	})
}

func TestBadgeRefs(t *testing.T) {
	t.Parallel()

	doc := `| **Required** | ![required](.github/badges/required.svg) |
Overall | ![2_3](.github/badges/2_3.svg) | ![3_3](.github/badges/3_3.svg)
Required | ![2_3](.github/badges/2_3.svg) | ![1_2](.github/badges/1_2.svg)
Elsewhere | ![9_9](other/badges/9_9.svg)
`

	refs := BadgeRefs(doc, ".github/badges")

	// In document order, each pair once; named badges and foreign
	// directories are not touched.
	assert.Equal(t, []Section{
		{Passing: 2, Total: 3},
		{Passing: 3, Total: 3},
		{Passing: 1, Total: 2},
	}, refs)
}

func TestBadgeRefsCustomDir(t *testing.T) {
	t.Parallel()

	doc := "![5_9](assets/badges/5_9.svg) ![2_3](.github/badges/2_3.svg)"

	assert.Equal(t, []Section{{Passing: 5, Total: 9}}, BadgeRefs(doc, "assets/badges"))
	assert.Empty(t, BadgeRefs("no refs at all", "assets/badges"))
}

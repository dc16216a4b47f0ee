// Package ui contains helpers for rendering human-readable terminal output.
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/unicode/norm"

	"github.com/sadosystems/conformance-report/conformance"
)

const GroupPrefix = "█"

var (
	StdColor   = color.New()              // Default color.
	SuccColor  = color.New(color.FgGreen) // Successful stuff.
	FailColor  = color.New(color.FgRed)   // Failed stuff.
	GrayColor  = color.New(color.Faint)   // Padding and disabled stuff.
	ValueColor = color.New(color.FgCyan)  // Values of all kinds.
)

// StrWidth returns the actual width of the string.
func StrWidth(s string) (n int) {
	var it norm.Iter
	it.InitString(norm.NFKD, s)

	inEscSeq := false
	inLongEscSeq := false
	for !it.Done() {
		data := it.Next()

		// Skip over ANSI escape codes.
		if data[0] == '\x1b' {
			inEscSeq = true
			continue
		}
		if inEscSeq && data[0] == '[' {
			inLongEscSeq = true
			continue
		}
		if inEscSeq && inLongEscSeq && data[0] >= 0x40 && data[0] <= 0x7E {
			inEscSeq = false
			inLongEscSeq = false
			continue
		}
		if inEscSeq && !inLongEscSeq && data[0] >= 0x40 && data[0] <= 0x5F {
			inEscSeq = false
			continue
		}

		n++
	}
	return
}

type breakdownRow struct {
	label string
	tests int
}

// WriteBreakdown renders per-category test counts for the given tree, two
// category levels deep, with categories in lexical order.
func WriteBreakdown(w io.Writer, root *conformance.Tree) {
	fmt.Fprintf(w, "%s %s\n\n", GroupPrefix, ValueColor.Sprintf("%d tests", root.CountTests()))

	var rows []breakdownRow
	for _, name := range sortedCategoryNames(root) {
		sub := root.Categories[name]
		rows = append(rows, breakdownRow{name, sub.CountTests()})
		for _, childName := range sortedCategoryNames(sub) {
			rows = append(rows, breakdownRow{"  " + childName, sub.Categories[childName].CountTests()})
		}
	}

	nameLenMax := 0
	for _, row := range rows {
		if l := StrWidth(row.label); l > nameLenMax {
			nameLenMax = l
		}
	}

	for _, row := range rows {
		padding := strings.Repeat(".", nameLenMax-StrWidth(row.label)+3)
		fmt.Fprintf(w, "  %s%s: %s\n",
			row.label,
			GrayColor.Sprint(padding),
			ValueColor.Sprintf("%d", row.tests),
		)
	}
}

func sortedCategoryNames(tree *conformance.Tree) []string {
	names := make([]string, 0, len(tree.Categories))
	for name := range tree.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/conformance"
	"github.com/sadosystems/conformance-report/ui"
)

// cmdInspect handles the conformance-report inspect sub-command
type cmdInspect struct {
	gs *state.GlobalState

	jsonOutput bool
}

// listingStats mirrors the category tree of a listing with test counts at
// every level, for machine-readable output.
type listingStats struct {
	Total      int                     `json:"total"`
	Categories map[string]listingStats `json:"categories,omitempty"`
}

func newListingStats(tree *conformance.Tree) listingStats {
	s := listingStats{Total: tree.CountTests()}
	if len(tree.Categories) > 0 {
		s.Categories = make(map[string]listingStats, len(tree.Categories))
		for name, child := range tree.Categories {
			s.Categories[name] = newListingStats(child)
		}
	}
	return s
}

func (c *cmdInspect) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.BoolVar(&c.jsonOutput, "json", false, "print the full category statistics as JSON")
	return flags
}

func (c *cmdInspect) run(_ *cobra.Command, args []string) error {
	text, err := loadFile(c.gs, args[0])
	if err != nil {
		return err
	}
	ids, err := conformance.ExtractListing(text)
	if err != nil {
		return wrapConformanceError(fmt.Errorf("listing %s: %w", args[0], err))
	}
	tree, err := conformance.BuildBaseline(ids)
	if err != nil {
		return wrapConformanceError(fmt.Errorf("listing %s: %w", args[0], err))
	}

	if c.jsonOutput {
		data, err := json.MarshalIndent(newListingStats(tree), "", "  ")
		if err != nil {
			return err
		}
		c.gs.Console.Print(string(data) + "\n")
		return nil
	}

	ui.WriteBreakdown(c.gs.Console.Out(), tree)
	return nil
}

func getCmdInspect(gs *state.GlobalState) *cobra.Command {
	c := &cmdInspect{gs: gs}

	exampleText := getExampleText(gs, `
  # Show how many tests each category of a listing contains
  $ {{.}} inspect failing_tests_all.txt

  # The same statistics, machine readable and at full depth
  $ {{.}} inspect failing_tests_all.txt --json`[1:])

	inspectCmd := &cobra.Command{
		Use:   "inspect <listing>",
		Short: "Show category statistics for a failing-test listing",
		Long: `Parse a failing-test listing and print how many tests it contains per
category, as a quick sanity check of runner output.`,
		Example: exampleText,
		Args:    cobra.ExactArgs(1),
		RunE:    c.run,
	}

	inspectCmd.Flags().SortFlags = false
	inspectCmd.Flags().AddFlagSet(c.flagSet())
	return inspectCmd
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/conformance"
	"github.com/sadosystems/conformance-report/errext"
	"github.com/sadosystems/conformance-report/errext/exitcodes"
	"github.com/sadosystems/conformance-report/lib/fsext"
)

// cmdCheck handles the conformance-report check sub-command
type cmdCheck struct {
	gs *state.GlobalState

	names     []string
	tablePath string
}

func (c *cmdCheck) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.tablePath, "table", "",
		"compare against this pre-rendered table file instead of building one from listings")
	flags.StringArrayVar(&c.names, "name", nil,
		"column name for an implementation, repeatable; defaults to the listing file stems")
	flags.Bool("plain", false, "render plain percent cells instead of badge references")
	flags.String("badge-dir", conformance.DefaultBadgeDir, "directory the badge references point at")
	flags.String("categories", "", "YAML file with the category rows to render")
	return flags
}

func (c *cmdCheck) run(cmd *cobra.Command, args []string) error {
	// A check must never touch the filesystem, so make that structural for
	// the duration of the command.
	origFS := c.gs.FS
	c.gs.FS = fsext.NewReadOnlyFs(origFS)
	defer func() { c.gs.FS = origFS }()

	if err := validateDocumentArgs(c.tablePath, args); err != nil {
		return err
	}

	conf, err := getConfig(c.gs)
	if err != nil {
		return err
	}
	conf = conf.Apply(tableFlagConfig(cmd.Flags()))

	doc, err := loadFile(c.gs, args[0])
	if err != nil {
		return err
	}

	table, err := resolveTable(c.gs, conf, c.tablePath, args[1:], c.names)
	if err != nil {
		return err
	}

	stale, err := conformance.Stale(doc, table)
	if err != nil {
		return wrapConformanceError(fmt.Errorf("%s: %w", args[0], err))
	}
	if stale {
		err := fmt.Errorf("%s conformance table is out of date", args[0])
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, updateHint(c.gs, args, c.tablePath, c.names)),
			exitcodes.StaleReport,
		)
	}

	if !c.gs.Flags.Quiet {
		c.gs.Console.Printf("%s conformance table is up to date.\n", args[0])
	}
	return nil
}

func getCmdCheck(gs *state.GlobalState) *cobra.Command {
	c := &cmdCheck{gs: gs}

	exampleText := getExampleText(gs, `
  # Fail the build when the README table no longer matches the listings
  $ {{.}} check README.md failing_tests_all.txt failing_tests_upb_zig.txt`[1:])

	checkCmd := &cobra.Command{
		Use:     "check <document> [<baseline listing> <implementation listing>...]",
		Aliases: []string{"up-to-date"},
		Short:   "Verify that a document's conformance table is fresh",
		Long: `Rebuild the conformance table and compare it with the one currently spliced
into the given document. Exits non-zero when the document is out of date,
without modifying anything.`,
		Example: exampleText,
		Args:    cobra.MinimumNArgs(1),
		RunE:    c.run,
	}

	checkCmd.Flags().SortFlags = false
	checkCmd.Flags().AddFlagSet(c.flagSet())
	return checkCmd
}

// updateHint reconstructs the update invocation that would fix a stale
// document, reusing the arguments the check itself received.
func updateHint(gs *state.GlobalState, args []string, tablePath string, names []string) string {
	parts := append([]string{gs.BinaryName, "update"}, args...)
	if tablePath != "" {
		parts = append(parts, "--table", tablePath)
	}
	for _, name := range names {
		parts = append(parts, "--name", name)
	}
	return fmt.Sprintf("to fix, run: %s", strings.Join(parts, " "))
}

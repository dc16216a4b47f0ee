package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/conformance"
	"github.com/sadosystems/conformance-report/errext"
	"github.com/sadosystems/conformance-report/errext/exitcodes"
	"github.com/sadosystems/conformance-report/lib/fsext"
	"github.com/sadosystems/conformance-report/ui/badge"
)

// cmdUpdate handles the conformance-report update sub-command
type cmdUpdate struct {
	gs *state.GlobalState

	names     []string
	tablePath string
}

func (c *cmdUpdate) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.tablePath, "table", "",
		"splice this pre-rendered table file instead of building one from listings")
	flags.StringArrayVar(&c.names, "name", nil,
		"column name for an implementation, repeatable; defaults to the listing file stems")
	flags.Bool("plain", false, "render plain percent cells instead of badge references")
	flags.String("badge-dir", conformance.DefaultBadgeDir, "directory the badge references point at")
	flags.String("categories", "", "YAML file with the category rows to render")
	return flags
}

func (c *cmdUpdate) run(cmd *cobra.Command, args []string) error {
	if err := validateDocumentArgs(c.tablePath, args); err != nil {
		return err
	}

	conf, err := getConfig(c.gs)
	if err != nil {
		return err
	}
	conf = conf.Apply(tableFlagConfig(cmd.Flags()))

	docPath, err := absolutePath(c.gs, args[0])
	if err != nil {
		return err
	}
	doc, err := loadFile(c.gs, docPath)
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
	if !stale {
		if !c.gs.Flags.Quiet {
			c.gs.Console.Printf("%s is already up to date.\n", args[0])
		}
		return nil
	}

	spliced, err := conformance.Splice(doc, table)
	if err != nil {
		return wrapConformanceError(fmt.Errorf("%s: %w", args[0], err))
	}

	// Badges go first. If a badge write fails halfway the document is still
	// stale, so a re-run picks up where this one stopped.
	refs := conformance.BadgeRefs(spliced, conf.BadgeDir.String)
	if err := writeBadges(c.gs, filepath.Dir(docPath), conf.BadgeDir.String, refs); err != nil {
		return err
	}

	if err := fsext.WriteFile(c.gs.FS, docPath, []byte(spliced), 0o644); err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InternalError)
	}

	if !c.gs.Flags.Quiet {
		c.gs.Console.Printf("Updated %s and %d badge file(s).\n", args[0], len(refs))
	}
	return nil
}

func getCmdUpdate(gs *state.GlobalState) *cobra.Command {
	c := &cmdUpdate{gs: gs}

	exampleText := getExampleText(gs, `
  # Rebuild the table from runner listings and splice it into the README
  $ {{.}} update README.md failing_tests_all.txt failing_tests_upb_zig.txt

  # Splice a pre-rendered table file instead
  $ {{.}} update README.md --table table.md`[1:])

	updateCmd := &cobra.Command{
		Use:   "update <document> [<baseline listing> <implementation listing>...]",
		Short: "Splice a fresh conformance table into a document",
		Long: `Rebuild the conformance table, splice it between the table markers of the
given document and regenerate the badge files the new table references.
Does nothing if the document already contains the fresh table.`,
		Example: exampleText,
		Args:    cobra.MinimumNArgs(1),
		RunE:    c.run,
	}

	updateCmd.Flags().SortFlags = false
	updateCmd.Flags().AddFlagSet(c.flagSet())
	return updateCmd
}

// validateDocumentArgs checks the positional arguments of the document
// commands, which accept either listings or a --table file, not both.
func validateDocumentArgs(tablePath string, args []string) error {
	if tablePath != "" {
		if len(args) != 1 {
			return fmt.Errorf("accepts only the document path when --table is used, received %d arg(s)", len(args))
		}
		return nil
	}
	if len(args) < 3 {
		return fmt.Errorf(
			"requires the document, the baseline listing and at least one implementation listing, received %d arg(s)",
			len(args))
	}
	return nil
}

// resolveTable returns the fresh table for a document command, either read
// verbatim from the --table file or built from the runner listings.
func resolveTable(gs *state.GlobalState, conf Config, tablePath string, listings, names []string) (string, error) {
	if tablePath != "" {
		return loadFile(gs, tablePath)
	}
	return buildTable(gs, conf, listings[0], listings[1:], names, false)
}

// writeBadges renders an SVG badge file for every pass/total reference of
// the document. Relative badge directories resolve against the document's
// own directory, because that is what the references are relative to.
func writeBadges(gs *state.GlobalState, docDir, badgeDir string, refs []conformance.Section) error {
	if len(refs) == 0 {
		return nil
	}
	dir := badgeDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(docDir, dir)
	}
	if err := gs.FS.MkdirAll(dir, 0o755); err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InternalError)
	}
	for _, ref := range refs {
		name := fmt.Sprintf("%d_%d.svg", ref.Passing, ref.Total)
		svg := badge.Render(ref.Passing, ref.Total)
		if err := fsext.WriteFile(gs.FS, filepath.Join(dir, name), []byte(svg), 0o644); err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.InternalError)
		}
	}
	gs.Logger.WithField("badges", len(refs)).Debugf("Regenerated badge files in %s", dir)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/conformance"
	"github.com/sadosystems/conformance-report/errext"
	"github.com/sadosystems/conformance-report/errext/exitcodes"
)

// cmdGenerateTable handles the conformance-report generate-table sub-command
type cmdGenerateTable struct {
	gs *state.GlobalState

	names     []string
	reference bool
}

func (c *cmdGenerateTable) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringArrayVar(&c.names, "name", nil,
		"column name for an implementation, repeatable; defaults to the listing file stems")
	flags.BoolVar(&c.reference, "reference", false,
		"prepend a reference column built from the baseline itself")
	flags.Bool("plain", false, "render plain percent cells instead of badge references")
	flags.String("badge-dir", conformance.DefaultBadgeDir, "directory the badge references point at")
	flags.String("categories", "", "YAML file with the category rows to render")
	return flags
}

func (c *cmdGenerateTable) run(cmd *cobra.Command, args []string) error {
	conf, err := getConfig(c.gs)
	if err != nil {
		return err
	}
	conf = conf.Apply(tableFlagConfig(cmd.Flags()))

	table, err := buildTable(c.gs, conf, args[0], args[1:], c.names, c.reference)
	if err != nil {
		return err
	}

	c.gs.Console.Print(table + "\n")
	return nil
}

func getCmdGenerateTable(gs *state.GlobalState) *cobra.Command {
	c := &cmdGenerateTable{gs: gs}

	exampleText := getExampleText(gs, `
  # Render the table for one implementation against the all-fail baseline
  $ {{.}} generate-table failing_tests_all.txt failing_tests_upb_zig.txt

  # Two implementations with explicit column names and plain percent cells
  $ {{.}} generate-table all.txt upb.txt zigpb.txt --name upb-zig --name zig-protobuf --plain`[1:])

	generateTableCmd := &cobra.Command{
		Use:   "generate-table <baseline listing> <implementation listing>...",
		Short: "Render the conformance results as a markdown table",
		Long: `Build the canonical test tree from an exhaustive all-fail runner listing,
apply each implementation's failing-test listing to it and print the
aggregated results as a markdown table.`,
		Example: exampleText,
		Args: minimumArgsWithMsg(2,
			"the baseline listing and at least one implementation listing are required"),
		RunE: c.run,
	}

	generateTableCmd.Flags().SortFlags = false
	generateTableCmd.Flags().AddFlagSet(c.flagSet())
	return generateTableCmd
}

// tableFlagConfig collects the config-backed table flags. All three commands
// that render a table register the same flag names, so the lookups are safe.
func tableFlagConfig(flags *pflag.FlagSet) Config {
	return Config{
		BadgeDir:   getNullString(flags, "badge-dir"),
		PlainCells: getNullBool(flags, "plain"),
		Categories: getNullString(flags, "categories"),
	}
}

// buildTable builds the canonical tree from the baseline listing, diffs
// every implementation listing against it and renders the markdown table.
func buildTable(
	gs *state.GlobalState, conf Config,
	baselinePath string, implPaths, names []string, reference bool,
) (string, error) {
	if len(names) > 0 && len(names) != len(implPaths) {
		return "", errext.WithExitCodeIfNone(
			fmt.Errorf("got %d --name values for %d implementation listings", len(names), len(implPaths)),
			exitcodes.InvalidConfig,
		)
	}

	canonical, err := loadBaseline(gs, baselinePath)
	if err != nil {
		return "", err
	}

	reports := make([]*conformance.Tree, 0, len(implPaths)+1)
	columns := make([]string, 0, len(implPaths)+1)
	if reference {
		reports = append(reports, canonical)
		columns = append(columns, "reference")
	}

	for i, path := range implPaths {
		report, err := loadImplReport(gs, canonical, path)
		if err != nil {
			return "", err
		}
		name := fileStem(path)
		if len(names) > 0 {
			name = names[i]
		}
		reports = append(reports, report)
		columns = append(columns, name)
	}

	opts := conformance.TableOptions{
		BadgeDir: conf.BadgeDir.String,
		Plain:    conf.PlainCells.Bool,
	}
	if conf.Categories.String != "" {
		opts.Categories, err = loadCategories(gs, conf.Categories.String)
		if err != nil {
			return "", err
		}
	}

	table, err := conformance.MarkdownTable(reports, columns, opts)
	if err != nil {
		return "", wrapConformanceError(err)
	}
	return table, nil
}

// loadBaseline reads an exhaustive all-fail listing and turns it into the
// canonical tree of every known test.
func loadBaseline(gs *state.GlobalState, path string) (*conformance.Tree, error) {
	text, err := loadFile(gs, path)
	if err != nil {
		return nil, err
	}
	ids, err := conformance.ExtractListing(text)
	if err != nil {
		return nil, wrapConformanceError(fmt.Errorf("baseline %s: %w", path, err))
	}
	tree, err := conformance.BuildBaseline(ids)
	if err != nil {
		return nil, wrapConformanceError(fmt.Errorf("baseline %s: %w", path, err))
	}
	gs.Logger.WithField("tests", tree.CountTests()).Debugf("Loaded baseline %s", path)
	return tree, nil
}

// loadImplReport reads an implementation's failing-test listing and marks
// the listed tests as failing on a copy of the canonical tree.
func loadImplReport(gs *state.GlobalState, canonical *conformance.Tree, path string) (*conformance.Tree, error) {
	text, err := loadFile(gs, path)
	if err != nil {
		return nil, err
	}
	ids, err := conformance.ExtractListing(text)
	if err != nil {
		return nil, wrapConformanceError(fmt.Errorf("listing %s: %w", path, err))
	}
	report, err := conformance.ApplyFailures(canonical, ids)
	if err != nil {
		return nil, wrapConformanceError(fmt.Errorf("listing %s: %w", path, err))
	}
	gs.Logger.WithField("failing", len(ids)).Debugf("Applied listing %s", path)
	return report, nil
}

func loadCategories(gs *state.GlobalState, path string) ([][]string, error) {
	text, err := loadFile(gs, path)
	if err != nil {
		return nil, err
	}
	rows, err := conformance.ParseCategories([]byte(text))
	if err != nil {
		return nil, wrapConformanceError(fmt.Errorf("categories %s: %w", path, err))
	}
	return rows, nil
}

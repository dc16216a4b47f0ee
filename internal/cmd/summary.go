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

// cmdSummary handles the conformance-report summary sub-command
type cmdSummary struct {
	gs *state.GlobalState

	name          string
	secondaryName string
	out           string
}

func (c *cmdSummary) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.name, "name", "",
		"primary implementation name; defaults to the run log file stem")
	flags.StringVar(&c.secondaryName, "secondary-name", "",
		"secondary implementation name; defaults to the second run log file stem")
	flags.StringVarP(&c.out, "out", "o", "", "write the table to this file instead of stdout")
	flags.String("badge-dir", "", "write percentage badge files to this directory")
	flags.Int64("total-required", conformance.TotalRequired,
		"number of required tests in the conformance suite")
	flags.Int64("total-recommended", conformance.TotalRecommended,
		"number of recommended tests in the conformance suite")
	return flags
}

func (c *cmdSummary) run(cmd *cobra.Command, args []string) error {
	conf, err := getConfig(c.gs)
	if err != nil {
		return err
	}
	conf = conf.Apply(Config{
		BadgeDir:         getNullString(cmd.Flags(), "badge-dir"),
		TotalRequired:    getNullInt64(cmd.Flags(), "total-required"),
		TotalRecommended: getNullInt64(cmd.Flags(), "total-recommended"),
	})
	if err := conf.Validate(); err != nil {
		return err
	}

	primary, err := c.loadRunLog(args[0])
	if err != nil {
		return err
	}

	var secondary *conformance.RunResult
	secondaryName := c.secondaryName
	if len(args) == 2 {
		res, err := c.loadRunLog(args[1])
		if err != nil {
			return err
		}
		secondary = &res
		if secondaryName == "" {
			secondaryName = fileStem(args[1])
		}
	}

	name := c.name
	if name == "" {
		name = fileStem(args[0])
	}

	table, badges := conformance.SummaryReport(primary, secondary, conformance.SummaryOptions{
		Name:          name,
		SecondaryName: secondaryName,
		BadgeDir:      conf.BadgeDir.String,
		Totals: conformance.SummaryTotals{
			Required:    int(conf.TotalRequired.Int64),
			Recommended: int(conf.TotalRecommended.Int64),
		},
	})

	if c.out != "" {
		outPath, err := absolutePath(c.gs, c.out)
		if err != nil {
			return err
		}
		if err := fsext.WriteFile(c.gs.FS, outPath, []byte(table+"\n"), 0o644); err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.InternalError)
		}
		if !c.gs.Flags.Quiet {
			c.gs.Console.Printf("Wrote %s.\n", c.out)
		}
	} else {
		c.gs.Console.Print(table + "\n")
	}

	// Badge files are only written when a badge directory was configured
	// explicitly, printing a summary table should not litter the workspace.
	if conf.BadgeDir.Valid {
		if err := c.writeSummaryBadges(conf.BadgeDir.String, badges); err != nil {
			return err
		}
	}
	return nil
}

func (c *cmdSummary) loadRunLog(path string) (conformance.RunResult, error) {
	text, err := loadFile(c.gs, path)
	if err != nil {
		return conformance.RunResult{}, err
	}
	res, err := conformance.ParseRunLog(text)
	if err != nil {
		return conformance.RunResult{}, wrapConformanceError(fmt.Errorf("run log %s: %w", path, err))
	}
	return res, nil
}

func (c *cmdSummary) writeSummaryBadges(badgeDir string, badges []conformance.SummaryBadge) error {
	dir, err := absolutePath(c.gs, badgeDir)
	if err != nil {
		return err
	}
	if err := c.gs.FS.MkdirAll(dir, 0o755); err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InternalError)
	}
	for _, b := range badges {
		svg := badge.RenderPercent(b.Percent)
		if err := fsext.WriteFile(c.gs.FS, filepath.Join(dir, b.Name+".svg"), []byte(svg), 0o644); err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.InternalError)
		}
	}
	c.gs.Logger.WithField("badges", len(badges)).Debugf("Wrote badge files to %s", badgeDir)
	return nil
}

func getCmdSummary(gs *state.GlobalState) *cobra.Command {
	c := &cmdSummary{gs: gs}

	exampleText := getExampleText(gs, `
  # Print the failure summary for a single conformance run
  $ {{.}} summary conformance_upb_zig.txt

  # Compare against a second implementation and refresh the badge files
  $ {{.}} summary upb_zig.txt zig_protobuf.txt --badge-dir .github/badges`[1:])

	summaryCmd := &cobra.Command{
		Use:   "summary <run log> [<secondary run log>]",
		Short: "Summarize conformance run logs into a failure table",
		Long: `Parse the verbose output of conformance runner executions and render the
per-category failure summary, together with a percentage badge for each
implementation column.`,
		Example: exampleText,
		Args:    cobra.RangeArgs(1, 2),
		RunE:    c.run,
	}

	summaryCmd.Flags().SortFlags = false
	summaryCmd.Flags().AddFlagSet(c.flagSet())
	return summaryCmd
}

package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/internal/build"
)

// cmdVersion handles the conformance-report version sub-command
type cmdVersion struct {
	gs *state.GlobalState

	jsonOutput bool
}

func (c *cmdVersion) run(_ *cobra.Command, _ []string) error {
	if c.jsonOutput {
		data, err := json.Marshal(map[string]string{
			"version": build.Version,
			"full":    build.FullVersion(),
		})
		if err != nil {
			return err
		}
		c.gs.Console.Print(string(data) + "\n")
		return nil
	}

	c.gs.Console.Printf("%s v%s\n", c.gs.BinaryName, build.FullVersion())
	return nil
}

func getCmdVersion(gs *state.GlobalState) *cobra.Command {
	c := &cmdVersion{gs: gs}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	versionCmd.Flags().BoolVar(&c.jsonOutput, "json", false, "print the version as JSON")
	return versionCmd
}

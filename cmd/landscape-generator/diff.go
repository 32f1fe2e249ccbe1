package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/landscape"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/logos"
)

var errLandscapeChanged = errors.New("landscape differs from current file")

func newDiffCmd(opts *options) *cobra.Command {
	var (
		current  string
		jsonOut  bool
		exitCode bool
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare a freshly generated landscape with an existing data.yml",
		Long: `Generates the landscape in memory and reports items that would be added,
removed or changed compared to --current. Logos are not downloaded; each
logo is compared against the file name a successful download would use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if current == "" {
				current = cfg.Output
			}

			existing, err := landscape.ReadFile(current)
			if err != nil {
				return err
			}
			doc, err := generate(cmd.Context(), cfg, logos.Predictor{Dir: cfg.LogoDirectory()})
			if err != nil {
				return err
			}

			diff := landscape.Compare(existing, doc)
			if jsonOut {
				data, err := json.MarshalIndent(diff, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON output: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				fmt.Fprint(cmd.OutOrStdout(), landscape.FormatDiff(diff))
			}

			if exitCode && diff.HasChanges {
				return errLandscapeChanged
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Existing data.yml to compare against (defaults to the configured output)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with status 1 when differences are found")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/landscape"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/logos"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/publish"
)

func newPublishCmd(opts *options) *cobra.Command {
	var (
		repo   string
		path   string
		base   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Generate the landscape and open a pull request with it",
		Long: `Generates data.yml and opens a pull request against the landscape
repository (--repo owner/name). Requires GITHUB_TOKEN unless --dry-run is set.
Logos are referenced by URL, since downloaded files would not be part of the
pull request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("repo") {
				cfg.Publish.Repo = repo
			}
			if cmd.Flags().Changed("path") {
				cfg.Publish.Path = path
			}
			if cmd.Flags().Changed("base") {
				cfg.Publish.Base = base
			}

			owner, name, err := publish.ParseRepo(cfg.Publish.Repo)
			if err != nil {
				return err
			}

			token := os.Getenv("GITHUB_TOKEN")
			if token == "" && !dryRun {
				return fmt.Errorf("GITHUB_TOKEN environment variable not set")
			}

			doc, err := generate(ctx, cfg, &logos.Resolver{})
			if err != nil {
				return err
			}
			content, err := landscape.Marshal(doc)
			if err != nil {
				return err
			}

			result, err := publish.NewPublisher(ctx, token).Publish(ctx, content, publish.Options{
				Owner:  owner,
				Repo:   name,
				Path:   cfg.Publish.Path,
				Base:   cfg.Publish.Base,
				DryRun: dryRun,
			})
			if errors.Is(err, publish.ErrUnchanged) {
				fmt.Fprintln(cmd.OutOrStdout(), "Landscape data is up to date, nothing to publish.")
				return nil
			}
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Dry run: would open a pull request from branch %s\n", result.Branch)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened pull request #%d: %s\n", result.Number, result.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Target repository for the PR (e.g. owner/landscape)")
	cmd.Flags().StringVar(&path, "path", "data.yml", "Path of the data file in the target repository")
	cmd.Flags().StringVar(&base, "base", "", "Base branch for the PR (defaults to the repository's default branch)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be published without creating anything")
	return cmd
}

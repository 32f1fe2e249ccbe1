package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/config"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/landscape"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/logos"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/source"
)

type options struct {
	configFile  string
	apiURL      string
	input       string
	output      string
	categories  string
	logoDir     string
	logoTimeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "landscape-generator",
		Short: "Generate Landscape2 data.yml from Eclipse SDV projects",
		Long: `Reads the Eclipse SDV project list from the projects API (or a local JSON
file) and writes a Landscape2 data.yml grouped into categories.

If the categories file exists, projects are placed according to it and
anything it does not mention goes to Unmapped / Misc. Otherwise categories
come from each project's "Category / Subcategory" field.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.apiURL, "api-url", source.DefaultAPIURL, "Projects API URL, used when --input is not set")
	flags.StringVar(&opts.input, "input", "", "Path to a local JSON file containing project data")
	flags.StringVar(&opts.categories, "categories", "static_categories.yml", "Path to a YAML file defining static categories; dynamic grouping is used if it does not exist")
	flags.StringVar(&opts.logoDir, "logos-dir", "logos", "Directory to download logos into; empty keeps logo URLs as-is")
	flags.DurationVar(&opts.logoTimeout, "logo-timeout", logos.DefaultTimeout, "Timeout for each logo download")

	root.Flags().StringVar(&opts.output, "output", "data.yml", "Name of the YAML file to generate")

	root.AddCommand(newGenerateCmd(opts), newDiffCmd(opts), newPublishCmd(opts))
	return root
}

func newGenerateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate data.yml (the default action)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.output, "output", "data.yml", "Name of the YAML file to generate")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	doc, err := generate(ctx, cfg, logos.NewResolver(cfg.LogoDirectory(), cfg.LogoTimeout))
	if err != nil {
		return err
	}

	if err := landscape.WriteFile(cfg.Output, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", cfg.Output)
	return nil
}

// resolveConfig layers built-in defaults, the config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("api-url") {
		cfg.APIURL = opts.apiURL
	}
	if changed("input") {
		cfg.Input = opts.input
	}
	if changed("output") {
		cfg.Output = opts.output
	}
	if changed("categories") {
		cfg.Categories = opts.categories
	}
	if changed("logos-dir") {
		dir := opts.logoDir
		cfg.LogoDir = &dir
	}
	if changed("logo-timeout") {
		cfg.LogoTimeout = opts.logoTimeout
	}
	return cfg, nil
}

// generate loads everything the run depends on before building, so a
// failure to load the projects or the plan aborts before any output.
func generate(ctx context.Context, cfg *config.Config, resolver landscape.LogoResolver) (*landscape.Document, error) {
	log := klog.FromContext(ctx)

	projects, err := source.Load(ctx, source.Options{File: cfg.Input, URL: cfg.APIURL})
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	log.Info("loaded projects", "count", len(projects))

	plan, err := landscape.LoadPlanIfExists(cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	if plan != nil {
		log.Info("using static categories", "file", cfg.Categories, "categories", len(plan.Categories))
	} else {
		log.Info("categories file not found, grouping by project category", "file", cfg.Categories)
	}

	doc := landscape.Build(ctx, projects, plan, resolver)

	stats := doc.Stats()
	log.Info("built landscape", "categories", stats.Categories, "subcategories", stats.Subcategories, "items", stats.Items)
	return doc, nil
}

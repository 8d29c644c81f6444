package main

import (
	"context"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/trellis-dev/trellis/internal/config"
	"github.com/trellis-dev/trellis/internal/errors"
	"github.com/trellis-dev/trellis/pkg/manifest"
	"github.com/trellis-dev/trellis/pkg/router"
)

func genCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <type>",
		Short: "Generate route artifacts",
		Long: `Generate artifacts from the routes directory.

Types:
  routes      Generate the route constants and params file
  manifest    Generate the route manifest, optionally publishing to S3

Examples:
  trellis gen routes                        # Regenerate app/routes_gen.go
  trellis gen routes --output=gen/routes.go
  trellis gen manifest                      # Write routes.manifest.json
  trellis gen manifest --bucket=my-bucket   # Publish to S3`,
	}

	cmd.AddCommand(
		genRoutesCmd(),
		genManifestCmd(),
	)

	return cmd
}

// =============================================================================
// trellis gen routes
// =============================================================================

func genRoutesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Generate route constants and typed params",
		Long: `Scan the routes directory and generate the route key constants,
the declaration table, and a typed params struct per parameterized
route.

The output is deterministic. Running it multiple times produces
identical output unless the routes change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenRoutes(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default from trellis.json)")

	return cmd
}

func runGenRoutes(output string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	routesDir := cfg.RoutesPath()
	if output == "" {
		output = cfg.GenOutputPath()
	}

	info("Scanning %s...", routesDir)

	decls, err := scanRoutes(cfg)
	if err != nil {
		return errors.WrapBuild(err)
	}

	info("Found %d route files", len(decls))

	gen := router.NewGenerator(decls, cfg.Generate.Package)
	code, err := gen.Generate()
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, []byte(code), 0o644); err != nil {
		return errors.New("T031").Wrap(err).
			WithDetail("Could not write " + output)
	}

	success("Generated %s", output)
	return nil
}

// =============================================================================
// trellis gen manifest
// =============================================================================

func genManifestCmd() *cobra.Command {
	var (
		output string
		bucket string
		prefix string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Generate the route manifest",
		Long: `Build the route tree and write its manifest.

The manifest lists every route with its pattern, score, and parameter
fields. By default it is written to the path from trellis.json; with
--bucket it is published to S3 instead.

Examples:
  trellis gen manifest
  trellis gen manifest --output=build/routes.json
  trellis gen manifest --bucket=deploys --prefix=myapp/manifests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenManifest(cmd.Context(), output, bucket, prefix, name)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default from trellis.json)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket to publish to (default from trellis.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "S3 key prefix")
	cmd.Flags().StringVar(&name, "name", "", "Manifest object name (default: routes.manifest.json)")

	return cmd
}

func runGenManifest(ctx context.Context, output, bucket, prefix, name string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	m, err := buildManifest(cfg)
	if err != nil {
		return err
	}

	info("Built manifest with %d routes", len(m.Routes))

	if bucket == "" {
		bucket = cfg.Manifest.Bucket
	}
	if prefix == "" {
		prefix = cfg.Manifest.Prefix
	}

	if bucket != "" {
		return publishManifest(ctx, m, bucket, prefix, name)
	}

	if output == "" {
		output = cfg.ManifestOutputPath()
	}
	if err := manifest.WriteFile(output, m); err != nil {
		return err
	}

	success("Wrote %s", output)
	return nil
}

func buildManifest(cfg *config.Config) (*manifest.Manifest, error) {
	rtr, err := buildRouter(cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range rtr.Warnings() {
		warn("%v", w)
	}

	return manifest.Build(rtr), nil
}

func publishManifest(ctx context.Context, m *manifest.Manifest, bucket, prefix, name string) error {
	if name == "" {
		name = config.DefaultManifestOutput
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return errors.New("T041").Wrap(err).
			WithDetail("Could not load AWS configuration").
			WithSuggestion("Check AWS credentials and region settings")
	}

	store := manifest.NewS3Store(s3.NewFromConfig(awsCfg), bucket, prefix)
	if err := store.Put(ctx, name, m); err != nil {
		return err
	}

	success("Published s3://%s/%s", bucket, store.Key(name))
	return nil
}

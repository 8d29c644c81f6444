package main

import (
	"github.com/spf13/cobra"

	"github.com/trellis-dev/trellis/internal/config"
)

func checkCmd() *cobra.Command {
	var allowOrphanLayouts bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the route tree",
		Long: `Scan the routes directory and build the route tree without
writing anything.

All problems are reported at once: malformed patterns, duplicate
routes, and layouts with no routes beneath them. The command exits
non-zero when the build fails.

Examples:
  trellis check
  trellis check --allow-orphan-layouts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(allowOrphanLayouts)
		},
	}

	cmd.Flags().BoolVar(&allowOrphanLayouts, "allow-orphan-layouts", false,
		"Treat layouts without routes as warnings instead of errors")

	return cmd
}

func runCheck(allowOrphanLayouts bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	if allowOrphanLayouts {
		cfg.Check.AllowOrphanLayouts = true
	}

	info("Checking %s...", cfg.RoutesPath())

	rtr, err := buildRouter(cfg)
	if err != nil {
		return err
	}

	for _, w := range rtr.Warnings() {
		warn("%v", w)
	}

	success("%d routes, no errors", len(rtr.MatchableRoutes()))
	return nil
}

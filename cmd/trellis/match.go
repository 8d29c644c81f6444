package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/trellis-dev/trellis/internal/config"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Resolve a path against the route tree",
		Long: `Build the route tree and show which route a path resolves to.

Prints the matched pattern, the captured parameters, and the layout
chain, or reports that nothing matched.

Examples:
  trellis match /users/42
  trellis match /docs/guides/routing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(args[0])
		},
	}

	return cmd
}

func runMatch(path string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	rtr, err := buildRouter(cfg)
	if err != nil {
		return err
	}

	result, ok := rtr.Match(path)
	if !ok {
		warn("No route matches %s", path)
		return nil
	}

	fmt.Println()
	success("%s", result.Route.Pattern.Raw)
	info("id:       %s", result.Route.ID)
	info("pathname: %s", result.Pathname)
	info("score:    %d", result.Route.Score)

	if len(result.Params) > 0 {
		names := make([]string, 0, len(result.Params))
		for name := range result.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			info("param:    %s = %q", name, result.Params[name])
		}
	}

	for _, layout := range result.Layouts {
		info("layout:   %s", layout.ID)
	}
	fmt.Println()

	return nil
}

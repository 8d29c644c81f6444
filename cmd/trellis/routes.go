package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trellis-dev/trellis/internal/config"
	"github.com/trellis-dev/trellis/pkg/router"
)

func routesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the resolved route table",
		Long: `Build the route tree and print every matchable route.

Routes are listed in match order: higher specificity scores first,
ties broken segment by segment. Layout files are listed separately
since they wrap routes but never match on their own.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(cmd)
		},
	}

	return cmd
}

func runRoutes(cmd *cobra.Command) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	rtr, err := buildRouter(cfg)
	if err != nil {
		return err
	}
	for _, w := range rtr.Warnings() {
		warn("%v", w)
	}

	routes := rtr.MatchableRoutes()
	fmt.Printf("\n  %d routes\n\n", len(routes))

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  PATTERN\tSCORE\tKIND\tPARAMS")
	for _, rt := range routes {
		kind := "page"
		if rt.IsIndex {
			kind = "index"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n",
			rt.Pattern.Raw, rt.Score, kind, paramList(rt.Pattern))
	}
	tw.Flush()
	fmt.Println()

	return nil
}

func paramList(p *router.Pattern) string {
	fields := p.ParamFields()
	if len(fields) == 0 {
		return "-"
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

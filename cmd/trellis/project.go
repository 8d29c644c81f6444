package main

import (
	"github.com/trellis-dev/trellis/internal/config"
	"github.com/trellis-dev/trellis/internal/errors"
	"github.com/trellis-dev/trellis/pkg/discover"
	"github.com/trellis-dev/trellis/pkg/router"
)

// scanRoutes reads the project's routes directory. Scan-time validation
// honors the orphan-layout setting so it never rejects a tree the build
// itself would accept.
func scanRoutes(cfg *config.Config) ([]router.Declaration, error) {
	return discover.NewScanner(cfg.RoutesPath()).ScanWithOptions(discover.ScanOptions{
		Validate:           true,
		AllowOrphanLayouts: cfg.Check.AllowOrphanLayouts,
	})
}

// buildRouter scans the routes directory and builds the route tree with
// the project's build options. Errors are wrapped for presentation.
func buildRouter(cfg *config.Config) (*router.Router, error) {
	decls, err := scanRoutes(cfg)
	if err != nil {
		return nil, errors.WrapBuild(err)
	}

	rtr := router.NewRouter(router.WithBuildOptions(router.BuildOptions{
		AllowOrphanLayouts: cfg.Check.AllowOrphanLayouts,
	}))
	if err := rtr.Rebuild(decls); err != nil {
		return nil, errors.WrapBuild(err)
	}
	return rtr, nil
}

package dev

import (
	"os"
	"time"

	"github.com/trellis-dev/trellis/internal/config"
	"github.com/trellis-dev/trellis/pkg/discover"
	"github.com/trellis-dev/trellis/pkg/manifest"
	"github.com/trellis-dev/trellis/pkg/router"
)

// RebuildResult contains the result of a route rebuild.
type RebuildResult struct {
	Success  bool
	Routes   int
	Duration time.Duration
	Error    error
	Warnings []error

	// Changes lists manifest-level differences against the previous
	// successful build. Empty on the first build.
	Changes []manifest.Change

	// Regenerated reports whether the generated route file was
	// rewritten.
	Regenerated bool
}

// Rebuilder scans the routes directory and swaps the router's route
// tree. On success it keeps the generated route file and the route
// manifest in sync with the tree.
type Rebuilder struct {
	cfg     *config.Config
	rtr     *router.Router
	scanner *discover.Scanner

	// last is the manifest of the previous successful build, used to
	// diff and to skip rewrites when nothing changed.
	last *manifest.Manifest

	// WriteArtifacts controls whether the generated file and the
	// manifest are written to disk after a successful build. The dev
	// server enables it; one-shot commands decide per invocation.
	WriteArtifacts bool
}

// NewRebuilder creates a Rebuilder over the project's routes directory.
func NewRebuilder(cfg *config.Config, rtr *router.Router) *Rebuilder {
	return &Rebuilder{
		cfg:     cfg,
		rtr:     rtr,
		scanner: discover.NewScanner(cfg.RoutesPath()),
	}
}

// Router returns the router the rebuilder publishes into.
func (rb *Rebuilder) Router() *router.Router {
	return rb.rtr
}

// Rebuild scans route files, rebuilds the route tree and, when the
// build succeeds, atomically publishes it. A failed build leaves the
// previously published tree serving matches.
func (rb *Rebuilder) Rebuild() RebuildResult {
	start := time.Now()

	decls, err := rb.scanner.ScanWithOptions(discover.ScanOptions{})
	if err != nil {
		return RebuildResult{
			Duration: time.Since(start),
			Error:    err,
		}
	}

	if err := rb.rtr.Rebuild(decls); err != nil {
		return RebuildResult{
			Duration: time.Since(start),
			Error:    err,
		}
	}

	result := RebuildResult{
		Success:  true,
		Routes:   len(rb.rtr.MatchableRoutes()),
		Warnings: rb.rtr.Warnings(),
	}

	current := manifest.Build(rb.rtr)
	if rb.last != nil {
		result.Changes = manifest.Diff(rb.last, current)
	}

	if rb.WriteArtifacts && (rb.last == nil || len(result.Changes) > 0) {
		regenerated, err := rb.writeArtifacts(decls, current)
		if err != nil {
			// The tree is already published; surface artifact
			// failures without marking the build failed.
			result.Warnings = append(result.Warnings, err)
		}
		result.Regenerated = regenerated
	}

	rb.last = current
	result.Duration = time.Since(start)
	return result
}

// writeArtifacts regenerates the route file and rewrites the manifest.
// The generated file is only rewritten when its content changed, so an
// editor watching it does not loop.
func (rb *Rebuilder) writeArtifacts(decls []router.Declaration, m *manifest.Manifest) (bool, error) {
	gen := router.NewGenerator(decls, rb.cfg.Generate.Package)
	content, err := gen.Generate()
	if err != nil {
		return false, err
	}

	genPath := rb.cfg.GenOutputPath()
	regenerated := false
	existing, readErr := os.ReadFile(genPath)
	if readErr != nil || string(existing) != content {
		if err := os.WriteFile(genPath, []byte(content), 0o644); err != nil {
			return false, err
		}
		regenerated = true
	}

	if err := manifest.WriteFile(rb.cfg.ManifestOutputPath(), m); err != nil {
		return regenerated, err
	}

	return regenerated, nil
}

package router

import (
	"sort"
	"sync/atomic"
	"time"
)

// Recorder receives build and match telemetry. Implementations must be
// safe for concurrent use. A nil recorder disables instrumentation.
type Recorder interface {
	// RecordBuild is called once per Rebuild with the declaration
	// count, the build duration, and the build error if any.
	RecordBuild(routes int, dur time.Duration, err error)

	// RecordMatch is called once per Match. pattern is empty when the
	// path did not resolve.
	RecordMatch(path, pattern string, matched bool, dur time.Duration)
}

// snapshot pairs one built tree with its registry so both swap as a
// unit.
type snapshot struct {
	tree     *Tree
	registry *Registry
}

// Router serves matches from the most recently published tree. Reads
// are lock-free; Rebuild replaces the whole tree and registry in one
// atomic pointer swap, so in-flight matches keep the snapshot they
// started with.
type Router struct {
	current  atomic.Pointer[snapshot]
	opts     BuildOptions
	recorder Recorder
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithBuildOptions sets the options applied on every Rebuild.
func WithBuildOptions(opts BuildOptions) RouterOption {
	return func(r *Router) {
		r.opts = opts
	}
}

// WithRecorder attaches build and match instrumentation.
func WithRecorder(rec Recorder) RouterOption {
	return func(r *Router) {
		r.recorder = rec
	}
}

// NewRouter creates a router with an empty published tree. Match
// returns no-match until the first successful Rebuild.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{}
	for _, opt := range opts {
		opt(r)
	}
	tree, registry, _ := Build(nil)
	r.current.Store(&snapshot{tree: tree, registry: registry})
	return r
}

// Rebuild constructs a fresh tree from decls and publishes it. On a
// build error nothing is published and the previous tree stays in
// service, so a failed rebuild never degrades matching.
func (r *Router) Rebuild(decls []Declaration) error {
	start := time.Now()
	tree, registry, err := BuildWithOptions(decls, r.opts)
	if r.recorder != nil {
		r.recorder.RecordBuild(len(decls), time.Since(start), err)
	}
	if err != nil {
		return err
	}
	r.current.Store(&snapshot{tree: tree, registry: registry})
	return nil
}

// Match resolves pathname against the published tree.
func (r *Router) Match(pathname string) (*MatchResult, bool) {
	snap := r.current.Load()
	start := time.Now()
	m, ok := snap.tree.Match(pathname)
	if r.recorder != nil {
		pattern := ""
		if ok {
			pattern = m.Route.Pattern.Raw
		}
		r.recorder.RecordMatch(pathname, pattern, ok, time.Since(start))
	}
	return m, ok
}

// Lookup resolves key against the published registry, trying canonical
// pattern first and declaration ID second.
func (r *Router) Lookup(key string) (*RouteNode, bool) {
	return r.current.Load().registry.Lookup(key)
}

// Tree returns the currently published tree.
func (r *Router) Tree() *Tree {
	return r.current.Load().tree
}

// Registry returns the currently published registry.
func (r *Router) Registry() *Registry {
	return r.current.Load().registry
}

// Routes returns the published tree's nodes in build order.
func (r *Router) Routes() []*RouteNode {
	return r.current.Load().tree.Nodes()
}

// MatchableRoutes returns the published matchable routes in match
// precedence order: higher scores first, ties broken segment by
// segment.
func (r *Router) MatchableRoutes() []*RouteNode {
	nodes := r.current.Load().tree.Nodes()
	routes := nodes[:0]
	for _, n := range nodes {
		if n.Matchable() {
			routes = append(routes, n)
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Score != routes[j].Score {
			return routes[i].Score > routes[j].Score
		}
		return comparePatterns(routes[i].Pattern, routes[j].Pattern) < 0
	})
	return routes
}

// Warnings returns non-fatal findings from the published tree's build.
func (r *Router) Warnings() []error {
	return r.current.Load().tree.Warnings()
}

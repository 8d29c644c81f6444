package router

// Declaration describes one route as supplied by a discovery collaborator
// such as pkg/discover. Declarations are inputs to Build and are treated
// as immutable for the duration of a build.
type Declaration struct {
	// ID uniquely identifies the declaration, typically the
	// routes-relative source file path.
	ID string

	// Pattern is the route pattern string, e.g. "/users/[id]".
	Pattern string

	// Content is an opaque reference to the content unit this route
	// resolves to. The engine carries it through to MatchResult without
	// interpreting it.
	Content string

	// IsIndex marks the route as the default match for its parent's
	// empty-remainder case.
	IsIndex bool

	// IsLayout marks a wrapper route. Layouts become ancestors of the
	// routes at and below their position and are never matched as leaves.
	IsLayout bool

	// Meta is precomputed convention configuration attached by the
	// discovery layer. The engine never reads it.
	Meta any
}

// Package router implements the Trellis route resolution engine.
//
// The engine turns a flat set of route declarations (pattern string,
// content reference, index/layout flags) into an immutable, scored route
// tree and resolves request paths against it:
//   - Pattern parsing with static, dynamic, optional, and catch-all segments
//   - Additive specificity scoring for deterministic sibling ordering
//   - Nested layout composition with outermost-first layout chains
//   - Lock-free matching against an atomically swapped tree snapshot
//   - Typed parameter decoding and compile-time params code generation
//
// # Pattern Syntax
//
// Patterns are slash-delimited; bracket notation marks capturing segments:
//
//	/about              static segments match exact literals
//	/users/[id]         [id] matches exactly one component
//	/blog/[[page]]      [[page]] matches zero or one component
//	/docs/[...path]     [...path] matches one or more remaining components
//
// A catch-all must be the final segment, and a parameter name may appear
// only once per pattern. Repeated and trailing separators are normalized
// away, so "/users/[id]/" and "/users/[id]//" parse identically.
//
// # Precedence
//
// Every route is scored by summing its segment weights (static 100,
// dynamic 50, optional 30, catch-all 10, plus 90 for an index route).
// Siblings are kept sorted by descending score, so a static route always
// beats a dynamic one at the same position and matching is deterministic:
//
//	/users/settings     score 200   matched for "/users/settings"
//	/users/[id]         score 150   matched for "/users/42"
//	/users/[...rest]    score 110   matched for "/users/a/b"
//
// # Usage
//
//	r := router.NewRouter()
//	err := r.Rebuild([]router.Declaration{
//	    {ID: "users/[id].go", Pattern: "/users/[id]", Content: "users/[id].go"},
//	    {ID: "users/index.go", Pattern: "/users", Content: "users/index.go", IsIndex: true},
//	})
//
//	result, ok := r.Match("/users/42")
//	if ok {
//	    // result.Params["id"] == "42"
//	    // result.Route.Content, result.Layouts available
//	}
//
// Declarations normally come from a discovery collaborator such as
// pkg/discover rather than being written by hand; the engine itself never
// reads the filesystem. Rebuilds publish a complete new tree with a single
// atomic store, so concurrent Match calls are lock-free and always observe
// a fully built tree.
package router

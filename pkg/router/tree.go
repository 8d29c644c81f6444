package router

import (
	"fmt"
	"sort"
)

// RouteNode is one node of the built route tree. Nodes are immutable
// once Build returns; the tree owns them top-down and the parent
// relation is a non-owning arena index used only for layout-chain
// assembly.
type RouteNode struct {
	// ID is the declaration ID this node was built from.
	ID string

	// Pattern is the node's full canonical pattern.
	Pattern *Pattern

	// Content is the declaration's opaque content reference.
	Content string

	// Meta is the declaration's opaque convention config.
	Meta any

	// Score is the additive specificity score.
	Score int

	// IsIndex marks the parent's empty-remainder default.
	IsIndex bool

	// IsLayout marks a wrapper node, never matched as a leaf.
	IsLayout bool

	// Children are kept sorted by descending score, ties broken by
	// segment-kind comparison.
	Children []*RouteNode

	// self and parent are indices into the tree's node arena.
	// parent is 0 for top-level nodes (the synthetic root).
	self   int32
	parent int32

	// edge is the segment suffix this node adds relative to its tree
	// parent. Empty for index nodes attached at their parent's position.
	edge []Segment
}

// Matchable reports whether the node can terminate a match.
func (n *RouteNode) Matchable() bool {
	return !n.IsLayout && n.self != 0
}

// Tree is an immutable route tree built from one declaration set.
// A Tree is safe for concurrent use by any number of readers.
type Tree struct {
	root     *RouteNode
	arena    []*RouteNode
	warnings []error
}

// BuildOptions configures tree construction.
type BuildOptions struct {
	// AllowOrphanLayouts downgrades OrphanLayoutError to a warning
	// available from Tree.Warnings.
	AllowOrphanLayouts bool
}

// Build constructs a route tree and registry from a declaration set.
// On any validation failure it returns a *BuildError aggregating every
// finding and no tree is produced, so a previously published tree can
// stay in service.
func Build(decls []Declaration) (*Tree, *Registry, error) {
	return BuildWithOptions(decls, BuildOptions{})
}

// BuildWithOptions is Build with explicit options.
func BuildWithOptions(decls []Declaration, opts BuildOptions) (*Tree, *Registry, error) {
	parsed, errs := parseDeclarations(decls)
	errs = append(errs, findDuplicates(parsed)...)
	if len(errs) > 0 {
		return nil, nil, &BuildError{Errs: errs}
	}

	t := assemble(parsed)

	if orphans := t.orphanLayouts(); len(orphans) > 0 {
		if !opts.AllowOrphanLayouts {
			return nil, nil, &BuildError{Errs: orphans}
		}
		t.warnings = orphans
	}

	t.sortChildren(t.root)

	return t, newRegistry(t), nil
}

// parsedDecl pairs a declaration with its parsed pattern.
type parsedDecl struct {
	Declaration
	pattern *Pattern
}

// parseDeclarations parses every pattern, collecting all failures.
func parseDeclarations(decls []Declaration) ([]parsedDecl, []error) {
	var errs []error
	parsed := make([]parsedDecl, 0, len(decls))

	for _, d := range decls {
		if d.IsIndex && d.IsLayout {
			errs = append(errs, fmt.Errorf("declaration %s: cannot be both index and layout", d.ID))
			continue
		}
		p, err := ParsePattern(d.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("declaration %s: %w", d.ID, err))
			continue
		}
		parsed = append(parsed, parsedDecl{Declaration: d, pattern: p})
	}

	return parsed, errs
}

// findDuplicates detects declarations that resolve to the same matchable
// shape. Matchable routes and layouts are checked as separate namespaces:
// a layout legitimately shares its pattern with the index it wraps.
func findDuplicates(parsed []parsedDecl) []error {
	var errs []error
	matchable := make(map[string]string)
	layouts := make(map[string]string)

	for _, d := range parsed {
		key := d.pattern.shapeKey()
		table := matchable
		if d.IsLayout {
			table = layouts
		}
		if first, ok := table[key]; ok {
			errs = append(errs, &DuplicateRouteError{
				Pattern:  d.pattern.Raw,
				FirstID:  first,
				SecondID: d.ID,
			})
			continue
		}
		table[key] = d.ID
	}

	return errs
}

// assemble builds the node arena and parent/child edges. Declarations
// are processed shallow to deep, layouts ahead of routes at each depth,
// so every node's parent already exists when the node is placed.
func assemble(parsed []parsedDecl) *Tree {
	sort.SliceStable(parsed, func(i, j int) bool {
		li, lj := len(parsed[i].pattern.Segments), len(parsed[j].pattern.Segments)
		if li != lj {
			return li < lj
		}
		if parsed[i].IsLayout != parsed[j].IsLayout {
			return parsed[i].IsLayout
		}
		return parsed[i].pattern.Raw < parsed[j].pattern.Raw
	})

	root := &RouteNode{
		Pattern: &Pattern{Raw: "/"},
		self:    0,
		parent:  -1,
	}
	t := &Tree{
		root:  root,
		arena: make([]*RouteNode, 1, len(parsed)+1),
	}
	t.arena[0] = root

	for _, d := range parsed {
		parent := t.findParent(d)
		node := &RouteNode{
			ID:       d.ID,
			Pattern:  d.pattern,
			Content:  d.Content,
			Meta:     d.Meta,
			Score:    ScorePattern(d.pattern, d.IsIndex),
			IsIndex:  d.IsIndex,
			IsLayout: d.IsLayout,
			self:     int32(len(t.arena)),
			parent:   parent.self,
			edge:     d.pattern.Segments[len(parent.Pattern.Segments):],
		}
		t.arena = append(t.arena, node)
		parent.Children = append(parent.Children, node)
	}

	return t
}

// findParent selects the node whose pattern is the longest structural
// prefix of d's pattern. Layouts may claim nodes at their own position
// (the index they wrap, or a nested layout's routes); non-layout nodes
// only ever parent strictly longer patterns. On equal prefix length a
// layout wins over a route node.
func (t *Tree) findParent(d parsedDecl) *RouteNode {
	best := t.root
	for _, n := range t.arena[1:] {
		if !n.Pattern.isPrefixOf(d.pattern) {
			continue
		}
		nl, dl := len(n.Pattern.Segments), len(d.pattern.Segments)
		if n.IsLayout {
			if nl == dl && !d.IsIndex {
				continue
			}
		} else if nl == dl {
			continue
		}
		bl := len(best.Pattern.Segments)
		if nl > bl || (nl == bl && n.IsLayout && !best.IsLayout) {
			best = n
		}
	}
	return best
}

// sortChildren orders every node's children by descending score, then
// by the segment-kind tie-break.
func (t *Tree) sortChildren(n *RouteNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return comparePatterns(a.Pattern, b.Pattern) < 0
	})
	for _, c := range n.Children {
		t.sortChildren(c)
	}
}

// orphanLayouts returns an error per layout with no matchable
// descendant.
func (t *Tree) orphanLayouts() []error {
	var errs []error
	for _, n := range t.arena[1:] {
		if !n.IsLayout {
			continue
		}
		if !hasMatchableDescendant(n) {
			errs = append(errs, &OrphanLayoutError{ID: n.ID, Pattern: n.Pattern.Raw})
		}
	}
	return errs
}

// hasMatchableDescendant walks n's subtree looking for a route node.
func hasMatchableDescendant(n *RouteNode) bool {
	for _, c := range n.Children {
		if c.Matchable() || hasMatchableDescendant(c) {
			return true
		}
	}
	return false
}

// Root returns the synthetic root node.
func (t *Tree) Root() *RouteNode {
	return t.root
}

// Parent returns n's tree parent, or nil for the root itself.
func (t *Tree) Parent(n *RouteNode) *RouteNode {
	if n.parent < 0 {
		return nil
	}
	return t.arena[n.parent]
}

// Nodes returns every declared node in deterministic build order,
// excluding the synthetic root.
func (t *Tree) Nodes() []*RouteNode {
	nodes := make([]*RouteNode, len(t.arena)-1)
	copy(nodes, t.arena[1:])
	return nodes
}

// Len returns the number of declared nodes in the tree.
func (t *Tree) Len() int {
	return len(t.arena) - 1
}

// Warnings returns non-fatal findings from the build, such as orphan
// layouts when BuildOptions.AllowOrphanLayouts is set.
func (t *Tree) Warnings() []error {
	return t.warnings
}

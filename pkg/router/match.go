package router

import "strings"

// MatchResult is the outcome of a successful match.
type MatchResult struct {
	// Route is the terminal node that accepted the path.
	Route *RouteNode

	// Params maps every parameter name on the matched pattern to its
	// captured value. A catch-all parameter appears here with its
	// components joined by "/".
	Params map[string]string

	// Splat holds the catch-all components in order, nil when the
	// matched pattern has no catch-all segment.
	Splat []string

	// Pathname is the canonical form of the matched input path.
	Pathname string

	// Layouts are the layout nodes wrapping the route, outermost
	// first.
	Layouts []*RouteNode
}

// Param returns the captured value for name, or "" when absent.
func (m *MatchResult) Param(name string) string {
	return m.Params[name]
}

// Match resolves pathname against the tree. It returns the result and
// true on a match, or nil and false when no route accepts the path.
// An unmatched path is not an error. The tree is immutable, so Match
// is safe for concurrent use.
func (t *Tree) Match(pathname string) (*MatchResult, bool) {
	comps := splitPath(pathname)
	caps := &captures{}

	node := t.descend(t.root, comps, caps)
	if node == nil {
		return nil, false
	}

	params := make(map[string]string, len(caps.keys)+1)
	for i, k := range caps.keys {
		params[k] = caps.vals[i]
	}
	var splat []string
	if caps.splat != nil {
		splat = append([]string(nil), caps.splat...)
		params[caps.splatName] = strings.Join(splat, "/")
	}

	return &MatchResult{
		Route:    node,
		Params:   params,
		Splat:    splat,
		Pathname: "/" + strings.Join(comps, "/"),
		Layouts:  t.layoutChain(node),
	}, true
}

// descend terminates at n when the remainder is empty and n is
// matchable, otherwise probes n's children in score order. The first
// child whose subtree accepts wins; a failed subtree rolls its
// captures back before the next sibling is tried.
func (t *Tree) descend(n *RouteNode, comps []string, caps *captures) *RouteNode {
	if len(comps) == 0 && n.Matchable() {
		return n
	}
	for _, c := range n.Children {
		mark := caps.mark()
		if m := t.consume(c, 0, comps, caps); m != nil {
			return m
		}
		caps.rollback(mark)
	}
	return nil
}

// consume advances through c's edge segments from index ei, capturing
// parameters as it goes. An optional segment is tried greedily first
// and falls back to consuming nothing. A catch-all takes every
// remaining component and is always the final edge segment.
func (t *Tree) consume(c *RouteNode, ei int, comps []string, caps *captures) *RouteNode {
	if ei == len(c.edge) {
		return t.descend(c, comps, caps)
	}

	seg := c.edge[ei]
	switch seg.Kind {
	case SegmentStatic:
		if len(comps) > 0 && comps[0] == seg.Literal {
			return t.consume(c, ei+1, comps[1:], caps)
		}

	case SegmentDynamic:
		if len(comps) > 0 {
			mark := caps.mark()
			caps.set(seg.Param, comps[0])
			if m := t.consume(c, ei+1, comps[1:], caps); m != nil {
				return m
			}
			caps.rollback(mark)
		}

	case SegmentOptional:
		if len(comps) > 0 {
			mark := caps.mark()
			caps.set(seg.Param, comps[0])
			if m := t.consume(c, ei+1, comps[1:], caps); m != nil {
				return m
			}
			caps.rollback(mark)
		}
		return t.consume(c, ei+1, comps, caps)

	case SegmentCatchAll:
		if len(comps) > 0 {
			caps.splatName = seg.Param
			caps.splat = comps
			if m := t.consume(c, ei+1, nil, caps); m != nil {
				return m
			}
			caps.splatName = ""
			caps.splat = nil
		}
	}

	return nil
}

// layoutChain collects the layouts wrapping n, outermost first.
func (t *Tree) layoutChain(n *RouteNode) []*RouteNode {
	var chain []*RouteNode
	for p := t.Parent(n); p != nil && p.self != 0; p = t.Parent(p) {
		if p.IsLayout {
			chain = append(chain, p)
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// captures accumulates parameter bindings along one probe path. The
// mark and rollback pair lets the matcher discard bindings from a
// rejected subtree in O(1).
type captures struct {
	keys      []string
	vals      []string
	splatName string
	splat     []string
}

func (c *captures) mark() int {
	return len(c.keys)
}

func (c *captures) rollback(mark int) {
	c.keys = c.keys[:mark]
	c.vals = c.vals[:mark]
}

func (c *captures) set(key, val string) {
	c.keys = append(c.keys, key)
	c.vals = append(c.vals, val)
}

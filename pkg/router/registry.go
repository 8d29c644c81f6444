package router

import "sort"

// Registry provides constant-time lookup of built nodes by canonical
// pattern or declaration ID. It is built alongside the tree and shares
// the same immutability guarantee.
type Registry struct {
	byPattern map[string]*RouteNode
	byID      map[string]*RouteNode
}

func newRegistry(t *Tree) *Registry {
	r := &Registry{
		byPattern: make(map[string]*RouteNode, t.Len()),
		byID:      make(map[string]*RouteNode, t.Len()),
	}
	for _, n := range t.arena[1:] {
		r.byID[n.ID] = n
		if n.Matchable() {
			r.byPattern[n.Pattern.Raw] = n
		}
	}
	return r
}

// Lookup resolves key as a canonical pattern first, then as a
// declaration ID. A pattern key in non-canonical form is canonicalized
// before the pattern table is consulted again.
func (r *Registry) Lookup(key string) (*RouteNode, bool) {
	if n, ok := r.byPattern[key]; ok {
		return n, true
	}
	if n, ok := r.byID[key]; ok {
		return n, true
	}
	if p, err := ParsePattern(key); err == nil {
		if n, ok := r.byPattern[p.Raw]; ok {
			return n, true
		}
	}
	return nil, false
}

// LookupPattern resolves a canonical pattern to its route node.
func (r *Registry) LookupPattern(pattern string) (*RouteNode, bool) {
	n, ok := r.byPattern[pattern]
	return n, ok
}

// LookupID resolves a declaration ID to its node. Unlike LookupPattern
// this also finds layouts.
func (r *Registry) LookupID(id string) (*RouteNode, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// Patterns returns every matchable canonical pattern in sorted order.
func (r *Registry) Patterns() []string {
	patterns := make([]string, 0, len(r.byPattern))
	for p := range r.byPattern {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}

// Len returns the number of matchable patterns in the registry.
func (r *Registry) Len() int {
	return len(r.byPattern)
}

// Package manifest exports the resolved route table as a versioned,
// deterministic JSON document. Frameworks embed the manifest for
// client-side navigation tables, deploy tooling diffs it across
// releases, and the dev server logs route-table changes with it.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/trellis-dev/trellis/pkg/router"
)

// Version is the manifest schema version.
const Version = 1

// Manifest is a point-in-time export of a built route table.
type Manifest struct {
	// Version is the schema version, always the package's Version.
	Version int `json:"version"`

	// GeneratedAt is when the manifest was built, UTC.
	GeneratedAt time.Time `json:"generatedAt"`

	// Routes are the entries, sorted by canonical pattern then ID.
	Routes []Entry `json:"routes"`
}

// Entry describes one route declaration in the table.
type Entry struct {
	// ID is the declaration ID, typically the routes-relative file path.
	ID string `json:"id"`

	// Pattern is the canonical pattern string.
	Pattern string `json:"pattern"`

	// Score is the additive specificity score.
	Score int `json:"score"`

	// Index marks the parent's empty-remainder default.
	Index bool `json:"index,omitempty"`

	// Layout marks a wrapper route.
	Layout bool `json:"layout,omitempty"`

	// Params are the captured parameters, in segment order.
	Params []Field `json:"params,omitempty"`
}

// Field describes one captured parameter.
type Field struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Build exports the router's currently published tree.
func Build(r *router.Router) *Manifest {
	return FromNodes(r.Routes())
}

// FromNodes builds a manifest from route nodes. Output ordering is
// deterministic regardless of node order.
func FromNodes(nodes []*router.RouteNode) *Manifest {
	entries := make([]Entry, 0, len(nodes))
	for _, n := range nodes {
		e := Entry{
			ID:      n.ID,
			Pattern: n.Pattern.Raw,
			Score:   n.Score,
			Index:   n.IsIndex,
			Layout:  n.IsLayout,
		}
		for _, f := range n.Pattern.ParamFields() {
			e.Params = append(e.Params, Field{Name: f.Name, Kind: f.Kind.String()})
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Pattern != entries[j].Pattern {
			return entries[i].Pattern < entries[j].Pattern
		}
		return entries[i].ID < entries[j].ID
	})

	return &Manifest{
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		Routes:      entries,
	}
}

// Encode renders the manifest as indented JSON with a trailing newline.
// Entry order is already deterministic, so identical route tables encode
// identically except for the timestamp.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a manifest from JSON.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if m.Version > Version {
		return nil, fmt.Errorf("manifest: unsupported version %d", m.Version)
	}
	return &m, nil
}

// Change is one difference between two manifests.
type Change struct {
	// Kind is "added", "removed", or "changed".
	Kind string

	// Pattern is the affected canonical pattern.
	Pattern string

	// Detail describes what changed for "changed" entries.
	Detail string
}

// String renders the change for log output.
func (c Change) String() string {
	if c.Detail == "" {
		return fmt.Sprintf("%s %s", c.Kind, c.Pattern)
	}
	return fmt.Sprintf("%s %s (%s)", c.Kind, c.Pattern, c.Detail)
}

// Diff compares two manifests by pattern. The timestamp is ignored;
// only the route entries matter. Results come back sorted by pattern.
func Diff(old, new *Manifest) []Change {
	oldByPattern := make(map[string]Entry, len(old.Routes))
	for _, e := range old.Routes {
		oldByPattern[entryKey(e)] = e
	}
	newByPattern := make(map[string]Entry, len(new.Routes))
	for _, e := range new.Routes {
		newByPattern[entryKey(e)] = e
	}

	var changes []Change
	for key, e := range newByPattern {
		prev, ok := oldByPattern[key]
		if !ok {
			changes = append(changes, Change{Kind: "added", Pattern: e.Pattern})
			continue
		}
		if detail := entryDiff(prev, e); detail != "" {
			changes = append(changes, Change{Kind: "changed", Pattern: e.Pattern, Detail: detail})
		}
	}
	for key, e := range oldByPattern {
		if _, ok := newByPattern[key]; !ok {
			changes = append(changes, Change{Kind: "removed", Pattern: e.Pattern})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Pattern != changes[j].Pattern {
			return changes[i].Pattern < changes[j].Pattern
		}
		return changes[i].Kind < changes[j].Kind
	})
	return changes
}

// entryKey distinguishes a layout from the index sharing its pattern.
func entryKey(e Entry) string {
	if e.Layout {
		return "layout:" + e.Pattern
	}
	return e.Pattern
}

// entryDiff reports what differs between two entries with the same key.
func entryDiff(old, new Entry) string {
	switch {
	case old.ID != new.ID:
		return fmt.Sprintf("id %s -> %s", old.ID, new.ID)
	case old.Score != new.Score:
		return fmt.Sprintf("score %d -> %d", old.Score, new.Score)
	case old.Index != new.Index:
		return "index flag changed"
	case !paramsEqual(old.Params, new.Params):
		return "params changed"
	default:
		return ""
	}
}

func paramsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

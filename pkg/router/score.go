package router

import "strings"

// Segment weights for specificity scoring. A pattern's score is the sum
// of its segment weights, so a fully static deep path always outranks a
// pattern with any capturing segment at the same or shallower depth.
const (
	weightStatic   = 100
	weightIndex    = 90
	weightDynamic  = 50
	weightOptional = 30
	weightCatchAll = 10
)

// ScorePattern returns the additive specificity score for a pattern.
// Index routes gain the index weight once, on top of their segment sum,
// which places them above a dynamic sibling at the same position but
// below a static one.
func ScorePattern(p *Pattern, isIndex bool) int {
	score := 0
	for _, seg := range p.Segments {
		score += segmentWeight(seg.Kind)
	}
	if isIndex {
		score += weightIndex
	}
	return score
}

// segmentWeight returns the scoring weight for a segment kind.
func segmentWeight(k SegmentKind) int {
	switch k {
	case SegmentStatic:
		return weightStatic
	case SegmentDynamic:
		return weightDynamic
	case SegmentOptional:
		return weightOptional
	case SegmentCatchAll:
		return weightCatchAll
	default:
		return 0
	}
}

// comparePatterns is the deterministic tie-break for siblings with equal
// scores. Corresponding segments are compared left to right; at the
// first position where the kinds diverge, the more specific kind wins
// (static beats dynamic beats optional beats catch-all). Shorter
// patterns order before longer ones when one is a prefix of the other,
// and fully kind-equal patterns fall back to their canonical strings so
// the ordering is total.
//
// Returns a negative value when a sorts before b.
func comparePatterns(a, b *Pattern) int {
	n := len(a.Segments)
	if len(b.Segments) < n {
		n = len(b.Segments)
	}
	for i := 0; i < n; i++ {
		ka, kb := a.Segments[i].Kind, b.Segments[i].Kind
		if ka != kb {
			return int(ka) - int(kb)
		}
	}
	if len(a.Segments) != len(b.Segments) {
		return len(a.Segments) - len(b.Segments)
	}
	return strings.Compare(a.Raw, b.Raw)
}

package router

import (
	"strings"
	"unicode"
)

// SegmentKind classifies one segment of a route pattern.
// The declaration order doubles as specificity order: lower values are
// more specific, which the tie-break comparison in the tree relies on.
type SegmentKind int

const (
	// SegmentStatic matches one path component by exact literal.
	SegmentStatic SegmentKind = iota

	// SegmentDynamic matches exactly one path component and captures it.
	SegmentDynamic

	// SegmentOptional matches zero or one path component and captures it.
	SegmentOptional

	// SegmentCatchAll matches one or more remaining path components and
	// captures them as an ordered sequence. Always the final segment.
	SegmentCatchAll
)

// String returns the kind as a short lowercase name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentStatic:
		return "static"
	case SegmentDynamic:
		return "dynamic"
	case SegmentOptional:
		return "optional"
	case SegmentCatchAll:
		return "catchall"
	default:
		return "unknown"
	}
}

// Segment is one slash-delimited element of a route pattern.
type Segment struct {
	// Kind is the segment class.
	Kind SegmentKind

	// Literal is the exact text for static segments, empty otherwise.
	Literal string

	// Param is the capture name for non-static segments, empty otherwise.
	Param string
}

// String returns the segment in pattern notation.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentDynamic:
		return "[" + s.Param + "]"
	case SegmentOptional:
		return "[[" + s.Param + "]]"
	case SegmentCatchAll:
		return "[..." + s.Param + "]"
	default:
		return s.Literal
	}
}

// Pattern is the parsed, immutable form of a route pattern string.
type Pattern struct {
	// Raw is the canonical pattern string, rebuilt from the segments with
	// separators normalized. The root pattern is "/".
	Raw string

	// Segments is the ordered segment sequence. Empty for the root.
	Segments []Segment
}

// ParamField describes one captured parameter of a pattern, in segment
// order. It is the unit the code generator derives typed fields from.
type ParamField struct {
	Name string
	Kind SegmentKind
}

// ParsePattern parses a route pattern string into its segment sequence.
// Repeated and trailing separators are normalized away before parsing.
// It returns a *MalformedPatternError when the pattern has unbalanced
// brackets, an empty parameter name, a duplicate parameter name, or a
// catch-all segment anywhere but the final position.
func ParsePattern(raw string) (*Pattern, error) {
	parts := splitPath(raw)

	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for i, part := range parts {
		seg, err := parseSegment(raw, part)
		if err != nil {
			return nil, err
		}

		if seg.Kind == SegmentCatchAll && i != len(parts)-1 {
			return nil, &MalformedPatternError{
				Pattern: raw,
				Reason:  "catch-all segment [..." + seg.Param + "] must be the final segment",
			}
		}

		if seg.Param != "" {
			if seen[seg.Param] {
				return nil, &MalformedPatternError{
					Pattern: raw,
					Reason:  "parameter " + seg.Param + " appears more than once",
				}
			}
			seen[seg.Param] = true
		}

		segments = append(segments, seg)
	}

	return &Pattern{
		Raw:      joinSegments(segments),
		Segments: segments,
	}, nil
}

// MustParsePattern is like ParsePattern but panics on error.
// Intended for patterns known valid at program start.
func MustParsePattern(raw string) *Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the canonical pattern string.
func (p *Pattern) String() string {
	return p.Raw
}

// ParamFields returns the capture descriptors for every non-static
// segment, in segment order. The result is a pure function of the
// pattern string, which is what makes generated params types possible.
func (p *Pattern) ParamFields() []ParamField {
	var fields []ParamField
	for _, seg := range p.Segments {
		if seg.Kind == SegmentStatic {
			continue
		}
		fields = append(fields, ParamField{Name: seg.Param, Kind: seg.Kind})
	}
	return fields
}

// HasCatchAll reports whether the pattern ends in a catch-all segment.
func (p *Pattern) HasCatchAll() bool {
	return len(p.Segments) > 0 && p.Segments[len(p.Segments)-1].Kind == SegmentCatchAll
}

// CatchAllName returns the catch-all parameter name, or "" if none.
func (p *Pattern) CatchAllName() string {
	if !p.HasCatchAll() {
		return ""
	}
	return p.Segments[len(p.Segments)-1].Param
}

// isPrefixOf reports whether p's segments are a structural prefix of
// q's segments. Equal patterns count as a prefix of each other.
func (p *Pattern) isPrefixOf(q *Pattern) bool {
	if len(p.Segments) > len(q.Segments) {
		return false
	}
	for i, seg := range p.Segments {
		if seg != q.Segments[i] {
			return false
		}
	}
	return true
}

// shapeKey reduces the pattern to its matchable shape: static literals
// are kept, capturing segments collapse to their kind. Two patterns with
// the same shape key match exactly the same set of paths regardless of
// parameter names, which is what duplicate detection needs.
func (p *Pattern) shapeKey() string {
	if len(p.Segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p.Segments {
		b.WriteByte('/')
		switch seg.Kind {
		case SegmentStatic:
			b.WriteString(seg.Literal)
		case SegmentDynamic:
			b.WriteString("\x00d")
		case SegmentOptional:
			b.WriteString("\x00o")
		case SegmentCatchAll:
			b.WriteString("\x00c")
		}
	}
	return b.String()
}

// parseSegment classifies a single normalized path element.
func parseSegment(pattern, part string) (Segment, error) {
	switch {
	case strings.HasPrefix(part, "[[") && strings.HasSuffix(part, "]]"):
		name := part[2 : len(part)-2]
		if err := checkParamName(pattern, part, name); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegmentOptional, Param: name}, nil

	case strings.HasPrefix(part, "[...") && strings.HasSuffix(part, "]"):
		name := part[4 : len(part)-1]
		if err := checkParamName(pattern, part, name); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegmentCatchAll, Param: name}, nil

	case strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]"):
		name := part[1 : len(part)-1]
		if err := checkParamName(pattern, part, name); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegmentDynamic, Param: name}, nil

	default:
		if strings.ContainsAny(part, "[]") {
			return Segment{}, &MalformedPatternError{
				Pattern: pattern,
				Reason:  "unbalanced brackets in segment " + part,
			}
		}
		return Segment{Kind: SegmentStatic, Literal: part}, nil
	}
}

// checkParamName validates a capture name: a letter or underscore
// followed by letters, digits, or underscores. The restriction keeps
// names usable as generated struct field sources.
func checkParamName(pattern, part, name string) error {
	if name == "" {
		return &MalformedPatternError{
			Pattern: pattern,
			Reason:  "empty parameter name in segment " + part,
		}
	}
	for i, r := range name {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return &MalformedPatternError{
				Pattern: pattern,
				Reason:  "invalid parameter name in segment " + part,
			}
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return &MalformedPatternError{
				Pattern: pattern,
				Reason:  "invalid parameter name in segment " + part,
			}
		}
	}
	return nil
}

// joinSegments rebuilds the canonical pattern string.
func joinSegments(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(seg.String())
	}
	return b.String()
}

// splitPath splits a path into components, dropping empty components so
// that repeated and trailing separators collapse.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	raw := strings.Split(path, "/")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

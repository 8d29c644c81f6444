package router

import (
	"fmt"
	"net/url"
	"strings"
)

// URL builds a concrete path for the node's pattern. Dynamic segments
// take their value from params and must be present and non-empty.
// Optional segments are included only when params carries a value. A
// catch-all consumes the splat components and requires at least one.
// Every injected value is path-escaped.
func (n *RouteNode) URL(params map[string]string, splat ...string) (string, error) {
	var b strings.Builder
	for _, seg := range n.Pattern.Segments {
		switch seg.Kind {
		case SegmentStatic:
			b.WriteByte('/')
			b.WriteString(seg.Literal)
		case SegmentDynamic:
			v := params[seg.Param]
			if v == "" {
				return "", fmt.Errorf("pattern %s: missing value for parameter %q", n.Pattern.Raw, seg.Param)
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(v))
		case SegmentOptional:
			if v := params[seg.Param]; v != "" {
				b.WriteByte('/')
				b.WriteString(url.PathEscape(v))
			}
		case SegmentCatchAll:
			if len(splat) == 0 {
				return "", fmt.Errorf("pattern %s: catch-all %q requires at least one component", n.Pattern.Raw, seg.Param)
			}
			for _, c := range splat {
				b.WriteByte('/')
				b.WriteString(url.PathEscape(c))
			}
		}
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// URLFor looks key up in the published registry and builds a concrete
// path from the node's pattern. See RouteNode.URL for parameter
// handling.
func (r *Router) URLFor(key string, params map[string]string, splat ...string) (string, error) {
	node, ok := r.Lookup(key)
	if !ok {
		return "", fmt.Errorf("no route registered for %q", key)
	}
	return node.URL(params, splat...)
}

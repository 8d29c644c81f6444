// Package web adapts the routing engine to net/http. The handler
// canonicalizes the request path, resolves it against the router, and
// dispatches to the handler registered for the matched route's content
// reference. The match result, including params and the layout chain,
// travels in the request context for downstream handlers.
//
// Rendering stays out of scope here: the adapter decides nothing about
// how a route renders, only which registered handler receives it.
package web

import (
	"context"
	"net/http"

	"github.com/trellis-dev/trellis/pkg/routepath"
	"github.com/trellis-dev/trellis/pkg/router"
)

// resultKey is the context key for the match result.
type resultKey struct{}

// ResultFrom returns the match result stored in the request context by
// the Handler, or nil when the request did not pass through it.
func ResultFrom(ctx context.Context) *router.MatchResult {
	res, _ := ctx.Value(resultKey{}).(*router.MatchResult)
	return res
}

// Handler dispatches HTTP requests through a Router.
type Handler struct {
	router   *router.Router
	content  map[string]http.Handler
	notFound http.Handler
	badPath  http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithNotFound sets the handler invoked when no route matches.
// The default responds 404 via http.NotFound.
func WithNotFound(h http.Handler) Option {
	return func(hd *Handler) {
		hd.notFound = h
	}
}

// WithBadPath sets the handler invoked when path canonicalization
// rejects the request. The default responds 400.
func WithBadPath(h http.Handler) Option {
	return func(hd *Handler) {
		hd.badPath = h
	}
}

// NewHandler creates a handler over r. Content handlers are attached
// with Handle or HandleFunc, keyed by the declaration's content
// reference.
func NewHandler(r *router.Router, opts ...Option) *Handler {
	h := &Handler{
		router:  r,
		content: make(map[string]http.Handler),
		notFound: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			http.NotFound(w, req)
		}),
		badPath: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "invalid path", http.StatusBadRequest)
		}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle registers next for the given content reference.
func (h *Handler) Handle(content string, next http.Handler) {
	h.content[content] = next
}

// HandleFunc registers fn for the given content reference.
func (h *Handler) HandleFunc(content string, fn func(http.ResponseWriter, *http.Request)) {
	h.Handle(content, http.HandlerFunc(fn))
}

// ServeHTTP canonicalizes, matches, and dispatches. A miss or a
// matched route without a registered content handler falls through to
// the not-found handler; routing itself never errors at request time.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	canon, err := routepath.Canonicalize(req.URL.Path)
	if err != nil {
		h.badPath.ServeHTTP(w, req)
		return
	}

	res, ok := h.router.Match(canon.Path)
	if !ok {
		h.notFound.ServeHTTP(w, req)
		return
	}

	next, ok := h.content[res.Route.Content]
	if !ok {
		h.notFound.ServeHTTP(w, req)
		return
	}

	ctx := context.WithValue(req.Context(), resultKey{}, res)
	next.ServeHTTP(w, req.WithContext(ctx))
}

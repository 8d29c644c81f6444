package dev

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trellis-dev/trellis/internal/config"
	trelliserrors "github.com/trellis-dev/trellis/internal/errors"
	"github.com/trellis-dev/trellis/pkg/observe"
	"github.com/trellis-dev/trellis/pkg/router"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Verbose enables verbose logging.
	Verbose bool

	// OnBuildStart is called when a rebuild starts.
	OnBuildStart func()

	// OnBuildComplete is called when a rebuild completes.
	OnBuildComplete func(result RebuildResult)

	// OnReload is called when browsers are reloaded.
	OnReload func(clients int)
}

// Server is the development server. It watches the routes directory,
// rebuilds the route tree on change, and serves the route inspector.
type Server struct {
	config       *config.Config
	options      ServerOptions
	rebuilder    *Rebuilder
	watcher      *Watcher
	reloadServer *ReloadServer
	changeCh     chan Change
	httpServer   *http.Server
	registry     *prometheus.Registry
	mu           sync.Mutex
	running      bool
	hotReload    bool
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	hotReload := cfg.Dev.HotReload

	// The server owns its metrics registry so /metrics exposes only
	// router series.
	registry := prometheus.NewRegistry()
	rtr := router.NewRouter(
		router.WithBuildOptions(router.BuildOptions{
			AllowOrphanLayouts: cfg.Check.AllowOrphanLayouts,
		}),
		router.WithRecorder(observe.Metrics(observe.WithRegistry(registry))),
	)

	rebuilder := NewRebuilder(cfg, rtr)
	rebuilder.WriteArtifacts = true

	debounce := time.Duration(cfg.Dev.DebounceMs) * time.Millisecond
	watcher := NewWatcher(WatcherConfig{
		Paths:      []string{cfg.RoutesPath(), cfg.Path()},
		RoutesDir:  cfg.RoutesPath(),
		ConfigFile: cfg.Path(),
		Ignore:     append(DefaultIgnore, cfg.Dev.Ignore...),
		Debounce:   debounce,
	})

	var reloadServer *ReloadServer
	if hotReload {
		reloadServer = NewReloadServer()
	}

	return &Server{
		config:       cfg,
		options:      options,
		rebuilder:    rebuilder,
		watcher:      watcher,
		reloadServer: reloadServer,
		registry:     registry,
		hotReload:    hotReload,
	}
}

// Router returns the server's live router.
func (s *Server) Router() *router.Router {
	return s.rebuilder.Router()
}

// Start starts the development server. It blocks until ctx is
// cancelled or the HTTP server fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	// Initial build
	s.log("Building routes...")
	result := s.rebuilder.Rebuild()
	s.reportResult(result, "")

	// Set up watcher callback
	s.changeCh = make(chan Change, 64)
	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
		}
	})

	// Start watcher in background
	go s.watcher.Start(ctx)
	go s.processChanges(ctx)

	s.httpServer = &http.Server{
		Addr:    s.config.DevAddress(),
		Handler: s.routes(),
	}

	s.log("Inspector running at %s", s.config.DevURL())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.watcher.Stop()
	if s.reloadServer != nil {
		s.reloadServer.Close()
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// routes builds the inspector mux.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if s.options.Verbose {
		r.Use(chimiddleware.Logger)
	}

	r.Get("/", s.handleIndex)
	r.Get("/routes", s.handleRoutes)
	r.Get("/match", s.handleMatch)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	if s.reloadEnabled() {
		r.Get("/_trellis/reload", s.reloadServer.HandleWebSocket)
	}

	return r
}

// processChanges serializes file change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(changes)
		}
	}
}

// handleChanges handles a batch of file changes.
func (s *Server) handleChanges(changes []Change) {
	if len(changes) == 0 {
		return
	}

	var routeFile string
	hasConfig := false

	for _, change := range changes {
		if s.options.Verbose {
			s.log("Changed: %s", change.Path)
		}
		switch change.Type {
		case ChangeRoute:
			if routeFile == "" {
				routeFile = change.Path
			}
		case ChangeConfig:
			hasConfig = true
		}
	}

	if hasConfig {
		s.log("Configuration changed; restart the server to apply it")
	}

	if routeFile != "" {
		s.handleRouteChange(routeFile)
	}
}

func (s *Server) handleRouteChange(file string) {
	if s.options.OnBuildStart != nil {
		s.options.OnBuildStart()
	}
	if s.reloadEnabled() {
		s.reloadServer.NotifyRebuild(file)
	}

	s.log("Rebuilding routes...")
	result := s.rebuilder.Rebuild()
	s.reportResult(result, file)
}

// reportResult logs a rebuild outcome and notifies connected browsers.
func (s *Server) reportResult(result RebuildResult, file string) {
	if s.options.OnBuildComplete != nil {
		s.options.OnBuildComplete(result)
	}

	if !result.Success {
		msg := formatBuildError(result.Error)
		s.logError("Build failed:\n%s", msg)
		s.notifyError(msg)
		return
	}

	for _, w := range result.Warnings {
		s.logError("Warning: %v", w)
	}
	for _, c := range result.Changes {
		s.log("  %s", c)
	}
	if result.Regenerated {
		s.log("Regenerated %s", s.config.Generate.Output)
	}
	s.log("Built %d routes in %s", result.Routes, result.Duration.Round(time.Millisecond))

	s.clearReloadError()
	if file != "" {
		s.notifyReload()
	}
}

// handleIndex serves the inspector page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	routes := s.Router().MatchableRoutes()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Trellis Route Inspector</title></head>
<body style="font-family: system-ui; padding: 40px; background: #1a1a1a; color: #fff;">
<h1>%s</h1>
<p style="color: #888;">%d routes. <a style="color:#8af;" href="/routes">JSON</a> &middot; <a style="color:#8af;" href="/metrics">metrics</a> &middot; try <code>/match?path=/your/path</code></p>
<table style="border-collapse: collapse; font-family: monospace;">
<tr><th align="left" style="padding: 4px 16px;">Pattern</th><th align="left" style="padding: 4px 16px;">Score</th><th align="left" style="padding: 4px 16px;">ID</th></tr>
`, html.EscapeString(s.config.Name), len(routes))

	for _, rt := range routes {
		fmt.Fprintf(w, "<tr><td style=\"padding: 4px 16px;\">%s</td><td style=\"padding: 4px 16px;\">%d</td><td style=\"padding: 4px 16px; color: #888;\">%s</td></tr>\n",
			html.EscapeString(rt.Pattern.Raw), rt.Score, html.EscapeString(rt.ID))
	}

	fmt.Fprint(w, "</table>\n")
	if s.reloadEnabled() {
		fmt.Fprint(w, DevClientScript)
	}
	fmt.Fprint(w, "</body>\n</html>\n")
}

type routeInfo struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Score   int    `json:"score"`
	Index   bool   `json:"index,omitempty"`
	Content string `json:"content,omitempty"`
}

// handleRoutes serves the matchable route table as JSON.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	routes := s.Router().MatchableRoutes()
	infos := make([]routeInfo, 0, len(routes))
	for _, rt := range routes {
		infos = append(infos, routeInfo{
			ID:      rt.ID,
			Pattern: rt.Pattern.Raw,
			Score:   rt.Score,
			Index:   rt.IsIndex,
			Content: rt.Content,
		})
	}

	writeJSON(w, http.StatusOK, infos)
}

type matchResponse struct {
	Matched  bool              `json:"matched"`
	Pattern  string            `json:"pattern,omitempty"`
	ID       string            `json:"id,omitempty"`
	Pathname string            `json:"pathname,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	Splat    []string          `json:"splat,omitempty"`
	Layouts  []string          `json:"layouts,omitempty"`
}

// handleMatch previews which route a path would resolve to.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing path query parameter"})
		return
	}

	result, ok := s.Router().Match(path)
	if !ok {
		writeJSON(w, http.StatusOK, matchResponse{Matched: false})
		return
	}

	resp := matchResponse{
		Matched:  true,
		Pattern:  result.Route.Pattern.Raw,
		ID:       result.Route.ID,
		Pathname: result.Pathname,
		Params:   result.Params,
		Splat:    result.Splat,
	}
	for _, l := range result.Layouts {
		resp.Layouts = append(resp.Layouts, l.ID)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// formatBuildError renders a build error for the terminal and the
// browser overlay.
func formatBuildError(err error) string {
	var te *trelliserrors.TrellisError
	if stderrors.As(trelliserrors.WrapBuild(err), &te) {
		msg := te.FormatCompact()
		if te.Detail != "" {
			msg += "\n" + te.Detail
		}
		return msg
	}
	return err.Error()
}

// log logs a timestamped message.
func (s *Server) log(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// logError logs an error message.
func (s *Server) logError(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(os.Stderr, "[%s] %s%s%s\n", timestamp, "\033[31m", fmt.Sprintf(format, args...), "\033[0m")
}

func (s *Server) reloadEnabled() bool {
	return s.hotReload && s.reloadServer != nil
}

func (s *Server) notifyReload() {
	if !s.reloadEnabled() {
		s.log("Hot reload disabled; rebuild complete")
		return
	}

	s.reloadServer.NotifyReload()
	if s.options.OnReload != nil {
		s.options.OnReload(s.reloadServer.ClientCount())
	}
	s.log("Reloaded %d browsers", s.reloadServer.ClientCount())
}

func (s *Server) notifyError(errMsg string) {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.NotifyError(errMsg)
}

func (s *Server) clearReloadError() {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.ClearError()
}

// Package dev provides the development server and hot reload functionality.
//
// This package implements:
//   - File watching for route file changes
//   - Route tree rebuilds with atomic publication
//   - Route file and manifest regeneration on change
//   - WebSocket-based browser refresh
//   - A route inspector with JSON and Prometheus endpoints
//
// # Architecture
//
// The development server consists of several components:
//
//   - Watcher: Monitors the routes directory and trellis.json
//   - Rebuilder: Scans route files and swaps the route tree
//   - Server: Serves the route inspector
//   - ReloadServer: Notifies browsers of changes via WebSocket
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{
//	    Config: cfg,
//	})
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// Hot reload can be disabled via trellis.json (dev.hotReload=false).
// Watch paths are the routes directory and the config file, minus any
// patterns in dev.ignore.
//
// # Hot Reload Protocol
//
// The browser connects to /_trellis/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "rebuild"}               // A rebuild has started
//	{"type": "reload"}                // Triggers full page reload
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}                 // Clears error overlay
package dev

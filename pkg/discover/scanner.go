// Package discover turns a routes directory into route declarations.
// File and directory names carry the whole routing convention, so the
// scanner never opens file contents: index.go marks a directory's
// default route, _layout.go marks a wrapper, and bracketed names pass
// through to the engine's pattern syntax untouched.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trellis-dev/trellis/pkg/router"
)

// Meta is the filename-suffix convention attached to a declaration.
// The routing engine carries it opaquely; serving layers decide what a
// mode means.
type Meta struct {
	// Mode is the rendering mode from a name.<mode>.go suffix,
	// "server" or "static".
	Mode string
}

// Scanner scans a directory for route files.
type Scanner struct {
	rootDir string
}

// NewScanner creates a scanner rooted at rootDir.
func NewScanner(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	// Validate builds the declaration set after scanning so malformed
	// patterns and duplicates surface here instead of at first use.
	Validate bool

	// AllowOrphanLayouts passes through to validation.
	AllowOrphanLayouts bool
}

// Scan reads the routes directory and returns its declarations,
// validated and in deterministic order.
func (s *Scanner) Scan() ([]router.Declaration, error) {
	return s.ScanWithOptions(ScanOptions{Validate: true})
}

// ScanWithOptions reads the routes directory with explicit options.
func (s *Scanner) ScanWithOptions(opts ScanOptions) ([]router.Declaration, error) {
	var decls []router.Declaration

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != s.rootDir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return fs.SkipDir
			}
			return nil
		}

		if !isRouteFile(name) {
			return nil
		}

		rel, err := filepath.Rel(s.rootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		decl, err := declarationFor(rel, path)
		if err != nil {
			return err
		}
		decls = append(decls, decl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(decls, func(i, j int) bool {
		return decls[i].ID < decls[j].ID
	})

	if opts.Validate {
		buildOpts := router.BuildOptions{AllowOrphanLayouts: opts.AllowOrphanLayouts}
		if _, _, err := router.BuildWithOptions(decls, buildOpts); err != nil {
			return nil, err
		}
	}

	return decls, nil
}

// isRouteFile reports whether a file name declares a route. Test
// files, generated files, and underscore-prefixed files other than
// _layout.go are not route declarations.
func isRouteFile(name string) bool {
	if !strings.HasSuffix(name, ".go") {
		return false
	}
	if strings.HasSuffix(name, "_test.go") ||
		strings.HasSuffix(name, "_gen.go") ||
		strings.HasSuffix(name, ".gen.go") {
		return false
	}
	if strings.HasPrefix(name, "_") {
		return name == "_layout.go"
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return true
}

// declarationFor maps one routes-relative file path to its
// declaration.
func declarationFor(rel, full string) (router.Declaration, error) {
	decl := router.Declaration{
		ID:      rel,
		Content: full,
	}

	base := strings.TrimSuffix(filepath.Base(rel), ".go")
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		dir = ""
	}

	base, mode := splitModeSuffix(base)
	if mode != "" {
		decl.Meta = &Meta{Mode: mode}
	}

	switch base {
	case "index":
		decl.IsIndex = true
		decl.Pattern = "/" + dir
	case "_layout":
		decl.IsLayout = true
		decl.Pattern = "/" + dir
	default:
		decl.Pattern = "/" + joinPattern(dir, base)
	}

	if err := validateBrackets(decl.Pattern, rel); err != nil {
		return router.Declaration{}, err
	}

	return decl, nil
}

// splitModeSuffix strips a trailing rendering-mode suffix from a file
// base name: "posts.static" becomes ("posts", "static").
func splitModeSuffix(base string) (string, string) {
	for _, mode := range []string{"server", "static"} {
		if strings.HasSuffix(base, "."+mode) {
			return strings.TrimSuffix(base, "."+mode), mode
		}
	}
	return base, ""
}

func joinPattern(dir, base string) string {
	if dir == "" {
		return base
	}
	return dir + "/" + base
}

// validateBrackets rejects file names whose bracket syntax the engine
// would refuse, so the error names the offending file rather than a
// derived pattern.
func validateBrackets(pattern, rel string) error {
	if _, err := router.ParsePattern(pattern); err != nil {
		return fmt.Errorf("route file %s: %w", rel, err)
	}
	return nil
}

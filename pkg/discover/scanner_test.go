package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/trellis-dev/trellis/pkg/router"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", fullPath, err)
		}
	}
	return dir
}

func TestDeclarationFor(t *testing.T) {
	tests := []struct {
		rel         string
		wantPattern string
		wantIndex   bool
		wantLayout  bool
		wantMode    string
	}{
		{"index.go", "/", true, false, ""},
		{"_layout.go", "/", false, true, ""},
		{"about.go", "/about", false, false, ""},
		{"projects/index.go", "/projects", true, false, ""},
		{"projects/_layout.go", "/projects", false, true, ""},
		{"projects/new.go", "/projects/new", false, false, ""},
		{"projects/[id]/index.go", "/projects/[id]", true, false, ""},
		{"projects/[id]/edit.go", "/projects/[id]/edit", false, false, ""},
		{"docs/[...slug].go", "/docs/[...slug]", false, false, ""},
		{"[[lang]]/about.go", "/[[lang]]/about", false, false, ""},
		{"blog/posts.static.go", "/blog/posts", false, false, "static"},
		{"app/page.server.go", "/app/page", false, false, "server"},
	}

	for _, tt := range tests {
		decl, err := declarationFor(tt.rel, "/routes/"+tt.rel)
		if err != nil {
			t.Errorf("declarationFor(%q) error: %v", tt.rel, err)
			continue
		}
		if decl.Pattern != tt.wantPattern {
			t.Errorf("declarationFor(%q).Pattern = %q, want %q", tt.rel, decl.Pattern, tt.wantPattern)
		}
		if decl.IsIndex != tt.wantIndex || decl.IsLayout != tt.wantLayout {
			t.Errorf("declarationFor(%q) flags = index:%v layout:%v, want index:%v layout:%v",
				tt.rel, decl.IsIndex, decl.IsLayout, tt.wantIndex, tt.wantLayout)
		}
		if tt.wantMode == "" {
			if decl.Meta != nil {
				t.Errorf("declarationFor(%q).Meta = %v, want nil", tt.rel, decl.Meta)
			}
		} else if meta, ok := decl.Meta.(*Meta); !ok || meta.Mode != tt.wantMode {
			t.Errorf("declarationFor(%q).Meta = %v, want mode %q", tt.rel, decl.Meta, tt.wantMode)
		}
		if decl.ID != tt.rel {
			t.Errorf("declarationFor(%q).ID = %q, want the relative path", tt.rel, decl.ID)
		}
	}
}

func TestDeclarationForRejectsBadBrackets(t *testing.T) {
	if _, err := declarationFor("users/[id.go", "/routes/users/[id.go"); err == nil {
		t.Error("declarationFor with an unclosed bracket succeeded, want error")
	}
}

func TestScannerScan(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.go":             `package routes`,
		"_layout.go":           `package routes`,
		"about.go":             `package routes`,
		"users/_layout.go":     `package users`,
		"users/index.go":       `package users`,
		"users/[id]/index.go":  `package user`,
		"users/[id]/posts.go":  `package user`,
		"docs/[...slug].go":    `package docs`,
		"blog/posts.static.go": `package blog`,
		"_private/helper.go":   `package private`,
		".cache/stale.go":      `package stale`,
		"users/users_test.go":  `package users`,
		"routes_gen.go":        `package routes`,
		"notes.txt":            `not a route`,
	})

	decls, err := NewScanner(dir).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(decls) != 9 {
		ids := make([]string, len(decls))
		for i, d := range decls {
			ids[i] = d.ID
		}
		t.Fatalf("Scan() found %d declarations, want 9: %v", len(decls), ids)
	}

	byID := make(map[string]router.Declaration, len(decls))
	for _, d := range decls {
		byID[d.ID] = d
	}

	if d := byID["users/index.go"]; !d.IsIndex || d.Pattern != "/users" {
		t.Errorf("users/index.go = %+v, want index at /users", d)
	}
	if d := byID["users/_layout.go"]; !d.IsLayout || d.Pattern != "/users" {
		t.Errorf("users/_layout.go = %+v, want layout at /users", d)
	}
	if d := byID["docs/[...slug].go"]; d.Pattern != "/docs/[...slug]" {
		t.Errorf("docs/[...slug].go pattern = %q", d.Pattern)
	}
	if d := byID["blog/posts.static.go"]; d.Pattern != "/blog/posts" {
		t.Errorf("blog/posts.static.go pattern = %q", d.Pattern)
	}

	// Deterministic order regardless of walk order.
	for i := 1; i < len(decls); i++ {
		if decls[i-1].ID >= decls[i].ID {
			t.Fatalf("declarations not sorted: %s before %s", decls[i-1].ID, decls[i].ID)
		}
	}

	// Scanned declarations build cleanly.
	if _, _, err := router.Build(decls); err != nil {
		t.Fatalf("Build(scanned) error: %v", err)
	}
}

func TestScannerValidate(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"users/[id].go":   `package users`,
		"users/[slug].go": `package users`,
	})

	if _, err := NewScanner(dir).Scan(); err == nil {
		t.Error("Scan() with duplicate shapes succeeded, want error")
	}

	decls, err := NewScanner(dir).ScanWithOptions(ScanOptions{})
	if err != nil {
		t.Fatalf("ScanWithOptions(no validate) error: %v", err)
	}
	if len(decls) != 2 {
		t.Errorf("found %d declarations, want 2", len(decls))
	}
}

func TestScannerOrphanLayouts(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"admin/_layout.go": `package admin`,
		"about.go":         `package routes`,
	})

	if _, err := NewScanner(dir).Scan(); err == nil {
		t.Error("Scan() with an orphan layout succeeded, want error")
	}

	decls, err := NewScanner(dir).ScanWithOptions(ScanOptions{Validate: true, AllowOrphanLayouts: true})
	if err != nil {
		t.Fatalf("ScanWithOptions(allow orphans) error: %v", err)
	}
	if len(decls) != 2 {
		t.Errorf("found %d declarations, want 2", len(decls))
	}
}

package router

import (
	"strings"
	"testing"
)

func TestGeneratorGenerate(t *testing.T) {
	src, err := NewGenerator(appDecls(), "routes").Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	wantFragments := []string{
		"// Code generated by trellis gen routes. DO NOT EDIT.",
		"package routes",
		`"github.com/trellis-dev/trellis/pkg/router"`,
		`= "/users/[id]"`,
		`UsersIDPosts = "/users/[id]/posts"`,
		`= "/docs/[...slug]"`,
		"func Declarations() []router.Declaration {",
		`{ID: "routes/index.go", Pattern: "/", Content: "", IsIndex: true},`,
		`{ID: "routes/_layout.go", Pattern: "/", Content: "", IsLayout: true},`,
		"type UsersIDParams struct {",
		"ID int `param:\"id\"`",
		"Slug []string `param:\"slug\"`",
		"func DecodeUsersIDParams(res *router.MatchResult) (UsersIDParams, error) {",
	}

	for _, fragment := range wantFragments {
		if !strings.Contains(src, fragment) {
			t.Errorf("generated source missing %q", fragment)
		}
	}

	if strings.Contains(src, "RootLayout =") {
		t.Error("generated source has a key constant for a layout")
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	decls := appDecls()
	reversed := make([]Declaration, len(decls))
	for i, d := range decls {
		reversed[len(decls)-1-i] = d
	}

	a, err := NewGenerator(decls, "routes").Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	b, err := NewGenerator(reversed, "routes").Generate()
	if err != nil {
		t.Fatalf("Generate(reversed) error: %v", err)
	}
	if a != b {
		t.Error("generated source differs across input orderings")
	}
}

func TestGeneratorIdentifiers(t *testing.T) {
	decls := []Declaration{
		{ID: "a", Pattern: "/api/[version]"},
		{ID: "b", Pattern: "/user-settings/theme"},
	}

	src, err := NewGenerator(decls, "routes").Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(src, "APIVersion") || !strings.Contains(src, `= "/api/[version]"`) {
		t.Error("abbreviation API not preserved in identifier")
	}
	if !strings.Contains(src, `UserSettingsTheme = "/user-settings/theme"`) {
		t.Error("dashed literal not converted to PascalCase")
	}
}

func TestGeneratorRejectsInvalidInput(t *testing.T) {
	if _, err := NewGenerator(appDecls(), "also bad").Generate(); err == nil {
		t.Error("Generate() with an invalid package name succeeded")
	}

	dup := []Declaration{
		{ID: "a", Pattern: "/users/[id]"},
		{ID: "b", Pattern: "/users/[slug]"},
	}
	if _, err := NewGenerator(dup, "routes").Generate(); err == nil {
		t.Error("Generate() with duplicate routes succeeded")
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trellis-dev/trellis/pkg/router"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "known error code",
			code:    "T001",
			wantMsg: "Malformed route pattern",
			wantCat: CategoryRouting,
		},
		{
			name:    "config error",
			code:    "T010",
			wantMsg: "Configuration file not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "dev error",
			code:    "T051",
			wantMsg: "Rebuild failed",
			wantCat: CategoryDev,
		},
		{
			name:    "unknown error code",
			code:    "T999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryDiscovery, "file %q not found", "routes")
	if err.Message != `file "routes" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "routes" not found`)
	}
	if err.Category != CategoryDiscovery {
		t.Errorf("Category = %q, want %q", err.Category, CategoryDiscovery)
	}
}

func TestTrellisError_Error(t *testing.T) {
	err := New("T002")
	got := err.Error()
	want := "T002: Duplicate route"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &TrellisError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestBuilderChain(t *testing.T) {
	err := New("T003").
		WithDetail("layout wraps nothing").
		WithSuggestion("move _layout.go next to the routes it should wrap").
		WithExample("app/routes/admin/_layout.go")

	if err.Detail != "layout wraps nothing" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion == "" || err.Example == "" {
		t.Error("builder chain dropped a field")
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := Newf(CategoryRouting, "inner")
	err := New("T004").Wrap(inner)
	if err.Unwrap() != inner {
		t.Error("Unwrap() did not return the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "T004") != nil {
		t.Error("FromError(nil) should be nil")
	}

	te := New("T001")
	if got := FromError(te, "T004"); got != te {
		t.Error("FromError should pass through an existing TrellisError")
	}

	plain := os.ErrNotExist
	wrapped := FromError(plain, "T010")
	if wrapped.Code != "T010" {
		t.Errorf("Code = %q, want T010", wrapped.Code)
	}
	if wrapped.Unwrap() != plain {
		t.Error("FromError should wrap the original error")
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil", nil, ""},
		{"with column", &Location{File: "a.go", Line: 3, Column: 7}, "a.go:3:7"},
		{"without column", &Location{File: "a.go", Line: 3}, "a.go:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithLocationReadsContext(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "routes.txt")
	content := "line1\nline2\nline3\nline4\nline5\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("T001").WithLocation(file, 3, 1)
	if err.Location == nil {
		t.Fatal("Location not set")
	}
	if len(err.Context) == 0 {
		t.Fatal("Context not read from file")
	}
	found := false
	for _, line := range err.Context {
		if line == "line3" {
			found = true
		}
	}
	if !found {
		t.Errorf("Context = %v, want to include line3", err.Context)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("T002").
		WithDetail("declared by a.go and b.go").
		WithSuggestion("remove one declaration")

	out := err.Format()
	for _, want := range []string{"T002", "Duplicate route", "declared by a.go and b.go", "Hint: remove one declaration", "https://trellis.dev/docs/errors/T002"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("T001").WithLocation("users/[id.go", 1, 1)
	got := err.FormatCompact()
	if !strings.HasPrefix(got, "users/[id.go:1:1: T001:") {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("T051").WithDetail("scan failed")
	out := err.FormatJSON()
	for _, want := range []string{`"code":"T051"`, `"category":"dev"`, `"detail":"scan failed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatJSON() missing %q:\n%s", want, out)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("X001", ErrorTemplate{
		Category: CategoryCLI,
		Message:  "Custom framework error",
	})
	err := New("X001")
	if err.Message != "Custom framework error" {
		t.Errorf("Message = %q", err.Message)
	}
	if _, ok := GetTemplate("X001"); !ok {
		t.Error("GetTemplate did not find registered code")
	}

	codes := GetAllCodes()
	found := false
	for _, c := range codes {
		if c == "X001" {
			found = true
		}
	}
	if !found {
		t.Error("GetAllCodes missing registered code")
	}
}

func TestWrapBuild(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{
			name: "malformed pattern",
			err:  &router.BuildError{Errs: []error{&router.MalformedPatternError{Pattern: "/a/[", Reason: "unclosed bracket"}}},
			code: "T001",
		},
		{
			name: "duplicate route",
			err:  &router.BuildError{Errs: []error{&router.DuplicateRouteError{Pattern: "/a/[id]", FirstID: "a/[id].go", SecondID: "a/[slug].go"}}},
			code: "T002",
		},
		{
			name: "orphan layout",
			err:  &router.OrphanLayoutError{ID: "x/_layout.go", Pattern: "/x"},
			code: "T003",
		},
		{
			name: "aggregate",
			err: &router.BuildError{Errs: []error{
				&router.OrphanLayoutError{ID: "x/_layout.go", Pattern: "/x"},
				&router.DuplicateRouteError{Pattern: "/a/[id]", FirstID: "a/[id].go", SecondID: "a/[slug].go"},
			}},
			code: "T004",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapBuild(tt.err)
			te, ok := wrapped.(*TrellisError)
			if !ok {
				t.Fatalf("WrapBuild() = %T, want *TrellisError", wrapped)
			}
			if te.Code != tt.code {
				t.Errorf("Code = %q, want %q", te.Code, tt.code)
			}
			if te.Detail == "" {
				t.Error("Detail is empty, want the build error text")
			}
			if !stderrors.Is(wrapped, tt.err) {
				t.Error("wrapped error lost its cause")
			}
		})
	}
}

func TestWrapBuildPassthrough(t *testing.T) {
	if WrapBuild(nil) != nil {
		t.Error("WrapBuild(nil) should be nil")
	}

	plain := fmt.Errorf("permission denied")
	if got := WrapBuild(plain); got != plain {
		t.Errorf("WrapBuild(plain) = %v, want the error unchanged", got)
	}

	already := New("T020")
	if got := WrapBuild(already); got != already {
		t.Errorf("WrapBuild(TrellisError) = %v, want the error unchanged", got)
	}
}

package router

import (
	"reflect"
	"testing"
)

func TestParamParserParse(t *testing.T) {
	tree := mustBuild(t, appDecls())

	res, ok := tree.Match("/users/42")
	if !ok {
		t.Fatal("Match(/users/42) = no match")
	}

	var p struct {
		ID int `param:"id"`
	}
	if err := NewParamParser().Parse(res, &p); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.ID != 42 {
		t.Errorf("ID = %d, want 42", p.ID)
	}
}

func TestParamParserCatchAll(t *testing.T) {
	tree := mustBuild(t, appDecls())

	res, ok := tree.Match("/docs/guides/intro")
	if !ok {
		t.Fatal("Match(/docs/guides/intro) = no match")
	}

	var p struct {
		Slug []string `param:"slug"`
	}
	if err := NewParamParser().Parse(res, &p); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if want := []string{"guides", "intro"}; !reflect.DeepEqual(p.Slug, want) {
		t.Errorf("Slug = %v, want %v", p.Slug, want)
	}
}

func TestParamParserTypes(t *testing.T) {
	tree := mustBuild(t, []Declaration{
		{ID: "r", Pattern: "/v/[flag]/[ratio]/[count]"},
	})

	res, ok := tree.Match("/v/true/2.5/9")
	if !ok {
		t.Fatal("Match(/v/true/2.5/9) = no match")
	}

	var p struct {
		Flag  bool    `param:"flag"`
		Ratio float64 `param:"ratio"`
		Count uint    `param:"count"`
		Skip  string
	}
	if err := NewParamParser().Parse(res, &p); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !p.Flag || p.Ratio != 2.5 || p.Count != 9 {
		t.Errorf("decoded %+v, want flag=true ratio=2.5 count=9", p)
	}
}

func TestParamParserErrors(t *testing.T) {
	tree := mustBuild(t, appDecls())

	res, ok := tree.Match("/users/abc")
	if !ok {
		t.Fatal("Match(/users/abc) = no match")
	}

	var p struct {
		ID int `param:"id"`
	}
	if err := NewParamParser().Parse(res, &p); err == nil {
		t.Error("Parse() with a non-numeric id succeeded, want error")
	}

	var notStruct int
	if err := NewParamParser().Parse(res, &notStruct); err == nil {
		t.Error("Parse() into a non-struct succeeded, want error")
	}
	if err := NewParamParser().Parse(res, p); err == nil {
		t.Error("Parse() into a non-pointer succeeded, want error")
	}
}

func TestInferParamType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"id", "int"},
		{"user_id", "int"},
		{"postId", "int"},
		{"uuid", "string"},
		{"orgUUID", "string"},
		{"slug", "string"},
		{"page", "int"},
		{"title", "string"},
	}

	for _, tt := range tests {
		if got := InferParamType(tt.name); got != tt.want {
			t.Errorf("InferParamType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValidateParam(t *testing.T) {
	if err := ValidateParam("42", "int"); err != nil {
		t.Errorf("ValidateParam(42, int) error: %v", err)
	}
	if err := ValidateParam("abc", "int"); err == nil {
		t.Error("ValidateParam(abc, int) succeeded, want error")
	}
	if err := ValidateParam("-1", "uint"); err == nil {
		t.Error("ValidateParam(-1, uint) succeeded, want error")
	}
	if err := ValidateParam("550e8400-e29b-41d4-a716-446655440000", "uuid"); err != nil {
		t.Errorf("ValidateParam(uuid) error: %v", err)
	}
	if err := ValidateParam("not-a-uuid", "uuid"); err == nil {
		t.Error("ValidateParam(not-a-uuid, uuid) succeeded, want error")
	}
	if err := ValidateParam("anything", "slug"); err != nil {
		t.Errorf("ValidateParam with unknown type errored: %v", err)
	}
}

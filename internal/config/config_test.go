package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Routes != DefaultRoutes {
		t.Errorf("Routes = %q, want %q", cfg.Routes, DefaultRoutes)
	}
	if cfg.Generate.Output != DefaultGenOutput {
		t.Errorf("Generate.Output = %q, want %q", cfg.Generate.Output, DefaultGenOutput)
	}
	if cfg.Manifest.Output != DefaultManifestOutput {
		t.Errorf("Manifest.Output = %q, want %q", cfg.Manifest.Output, DefaultManifestOutput)
	}
	if !cfg.Dev.HotReload {
		t.Error("Dev.HotReload should default to true")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Loading from a directory without trellis.json fails.
	_, err := Load(tmpDir)
	if err == nil {
		t.Error("Expected error for missing config")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "demo",
  "routes": "src/routes",
  "dev": {
    "port": 8080
  },
  "check": {
    "allowOrphanLayouts": true
  }
}`
	if err := os.WriteFile(configPath, []byte(configJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want demo", cfg.Name)
	}
	if cfg.Routes != "src/routes" {
		t.Errorf("Routes = %q, want src/routes", cfg.Routes)
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("Dev.Port = %d, want 8080", cfg.Dev.Port)
	}
	if !cfg.Check.AllowOrphanLayouts {
		t.Error("Check.AllowOrphanLayouts should be true")
	}

	// Defaults fill unset fields.
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want default %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Generate.Package != "app" {
		t.Errorf("Generate.Package = %q, want app", cfg.Generate.Package)
	}
	if cfg.Dev.DebounceMs != 100 {
		t.Errorf("Dev.DebounceMs = %d, want 100", cfg.Dev.DebounceMs)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "T011") {
		t.Errorf("error = %v, want T011", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := New()
	cfg.Name = "roundtrip"
	cfg.Dev.Port = 4000
	if err := cfg.SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Name != "roundtrip" {
		t.Errorf("Name = %q, want roundtrip", loaded.Name)
	}
	if loaded.Dev.Port != 4000 {
		t.Errorf("Dev.Port = %d, want 4000", loaded.Dev.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Dev.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}

	cfg = New()
	cfg.Dev.DebounceMs = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative debounce")
	}
}

func TestPathHelpers(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(`{"routes": "src/routes"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(tmpDir, "src/routes")
	if got := cfg.RoutesPath(); got != want {
		t.Errorf("RoutesPath() = %q, want %q", got, want)
	}
	if got := cfg.GenOutputPath(); got != filepath.Join(tmpDir, DefaultGenOutput) {
		t.Errorf("GenOutputPath() = %q", got)
	}
	if got := cfg.ManifestOutputPath(); got != filepath.Join(tmpDir, DefaultManifestOutput) {
		t.Errorf("ManifestOutputPath() = %q", got)
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	if got := cfg.DevAddress(); got != "localhost:3000" {
		t.Errorf("DevAddress() = %q, want localhost:3000", got)
	}
	if got := cfg.DevURL(); got != "http://localhost:3000" {
		t.Errorf("DevURL() = %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error: %v", err)
	}
	// Resolve symlinks so macOS /private/var aliasing does not fail the test.
	wantRoot, _ := filepath.EvalSymlinks(tmpDir)
	gotRoot, _ := filepath.EvalSymlinks(root)
	if gotRoot != wantRoot {
		t.Errorf("FindProjectRoot() = %q, want %q", gotRoot, wantRoot)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	if Exists(tmpDir) {
		t.Error("Exists() should be false before the file is created")
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Error("Exists() should be true after the file is created")
	}
}

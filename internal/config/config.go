package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/trellis-dev/trellis/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "trellis.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultRoutes is the default routes directory.
	DefaultRoutes = "app/routes"

	// DefaultGenOutput is the default generated routes file.
	DefaultGenOutput = "app/routes_gen.go"

	// DefaultManifestOutput is the default manifest file.
	DefaultManifestOutput = "routes.manifest.json"
)

// Config represents the complete trellis.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Routes is the path to the routes directory.
	Routes string `json:"routes,omitempty"`

	// Generate contains code generation configuration.
	Generate GenerateConfig `json:"generate,omitempty"`

	// Manifest contains route manifest configuration.
	Manifest ManifestConfig `json:"manifest,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Check contains validation configuration.
	Check CheckConfig `json:"check,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// GenerateConfig contains code generation settings.
type GenerateConfig struct {
	// Output is the path of the generated routes file.
	Output string `json:"output,omitempty"`

	// Package is the package name emitted into the generated file.
	Package string `json:"package,omitempty"`
}

// ManifestConfig contains route manifest settings.
type ManifestConfig struct {
	// Output is the path of the manifest file.
	Output string `json:"output,omitempty"`

	// Bucket is an optional S3 bucket the manifest publishes to.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix used inside the bucket.
	Prefix string `json:"prefix,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// OpenBrowser opens the browser automatically on start.
	OpenBrowser bool `json:"openBrowser,omitempty"`

	// Ignore contains glob patterns excluded from watching.
	Ignore []string `json:"ignore,omitempty"`

	// HotReload enables websocket reload broadcasts.
	HotReload bool `json:"hotReload,omitempty"`

	// DebounceMs is the watcher debounce interval in milliseconds.
	DebounceMs int `json:"debounceMs,omitempty"`
}

// CheckConfig contains validation settings.
type CheckConfig struct {
	// AllowOrphanLayouts downgrades orphan-layout errors to warnings.
	AllowOrphanLayouts bool `json:"allowOrphanLayouts,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Routes:  DefaultRoutes,
		Generate: GenerateConfig{
			Output:  DefaultGenOutput,
			Package: "app",
		},
		Manifest: ManifestConfig{
			Output: DefaultManifestOutput,
		},
		Dev: DevConfig{
			Port:       DefaultPort,
			Host:       DefaultHost,
			HotReload:  true,
			DebounceMs: 100,
			Ignore:     []string{"*_test.go", "*_gen.go"},
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for trellis.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("T010").
				WithDetail("No trellis.json found in " + filepath.Dir(path)).
				WithSuggestion("Create trellis.json in the project root, or pass --routes explicitly")
		}
		return nil, errors.New("T011").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("T011").
			WithDetail("Failed to parse trellis.json: " + err.Error()).
			WithSuggestion("Check that trellis.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("T011").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("T011").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Routes == "" {
		c.Routes = DefaultRoutes
	}

	if c.Generate.Output == "" {
		c.Generate.Output = DefaultGenOutput
	}
	if c.Generate.Package == "" {
		c.Generate.Package = "app"
	}

	if c.Manifest.Output == "" {
		c.Manifest.Output = DefaultManifestOutput
	}

	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.DebounceMs == 0 {
		c.Dev.DebounceMs = 100
	}
	if c.Dev.Ignore == nil {
		c.Dev.Ignore = []string{"*_test.go", "*_gen.go"}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("T011").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Dev.DebounceMs < 0 {
		return errors.New("T011").
			WithDetail("debounceMs must not be negative")
	}
	return nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// RoutesPath returns the absolute path to the routes directory.
func (c *Config) RoutesPath() string {
	return c.abs(c.Routes, DefaultRoutes)
}

// GenOutputPath returns the absolute path of the generated routes file.
func (c *Config) GenOutputPath() string {
	return c.abs(c.Generate.Output, DefaultGenOutput)
}

// ManifestOutputPath returns the absolute path of the manifest file.
func (c *Config) ManifestOutputPath() string {
	return c.abs(c.Manifest.Output, DefaultManifestOutput)
}

// abs resolves path relative to the config directory, falling back to
// def when path is empty.
func (c *Config) abs(path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing trellis.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("T010").
				WithDetail("No trellis.json found in " + startDir + " or any parent directory").
				WithSuggestion("Create trellis.json in the project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	// Reverse
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

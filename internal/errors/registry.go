package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (T001-T009)
	// ============================================

	"T001": {
		Category: CategoryRouting,
		Message:  "Malformed route pattern",
		Detail:   "The route pattern could not be parsed. Check for unbalanced brackets, an empty parameter name, a repeated parameter name, or a catch-all segment that is not the final segment.",
		DocURL:   "https://trellis.dev/docs/errors/T001",
	},
	"T002": {
		Category: CategoryRouting,
		Message:  "Duplicate route",
		Detail:   "Two route declarations resolve to the same matchable shape. Patterns that differ only in parameter names match exactly the same paths and cannot coexist.",
		DocURL:   "https://trellis.dev/docs/errors/T002",
	},
	"T003": {
		Category: CategoryRouting,
		Message:  "Orphan layout",
		Detail:   "A layout declaration has no routes beneath it, so it would never wrap anything. This usually means the layout file is in the wrong directory.",
		DocURL:   "https://trellis.dev/docs/errors/T003",
	},
	"T004": {
		Category: CategoryRouting,
		Message:  "Route build failed",
		Detail:   "One or more declarations failed validation. The previous route table, if any, stays in service.",
		DocURL:   "https://trellis.dev/docs/errors/T004",
	},

	// ============================================
	// Config Errors (T010-T019)
	// ============================================

	"T010": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No trellis.json was found in the current directory or any parent directory.",
		DocURL:   "https://trellis.dev/docs/errors/T010",
	},
	"T011": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "trellis.json could not be parsed or contains invalid values.",
		DocURL:   "https://trellis.dev/docs/errors/T011",
	},
	"T012": {
		Category: CategoryConfig,
		Message:  "Routes directory not found",
		Detail:   "The configured routes directory does not exist.",
		DocURL:   "https://trellis.dev/docs/errors/T012",
	},

	// ============================================
	// Discovery Errors (T020-T029)
	// ============================================

	"T020": {
		Category: CategoryDiscovery,
		Message:  "Route scan failed",
		Detail:   "The routes directory could not be read.",
		DocURL:   "https://trellis.dev/docs/errors/T020",
	},
	"T021": {
		Category: CategoryDiscovery,
		Message:  "Invalid route file name",
		Detail:   "A route file name uses bracket syntax the pattern parser refuses.",
		DocURL:   "https://trellis.dev/docs/errors/T021",
	},

	// ============================================
	// Codegen Errors (T030-T039)
	// ============================================

	"T030": {
		Category: CategoryCodegen,
		Message:  "Route generation failed",
		Detail:   "The generated routes file could not be produced. Generation validates the declaration set first, so this usually indicates a routing error.",
		DocURL:   "https://trellis.dev/docs/errors/T030",
	},
	"T031": {
		Category: CategoryCodegen,
		Message:  "Generated file write failed",
		Detail:   "The generated routes file could not be written to the configured output path.",
		DocURL:   "https://trellis.dev/docs/errors/T031",
	},

	// ============================================
	// Manifest Errors (T040-T049)
	// ============================================

	"T040": {
		Category: CategoryManifest,
		Message:  "Manifest build failed",
		Detail:   "The route manifest could not be built from the current route table.",
		DocURL:   "https://trellis.dev/docs/errors/T040",
	},
	"T041": {
		Category: CategoryManifest,
		Message:  "Manifest store failed",
		Detail:   "The manifest could not be written to the configured store.",
		DocURL:   "https://trellis.dev/docs/errors/T041",
	},

	// ============================================
	// Dev Server Errors (T050-T059)
	// ============================================

	"T050": {
		Category: CategoryDev,
		Message:  "Dev server failed to start",
		Detail:   "The dev server could not bind its port or initialize the watcher.",
		DocURL:   "https://trellis.dev/docs/errors/T050",
	},
	"T051": {
		Category: CategoryDev,
		Message:  "Rebuild failed",
		Detail:   "A file change triggered a rebuild that failed validation. The previous route table stays in service until the error is fixed.",
		DocURL:   "https://trellis.dev/docs/errors/T051",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry, letting an
// embedding framework define its own codes.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

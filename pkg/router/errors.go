package router

import (
	"fmt"
	"strings"
)

// MalformedPatternError reports a route pattern that cannot be parsed.
type MalformedPatternError struct {
	// Pattern is the offending pattern string as supplied.
	Pattern string

	// Reason describes the syntax violation.
	Reason string
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed pattern %q: %s", e.Pattern, e.Reason)
}

// DuplicateRouteError reports two declarations that resolve to the same
// matchable shape. Patterns that differ only in parameter names collide,
// since they match exactly the same paths.
type DuplicateRouteError struct {
	// Pattern is the canonical pattern of the later declaration.
	Pattern string

	// FirstID and SecondID identify the colliding declarations.
	FirstID  string
	SecondID string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %s: declared by %s and %s", e.Pattern, e.FirstID, e.SecondID)
}

// OrphanLayoutError reports a layout declaration with no routes beneath
// it. Fatal by default; BuildOptions.AllowOrphanLayouts downgrades it to
// a warning on the built tree.
type OrphanLayoutError struct {
	// ID identifies the layout declaration.
	ID string

	// Pattern is the layout's canonical pattern.
	Pattern string
}

func (e *OrphanLayoutError) Error() string {
	return fmt.Sprintf("orphan layout %s: no routes beneath %s", e.ID, e.Pattern)
}

// BuildError aggregates every validation failure found during a build.
// The individual errors remain reachable through errors.As and errors.Is.
type BuildError struct {
	Errs []error
}

func (e *BuildError) Error() string {
	if len(e.Errs) == 0 {
		return "route build failed"
	}
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route build errors:\n", len(e.Errs)))
	for i, err := range e.Errs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes the aggregated errors for errors.Is/As support.
func (e *BuildError) Unwrap() []error {
	return e.Errs
}

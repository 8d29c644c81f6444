// Package errors provides structured, actionable error messages for Trellis.
//
// The errors package implements an error presentation layer that:
//   - Shows exact source locations (route file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues with examples
//   - Links to documentation for deeper understanding
//
// The routing engine in pkg/router never imports this package; it surfaces
// plain typed errors. The CLI and dev server wrap those errors here for
// terminal and inspector display.
//
// # Error Categories
//
// Errors are organized into categories:
//   - routing: route table validation (malformed pattern, duplicate route,
//     orphan layout)
//   - config: trellis.json loading and validation
//   - discovery: routes directory scanning
//   - codegen: generated routes file production
//   - manifest: route manifest build and store
//   - dev: dev server and rebuild loop
//
// # Error Codes
//
// Each error has a unique code (e.g., "T001") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("T002").
//	    WithDetail("declared by users/[id].go and users/[slug].go").
//	    WithSuggestion("Remove one of the two files, or make their patterns distinguishable")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR T002: Duplicate route
//	//
//	//   declared by users/[id].go and users/[slug].go
//	//
//	//   Hint: Remove one of the two files, or make their patterns distinguishable
//	//
//	//   Learn more: https://trellis.dev/docs/errors/T002
package errors

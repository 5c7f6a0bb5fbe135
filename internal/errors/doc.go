// Package errors provides structured, actionable error messages for pmweb.
//
// Every error carries a code from the registry, a category, a short
// message and optionally a longer detail, a fix suggestion and the
// underlying cause. Errors compose with the standard library: Unwrap
// exposes the cause and Is matches on code, so callers can write
//
//	if errors.Is(err, pmerrors.New("E101")) { ... }
//
// # Error Categories
//
//   - config: pmweb.json loading and validation
//   - project: .project/config.yaml discovery and parsing
//   - storage: preference store reads and writes
//   - network: configuration endpoint and transport requests
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail("No pmweb.json found in /srv/app").
//	    WithSuggestion("Run 'pmweb serve --init' to write a default config")
//
//	fmt.Println(err.Format())
package errors

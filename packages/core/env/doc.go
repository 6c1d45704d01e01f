// Package env handles the variables available to request files.
//
// It provides functionality for:
//   - Snapshotting the process environment into an explicit map
//   - Loading .env files that overlay the process environment
//   - Single-pass {NAME} placeholder substitution
//
// Nothing in this package reads the process environment implicitly; callers
// build a map once with Environ and pass it down.
package env

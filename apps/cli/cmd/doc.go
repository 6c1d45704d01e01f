// Package cmd implements the barbouse CLI commands using Cobra.
//
// The root command sends the request in each file given on the command line.
// Subcommands:
//   - validate: Parse request files without sending them
//   - init: Create a config file and an example request
//   - import: Convert a curl command into a request file
//   - version: Show version information
//   - completion: Generate shell completion scripts
//
// Flags default from BARBOUSE_* environment variables, then from the config
// file. Failures map to the exit codes in exitcodes.go.
package cmd

// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags and the optional asmtree.toml into the application's
// configuration and maps commands onto App operations.
package cli

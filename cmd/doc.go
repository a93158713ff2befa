// Package cmd implements the command-line interface for gmailsink.
//
// This package provides the following commands:
//   - sync: Fetch the previous day's Gmail bodies and load them into Snowflake
//   - version: Display version information
//
// The sync command is the default command when no subcommand is specified.
package cmd

// Package cmd implements the command-line interface for crewai-app.
//
// This package provides the following commands:
//   - serve: Start the HTTP backend serving the crew API
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd

// Package cmd implements the command-line interface for mailsweep.
//
// This package provides the following commands:
//   - analyze: Sample the mailbox and rank its top senders
//   - sweep: Move mail from selected senders to the trash (or archive it)
//   - categories: List Gmail inbox categories or sweep one to the trash
//   - purge: Permanently delete everything in the trash
//   - peek: Show a few sample messages from a sender
//   - auth: Authorize mailsweep to access a Gmail account
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The analyze command is the default command when no subcommand is specified.
package cmd

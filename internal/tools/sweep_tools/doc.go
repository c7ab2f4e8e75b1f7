// Package sweep_tools exposes the mailbox-cleanup operations as MCP tools:
// sender ranking analysis, per-sender and per-category sweeps, trash purge,
// and sample peeks. Destructive tools are withheld in read-only mode and
// every executed mutation is audit-logged.
package sweep_tools

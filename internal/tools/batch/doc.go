// Package batch provides argument parsing and result aggregation for MCP
// tools that operate on one or many items per call.
package batch

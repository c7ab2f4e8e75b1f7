// Package server holds the shared state and side-channel HTTP surface for
// the MCP server: per-account Gmail clients, Kubernetes health probes, and
// the Prometheus metrics listener.
package server

package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mailsweep/internal/instrumentation"
	"github.com/teemow/mailsweep/internal/server"
	"github.com/teemow/mailsweep/internal/tools/sweep_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		yolo           bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide mailbox-cleanup
tools for AI assistants over stdio.

Safety Mode:
  By default, the server operates in read-only mode, providing only the
  analysis tools. Use --yolo to enable the destructive tools (sweeping
  senders and categories, emptying the trash).

Authorization:
  The server reuses the tokens cached by 'mailsweep auth'. Authorize each
  account on the host before wiring the server into an assistant.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			loadMetricsEnvVars(cmd, &metricsConfig)
			return runServe(yolo, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable destructive operations (sweeping, purging). Default is read-only mode.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics and health endpoints on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadMetricsEnvVars applies METRICS_* environment variables for flags the
// user did not set explicitly.
func loadMetricsEnvVars(cmd *cobra.Command, config *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if os.Getenv("METRICS_ENABLED") == "true" {
			config.Enabled = true
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}

func runServe(yolo bool, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()

	serverContext, err := server.NewServerContext(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}

	// Start metrics server if enabled. stdio carries the MCP protocol, so
	// metrics and health endpoints get their own listener.
	var metricsServer *server.MetricsServer
	var health *server.HealthChecker
	if metricsConfig.Enabled && provider.Enabled() {
		health = server.NewHealthChecker(serverContext)
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			InstrumentationProvider: provider,
		}, health)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server stopped with error: %v", err)
			}
		}()
		health.SetReady(true)
	}

	defer func() {
		if metricsServer != nil {
			if health != nil {
				health.SetReady(false)
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			log.Printf("Error during server context shutdown: %v", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("mailsweep", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	if err := sweep_tools.RegisterSweepTools(mcpSrv, serverContext, readOnly); err != nil {
		return fmt.Errorf("failed to register sweep tools: %w", err)
	}

	return runStdioServer(mcpSrv)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

package server

import (
	"context"
	"testing"

	"github.com/teemow/mailsweep/internal/instrumentation"
)

func TestNewMetricsServer_RequiresProvider(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{Addr: ":9090"}, nil)
	if err == nil {
		t.Fatal("expected error for missing instrumentation provider")
	}
}

func TestNewMetricsServer_RequiresEnabledProvider(t *testing.T) {
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	_, err = NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9090",
		InstrumentationProvider: provider,
	}, nil)
	if err == nil {
		t.Fatal("expected error for disabled instrumentation provider")
	}
}

func TestNewMetricsServer_DefaultAddr(t *testing.T) {
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	s, err := NewMetricsServer(MetricsServerConfig{
		InstrumentationProvider: provider,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create metrics server: %v", err)
	}

	if s.Addr() != DefaultMetricsAddr {
		t.Errorf("expected default addr %q, got %q", DefaultMetricsAddr, s.Addr())
	}
}

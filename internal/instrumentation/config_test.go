package instrumentation

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	// Clear environment to get defaults
	os.Unsetenv("OTEL_SERVICE_NAME")
	os.Unsetenv("INSTRUMENTATION_ENABLED")
	os.Unsetenv("METRICS_EXPORTER")
	os.Unsetenv("TRACING_EXPORTER")

	config := DefaultConfig()

	if config.ServiceName != "mailsweep" {
		t.Errorf("expected ServiceName 'mailsweep', got %q", config.ServiceName)
	}

	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}

	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate 0.1, got %f", config.TraceSamplingRate)
	}

	if !config.AuditLogging.Enabled {
		t.Error("expected audit logging enabled by default")
	}

	if config.AuditLogging.IncludePII {
		t.Error("expected PII excluded from audit logs by default")
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	os.Setenv("OTEL_SERVICE_NAME", "test-service")
	os.Setenv("INSTRUMENTATION_ENABLED", "false")
	os.Setenv("METRICS_EXPORTER", "stdout")
	os.Setenv("TRACING_EXPORTER", "stdout")
	os.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	defer func() {
		os.Unsetenv("OTEL_SERVICE_NAME")
		os.Unsetenv("INSTRUMENTATION_ENABLED")
		os.Unsetenv("METRICS_EXPORTER")
		os.Unsetenv("TRACING_EXPORTER")
		os.Unsetenv("OTEL_TRACES_SAMPLER_ARG")
	}()

	config := DefaultConfig()

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}

	if config.Enabled {
		t.Error("expected Enabled to be false")
	}

	if config.MetricsExporter != "stdout" {
		t.Errorf("expected MetricsExporter 'stdout', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != "stdout" {
		t.Errorf("expected TracingExporter 'stdout', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "valid default-ish config",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
			expectError: false,
		},
		{
			name: "sampling rate too high",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 1.5,
			},
			expectError: true,
		},
		{
			name: "sampling rate negative",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: -0.1,
			},
			expectError: true,
		},
		{
			name: "invalid metrics exporter",
			config: Config{
				MetricsExporter: "statsd",
				TracingExporter: ExporterNone,
			},
			expectError: true,
		},
		{
			name: "invalid tracing exporter",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: "jaeger",
			},
			expectError: true,
		},
		{
			name: "otlp metrics without endpoint",
			config: Config{
				MetricsExporter: ExporterOTLP,
				TracingExporter: ExporterNone,
			},
			expectError: true,
		},
		{
			name: "otlp tracing without endpoint",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
			},
			expectError: true,
		},
		{
			name: "otlp with endpoint",
			config: Config{
				MetricsExporter: ExporterOTLP,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_SDK_DISABLED", "")
	cfg := ConfigFromEnv("remsfal", "1.2.3")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "remsfal", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.SamplingRate)

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")
	t.Setenv("OTEL_SERVICE_NAME", "remsfal-ci")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
	cfg = ConfigFromEnv("remsfal", "1.2.3")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "remsfal-ci", cfg.ServiceName)
	assert.Equal(t, 0.25, cfg.SamplingRate)

	t.Setenv("OTEL_SDK_DISABLED", "TRUE")
	assert.False(t, ConfigFromEnv("remsfal", "1.2.3").Enabled)
}

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{})
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NotNil(t, p.TracerProvider())
}

func TestNewProviderEnabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "remsfal",
		Endpoint:     "localhost:4318",
		Insecure:     true,
		SamplingRate: 1,
	})
	require.NoError(t, err)
	assert.Same(t, p.tp, p.TracerProvider())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviderRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	p := newProvider(Config{ServiceName: "remsfal", SamplingRate: 1}, sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = p.Shutdown(context.Background()) }()

	_, span := otel.Tracer("test").Start(context.Background(), "HTTP GET /api/v1/user")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET /api/v1/user", spans[0].Name())
	name, ok := spans[0].Resource().Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "remsfal", name.AsString())
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestNilProviderShutdown(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown(context.Background()))
}

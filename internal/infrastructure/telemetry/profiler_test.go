package telemetry

import (
	"context"
	"testing"

	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(config.ProfilingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(config.ProfilingConfig{Enabled: true, ApplicationName: "bizsuite"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")
}

func TestNewProfiler_RejectsUnknownType(t *testing.T) {
	_, err := NewProfiler(config.ProfilingConfig{
		Enabled:       true,
		ServerAddress: "http://localhost:4040",
		ProfileTypes:  []string{"cpu", "heap"},
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"heap"`)
}

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes([]string{"cpu", "inuse_space", "cpu", "mutex_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileMutexCount,
	}, types)

	types, err = ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestEnableSpanProfiles(t *testing.T) {
	var nilProviders *Providers
	assert.False(t, nilProviders.EnableSpanProfiles())
	assert.False(t, (&Providers{logger: zap.NewNop()}).EnableSpanProfiles())

	tp := sdktrace.NewTracerProvider()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	p := &Providers{Tracer: tp, logger: zap.NewNop()}
	require.True(t, p.EnableSpanProfiles())
	assert.NotEqual(t, any(tp), any(otel.GetTracerProvider()))

	_, span := otel.Tracer("test").Start(context.Background(), "export.run")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

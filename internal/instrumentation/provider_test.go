package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	provider, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, provider.Enabled())
	assert.Nil(t, provider.Metrics())
	assert.Nil(t, provider.PrometheusHandler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNilMetricsRecordersAreSafe(t *testing.T) {
	var m *Metrics

	// None of these may panic on a nil receiver.
	m.RecordHTTPRequest(context.Background(), "POST", "/api/crew", 200, time.Second)
	m.RecordTokenExchange(context.Background(), "google-calendar", StatusSuccess)
	m.RecordTaskExecution(context.Background(), "google-contacts", "split", StatusError, time.Second)
	m.RecordGoogleAPIOperation(context.Background(), "calendar", "insert", StatusSuccess)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "crew-test")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")

	cfg := ConfigFromEnv()
	assert.Equal(t, "crew-test", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("INSTRUMENTATION_ENABLED", "")

	cfg := ConfigFromEnv()
	assert.Equal(t, "crewai-app", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}

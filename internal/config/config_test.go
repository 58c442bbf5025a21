package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServiceURL, cfg.ServiceURL)
	assert.Equal(t, 30*time.Second, cfg.ServiceTimeout)
	assert.Equal(t, 1000, cfg.MaxSamplesPerRequest)
	assert.Equal(t, 100.0, cfg.BufferFeet)
	assert.Equal(t, "symb/ga_lisst.style.yaml", cfg.StylePath)
	assert.Equal(t, "lisst_polygon", cfg.OutputName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LISST_SERVICE_URL", "https://example.test/arcgis/rest/services/lisst/ImageServer")
	t.Setenv("LISST_SERVICE_TIMEOUT", "5s")
	t.Setenv("LISST_MAX_SAMPLES_PER_REQUEST", "250")
	t.Setenv("LISST_BUFFER_FEET", "50")
	t.Setenv("LISST_STYLE_PATH", "/srv/symb/custom.yaml")
	t.Setenv("LISST_OUTPUT_NAME", "suitability")
	t.Setenv("LISST_LOG_LEVEL", "debug")
	t.Setenv("LISST_LOG_FORMAT", "json")
	t.Setenv("LISST_METRICS_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/arcgis/rest/services/lisst/ImageServer", cfg.ServiceURL)
	assert.Equal(t, 5*time.Second, cfg.ServiceTimeout)
	assert.Equal(t, 250, cfg.MaxSamplesPerRequest)
	assert.Equal(t, 50.0, cfg.BufferFeet)
	assert.Equal(t, "/srv/symb/custom.yaml", cfg.StylePath)
	assert.Equal(t, "suitability", cfg.OutputName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("LISST_SERVICE_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidMaxSamples(t *testing.T) {
	t.Setenv("LISST_MAX_SAMPLES_PER_REQUEST", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_NegativeBuffer(t *testing.T) {
	t.Setenv("LISST_BUFFER_FEET", "-10")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmptyOutputName(t *testing.T) {
	t.Setenv("LISST_OUTPUT_NAME", "")

	cfg, err := Load()
	// Empty env value falls through to the default.
	require.NoError(t, err)
	assert.Equal(t, "lisst_polygon", cfg.OutputName)
}

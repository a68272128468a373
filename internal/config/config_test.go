package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "http://localhost:5000/predict", cfg.PredictorURL)
	assert.Equal(t, 10*time.Second, cfg.PredictorTimeout)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATA_DIR", "/tmp/jurnalku-data")
	t.Setenv("PREDICTOR_URL", "http://predictor:5000/predict")
	t.Setenv("PREDICTOR_TIMEOUT", "3s")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.RunAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/jurnalku-data", cfg.DataDir)
	assert.Equal(t, "http://predictor:5000/predict", cfg.PredictorURL)
	assert.Equal(t, 3*time.Second, cfg.PredictorTimeout)
}

func TestInvalidLogLevelIsRejected(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}

func TestInvalidPredictorURLIsRejected(t *testing.T) {
	t.Setenv("PREDICTOR_URL", "not a url")

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}

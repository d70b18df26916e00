package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AWS_USE_SECRETS", "")
	t.Setenv("AWS_ENDPOINT", "http://localstack:4566")
	t.Setenv("AWS_S3_ENDPOINT", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "not-a-duration")
	t.Setenv("MAX_IMAGE_BYTES", "")
	t.Setenv("PORT", "")
	t.Setenv("CATALOG_API_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "http://localstack:4566", cfg.S3Endpoint)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxImageBytes)
	assert.Equal(t, 10*time.Second, cfg.CatalogAPITimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_API_TIMEOUT", "3s")
	t.Setenv("MAX_IMAGE_BYTES", "2048")
	t.Setenv("CLOUDWATCH_ENABLED", "true")
	t.Setenv("AWS_USE_SECRETS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.CatalogAPITimeout)
	assert.Equal(t, int64(2048), cfg.MaxImageBytes)
	assert.True(t, cfg.CloudWatchEnabled)
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AWS_USE_SECRETS", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

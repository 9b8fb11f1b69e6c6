package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "promptline", cfg.DynamoDBTable)
	assert.Equal(t, "UserSubjectIndex", cfg.IndexName)
	assert.Equal(t, "dynamodb", cfg.StorageBackend)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.InDelta(t, 0.05, cfg.Domain.ImprovingSlopeThreshold, 1e-9)
	assert.InDelta(t, -0.05, cfg.Domain.DegradingSlopeThreshold, 1e-9)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("CHANGE_POINT_THRESHOLD", "0.35")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.InDelta(t, 0.35, cfg.Domain.ChangePointThreshold, 1e-9)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_ProductionGuards(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	assert.Error(t, err, "production without JWT_SECRET must fail")

	t.Setenv("JWT_SECRET", "topsecret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())

	t.Setenv("STORAGE_BACKEND", "memory")
	_, err = LoadConfig()
	assert.Error(t, err, "memory backend is development only")
}

func TestLoadConfig_RejectsInvertedSlopeThresholds(t *testing.T) {
	t.Setenv("IMPROVING_SLOPE_THRESHOLD", "-0.1")
	t.Setenv("DEGRADING_SLOPE_THRESHOLD", "0.1")

	_, err := LoadConfig()

	assert.Error(t, err)
}

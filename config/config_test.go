package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 69.95, cfg.Plans["5"])
	assert.Equal(t, 119.90, cfg.Plans["10"])
	assert.NotEmpty(t, cfg.Auth.AdminUsername)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.Plans = map[string]float64{"5": -1}
	assert.Error(t, cfg.Validate())

	cfg.Plans = nil
	assert.Error(t, cfg.Validate())
}

package config

import (
	"errors"
	"testing"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `env:"TEST_CFG_PORT" envDefault:"8000"`
	Host     string `env:"TEST_CFG_HOST" envDefault:"localhost"`
	LogLevel string `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_HOST", "0.0.0.0")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.True(t, cfg.Debug)
}

type requiredConfig struct {
	APIKey string `env:"TEST_CFG_API_KEY,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	require.Error(t, Load(&cfg))
}

type checkedConfig struct {
	PageSize int `env:"PAGE_SIZE" envDefault:"5"`
}

func (c *checkedConfig) Validate() error {
	if c.PageSize < 1 {
		return errors.New("PAGE_SIZE must be positive")
	}
	return nil
}

func TestLoadWithOptions_RunsValidate(t *testing.T) {
	var cfg checkedConfig
	err := LoadWithOptions(&cfg, env.Options{Environment: map[string]string{"PAGE_SIZE": "0"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")

	cfg = checkedConfig{}
	require.NoError(t, LoadWithOptions(&cfg, env.Options{Environment: map[string]string{"PAGE_SIZE": "10"}}))
	assert.Equal(t, 10, cfg.PageSize)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alwanly/service-remote-update/internal/models"
)

func TestLoadControllerConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("REDIS_HOST", "")

	cfg, err := LoadControllerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 300*time.Second, cfg.AgentRequestTimeout)
	assert.Equal(t, models.DefaultAPIPrefix, cfg.AgentAPIPrefix)
	assert.Equal(t, 4, cfg.CheckConcurrency)
	assert.Nil(t, cfg.Redis)
}

func TestLoadControllerConfigRequiresAdminPassword(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := LoadControllerConfig()
	assert.Error(t, err)
}

func TestLoadControllerConfigOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("AGENT_REQUEST_TIMEOUT", "60")
	t.Setenv("CHECK_CONCURRENCY", "0")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := LoadControllerConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.AgentRequestTimeout)
	assert.Equal(t, 1, cfg.CheckConcurrency)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "redis", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestLoadAgentConfig(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	t.Setenv("AGENT_DEBUG", "true")
	t.Setenv("TLS_CERT_FILE", "")
	t.Setenv("TLS_KEY_FILE", "")

	cfg, err := LoadAgentConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "wp", cfg.WPCLIBin)
	assert.Equal(t, models.DefaultAPIPrefix, cfg.APIPrefix)

	t.Setenv("TLS_CERT_FILE", "cert.pem")
	_, err = LoadAgentConfig()
	assert.Error(t, err)
}

func TestLoadAgentConfigTrustedProxies(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	t.Setenv("TLS_CERT_FILE", "")
	t.Setenv("TLS_KEY_FILE", "")
	t.Setenv("AGENT_TRUSTED_PROXIES", " 10.0.0.1, ,10.0.0.0/8 ")

	cfg, err := LoadAgentConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.TrustedProxies)
}

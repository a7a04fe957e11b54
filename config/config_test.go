package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "666666", cfg.Sandbox.ChallengeOTP)
	assert.Equal(t, "http://localhost:8080", cfg.Sandbox.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Sandbox.IPNTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
  mode: release
sandbox:
  secret_key: file-secret
  ipn_timeout: 3s
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "file-secret", cfg.Sandbox.SecretKey)
	assert.Equal(t, 3*time.Second, cfg.Sandbox.IPNTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CPS_SANDBOX_SECRET_KEY", "env-secret")
	t.Setenv("CPS_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Sandbox.SecretKey)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", s.Addr())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, 12*time.Hour, c.Session.TTL)
	require.Equal(t, 60*time.Minute, c.Auth.Reset.TTL)
	require.True(t, c.Providers.Google.Enabled)
	require.True(t, c.Providers.ICP.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  app_env: prod
server:
  addr: ":9090"
  cors_allowed_origins: ["https://app.example.com"]
storage:
  driver: redis
  redis:
    addr: "localhost:6379"
    prefix: "mq"
session:
  secret: "super-secret"
  ttl: 1h
providers:
  google:
    enabled: true
  icp:
    enabled: false
    gateway_url: "https://ii.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prod", c.App.Env)
	require.Equal(t, ":9090", c.Server.Addr)
	require.Equal(t, []string{"https://app.example.com"}, c.Server.CORSAllowedOrigins)
	require.Equal(t, "redis", c.Storage.Driver)
	require.Equal(t, "localhost:6379", c.Storage.Redis.Addr)
	require.Equal(t, "super-secret", c.Session.Secret)
	require.Equal(t, time.Hour, c.Session.TTL)
	require.False(t, c.Providers.ICP.Enabled)
	require.Equal(t, "https://ii.example.com", c.Providers.ICP.GatewayURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("STORAGE_DRIVER", "POSTGRES")
	t.Setenv("STORAGE_DSN", "postgres://u:p@localhost/mq")
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ICP_ENABLED", "false")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.com, https://b.com")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":7070", c.Server.Addr)
	// El driver se normaliza a minúsculas.
	require.Equal(t, "postgres", c.Storage.Driver)
	require.Equal(t, "postgres://u:p@localhost/mq", c.Storage.DSN)
	require.Equal(t, "env-secret", c.Session.Secret)
	require.Equal(t, 30*time.Minute, c.Session.TTL)
	require.False(t, c.Providers.ICP.Enabled)
	require.Equal(t, []string{"https://a.com", "https://b.com"}, c.Server.CORSAllowedOrigins)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	require.Error(t, err)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	require.Equal(t, "data/assets.db", cfg.Database.Path)
	require.Equal(t, 587, cfg.SMTP.Port)
	require.Empty(t, cfg.SMTP.Host)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ASSETS_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("ASSETS_DATABASE_PATH", "/tmp/test-assets.db")
	t.Setenv("ASSETS_SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	require.Equal(t, "/tmp/test-assets.db", cfg.Database.Path)
	require.Equal(t, "smtp.example.com", cfg.SMTP.Host)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	require.Equal(t, 5000, cfg.Port)
	require.True(t, cfg.IsDev())
	require.Equal(t, "data/database.json", cfg.DatabasePath())
	require.Equal(t, "data/bans.json", cfg.BansPath())
	require.Equal(t, "logs/activity.log", cfg.ActivityLogPath())
	require.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
env: production
jwt_secret: super-secret
redis_url: redis://localhost:6379/1
paths:
  data: /var/lib/itd
  logs: /var/log/itd
admin:
  username: root
  password: not-admin123
allowed_origins:
  - itd.example.com
  - "*.itd.example.com"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.IsDev())
	require.Equal(t, "super-secret", cfg.JWTSecret)
	require.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	require.Equal(t, "/var/lib/itd/database.json", cfg.DatabasePath())
	require.Equal(t, "root", cfg.Admin.Username)
	require.Equal(t, []string{"itd.example.com", "*.itd.example.com"}, cfg.AllowedOrigins)
}

func TestLoadAliasKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_env: production
log_dir: /srv/logs
data_dir: /srv/data
cors_allowed_origins: [example.com]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, "/srv/logs/activity.log", cfg.ActivityLogPath())
	require.Equal(t, "/srv/data/database.json", cfg.DatabasePath())
	require.Equal(t, []string{"example.com"}, cfg.AllowedOrigins)
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 99999\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

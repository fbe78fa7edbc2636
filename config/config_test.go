package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, "adminpass", cfg.SeedPasswords["admin"])
	assert.Equal(t, 3, cfg.ReminderWindowDays)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_DSN", "user:pw@tcp(localhost:3306)/pm")
	t.Setenv("JWT_SECRET_KEY", "access")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "access", cfg.JWTSecret)
	assert.Equal(t, "refresh", cfg.JWTRefreshSecret)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.NoError(t, cfg.RequireSecrets())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REMINDER_WINDOW_DAYS=7\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REMINDER_WINDOW_DAYS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.ReminderWindowDays)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "pm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nlog_format: json\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("DB_DRIVER", "postgres")
	_, err := Load("")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("BCRYPT_COST", "99")
	_, err = Load("")
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestRequireSecrets(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireSecrets())
}

// chdir switches the working directory for the duration of the test,
// restoring it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
jwt:
  secret: file-secret
inventory:
  low_stock_threshold: 5
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry())
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "notifications", cfg.Notification.Channel)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: file-secret
`)
	t.Setenv("BLOODLINK_JWT_SECRET", "env-secret")
	t.Setenv("BLOODLINK_DATABASE_URL", "postgres://u:p@db:5432/bloodlink?sslmode=disable")
	t.Setenv("BLOODLINK_PORT", "7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/bloodlink?sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_LegacySecretKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRET_KEY", "legacy-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "legacy-secret", cfg.JWT.Secret)
	assert.Equal(t, 2, cfg.Inventory.LowStockThreshold)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRET_KEY", "")
	t.Setenv("BLOODLINK_JWT_SECRET", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "bl", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=bl sslmode=disable", d.DSN())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	is := is.New(t)
	dir := writeConfig(t, `
database:
  driver: sqlite
  path: ":memory:"
storage:
  type: memory
`)
	cfg, err := LoadConfig(dir)
	is.NoErr(err)
	is.Equal(cfg.Server.Port, "8080")
	is.Equal(cfg.Server.Mode, "debug")
	is.Equal(cfg.Database.Driver, "sqlite")
	is.Equal(cfg.Database.Path, ":memory:")
	is.Equal(cfg.JWT.ExpireTime, 72*time.Hour)
	is.Equal(cfg.Cache.DashboardTTL(), time.Minute)
	is.Equal(cfg.Cache.LRUSize, 256)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	is := is.New(t)
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
storage:
  type: memory
jwt:
  secret: from-file
  expire_hours: 2
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadConfig(dir)
	is.NoErr(err)
	is.Equal(cfg.JWT.Secret, "from-env")
	is.Equal(cfg.JWT.ExpireTime, 2*time.Hour)
	is.True(cfg.Redis.Enabled)
}

func TestLoadConfigReleaseRequiresStrongSecret(t *testing.T) {
	is := is.New(t)
	dir := writeConfig(t, `
server:
  mode: release
database:
  driver: sqlite
storage:
  type: memory
jwt:
  secret: short
`)
	_, err := LoadConfig(dir)
	is.True(err != nil)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	is := is.New(t)
	dir := writeConfig(t, `
database:
  driver: oracle
storage:
  type: memory
`)
	_, err := LoadConfig(dir)
	is.True(err != nil)
}

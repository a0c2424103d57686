package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "3307")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")

		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 3307, cfg.Database.Port)
		assert.Equal(t, "secret", cfg.Database.Password)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	})

	t.Run("YAML file and dotenv", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		path := filepath.Join(dir, "notes.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db:\n  driver: sqlite\n  path: /tmp/notes.db\nlog:\n  level: debug\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_USER=from-dotenv\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("DB_USER") })

		cfg, err := Load(viper.New(), path)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "/tmp/notes.db", cfg.Database.Path)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "from-dotenv", cfg.Database.User)
	})

	t.Run("Missing explicit file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := Load(viper.New(), "does-not-exist.yaml")
		assert.Error(t, err)
	})

	t.Run("Unsupported driver", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DB_DRIVER", "oracle")

		_, err := Load(viper.New(), "")
		assert.ErrorContains(t, err, "unsupported db.driver")
	})
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Database.Password = "hunter2"

	assert.Equal(t, "********", cfg.Redacted().Database.Password)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Empty(t, Default().Redacted().Database.Password)
}

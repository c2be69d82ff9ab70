package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadDefaults", func(t *testing.T) {
		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)

		assert.Empty(t, cfg.Storage.Endpoint)
		assert.False(t, cfg.Storage.ForcePathStyle)
		assert.Zero(t, cfg.Listing.PageSize)
	})

	t.Run("RuntimeOverrides", func(t *testing.T) {
		overrides := map[string]any{
			"server": map[string]any{
				"port": 9000,
				"host": "0.0.0.0",
			},
			"logging": map[string]any{
				"level": "debug",
			},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)

		// Non-overridden values keep their defaults
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("POCKETS3_PORT", "3000")
		t.Setenv("POCKETS3_LOG_LEVEL", "warn")
		t.Setenv("POCKETS3_ENDPOINT", "http://localhost:9000")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "http://localhost:9000", cfg.Storage.Endpoint)
	})

	t.Run("ConfigPrecedence", func(t *testing.T) {
		t.Setenv("POCKETS3_PORT", "4000")

		overrides := map[string]any{
			"server": map[string]any{"port": 5000},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)

		// Runtime override wins over env var
		assert.Equal(t, 5000, cfg.Server.Port)
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7070
logging:
  level: debug
storage:
  endpoint: http://minio:9000
  force_path_style: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("POCKETS3_CONFIG", path)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://minio:9000", cfg.Storage.Endpoint)
	assert.True(t, cfg.Storage.ForcePathStyle)

	// Env still beats the file
	t.Setenv("POCKETS3_PORT", "7171")
	cfg, err = Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7171, cfg.Server.Port)
}

func TestDurationParsing(t *testing.T) {
	t.Setenv("POCKETS3_READ_TIMEOUT", "45s")
	t.Setenv("POCKETS3_SHUTDOWN_TIMEOUT", "5m")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Server.ShutdownTimeout)
}

func TestGetConfig(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	retrieved := GetConfig()
	require.NotNil(t, retrieved)
	assert.Equal(t, cfg.Server.Port, retrieved.Server.Port)

	// Reload replaces the process config
	cfg2, err := Load(context.Background(), map[string]any{
		"server": map[string]any{"port": cfg.Server.Port + 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, cfg2.Server.Port, GetConfig().Server.Port)
}

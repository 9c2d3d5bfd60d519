package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 100000, cfg.Import.MaxRows)
	assert.Equal(t, 10*time.Minute, cfg.Import.JobTimeout())
	assert.True(t, cfg.Import.DetectDeleted)
	assert.Equal(t, "utf-8", cfg.Import.DefaultCharset)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("IMPORT_MAX_ROWS", "250")
	t.Setenv("IMPORT_DETECT_DELETED", "false")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Import.MaxRows)
	assert.False(t, cfg.Import.DetectDeleted)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IMPORT_TIMEZONE=Europe/Berlin\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("IMPORT_TIMEZONE") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	loc, err := cfg.Import.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestImportConfig_Durations(t *testing.T) {
	c := ImportConfig{JobTimeoutSeconds: 0, BaselineTTLSeconds: 5, JobRetentionSeconds: 2}
	assert.Zero(t, c.JobTimeout())
	assert.Equal(t, 5*time.Second, c.BaselineTTL())
	assert.Equal(t, 2*time.Second, c.JobRetention())

	loc, err := ImportConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

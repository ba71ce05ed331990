package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("CONSTRUCTPRO_SERVER_URL", "")
	t.Setenv("CONSTRUCTPRO_LOCALE", "")

	cfg := DefaultConfig()
	require.Equal(t, "http://localhost:8080", cfg.ServerURL)
	require.Equal(t, "en", cfg.Locale)
	require.True(t, cfg.ConfirmDelete)
	require.Equal(t, "INFO", cfg.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONSTRUCTPRO_SERVER_URL", "https://api.example.com")
	t.Setenv("CONSTRUCTPRO_LOCALE", "de")

	cfg := DefaultConfig()
	require.Equal(t, "https://api.example.com", cfg.ServerURL)
	require.Equal(t, "de", cfg.Locale)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONSTRUCTPRO_SERVER_URL", "")

	cfg := DefaultConfig()
	cfg.ServerURL = "https://constructpro.example.com"
	cfg.Locale = "fr"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://constructpro.example.com", loaded.ServerURL)
	require.Equal(t, "fr", loaded.Locale)
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONSTRUCTPRO_SERVER_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.ServerURL)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".constructpro")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{{nope"), 0644))

	_, err := Load()
	require.Error(t, err)
}

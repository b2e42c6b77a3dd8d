package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CAMPUSBITES_API_URL", "")
	t.Setenv("CAMPUSBITES_STATE_DIR", "")
	t.Setenv("CAMPUSBITES_POLL_INTERVAL", "")
	t.Setenv("CAMPUSBITES_METRICS_ADDR", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, ":9464", cfg.MetricsAddr)
	assert.Equal(t, filepath.Join(dir, "campusbites", "state"), cfg.StateDir)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "campusbites")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(
		"api_base_url: https://api.campus.example\npoll_interval: 30s\n",
	), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.campus.example", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "campusbites")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(
		"api_base_url: https://from-file.example\n",
	), 0o600))

	t.Setenv("CAMPUSBITES_API_URL", "https://from-env.example")
	t.Setenv("CAMPUSBITES_POLL_INTERVAL", "5s")
	t.Setenv("CAMPUSBITES_STATE_DIR", "/tmp/campusbites-test-state")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "/tmp/campusbites-test-state", cfg.StateDir)
}

func TestLoad_BadPollInterval(t *testing.T) {
	isolate(t)
	t.Setenv("CAMPUSBITES_POLL_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadConfigFile(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "campusbites")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("{nope"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"obsidian": {"url": "https://127.0.0.1:27124", "apikey": "secret"},
		"cache": {"enabled": true, "refresh_interval": "2m", "stale_after": "4m"},
		"mcp": {"tools": {"read_note": true}}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://127.0.0.1:27124", cfg.Obsidian.URL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 4*time.Minute, cfg.StaleAfter())
	assert.True(t, cfg.MCP.Tools["read_note"])
}

func TestLoad_DefaultDurations(t *testing.T) {
	path := writeConfig(t, `{"obsidian": {"url": "https://127.0.0.1:27124"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 10*time.Minute, cfg.StaleAfter())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `{"cache": {"refresh_interval": "soon"}}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh_interval")
}

func TestLoad_RelativeCertResolved(t *testing.T) {
	path := writeConfig(t, `{"obsidian": {"cert": "obsidian.pem"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "obsidian.pem"), cfg.Obsidian.Cert)
}

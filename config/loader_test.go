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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	path := writeConfig(t, "app:\n  name: riskradar\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, ":8090", cfg.Server.Addr())
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.Model)
	assert.True(t, cfg.Gemini.SearchGrounding)
	assert.Equal(t, 90*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "riskradar.db", cfg.Database.Path)
	assert.Equal(t, "riskradar_session", cfg.Session.CookieName)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
gemini:
  model: gemini-3-pro-preview
  search_grounding: false
  timeout: 15s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Gemini.Model)
	assert.False(t, cfg.Gemini.SearchGrounding)
	assert.Equal(t, 15*time.Second, cfg.Gemini.Timeout)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RISKRADAR_SERVER_PORT", "9100")
	t.Setenv("RISKRADAR_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "env-key")
	path := writeConfig(t, "app:\n  name: riskradar\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
}

func TestExpandPlaceholders(t *testing.T) {
	t.Setenv("RR_TEST_DB", "/tmp/rr.db")
	path := writeConfig(t, "database:\n  path: ${RR_TEST_DB}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rr.db", cfg.Database.Path)
}

func TestValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "gemini:\n  model: gpt-4\n"))
	assert.ErrorContains(t, err, "unsupported model")

	_, err = Load(writeConfig(t, "server:\n  port: 70000\n"))
	assert.ErrorContains(t, err, "server.port")
}

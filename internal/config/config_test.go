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

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
environment: PROD
db:
  host: db.internal
  port: 6543
  name: docs
classifier:
  provider: HTTP
  url: http://classifier:9000
  timeout: 3s
auth:
  okta_domain: https://example.okta.com/oauth2/default/
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "PROD", cfg.Environment)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "lexflow", cfg.DB.User)
	assert.Equal(t, "http", cfg.Classifier.Provider)
	assert.Equal(t, 3*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 5, cfg.Classifier.Burst)
	assert.Equal(t, "https://example.okta.com/oauth2/default", cfg.Auth.OktaDomain)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Contains(t, cfg.DSN(), "host=db.internal port=6543")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "db:\n  host: from-file\n")
	t.Setenv("LEXFLOW_DB_HOST", "from-env")
	t.Setenv("LEXFLOW_DEV_MODE_BYPASS", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DB.Host)
	assert.True(t, cfg.DevModeBypass)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "classifier:\n  provider: http\n"))
	assert.ErrorContains(t, err, "classifier.url")

	_, err = LoadConfig(writeConfig(t, "classifier:\n  provider: oracle\n"))
	assert.ErrorContains(t, err, "unknown classifier provider")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalizeOktaIssuer(t *testing.T) {
	assert.Equal(t, "https://x.okta.com", normalizeOktaIssuer(" https://x.okta.com// "))
}

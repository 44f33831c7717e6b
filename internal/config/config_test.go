// ABOUTME: Tests for castline-server configuration loading
// ABOUTME: Covers YAML parsing, env var expansion, duration parsing, and validation

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
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "/var/lib/castline/castline.db"
feed:
  heartbeat_interval: "10s"
logging:
  level: "debug"
  format: "json"
metrics:
  enabled: true
  path: "/metrics"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "/var/lib/castline/castline.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Feed.HeartbeatInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_HeartbeatDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: ":memory:"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultFeedHeartbeat, cfg.Feed.HeartbeatInterval)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("CASTLINE_DB", "/tmp/test.db")
	t.Setenv("CASTLINE_PORT", "9090")

	path := writeConfig(t, `
server:
  http_addr: ":${CASTLINE_PORT}"
database:
  path: "${CASTLINE_DB}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
}

func TestLoad_UnsetEnvVarExpandsEmpty(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "${CASTLINE_DEFINITELY_UNSET_VAR}"
database:
  path: ":memory:"
`)

	_, err := Load(path)
	require.Error(t, err, "empty http_addr fails validation")
	assert.Contains(t, err.Error(), "http_addr")
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: ":memory:"
feed:
  heartbeat_interval: "ten seconds"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heartbeat_interval")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MetricsRequirePath(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: ":memory:"
metrics:
  enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics.path")
}

func TestValidate_RequiresDatabasePath(t *testing.T) {
	cfg := &Config{Server: ServerConfig{HTTPAddr: ":8080"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.path")
}

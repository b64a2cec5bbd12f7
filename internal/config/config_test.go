package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testXDG(t *testing.T) *XDGConfig {
	t.Helper()
	return &XDGConfig{BaseDir: filepath.Join(t.TempDir(), "hookgate")}
}

func TestDefaultConfig(t *testing.T) {
	x := testXDG(t)
	cfg := Default(x)

	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, filepath.Join(x.BaseDir, "properties.json"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(x.BaseDir, "plugins"), cfg.Plugins.Dir)
	assert.Equal(t, filepath.Join(x.BaseDir, "plugins.yml"), cfg.Plugins.CustomConfig)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	x := testXDG(t)

	cfg, err := Load(filepath.Join(x.BaseDir, "config.json"), x)
	require.NoError(t, err)
	assert.Equal(t, Default(x).Store, cfg.Store)

	cfg, err = Load("", x)
	require.NoError(t, err)
	assert.Equal(t, Default(x).Plugins, cfg.Plugins)
}

func TestLoadJSONPreservesUnknownFields(t *testing.T) {
	x := testXDG(t)
	path := filepath.Join(x.BaseDir, "config.json")
	require.NoError(t, os.MkdirAll(x.BaseDir, 0o750))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "store": {"driver": "sqlite", "dsn": "/tmp/hookgate.db"},
  "logging": {"level": "debug"},
  "customTool": {"enabled": true}
}`), 0o600))

	cfg, err := Load(path, x)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/hookgate.db", cfg.Store.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// fields absent from the file keep their defaults
	assert.Equal(t, x.GetPluginsDir(), cfg.Plugins.Dir)
	assert.Contains(t, cfg.Other, "customTool")

	require.NoError(t, Save(path, cfg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "customTool")
	assert.Contains(t, raw, "store")
}

func TestLoadTOML(t *testing.T) {
	x := testXDG(t)
	path := filepath.Join(x.BaseDir, "config.toml")
	require.NoError(t, os.MkdirAll(x.BaseDir, 0o750))
	require.NoError(t, os.WriteFile(path, []byte(`
[store]
driver = "redis"
dsn = "redis://localhost:6379/2"

[plugins]
dir = "/opt/hookgate/plugins"
`), 0o600))

	cfg, err := Load(path, x)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Store.DSN)
	assert.Equal(t, "/opt/hookgate/plugins", cfg.Plugins.Dir)

	out := filepath.Join(x.BaseDir, "roundtrip.toml")
	require.NoError(t, Save(out, cfg))
	again, err := Load(out, x)
	require.NoError(t, err)
	assert.Equal(t, cfg.Store, again.Store)
}

func TestLoadInvalidJSON(t *testing.T) {
	x := testXDG(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := Load(path, x)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default(testXDG(t))
	env := map[string]string{
		"HOOKGATE_STORE_DRIVER": "postgres",
		"HOOKGATE_STORE_DSN":    "postgres://localhost/hookgate",
		"HOOKGATE_LOG_LEVEL":    "warn",
		"HOOKGATE_PLUGINS_DIR":  "/srv/plugins",
		"HOOKGATE_REDIS_DB":     "3",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/hookgate", cfg.Store.DSN)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/srv/plugins", cfg.Plugins.Dir)
	assert.Equal(t, 3, cfg.Store.RedisDB)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(dir), "missing .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HOOKGATE_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("HOOKGATE_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("HOOKGATE_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "from-file", os.Getenv("HOOKGATE_TEST_DOTENV"))
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]ldlog.LogLevel{
		"debug":   ldlog.Debug,
		"":        ldlog.Info,
		"INFO":    ldlog.Info,
		"warning": ldlog.Warn,
		"error":   ldlog.Error,
		"none":    ldlog.None,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestNewLoggers(t *testing.T) {
	var stderr bytes.Buffer
	loggers, closer, err := NewLoggers(LoggingConfig{Level: "warn"}, &stderr)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	loggers.Info("hidden")
	loggers.Warn("shown")
	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "shown")
	assert.True(t, strings.HasPrefix(stderr.String(), "[hookgate] "))
}

func TestNewLoggersWithFile(t *testing.T) {
	var stderr bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "hookgate.log")

	loggers, closer, err := NewLoggers(LoggingConfig{
		Level:       "info",
		File:        logFile,
		LogRotation: DefaultLogRotationConfig(),
	}, &stderr)
	require.NoError(t, err)

	loggers.Info("to both")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, stderr.String(), "to both")
}

func TestNewLoggersInvalidLevel(t *testing.T) {
	_, _, err := NewLoggers(LoggingConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "plugins.risk.consent"

// runStoreTests exercises the behavior every backend must share
func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		v, ok, err := s.GetGlobalProperty(ctx, testKey)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetGlobalProperty(ctx, testKey, "REQUIRED"))
		v, ok, err := s.GetGlobalProperty(ctx, testKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "REQUIRED", v)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetGlobalProperty(ctx, testKey, "REQUIRED"))
		require.NoError(t, s.SetGlobalProperty(ctx, testKey, "ACCEPTED"))
		v, _, err := s.GetGlobalProperty(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, "ACCEPTED", v)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetGlobalProperty(ctx, testKey, "REQUIRED"))
		require.NoError(t, s.SetGlobalProperty(ctx, "other", "kept"))
		require.NoError(t, s.DeleteGlobalProperty(ctx, testKey))

		_, ok, err := s.GetGlobalProperty(ctx, testKey)
		require.NoError(t, err)
		assert.False(t, ok)

		v, ok, err := s.GetGlobalProperty(ctx, "other")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "kept", v)
	})

	t.Run("delete missing key", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.DeleteGlobalProperty(ctx, testKey))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestFileStore(t *testing.T) {
	for _, format := range []string{"json", "toml"} {
		t.Run(format, func(t *testing.T) {
			runStoreTests(t, func(t *testing.T) Store {
				return NewFileStore(filepath.Join(t.TempDir(), "nested", "properties."+format), "")
			})
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "properties.toml")

	s := NewFileStore(path, "")
	require.NoError(t, s.SetGlobalProperty(ctx, testKey, "ACCEPTED"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ACCEPTED")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	v, ok, err := NewFileStore(path, "toml").GetGlobalProperty(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ACCEPTED", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileStore(path, "").GetGlobalProperty(context.Background(), testKey)
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		s, err := OpenSQLStore(DriverSQLite, filepath.Join(t.TempDir(), "hookgate.db"), ldlog.NewDisabledLoggers())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	runStoreTests(t, func(t *testing.T) Store {
		s, err := OpenRedisStore(context.Background(), Config{RedisAddr: addr})
		require.NoError(t, err)
		s.hash = "hookgate:test:" + t.Name()
		t.Cleanup(func() {
			_ = s.client.Del(context.Background(), s.hash).Err()
			_ = s.Close()
		})
		return s
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	loggers := ldlog.NewDisabledLoggers()

	s, err := Open(ctx, Config{Driver: "memory"}, loggers)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Config{Path: filepath.Join(t.TempDir(), "p.json")}, loggers)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Config{Driver: "file"}, loggers)
	assert.Error(t, err)

	_, err = Open(ctx, Config{Driver: "SQLite"}, loggers)
	assert.Error(t, err, "sqlite without dsn")

	_, err = Open(ctx, Config{Driver: "etcd"}, loggers)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

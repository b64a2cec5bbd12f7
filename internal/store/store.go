// Package store persists global key/value properties such as the plugin risk
// consent flag.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown property store driver")

// Driver names accepted by Open
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Store is a key/value store of global properties.
type Store interface {
	// GetGlobalProperty returns the value and true, or false when the key was never set.
	GetGlobalProperty(ctx context.Context, key string) (string, bool, error)
	SetGlobalProperty(ctx context.Context, key, value string) error
	// DeleteGlobalProperty removes the key; deleting a missing key is not an error.
	DeleteGlobalProperty(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Driver string `json:"driver,omitempty" toml:"driver,omitempty"`
	// DSN is the connection string for sqlite, postgres and redis (redis:// URL).
	DSN string `json:"dsn,omitempty" toml:"dsn,omitempty"`
	// Path and Format configure the file backend; Format is json or toml.
	Path          string `json:"path,omitempty" toml:"path,omitempty"`
	Format        string `json:"format,omitempty" toml:"format,omitempty"`
	RedisAddr     string `json:"redisAddr,omitempty" toml:"redisAddr,omitempty"`
	RedisPassword string `json:"redisPassword,omitempty" toml:"redisPassword,omitempty"`
	RedisDB       int    `json:"redisDB,omitempty" toml:"redisDB,omitempty"`
}

// Drivers lists the supported driver names
func Drivers() []string {
	return []string{DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverRedis}
}

// Open creates the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config, loggers ldlog.Loggers) (Store, error) {
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile, "":
		if cfg.Path == "" {
			return nil, errors.New("file property store requires a path")
		}
		return NewFileStore(cfg.Path, cfg.Format), nil
	case DriverSQLite, DriverPostgres:
		return OpenSQLStore(driver, cfg.DSN, loggers)
	case DriverRedis:
		return OpenRedisStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownDriver, cfg.Driver, strings.Join(Drivers(), ", "))
	}
}

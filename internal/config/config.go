// Package config loads hookgate's configuration: where properties are stored,
// where external plugins live and how logging behaves.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/klauern/hookgate/internal/constants"
	"github.com/klauern/hookgate/internal/store"
)

// PluginsConfig locates external plugins
type PluginsConfig struct {
	// Dir is scanned for plugin executables.
	Dir string `json:"dir,omitempty" toml:"dir,omitempty"`
	// CustomConfig is a YAML/JSON file declaring custom command plugins.
	CustomConfig string `json:"customConfig,omitempty" toml:"customConfig,omitempty"`
}

// Config is the root configuration document
type Config struct {
	Store   store.Config  `json:"store" toml:"store"`
	Plugins PluginsConfig `json:"plugins" toml:"plugins"`
	Logging LoggingConfig `json:"logging" toml:"logging"`
	// Other preserves unknown top-level JSON fields across a save
	Other map[string]interface{} `json:"-" toml:"-"`
}

var knownKeys = []string{"store", "plugins", "logging"}

// Default returns the configuration used when no file exists: a JSON file
// property store and plugin locations inside the XDG directory.
func Default(x *XDGConfig) *Config {
	return &Config{
		Store: store.Config{
			Driver: constants.DefaultPropertyStore,
			Path:   x.GetPropertiesPath(constants.DefaultConfigFormat),
			Format: constants.DefaultConfigFormat,
		},
		Plugins: PluginsConfig{
			Dir:          x.GetPluginsDir(),
			CustomConfig: x.GetCustomPluginsPath(),
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogRotation: DefaultLogRotationConfig(),
		},
		Other: map[string]interface{}{},
	}
}

// Load reads the config at path on top of the defaults. A missing file is not
// an error. The format follows the file extension (.json or .toml).
func Load(path string, x *XDGConfig) (*Config, error) {
	cfg := Default(x)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - controlled config paths
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch formatOf(path) {
	case "toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		// Preserve unknown fields
		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		for _, k := range knownKeys {
			delete(raw, k)
		}
		cfg.Other = raw
	}
	return cfg, nil
}

// Save writes the configuration to path in the format implied by its extension
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var data []byte
	switch formatOf(path) {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
		data = buf.Bytes()
	default:
		// Merge known and unknown
		out := map[string]interface{}{}
		for k, v := range cfg.Other {
			out[k] = v
		}
		out["store"] = cfg.Store
		out["plugins"] = cfg.Plugins
		out["logging"] = cfg.Logging

		var err error
		data, err = json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads the .env file in dir, if any, without overriding variables
// already set in the environment.
func LoadDotEnv(dir string) error {
	p := filepath.Join(dir, constants.EnvFileName)
	if _, err := os.Stat(p); err != nil {
		return nil
	}
	if err := godotenv.Load(p); err != nil {
		return fmt.Errorf("failed to load %s: %w", p, err)
	}
	return nil
}

// ApplyEnv overrides configuration from HOOKGATE_* environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(constants.EnvStoreDriver); v != "" {
		c.Store.Driver = v
	}
	if v := getenv(constants.EnvStoreDSN); v != "" {
		c.Store.DSN = v
	}
	if v := getenv(constants.EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(constants.EnvPluginsDir); v != "" {
		c.Plugins.Dir = v
	}
	if v := getenv(constants.EnvPrefix + "REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.RedisDB = db
		}
	}
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "json"
}

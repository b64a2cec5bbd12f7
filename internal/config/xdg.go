package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauern/hookgate/internal/constants"
)

// XDGConfig handles XDG Base Directory Specification compliant locations
type XDGConfig struct {
	BaseDir string
}

// NewXDGConfig creates a new XDG configuration manager
func NewXDGConfig() *XDGConfig {
	baseDir := os.Getenv(constants.EnvConfigHome)
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home directory cannot be determined
			baseDir = ".config"
		} else {
			baseDir = filepath.Join(homeDir, ".config")
		}
	}

	return &XDGConfig{
		BaseDir: filepath.Join(baseDir, constants.ConfigDirName),
	}
}

// GetConfigDir returns the XDG configuration directory for hookgate
func (x *XDGConfig) GetConfigDir() string {
	return x.BaseDir
}

// GetConfigPath returns the path to the configuration file in the given format
func (x *XDGConfig) GetConfigPath(format string) string {
	if format == "" {
		format = constants.DefaultConfigFormat
	}
	return filepath.Join(x.BaseDir, fmt.Sprintf("%s.%s", constants.ConfigFileBase, format))
}

// GetPropertiesPath returns the default file property store location
func (x *XDGConfig) GetPropertiesPath(format string) string {
	if format == "" {
		format = constants.DefaultConfigFormat
	}
	return filepath.Join(x.BaseDir, fmt.Sprintf("%s.%s", constants.PropertiesFileBase, format))
}

// GetPluginsDir returns the directory scanned for external plugin executables
func (x *XDGConfig) GetPluginsDir() string {
	return filepath.Join(x.BaseDir, constants.PluginsSubDir)
}

// GetCustomPluginsPath returns the YAML file declaring custom plugins
func (x *XDGConfig) GetCustomPluginsPath() string {
	return filepath.Join(x.BaseDir, constants.CustomPluginsFile)
}

// GetLogPath returns the default application log file
func (x *XDGConfig) GetLogPath() string {
	return filepath.Join(x.BaseDir, "logs", constants.DefaultLogFile)
}

// FindConfigFile returns the first existing config file, preferring JSON over
// TOML, or the empty string when none exists.
func (x *XDGConfig) FindConfigFile() string {
	for _, format := range []string{"json", "toml"} {
		p := x.GetConfigPath(format)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// EnsureDirectories creates the necessary XDG directories
func (x *XDGConfig) EnsureDirectories() error {
	dirs := []string{
		x.GetConfigDir(),
		x.GetPluginsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil { // #nosec G301 - XDG directories should be user-only accessible
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

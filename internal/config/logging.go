package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogRotationConfig holds configuration for log rotation
type LogRotationConfig struct {
	MaxAge     int  `json:"maxAge" toml:"maxAge"`         // Maximum number of days to retain log files
	MaxSize    int  `json:"maxSize" toml:"maxSize"`       // Maximum size in megabytes before rotation
	MaxBackups int  `json:"maxBackups" toml:"maxBackups"` // Maximum number of backup files to retain
	Compress   bool `json:"compress" toml:"compress"`     // Whether to compress rotated files
}

// DefaultLogRotationConfig returns sensible defaults for log rotation
func DefaultLogRotationConfig() LogRotationConfig {
	return LogRotationConfig{
		MaxAge:     30,   // 30 days default retention
		MaxSize:    10,   // 10MB per file
		MaxBackups: 5,    // Keep 5 backup files
		Compress:   true, // Compress old files
	}
}

// LoggingConfig controls application logging
type LoggingConfig struct {
	// Level is one of debug, info, warn, error or none.
	Level string `json:"level,omitempty" toml:"level,omitempty"`
	// File enables writing to a rotating log file in addition to stderr.
	File        string            `json:"file,omitempty" toml:"file,omitempty"`
	LogRotation LogRotationConfig `json:"logRotation" toml:"logRotation"`
}

// ParseLogLevel maps a level name to an ldlog level
func ParseLogLevel(s string) (ldlog.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return ldlog.Debug, nil
	case "", "info":
		return ldlog.Info, nil
	case "warn", "warning":
		return ldlog.Warn, nil
	case "error":
		return ldlog.Error, nil
	case "none":
		return ldlog.None, nil
	default:
		return ldlog.Info, fmt.Errorf("invalid log level '%s'. Valid: debug, info, warn, error, none", s)
	}
}

// NewLoggers builds the application loggers. Output goes to stderr and, when
// a log file is configured, to a rotating file. The returned closer releases
// the file.
func NewLoggers(cfg LoggingConfig, stderr io.Writer) (ldlog.Loggers, io.Closer, error) {
	level, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return ldlog.Loggers{}, nil, err
	}

	out := stderr
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotating := SetupLogRotation(cfg.File, cfg.LogRotation)
		if rotating != nil {
			out = io.MultiWriter(stderr, rotating)
			closer = rotating
			if err := CleanupOldLogs(filepath.Dir(cfg.File), cfg.LogRotation.MaxAge); err != nil {
				fmt.Fprintf(stderr, "Warning: Failed to cleanup old logs: %v\n", err)
			}
		}
	}

	loggers := ldlog.Loggers{}
	loggers.SetBaseLogger(log.New(out, "[hookgate] ", log.LstdFlags))
	loggers.SetMinLevel(level)
	return loggers, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogRotation configures log rotation for a given log file path
func SetupLogRotation(logPath string, config LogRotationConfig) *lumberjack.Logger {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		log.Printf("Failed to create log directory: %v", err)
		return nil
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
		LocalTime:  true, // Use local time for timestamps
	}
}

// CleanupOldLogs removes log files older than the specified number of days,
// beyond what lumberjack's MaxAge already handles.
func CleanupOldLogs(logDir string, maxAgeDays int) error {
	if maxAgeDays <= 0 {
		return nil // No cleanup if maxAge is 0 or negative
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	return filepath.Walk(logDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		// Only consider .log files and compressed log files
		if filepath.Ext(path) == ".log" || filepath.Ext(path) == ".gz" {
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(path); err != nil {
					log.Printf("Failed to remove old log file %s: %v", path, err)
				}
			}
		}
		return nil
	})
}

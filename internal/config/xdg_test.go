package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewXDGConfig(t *testing.T) {
	testConfigHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", testConfigHome)

	xdg := NewXDGConfig()
	expectedBaseDir := filepath.Join(testConfigHome, "hookgate")
	if xdg.BaseDir != expectedBaseDir {
		t.Errorf("Expected BaseDir %s, got %s", expectedBaseDir, xdg.BaseDir)
	}

	// Without XDG_CONFIG_HOME
	t.Setenv("XDG_CONFIG_HOME", "")
	xdg = NewXDGConfig()
	homeDir, _ := os.UserHomeDir()
	expectedBaseDir = filepath.Join(homeDir, ".config", "hookgate")
	if xdg.BaseDir != expectedBaseDir {
		t.Errorf("Expected BaseDir %s, got %s", expectedBaseDir, xdg.BaseDir)
	}
}

func TestXDGPaths(t *testing.T) {
	xdg := &XDGConfig{BaseDir: "/base"}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"config json", xdg.GetConfigPath(""), "/base/config.json"},
		{"config toml", xdg.GetConfigPath("toml"), "/base/config.toml"},
		{"properties", xdg.GetPropertiesPath("toml"), "/base/properties.toml"},
		{"plugins dir", xdg.GetPluginsDir(), "/base/plugins"},
		{"custom plugins", xdg.GetCustomPluginsPath(), "/base/plugins.yml"},
		{"log", xdg.GetLogPath(), "/base/logs/hookgate.log"},
	}
	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.name, test.expected, test.got)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	xdg := &XDGConfig{BaseDir: t.TempDir()}

	if got := xdg.FindConfigFile(); got != "" {
		t.Errorf("Expected no config file, got %s", got)
	}

	if err := os.WriteFile(xdg.GetConfigPath("toml"), []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := xdg.FindConfigFile(); got != xdg.GetConfigPath("toml") {
		t.Errorf("Expected TOML config, got %s", got)
	}

	if err := os.WriteFile(xdg.GetConfigPath("json"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := xdg.FindConfigFile(); got != xdg.GetConfigPath("json") {
		t.Errorf("Expected JSON config to win, got %s", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	xdg := &XDGConfig{BaseDir: filepath.Join(t.TempDir(), "hookgate")}

	if err := xdg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}
	for _, dir := range []string{xdg.GetConfigDir(), xdg.GetPluginsDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s to exist", dir)
		}
	}
}

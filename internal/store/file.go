package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// propertiesFile is the on-disk layout of the file backend
type propertiesFile struct {
	Version    int               `json:"version" toml:"version"`
	Properties map[string]string `json:"properties" toml:"properties"`
}

const propertiesFileVersion = 1

// FileStore keeps properties in a JSON or TOML file. The file is read on every
// call so edits made by other processes are seen; writes replace the file
// atomically.
type FileStore struct {
	mu     sync.Mutex
	path   string
	format string
}

// NewFileStore creates a store backed by path. An empty format is inferred
// from the extension and defaults to json.
func NewFileStore(path, format string) *FileStore {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if format != "toml" {
		format = "json"
	}
	return &FileStore{path: path, format: format}
}

// Path returns the backing file
func (f *FileStore) Path() string { return f.path }

// GetGlobalProperty returns the stored value
func (f *FileStore) GetGlobalProperty(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data.Properties[key]
	return v, ok, nil
}

// SetGlobalProperty stores value under key
func (f *FileStore) SetGlobalProperty(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data.Properties[key] = value
	return f.save(data)
}

// DeleteGlobalProperty removes key
func (f *FileStore) DeleteGlobalProperty(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data.Properties[key]; !ok {
		return nil
	}
	delete(data.Properties, key)
	return f.save(data)
}

// Close is a no-op
func (f *FileStore) Close() error { return nil }

func (f *FileStore) load() (*propertiesFile, error) {
	out := &propertiesFile{Version: propertiesFileVersion, Properties: map[string]string{}}

	raw, err := os.ReadFile(f.path) // #nosec G304 - path comes from hookgate config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("failed to read properties file: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	switch f.format {
	case "toml":
		if err := toml.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("failed to parse TOML properties file: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("failed to parse JSON properties file: %w", err)
		}
	}
	if out.Properties == nil {
		out.Properties = map[string]string{}
	}
	return out, nil
}

func (f *FileStore) save(data *propertiesFile) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var buf bytes.Buffer
	switch f.format {
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(data); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
	default:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal properties: %w", err)
		}
		buf.Write(b)
	}

	tmp, err := os.CreateTemp(dir, ".properties-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write properties file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write properties file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set properties file mode: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace properties file: %w", err)
	}
	return nil
}

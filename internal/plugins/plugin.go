// Package plugins provides the plugin inventory: bundled plugins compiled into
// the binary and external plugins installed by users.
package plugins

import (
	"context"
	"errors"
	"fmt"
)

// ErrPluginNotFound is returned when no source knows a plugin name.
var ErrPluginNotFound = errors.New("plugin not found")

// Type classifies where a plugin comes from.
type Type int

const (
	// Bundled plugins ship with the binary and are trusted.
	Bundled Type = iota + 1
	// External plugins were installed by a user and are not verified.
	External
)

// String returns the type tag shown in listings.
func (t Type) String() string {
	switch t {
	case Bundled:
		return "BUNDLED"
	case External:
		return "EXTERNAL"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Record describes one installed plugin.
type Record struct {
	Name        string
	Type        Type
	Description string
	// Source names the inventory source that reported the plugin (e.g. "builtin", "custom", "dir").
	Source string
	// Path is the file backing an external plugin, empty for bundled ones.
	Path string
}

// Plugin is a loaded, runnable plugin.
type Plugin interface {
	Key() string
	Name() string
	Description() string
	Run(ctx context.Context) error
}

// Inventory lists the currently installed plugins.
type Inventory interface {
	Plugins(ctx context.Context) ([]Record, error)
}

// Source is an Inventory that can also load the plugins it reports.
type Source interface {
	Inventory
	Open(ctx context.Context, name string) (Plugin, error)
}

// HasExternal reports whether any record is an external plugin.
func HasExternal(records []Record) bool {
	for _, r := range records {
		if r.Type == External {
			return true
		}
	}
	return false
}

package plugins

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory is a function that creates a bundled Plugin instance
type Factory func(env *Env) Plugin

// Registry manages bundled plugin registration and creation. It is the
// inventory source for everything compiled into the binary.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	env       *Env
}

// NewRegistry creates a new plugin registry
func NewRegistry(env *Env) *Registry {
	if env == nil {
		env = DefaultEnv()
	}
	return &Registry{
		factories: make(map[string]Factory),
		env:       env,
	}
}

// Register registers a plugin factory with the given key
func (r *Registry) Register(key string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("plugin with key '%s' already registered", key)
	}

	r.factories[key] = factory
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(key string, factory Factory) {
	if err := r.Register(key, factory); err != nil {
		panic(err)
	}
}

// RegisterBatch registers multiple plugins; nothing is registered if any key is taken
func (r *Registry) RegisterBatch(factories map[string]Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range factories {
		if _, exists := r.factories[key]; exists {
			return fmt.Errorf("plugin with key '%s' already registered", key)
		}
	}
	for key, factory := range factories {
		r.factories[key] = factory
	}
	return nil
}

// MustRegisterBatch is like RegisterBatch but panics on error
func (r *Registry) MustRegisterBatch(factories map[string]Factory) {
	if err := r.RegisterBatch(factories); err != nil {
		panic(err)
	}
}

// Create creates a plugin instance by key
func (r *Registry) Create(key string) (Plugin, error) {
	r.mu.RLock()
	factory, exists := r.factories[key]
	env := r.env
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("bundled plugin '%s': %w", key, ErrPluginNotFound)
	}

	return factory(env), nil
}

// Keys returns all registered plugin keys in sorted order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetEnv updates the environment used for creating plugin instances
func (r *Registry) SetEnv(env *Env) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.env = env
}

// Plugins reports every registered plugin as a bundled record.
func (r *Registry) Plugins(_ context.Context) ([]Record, error) {
	keys := r.Keys()
	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		p, err := r.Create(key)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			Name:        key,
			Type:        Bundled,
			Description: p.Description(),
			Source:      "builtin",
		})
	}
	return records, nil
}

// Open creates the bundled plugin registered under name.
func (r *Registry) Open(_ context.Context, name string) (Plugin, error) {
	return r.Create(name)
}

// Global registry instance
var globalRegistry = NewRegistry(nil)

// Builtins returns the registry holding the bundled plugins.
func Builtins() *Registry {
	return globalRegistry
}

// RegisterBuiltins is called by the builtin package to register all bundled plugins
func RegisterBuiltins(factories map[string]Factory) {
	globalRegistry.MustRegisterBatch(factories)
}

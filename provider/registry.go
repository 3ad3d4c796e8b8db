package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a Client from a registry configuration.
type Factory func(cfg Config) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a factory available under name. Packages call it from init:
//
//	func init() {
//	    provider.Register("claude-code", func(cfg provider.Config) (provider.Client, error) {
//	        return claude.NewFromConfig(cfg)
//	    })
//	}
//
// It panics on an empty name, a nil factory or a duplicate name.
func Register(name string, factory Factory) {
	if name == "" {
		panic("provider.Register: empty name")
	}
	if factory == nil {
		panic(fmt.Sprintf("provider.Register(%q): nil factory", name))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("provider %q already registered", name))
	}
	registry[name] = factory
}

// New creates a Client with the factory registered under name.
// An empty cfg.Provider is set to name; a different one is rejected.
func New(name string, cfg Config) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownProvider, name, Available())
	}

	if cfg.Provider == "" {
		cfg.Provider = name
	}
	if cfg.Provider != name {
		return nil, fmt.Errorf("%w: config names provider %q, requested %q", ErrInvalidRequest, cfg.Provider, name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return factory(cfg)
}

// NewFromConfig creates a Client for cfg.Provider, e.g. after
// Config.LoadFromEnv read CLAUDELOCAL_PROVIDER.
func NewFromConfig(cfg Config) (Client, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("%w: provider is required", ErrInvalidRequest)
	}
	return New(cfg.Provider, cfg)
}

// MustNew is New for names known to be registered. It panics on error.
func MustNew(name string, cfg Config) Client {
	client, err := New(name, cfg)
	if err != nil {
		panic(fmt.Sprintf("provider.MustNew(%q): %v", name, err))
	}
	return client
}

// Available returns the registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	registryMu.RUnlock()

	sort.Strings(names)
	return names
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Unregister removes name. Intended for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

// ClearRegistry removes every factory. Intended for tests.
func ClearRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Factory)
}

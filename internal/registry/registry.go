// Package registry provides a global registry for environment factories.
// Environment variants register themselves in init() functions, so the CLI
// and servers can discover and build them by ID.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// ErrUnknownEnv is returned by Create for an unregistered ID.
var ErrUnknownEnv = errors.New("registry: unknown environment")

// EnvInfo contains metadata about a registered environment.
type EnvInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory adjusts a base configuration for one environment variant.
// It receives a copy and returns the configuration the env is built from.
type Factory func(base config.RocketConfig) config.RocketConfig

type entry struct {
	info    EnvInfo
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds an environment variant to the registry.
// Typically called from an init() function.
// Panics if an environment with the same ID is already registered.
func Register(info EnvInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: environment %q already registered", info.ID))
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered environments, sorted by ID.
func List() []EnvInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EnvInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Config resolves the configuration the given environment would be built with.
func Config(id string, base config.RocketConfig) (config.RocketConfig, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()
	if !ok {
		return config.RocketConfig{}, fmt.Errorf("%w %q", ErrUnknownEnv, id)
	}
	return e.factory(base), nil
}

// Create builds a new environment by its ID from a base configuration.
func Create(id string, base config.RocketConfig, opts ...sim.Option) (*sim.Env, error) {
	cfg, err := Config(id, base)
	if err != nil {
		return nil, err
	}
	return sim.New(cfg, opts...)
}

// Exists checks if an environment with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}

package backend

import (
	"fmt"
	"sync"
)

// Factory creates a new backend instance.
type Factory func() GraphicsBackend

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[Kind]Factory)
	// Priority order for automatic selection (first available wins).
	// wgpu gives GPU presentation, software always works, headless is
	// last because it never reaches a screen.
	priority = []Kind{KindWGPU, KindSoftware, KindHeadless}
)

// Register registers a backend factory under a kind. Typically called
// from init() in backend packages. Re-registering a kind replaces the
// previous factory.
func Register(kind Kind, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[kind] = factory
}

// Unregister removes a backend from the registry. Useful for tests.
func Unregister(kind Kind) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, kind)
}

// Available returns the registered backend kinds.
func Available() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]Kind, 0, len(backends))
	for kind := range backends {
		kinds = append(kinds, kind)
	}
	return kinds
}

// IsRegistered reports whether a backend kind is registered.
func IsRegistered(kind Kind) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[kind]
	return ok
}

// Get returns a new backend instance by kind, or nil if the kind is
// not registered. The instance is not yet initialized.
func Get(kind Kind) GraphicsBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[kind]
	if !ok {
		return nil
	}
	return factory()
}

// New creates and initializes the backend the config selects. With
// KindAuto it walks the priority order and returns the first backend
// that both constructs and initializes; with an explicit kind it
// returns the error from that one backend rather than silently
// falling back.
func New(cfg Config) (GraphicsBackend, error) {
	if cfg.Kind != KindAuto {
		b := Get(cfg.Kind)
		if b == nil {
			return nil, fmt.Errorf("backend %q: %w", cfg.Kind, ErrBackendNotAvailable)
		}
		if err := b.Init(); err != nil {
			return nil, fmt.Errorf("backend %q: init: %w", cfg.Kind, err)
		}
		return b, nil
	}

	var firstErr error
	for _, kind := range priority {
		b := Get(kind)
		if b == nil {
			continue
		}
		if err := b.Init(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("backend %q: init: %w", kind, err)
			}
			continue
		}
		return b, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrBackendNotAvailable
}

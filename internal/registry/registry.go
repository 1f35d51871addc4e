// Package registry maps containers to the track variants that parse them.
package registry

import (
	"sync"

	"github.com/simonhull/mediatrack/internal/types"
)

// Factory creates the decoder for one track. A new decoder is made per
// track so variants may keep per-track state.
type Factory func() types.Decoder

var (
	mu        sync.RWMutex
	factories = make(map[types.Container]Factory)
)

// Register registers the variant for a container.
// This is called by container packages during initialization (init functions).
func Register(c types.Container, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[c] = f
}

// Get returns the factory for a container, or nil if none is registered.
func Get(c types.Container) Factory {
	mu.RLock()
	defer mu.RUnlock()
	return factories[c]
}

// New creates a decoder for a container. It returns nil if no variant is
// registered for c.
func New(c types.Container) types.Decoder {
	f := Get(c)
	if f == nil {
		return nil
	}
	return f()
}

// Containers returns every container with a registered variant.
func Containers() []types.Container {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]types.Container, 0, len(factories))
	for c := range factories {
		out = append(out, c)
	}
	return out
}

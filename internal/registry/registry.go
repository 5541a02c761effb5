// Package registry holds the process-wide lookup maps: arenas by name and
// the player→arena assignment that stops one player from fighting in two
// matches at once.
package registry

import (
	"sort"
	"sync"

	"bedrush/internal/match"
)

// Registry is safe for concurrent use. Its lifecycle is the service's; it
// is built once at boot and injected where needed.
type Registry struct {
	mu       sync.RWMutex
	arenas   map[string]*match.Arena
	byPlayer map[string]*match.Arena
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		arenas:   make(map[string]*match.Arena),
		byPlayer: make(map[string]*match.Arena),
	}
}

// Add registers an arena under its name. Later adds with the same name
// replace the earlier arena.
func (r *Registry) Add(a *match.Arena) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.arenas[a.Name()] = a
}

// Get looks an arena up by name.
func (r *Registry) Get(name string) (*match.Arena, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.arenas[name]
	return a, ok
}

// All returns every arena in stable name order.
func (r *Registry) All() []*match.Arena {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.arenas))
	for name := range r.arenas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*match.Arena, 0, len(names))
	for _, name := range names {
		out = append(out, r.arenas[name])
	}
	return out
}

// Assign binds a player to an arena. Returns false when the player is
// already bound somewhere, including the same arena.
func (r *Registry) Assign(playerID string, a *match.Arena) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byPlayer[playerID]; taken {
		return false
	}
	r.byPlayer[playerID] = a
	return true
}

// Release unbinds a player.
func (r *Registry) Release(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPlayer, playerID)
}

// ArenaOf returns the arena a player is bound to.
func (r *Registry) ArenaOf(playerID string) (*match.Arena, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byPlayer[playerID]
	return a, ok
}

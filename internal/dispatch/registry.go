// Package dispatch implements the Dispatcher and Scheduler of
// spec.md §4.7: resolving a keypress or programmatic action name
// against a screen's Tiler instance, and the daemon's main loop that
// drains the tiling queue and classifies X11 notifications.
package dispatch

import (
	"sync"

	"github.com/pytyle/pytyle/internal/tiler"
	"github.com/pytyle/pytyle/internal/world"
)

// Registry holds the one *tiler.Instance bound to each screen.
// world.Screen deliberately carries no Tiler field (see world's doc
// comment), to avoid a world<->tiler import cycle; Registry is where
// that association actually lives.
type Registry struct {
	mu   sync.Mutex
	byID map[world.ScreenID]*tiler.Instance
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[world.ScreenID]*tiler.Instance)}
}

// Set binds a Tiler instance to a screen, replacing any prior one.
func (r *Registry) Set(id world.ScreenID, t *tiler.Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = t
}

// Get looks up the Tiler instance bound to a screen.
func (r *Registry) Get(id world.ScreenID) (*tiler.Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	return t, ok
}

// Delete drops a screen's binding, for a screen that disappeared from
// a geometry change.
func (r *Registry) Delete(id world.ScreenID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// All returns every registered Tiler instance, in no particular order.
func (r *Registry) All() []*tiler.Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*tiler.Instance, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	return out
}

package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/pytyle/pytyle/internal/event"
	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/world"
)

func newScheduler(t *testing.T, w *world.World, registry *Registry, port *fakePort) (*Scheduler, *event.Watcher) {
	t.Helper()
	watcher, err := event.NewWatcher(port)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	d := New(w, registry, port, defaultOptsFor)
	reload := func() (map[string]string, map[string]string, error) { return map[string]string{}, map[string]string{}, nil }
	return NewScheduler(w, d, watcher, reload, 10*time.Millisecond), watcher
}

func TestScheduler_DrainsTilingQueueEachIteration(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	if err := New(w, registry, port, defaultOptsFor).Dispatch(s0, "tile.default", false); err != nil {
		t.Fatalf("Dispatch tile: %v", err)
	}

	sched, _ := newScheduler(t, w, registry, port)

	inst, _ := registry.Get(s0)
	_ = inst

	w.QueueForTiling(s0)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = sched.Run(ctx)

	if drained := w.DrainTilingQueue(); len(drained) != 0 {
		t.Fatalf("expected the tiling queue to already be drained by the scheduler loop")
	}
}

func TestScheduler_ActiveChangedResolvesActive(t *testing.T) {
	w, registry, port, _, s1 := twoScreenSetup(t)
	port.addWindow(2, 1010, 10, 50, 50)

	sched, watcher := newScheduler(t, w, registry, port)

	port.active = 2
	watcher.Events <- event.Event{Kind: event.ActiveChanged, Window: platform.WindowID(2)}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = sched.Run(ctx)

	_, _, screen, window, ok := w.ActivePath()
	if !ok || window != 2 || screen != s1 {
		t.Fatalf("expected active window 2 resolved onto screen %d, got screen=%d window=%d ok=%v", s1, screen, window, ok)
	}
}

func TestScheduler_WindowDestroyedQueuesTiledScreens(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	if err := New(w, registry, port, defaultOptsFor).Dispatch(s0, "tile.default", false); err != nil {
		t.Fatalf("Dispatch tile: %v", err)
	}
	sched, _ := newScheduler(t, w, registry, port)

	port.clients = nil // window 1 no longer reported by the transport
	sched.apply(event.Event{Kind: event.WindowDestroyed, Window: 1})

	drained := w.DrainTilingQueue()
	found := false
	for _, id := range drained {
		if id == s0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected screen %d (tiling-enabled) to be queued after WindowDestroyed, got %v", s0, drained)
	}
}

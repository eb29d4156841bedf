package dispatch

import (
	"context"
	"log"
	"time"

	"github.com/pytyle/pytyle/internal/event"
	"github.com/pytyle/pytyle/internal/world"
)

// ReloadFunc reloads configuration from disk and returns the fresh
// KEYMAP and CALLBACKS bindings to register. It is injected rather
// than calling internal/config directly, so Scheduler doesn't depend
// on that package's concrete shape.
type ReloadFunc func() (keymap, callbacks map[string]string, err error)

// Scheduler runs spec.md §4.7's daemon main loop: on a config-reload
// request, reload and re-register hotkeys and rebuild the World Model;
// otherwise drain the tiling queue, then block on the next classified
// X11 notification (with a timeout so queued retiles are never
// starved) and apply its world-model side effects.
type Scheduler struct {
	world      *world.World
	dispatcher *Dispatcher
	watcher    *event.Watcher
	reload     ReloadFunc
	timeout    time.Duration
}

// NewScheduler constructs a Scheduler. timeout is the poll interval
// spec.md §4.7 calls "a configurable timeout (~100ms) so queued work
// isn't starved"; zero selects that 100ms default.
func NewScheduler(w *world.World, d *Dispatcher, watcher *event.Watcher, reload ReloadFunc, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 100 * time.Millisecond
	}
	return &Scheduler{world: w, dispatcher: d, watcher: watcher, reload: reload, timeout: timeout}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if s.world.TakeConfigReloadRequest() {
			if err := s.reloadConfig(); err != nil {
				log.Printf("scheduler: config reload failed: %v", err)
			}
		}

		for _, screen := range s.world.DrainTilingQueue() {
			s.tileScreen(screen)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.watcher.Events:
			s.apply(ev)
		case <-time.After(s.timeout):
		}
	}
}

func (s *Scheduler) reloadConfig() error {
	keymap, callbacks, err := s.reload()
	if err != nil {
		return err
	}
	s.dispatcher.UngrabHotkeys()
	if err := s.dispatcher.RegisterHotkeys(keymap); err != nil {
		return err
	}
	s.dispatcher.UngrabButtons()
	if err := s.dispatcher.RegisterButtons(callbacks); err != nil {
		return err
	}
	s.world.Wipe()
	if err := s.world.LoadAll(); err != nil {
		return err
	}
	return s.world.ResolveActive(true)
}

func (s *Scheduler) tileScreen(id world.ScreenID) {
	t, ok := s.dispatcher.registry.Get(id)
	if !ok {
		return
	}
	scr, ok := s.world.Screen(id)
	if !ok || !scr.TilingEnabled {
		return
	}
	if err := t.Tile(); err != nil {
		log.Printf("scheduler: tile screen %d: %v", id, err)
	}
}

// apply is the Scheduler's side of the Event Classifier: it turns one
// semantic event into the World Model refresh (and retile requests)
// spec.md §4.7 describes. KeyPressed never arrives here: it is handled
// synchronously by the GrabKey callback that produced it, on the same
// goroutine, before a Signal could ever reach the Watcher channel.
func (s *Scheduler) apply(ev event.Event) {
	switch ev.Kind {
	case event.ActiveChanged, event.FocusIn:
		if err := s.world.ResolveActive(false); err != nil {
			log.Printf("scheduler: resolve active: %v", err)
		}
	case event.DesktopChanged:
		if err := s.world.ResolveActive(true); err != nil {
			log.Printf("scheduler: resolve active: %v", err)
		}
	case event.ScreenLayoutChanged:
		s.world.Wipe()
		if err := s.world.LoadAll(); err != nil {
			log.Printf("scheduler: reload after layout change: %v", err)
			return
		}
		_ = s.world.ResolveActive(true)
		s.queueEveryTiledScreen()
	case event.WorkareaChanged, event.WindowListChanged, event.WindowStateChanged,
		event.WindowChanged, event.WindowCreated:
		if err := s.world.Reload(); err != nil {
			log.Printf("scheduler: reload: %v", err)
			return
		}
		s.queueScreenOf(ev.Window)
	case event.WindowDestroyed:
		if err := s.world.Reload(); err != nil {
			log.Printf("scheduler: reload: %v", err)
			return
		}
		s.queueEveryTiledScreen()
	case event.KeyPressed:
	}
}

func (s *Scheduler) queueEveryTiledScreen() {
	for _, scr := range s.world.Screens() {
		if scr.IsTiled {
			s.world.QueueForTiling(scr.ID)
		}
	}
}

func (s *Scheduler) queueScreenOf(window world.WindowID) {
	if window == 0 {
		return
	}
	for _, scr := range s.world.Screens() {
		if _, ok := scr.Windows()[window]; ok {
			if scr.IsTiled {
				s.world.QueueForTiling(scr.ID)
			}
			return
		}
	}
}

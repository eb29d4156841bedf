package dispatch

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/pytyle/pytyle/internal/event"
	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/tiler"
	"github.com/pytyle/pytyle/internal/world"
)

// UnknownActionError reports a dispatch call whose action name does
// not resolve to any universal command, numeric-suffixed screen_focus/
// screen_put form, or tile.<layout> variant — spec.md §7's
// UnknownAction, "configured action name does not resolve".
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("dispatch: unknown action %q", e.Action)
}

// UnknownBindingError reports a KeyPress whose (keycode, modmask) was
// never registered via RegisterHotkeys — spec.md §7's UnknownBinding.
// The Dispatcher itself never raises this: every key grabbed through
// xgbutil's keybind already carries its bound action, so there is no
// keycode/modmask lookup step that can miss. The Scheduler does not
// raise it either: x11.Subscribe forwards no KeyPress signals, so no
// code path in the daemon returns this error.
type UnknownBindingError struct {
	Keycode uint8
	Modmask uint16
}

func (e *UnknownBindingError) Error() string {
	return fmt.Sprintf("dispatch: no binding for keycode %d modmask %#x", e.Keycode, e.Modmask)
}

// Dispatcher resolves a hotkey or a programmatic action name against
// a screen's Tiler instance and invokes the matching command, per
// spec.md §4.7.
//
// KeyPressed events are not routed through internal/event's
// Classifier: xgbutil grabs one key sequence per KEYMAP binding
// (github.com/BurntSushi/xgbutil/keybind's `Connect`), so the action
// a keypress maps to is already known at grab time, not resolved from
// a raw (keycode, modmask) pair afterward. The grab callback still
// hands the raw keycode/modmask to dispatchHotkey, purely for the
// event.NewKeyPressed value in its log lines; Dispatch itself takes
// only the screen and the action name.
type Dispatcher struct {
	world    *world.World
	registry *Registry
	port     platform.Port
	optsFor  func(tiler.Kind) tiler.Options
}

// New constructs a Dispatcher. optsFor resolves the tiler.Options for a
// given Kind (its own LAYOUT parameter table, master capacity, and
// FILTER predicate) every time this Dispatcher creates a fresh
// tiler.Instance: a layout switch via tile.<layout> or cycle_tiler must
// pick up the target layout's own defaults, not whichever layout was
// active before the switch.
func New(w *world.World, registry *Registry, port platform.Port, optsFor func(tiler.Kind) tiler.Options) *Dispatcher {
	return &Dispatcher{world: w, registry: registry, port: port, optsFor: optsFor}
}

// RegisterHotkeys grabs every configured KEYMAP entry. keySequence is
// the xgbutil "Mod4-Shift-t" string; action is a command name or
// "tile.<layout>" per spec.md's KEYMAP format (line 175).
func (d *Dispatcher) RegisterHotkeys(bindings map[string]string) error {
	for seq, action := range bindings {
		action := action
		if err := d.port.GrabKey(seq, func(keycode uint8, modmask uint16) {
			d.dispatchHotkey(action, keycode, modmask)
		}); err != nil {
			return fmt.Errorf("grab %q: %w", seq, err)
		}
	}
	return nil
}

// UngrabHotkeys reverses every RegisterHotkeys grab, for the
// Scheduler's config-reload step.
func (d *Dispatcher) UngrabHotkeys() {
	d.port.UngrabAll()
}

// RegisterButtons grabs every configured CALLBACKS entry — spec.md
// §6's optional mouse-button -> action name table. buttonSequence is
// the xgbutil "Mod4-1" style mousebind string.
func (d *Dispatcher) RegisterButtons(bindings map[string]string) error {
	for seq, action := range bindings {
		action := action
		if err := d.port.GrabButton(seq, func() {
			d.dispatchButton(action)
		}); err != nil {
			return fmt.Errorf("grab button %q: %w", seq, err)
		}
	}
	return nil
}

// UngrabButtons reverses every RegisterButtons grab.
func (d *Dispatcher) UngrabButtons() {
	d.port.UngrabAllButtons()
}

func (d *Dispatcher) dispatchButton(action string) {
	screen, ok := d.activeScreen()
	if !ok {
		log.Printf("dispatch: callback %s fired with no active screen resolved", action)
		return
	}
	if err := d.Dispatch(screen, action, false); err != nil {
		log.Printf("dispatch callback %s on screen %d: %v", action, screen, err)
	}
}

func (d *Dispatcher) dispatchHotkey(action string, keycode uint8, modmask uint16) {
	ev := event.NewKeyPressed(keycode, event.NormalizeModmask(modmask))
	screen, ok := d.activeScreen()
	if !ok {
		log.Printf("dispatch: %s fired with no active screen resolved", ev.Kind)
		return
	}
	if err := d.Dispatch(screen, action, false); err != nil {
		log.Printf("dispatch %s on screen %d (%s): %v", action, screen, ev.Kind, err)
	}
}

func (d *Dispatcher) activeScreen() (world.ScreenID, bool) {
	_, _, screen, _, ok := d.world.ActivePath()
	return screen, ok
}

// Dispatch resolves action against screen's Tiler instance and
// invokes it, per spec.md §4.7:
//
//   - If screen has tiling disabled and action does not begin with
//     "tile.", a hotkey-triggered call returns without effect.
//   - A programmatic call (IPC) requires tiling to already be
//     enabled regardless of action, and returns without effect
//     otherwise.
//   - "tile.<layout>" with layout != "default" instantiates that
//     layout for the screen and resets it before tiling.
func (d *Dispatcher) Dispatch(screen world.ScreenID, action string, programmatic bool) error {
	t, ok := d.registry.Get(screen)
	if !ok {
		return fmt.Errorf("dispatch: no tiler registered for screen %d", screen)
	}
	scr, ok := d.world.Screen(screen)
	if !ok {
		return fmt.Errorf("dispatch: screen %d not in world", screen)
	}

	isTileVariant := strings.HasPrefix(action, "tile.")
	if programmatic {
		if !scr.TilingEnabled {
			return nil
		}
	} else if !scr.TilingEnabled && !isTileVariant {
		return nil
	}

	if isTileVariant {
		layout := strings.TrimPrefix(action, "tile.")
		if layout != "default" {
			next, err := d.switchLayout(screen, layout)
			if err != nil {
				return err
			}
			t = next
		}
		return t.Tile()
	}

	return d.invoke(t, screen, action)
}

func (d *Dispatcher) switchLayout(screen world.ScreenID, layout string) (*tiler.Instance, error) {
	kind, ok := tiler.ParseKind(layout)
	if !ok {
		return nil, fmt.Errorf("dispatch: unknown layout %q", layout)
	}
	next, err := tiler.New(kind, screen, d.world, d.port, d.optsFor(kind))
	if err != nil {
		return nil, err
	}
	next.Reset()
	d.registry.Set(screen, next)
	return next, nil
}

func (d *Dispatcher) invoke(t *tiler.Instance, screen world.ScreenID, action string) error {
	switch action {
	case "tile":
		return t.Tile()
	case "untile":
		return t.Untile()
	case "cycle":
		return t.Cycle()
	case "cycle_tiler":
		return d.cycleTiler(t, screen)
	case "reset":
		t.Reset()
		return nil
	case "add_master":
		return t.AddMaster()
	case "remove_master":
		return t.RemoveMaster()
	case "make_active_master":
		return t.MakeActiveMaster()
	case "win_master":
		return t.WinMaster()
	case "win_previous":
		return t.WinPrevious()
	case "win_next":
		return t.WinNext()
	case "switch_previous":
		return t.SwitchPrevious()
	case "switch_next":
		return t.SwitchNext()
	case "max_all":
		return t.MaxAll()
	case "restore_all":
		return t.RestoreAll()
	case "master_increase":
		return t.MasterIncrease()
	case "master_decrease":
		return t.MasterDecrease()
	}

	if n, ok := numericSuffix(action, "screen_focus"); ok {
		target, ok := d.registry.Get(world.ScreenID(n))
		if !ok {
			return fmt.Errorf("dispatch: screen_focus target %d not registered", n)
		}
		return t.ScreenFocus(target)
	}
	if n, ok := numericSuffix(action, "screen_put"); ok {
		target, ok := d.registry.Get(world.ScreenID(n))
		if !ok {
			return fmt.Errorf("dispatch: screen_put target %d not registered", n)
		}
		return t.ScreenPut(target)
	}

	return &UnknownActionError{Action: action}
}

func (d *Dispatcher) cycleTiler(t *tiler.Instance, screen world.ScreenID) error {
	kind, ok := t.CycleTiler()
	if !ok {
		return nil
	}
	next, err := tiler.New(kind, screen, d.world, d.port, d.optsFor(kind))
	if err != nil {
		return err
	}
	next.Reset()
	d.registry.Set(screen, next)
	return nil
}

func numericSuffix(action, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(action, prefix+".")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

package tiler

import (
	"github.com/pytyle/pytyle/internal/tilestore"
	"github.com/pytyle/pytyle/internal/world"
)

// Tile is the universal tile command: it saves geometry and runs the
// Reload protocol the first time a screen starts tiling, marks the
// screen tiling-enabled and is-tiled, and invokes the layout's tile.
func (t *Instance) Tile() error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	if !scr.TilingEnabled {
		for id := range scr.Windows() {
			t.w.SaveGeometry(id)
		}
	}
	if !scr.IsTiled {
		t.reloadLocked(scr)
	}
	scr.TilingEnabled = true
	scr.IsTiled = true
	return t.impl.tile(t)
}

// reloadLocked runs the Reload protocol (spec.md §4.3) against this
// screen's current window set.
func (t *Instance) reloadLocked(scr *world.Screen) {
	onScreen := make([]tilestore.ReloadCandidate, 0, len(scr.Windows()))
	for id, win := range scr.Windows() {
		excluded := win.Hidden || win.Popup
		if !excluded && t.filtered != nil {
			excluded = t.filtered(win.ClassInstance, win.ClassName)
		}
		onScreen = append(onScreen, tilestore.ReloadCandidate{ID: id, Hidden: excluded})
	}
	if t.kind == KindCascade {
		t.store.ReloadTop(onScreen, scr.Active)
		return
	}
	t.store.Reload(onScreen, scr.Active)
}

// Untile resizes every stored window back to its saved original
// rectangle and clears tiling-enabled.
func (t *Instance) Untile() error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	for _, id := range append(append([]world.WindowID{}, t.store.Masters()...), t.store.Slaves()...) {
		rect, ok := t.w.OriginalGeometry(id)
		if !ok {
			continue
		}
		_ = t.surface.Configure(id, rect.X, rect.Y, rect.Width, rect.Height)
		if t.originalDecor && t.decorWasDisabled[id] {
			_ = t.surface.SetUndecorated(id, false)
			delete(t.decorWasDisabled, id)
		}
	}
	scr.TilingEnabled = false
	return nil
}

// CycleTiler advances to the next entry in the configured tilers list
// (wrapping), and reports the Kind the caller should instantiate next
// via New, followed by Reset on the new Instance. The cycle index
// itself is tracked by whoever holds the ordered list (dispatch) since
// swapping Kind means swapping the whole Instance.
func (t *Instance) CycleTiler() (Kind, bool) {
	if len(t.tilersOrder) == 0 {
		return "", false
	}
	next := (t.tilerPos + 1) % len(t.tilersOrder)
	return t.tilersOrder[next], true
}

// Reset drops the storage, drops the tile state, clears the cycle
// index, and marks the screen needing retile.
func (t *Instance) Reset() {
	t.store.Reset()
	t.state.Reset()
	t.lastRect = make(map[world.WindowID]world.Rect)
	t.cycleIndex = 0
	if scr, ok := t.screenObj(); ok {
		scr.IsTiled = false
	}
	t.w.QueueForTiling(t.screen)
}

// ScreenFocus activates the target Instance's active window; a no-op
// if target is this screen.
func (t *Instance) ScreenFocus(target *Instance) error {
	if target == nil || target.screen == t.screen {
		return nil
	}
	scr, ok := target.screenObj()
	if !ok || scr.Active == 0 {
		return nil
	}
	return target.surface.Activate(scr.Active)
}

// ExtractActive removes the active window from this instance's
// storage (used by screen_put) and returns it. ok is false if there is
// no active window on this screen.
func (t *Instance) ExtractActive() (world.WindowID, bool) {
	scr, ok := t.screenObj()
	if !ok || scr.Active == 0 {
		return 0, false
	}
	active := scr.Active
	t.store.Remove(active)
	return active, true
}

// ScreenPut implements spec.md §4.4's screen_put command: moves the
// current active window from this Instance's storage to target's
// storage. If target is not tiling, the window is placed at target's
// origin immediately. Per the resolved Open Question (SPEC_FULL.md
// §9), the moved window is activated on its new screen, not the
// screen it came from.
func (t *Instance) ScreenPut(target *Instance) error {
	if target == nil || target.screen == t.screen {
		return nil
	}
	active, ok := t.ExtractActive()
	if !ok {
		return nil
	}
	target.store.Add(active)

	targetScr, ok := target.screenObj()
	if !ok {
		return nil
	}
	if !targetScr.IsTiled {
		if err := t.placeAtOrigin(target, active, targetScr); err != nil {
			return err
		}
	}

	t.w.QueueForTiling(t.screen)
	t.w.QueueForTiling(target.screen)
	t.w.SetActive(target.screen, active)
	return target.surface.Activate(active)
}

func (t *Instance) placeAtOrigin(target *Instance, id world.WindowID, scr *world.Screen) error {
	return target.resizeWindow(id, scr.Workarea)
}

// AddMaster / RemoveMaster delegate to Tile Storage's capacity
// counter. Maximal and Cascade override these as no-ops.
func (t *Instance) AddMaster() error {
	if t.kind == KindMaximal || t.kind == KindCascade {
		return nil
	}
	t.store.IncMasterCount()
	t.w.QueueForTiling(t.screen)
	return nil
}

func (t *Instance) RemoveMaster() error {
	if t.kind == KindMaximal || t.kind == KindCascade {
		return nil
	}
	t.store.DecMasterCount()
	t.w.QueueForTiling(t.screen)
	return nil
}

// MakeActiveMaster swaps the active window with masters[0].
func (t *Instance) MakeActiveMaster() error {
	scr, ok := t.screenObj()
	if !ok || scr.Active == 0 {
		return nil
	}
	masters := t.store.Masters()
	if len(masters) == 0 || masters[0] == scr.Active {
		return nil
	}
	a, b := scr.Active, masters[0]
	aRect, aOK := t.rectOf(a)
	bRect, bOK := t.rectOf(b)
	t.store.Switch(a, b)
	if aOK && bOK {
		_ = t.resizeWindow(a, bRect)
		_ = t.resizeWindow(b, aRect)
	}
	return nil
}

func (t *Instance) rectOf(id world.WindowID) (world.Rect, bool) {
	if rect, ok := t.lastRect[id]; ok {
		return rect, true
	}
	win, ok := t.w.Window(id)
	if !ok {
		return world.Rect{}, false
	}
	return win.Rect, true
}

// WinMaster activates masters[0].
func (t *Instance) WinMaster() error {
	masters := t.store.Masters()
	if len(masters) == 0 {
		return nil
	}
	return t.activate(masters[0])
}

// WinPrevious / WinNext activate find_previous()/find_next().
func (t *Instance) WinPrevious() error {
	id, ok := t.impl.findPrevious(t)
	if !ok {
		return nil
	}
	return t.activate(id)
}

func (t *Instance) WinNext() error {
	id, ok := t.impl.findNext(t)
	if !ok {
		return nil
	}
	return t.activate(id)
}

// SwitchPrevious / SwitchNext swap active with find_previous()/
// find_next(), both in storage and on screen.
func (t *Instance) SwitchPrevious() error {
	return t.switchWith(t.impl.findPrevious)
}

func (t *Instance) SwitchNext() error {
	return t.switchWith(t.impl.findNext)
}

func (t *Instance) switchWith(find func(*Instance) (world.WindowID, bool)) error {
	scr, ok := t.screenObj()
	if !ok || scr.Active == 0 {
		return nil
	}
	other, ok := find(t)
	if !ok || other == scr.Active {
		return nil
	}
	a, b := scr.Active, other
	aRect, aOK := t.rectOf(a)
	bRect, bOK := t.rectOf(b)
	t.store.Switch(a, b)
	if aOK && bOK {
		_ = t.resizeWindow(a, bRect)
		_ = t.resizeWindow(b, aRect)
	}
	return nil
}

// MaxAll / RestoreAll issue _NET_WM_STATE maximize/unmaximize requests
// for every stored window.
func (t *Instance) MaxAll() error {
	for _, id := range t.allStored() {
		_ = t.surface.Maximize(id)
	}
	return nil
}

func (t *Instance) RestoreAll() error {
	for _, id := range t.allStored() {
		_ = t.surface.Unmaximize(id)
	}
	return nil
}

func (t *Instance) allStored() []world.WindowID {
	out := make([]world.WindowID, 0, t.store.Len())
	out = append(out, t.store.Masters()...)
	out = append(out, t.store.Slaves()...)
	return out
}

func (t *Instance) activate(id world.WindowID) error {
	t.w.SetActive(t.screen, id)
	return t.surface.Activate(id)
}

// MasterIncrease / MasterDecrease / Cycle / FindNext / FindPrevious
// delegate to the six hot commands that vary per layout.
func (t *Instance) MasterIncrease() error { return t.impl.masterIncrease(t) }
func (t *Instance) MasterDecrease() error { return t.impl.masterDecrease(t) }
func (t *Instance) Cycle() error          { return t.impl.cycle(t) }
func (t *Instance) FindNext() (world.WindowID, bool)     { return t.impl.findNext(t) }
func (t *Instance) FindPrevious() (world.WindowID, bool) { return t.impl.findPrevious(t) }

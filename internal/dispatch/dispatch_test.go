package dispatch

import (
	"testing"

	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/tiler"
	"github.com/pytyle/pytyle/internal/world"
)

// fakePort is a minimal platform.Port double covering both the World
// Model's transport needs and tiler.Surface, plus recording GrabKey
// registrations so a test can fire a hotkey the way a real KeyPress
// would.
type fakePort struct {
	screens   []platform.Screen
	clients   []platform.WindowID
	snapshots map[platform.WindowID]platform.WindowSnapshot
	active    platform.WindowID

	grabbed map[string]func(keycode uint8, modmask uint16)
}

func newFakePort(screens ...platform.Screen) *fakePort {
	return &fakePort{
		screens:   screens,
		snapshots: make(map[platform.WindowID]platform.WindowSnapshot),
		grabbed:   make(map[string]func(keycode uint8, modmask uint16)),
	}
}

func (f *fakePort) Close() error { return nil }
func (f *fakePort) EventLoop()   {}
func (f *fakePort) Alive() bool  { return true }
func (f *fakePort) Subscribe(fn func(platform.Signal)) error {
	return nil
}
func (f *fakePort) GrabKey(keySequence string, fn func(keycode uint8, modmask uint16)) error {
	f.grabbed[keySequence] = fn
	return nil
}
func (f *fakePort) UngrabAll() { f.grabbed = make(map[string]func(keycode uint8, modmask uint16)) }
func (f *fakePort) GrabButton(buttonSequence string, fn func()) error { return nil }
func (f *fakePort) UngrabAllButtons()                                 {}

func (f *fakePort) DesktopCount() (int, error)         { return 1, nil }
func (f *fakePort) CurrentDesktop() (int, error)       { return 0, nil }
func (f *fakePort) DesktopGeometry() (int, int, error) { return 1920, 1080, nil }
func (f *fakePort) Screens() ([]platform.Screen, error) { return f.screens, nil }
func (f *fakePort) Viewports(w, h int) ([]platform.Viewport, error) {
	return []platform.Viewport{{Width: w, Height: h}}, nil
}
func (f *fakePort) ClientList() ([]platform.WindowID, error) { return f.clients, nil }
func (f *fakePort) ActiveWindow() (platform.WindowID, error) { return f.active, nil }
func (f *fakePort) WindowSnapshot(id platform.WindowID) (platform.WindowSnapshot, error) {
	snap, ok := f.snapshots[id]
	if !ok {
		return platform.WindowSnapshot{}, fakeErr("not found")
	}
	return snap, nil
}
func (f *fakePort) Configure(id platform.WindowID, x, y, width, height int) error { return nil }
func (f *fakePort) Activate(id platform.WindowID) error                         { return nil }
func (f *fakePort) Raise(id platform.WindowID) error                            { return nil }
func (f *fakePort) CloseWindow(id platform.WindowID) error                      { return nil }
func (f *fakePort) Maximize(id platform.WindowID) error                         { return nil }
func (f *fakePort) Unmaximize(id platform.WindowID) error                       { return nil }
func (f *fakePort) SetUndecorated(id platform.WindowID, undecorated bool) error { return nil }
func (f *fakePort) ResetGravity(id platform.WindowID) error                     { return nil }
func (f *fakePort) MoveToDesktop(id platform.WindowID, desktop int) error       { return nil }

func (f *fakePort) addWindow(id platform.WindowID, x, y, w, h int) {
	f.clients = append(f.clients, id)
	f.snapshots[id] = platform.WindowSnapshot{ID: id, Desktop: 0, Bounds: platform.Rect{X: x, Y: y, Width: w, Height: h}}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

var _ platform.Port = (*fakePort)(nil)

func defaultOpts() tiler.Options {
	return tiler.Options{MasterCapacity: 1, DecorationsEnabled: true, TilersOrder: []tiler.Kind{tiler.KindVertical, tiler.KindHorizontal}}
}

func defaultOptsFor(tiler.Kind) tiler.Options {
	return defaultOpts()
}

// twoScreenSetup builds a World with two 1000x800 screens, one window
// on screen 0 (made active), and a Registry with a Vertical tiler
// bound to each screen.
func twoScreenSetup(t *testing.T) (*world.World, *Registry, *fakePort, world.ScreenID, world.ScreenID) {
	t.Helper()
	port := newFakePort(
		platform.Screen{ID: 0, Bounds: platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}, Workarea: platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}},
		platform.Screen{ID: 1, Bounds: platform.Rect{X: 1000, Y: 0, Width: 1000, Height: 800}, Workarea: platform.Rect{X: 1000, Y: 0, Width: 1000, Height: 800}},
	)
	port.addWindow(1, 10, 10, 50, 50)
	port.active = 1

	w := world.New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	screens := w.Screens()
	if len(screens) != 2 {
		t.Fatalf("expected 2 screens, got %d", len(screens))
	}

	registry := NewRegistry()
	for _, scr := range screens {
		inst, err := tiler.New(tiler.KindVertical, scr.ID, w, port, defaultOpts())
		if err != nil {
			t.Fatalf("tiler.New: %v", err)
		}
		registry.Set(scr.ID, inst)
	}
	return w, registry, port, screens[0].ID, screens[1].ID
}

func TestDispatch_HotkeyGatedWhenTilingDisabled(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)

	if err := d.Dispatch(s0, "cycle", false); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	scr, _ := w.Screen(s0)
	if scr.IsTiled {
		t.Fatalf("expected cycle on an untiled screen to be a no-op")
	}
}

func TestDispatch_TileActionAlwaysAllowed(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)

	if err := d.Dispatch(s0, "tile.default", false); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	scr, _ := w.Screen(s0)
	if !scr.TilingEnabled || !scr.IsTiled {
		t.Fatalf("expected tile to enable tiling on screen 0, got %+v", scr)
	}
}

func TestDispatch_ProgrammaticRequiresTilingAlreadyEnabled(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)

	if err := d.Dispatch(s0, "cycle", true); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	inst, _ := registry.Get(s0)
	if inst.Store().Len() != 0 {
		t.Fatalf("expected a programmatic call on an untiled screen to be a no-op")
	}

	if err := d.Dispatch(s0, "tile.default", false); err != nil {
		t.Fatalf("Dispatch tile: %v", err)
	}
	if err := d.Dispatch(s0, "cycle", true); err != nil {
		t.Fatalf("Dispatch cycle: %v", err)
	}
}

func TestDispatch_TileLayoutSwitchesRegistryEntry(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)

	if err := d.Dispatch(s0, "tile.horizontal", false); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	inst, ok := registry.Get(s0)
	if !ok || inst.Kind() != tiler.KindHorizontal {
		t.Fatalf("expected registry to hold a horizontal tiler after tile.horizontal, got %+v", inst)
	}
}

func TestDispatch_TileDefaultDoesNotSwitchLayout(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)

	if err := d.Dispatch(s0, "tile.default", false); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	inst, _ := registry.Get(s0)
	if inst.Kind() != tiler.KindVertical {
		t.Fatalf("expected tile.default to keep the existing layout, got %s", inst.Kind())
	}
}

func TestDispatch_ScreenPutNumericSuffix(t *testing.T) {
	w, registry, port, s0, s1 := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)

	if err := d.Dispatch(s0, "tile.default", false); err != nil {
		t.Fatalf("Dispatch tile s0: %v", err)
	}
	if err := d.Dispatch(s1, "tile.default", false); err != nil {
		t.Fatalf("Dispatch tile s1: %v", err)
	}

	action := "screen_put.1"
	if err := d.Dispatch(s0, action, false); err != nil {
		t.Fatalf("Dispatch %s: %v", action, err)
	}

	src, _ := registry.Get(s0)
	dst, _ := registry.Get(s1)
	if src.Store().Len() != 0 {
		t.Fatalf("expected the source screen's storage to be empty after screen_put")
	}
	if dst.Store().Len() != 1 {
		t.Fatalf("expected the target screen's storage to hold the moved window")
	}
}

func TestDispatch_UnknownActionErrors(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)
	_ = d.Dispatch(s0, "tile.default", false)

	if err := d.Dispatch(s0, "not_a_real_action", false); err == nil {
		t.Fatalf("expected an error for an unrecognized action")
	}
}

func TestRegisterHotkeys_FiresDispatchOnActiveScreen(t *testing.T) {
	w, registry, port, s0, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)

	if err := d.Dispatch(s0, "tile.default", false); err != nil {
		t.Fatalf("Dispatch tile: %v", err)
	}

	if err := d.RegisterHotkeys(map[string]string{"Mod4-c": "cycle"}); err != nil {
		t.Fatalf("RegisterHotkeys: %v", err)
	}
	fn, ok := port.grabbed["Mod4-c"]
	if !ok {
		t.Fatalf("expected Mod4-c to be grabbed")
	}
	fn(54, 0) // the active screen (s0, the only window's screen) is tiling-enabled

	inst, _ := registry.Get(s0)
	if inst.Store().Len() != 1 {
		t.Fatalf("expected cycle to have run against the active screen's tiler")
	}
}

func TestUngrabHotkeys_ClearsGrabs(t *testing.T) {
	w, registry, port, _, _ := twoScreenSetup(t)
	d := New(w, registry, port, defaultOptsFor)
	_ = d.RegisterHotkeys(map[string]string{"Mod4-c": "cycle"})
	if len(port.grabbed) != 1 {
		t.Fatalf("expected one grab")
	}
	d.UngrabHotkeys()
	if len(port.grabbed) != 0 {
		t.Fatalf("expected UngrabHotkeys to clear every grab")
	}
}

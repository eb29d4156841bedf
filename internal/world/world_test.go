package world

import (
	"testing"

	"github.com/pytyle/pytyle/internal/platform"
)

// fakePort is a minimal in-memory platform.Port double for exercising
// World without an X11 connection.
type fakePort struct {
	desktopCount   int
	currentDesktop int
	totalW, totalH int
	screens        []platform.Screen
	viewports      []platform.Viewport
	clients        []platform.WindowID
	active         platform.WindowID
	snapshots      map[platform.WindowID]platform.WindowSnapshot
}

func newFakePort() *fakePort {
	return &fakePort{
		desktopCount:   2,
		currentDesktop: 0,
		totalW:         1920,
		totalH:         1080,
		screens: []platform.Screen{
			{ID: 0, Name: "eDP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Workarea: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		},
		viewports: []platform.Viewport{{OriginX: 0, OriginY: 0, Width: 1920, Height: 1080}},
		snapshots: make(map[platform.WindowID]platform.WindowSnapshot),
	}
}

func (f *fakePort) Close() error                          { return nil }
func (f *fakePort) EventLoop()                            {}
func (f *fakePort) Alive() bool                           { return true }
func (f *fakePort) Subscribe(fn func(platform.Signal)) error { return nil }
func (f *fakePort) GrabKey(keySequence string, fn func(keycode uint8, modmask uint16)) error {
	return nil
}
func (f *fakePort) UngrabAll()                            {}
func (f *fakePort) GrabButton(buttonSequence string, fn func()) error { return nil }
func (f *fakePort) UngrabAllButtons()                     {}

func (f *fakePort) DesktopCount() (int, error)    { return f.desktopCount, nil }
func (f *fakePort) CurrentDesktop() (int, error)  { return f.currentDesktop, nil }
func (f *fakePort) DesktopGeometry() (int, int, error) {
	return f.totalW, f.totalH, nil
}
func (f *fakePort) Screens() ([]platform.Screen, error) { return f.screens, nil }
func (f *fakePort) Viewports(w, h int) ([]platform.Viewport, error) {
	return f.viewports, nil
}

func (f *fakePort) ClientList() ([]platform.WindowID, error) { return f.clients, nil }
func (f *fakePort) ActiveWindow() (platform.WindowID, error)  { return f.active, nil }
func (f *fakePort) WindowSnapshot(id platform.WindowID) (platform.WindowSnapshot, error) {
	snap, ok := f.snapshots[id]
	if !ok {
		return platform.WindowSnapshot{}, errNotFound
	}
	return snap, nil
}

func (f *fakePort) Configure(id platform.WindowID, x, y, width, height int) error { return nil }
func (f *fakePort) Activate(id platform.WindowID) error                          { return nil }
func (f *fakePort) Raise(id platform.WindowID) error                             { return nil }
func (f *fakePort) CloseWindow(id platform.WindowID) error                       { return nil }
func (f *fakePort) Maximize(id platform.WindowID) error                          { return nil }
func (f *fakePort) Unmaximize(id platform.WindowID) error                        { return nil }
func (f *fakePort) SetUndecorated(id platform.WindowID, undecorated bool) error  { return nil }
func (f *fakePort) ResetGravity(id platform.WindowID) error                      { return nil }
func (f *fakePort) MoveToDesktop(id platform.WindowID, desktop int) error        { return nil }

func (f *fakePort) addWindow(id platform.WindowID, desktop int, x, y, w, h int) {
	f.clients = append(f.clients, id)
	f.snapshots[id] = platform.WindowSnapshot{
		ID:      id,
		Desktop: desktop,
		Bounds:  platform.Rect{X: x, Y: y, Width: w, Height: h},
		Title:   "test window",
	}
}

var errNotFound = fakeErr("window not found")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

var _ platform.Port = (*fakePort)(nil)

func TestWorld_LoadAll_BuildsDesktopTree(t *testing.T) {
	port := newFakePort()
	port.addWindow(100, 0, 10, 10, 400, 300)

	w := New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	screens := w.Screens()
	if len(screens) != 2 {
		t.Fatalf("expected 2 screens (one per desktop), got %d", len(screens))
	}

	win, ok := w.Window(100)
	if !ok {
		t.Fatalf("expected window 100 to be tracked")
	}
	if win.Title != "test window" {
		t.Fatalf("unexpected title %q", win.Title)
	}

	d0, ok := w.Desktop(0)
	if !ok {
		t.Fatalf("expected desktop 0")
	}
	if d0.TotalWidth != 1920 || d0.TotalHeight != 1080 {
		t.Fatalf("unexpected desktop geometry %dx%d", d0.TotalWidth, d0.TotalHeight)
	}

	found := false
	for _, s := range d0.Viewports()[0].Screens() {
		if _, ok := s.Windows()[100]; ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected window 100 placed on desktop 0's screen")
	}
}

func TestWorld_Reload_AddsAndRemovesWindows(t *testing.T) {
	port := newFakePort()
	port.addWindow(1, 0, 0, 0, 100, 100)

	w := New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if _, ok := w.Window(1); !ok {
		t.Fatalf("expected window 1 present after LoadAll")
	}

	port.addWindow(2, 0, 0, 0, 50, 50)
	if err := w.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, ok := w.Window(2); !ok {
		t.Fatalf("expected window 2 present after Reload")
	}

	port.clients = port.clients[:1] // drop window 2 from the client list
	delete(port.snapshots, 2)
	if err := w.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, ok := w.Window(2); ok {
		t.Fatalf("expected window 2 to be removed after Reload")
	}
	if _, ok := w.Window(1); !ok {
		t.Fatalf("expected window 1 to survive Reload")
	}
}

func TestWorld_Wipe_ClearsTree(t *testing.T) {
	port := newFakePort()
	port.addWindow(1, 0, 0, 0, 100, 100)

	w := New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	w.Wipe()

	if _, ok := w.Window(1); ok {
		t.Fatalf("expected windows cleared after Wipe")
	}
	if len(w.Screens()) != 0 {
		t.Fatalf("expected no screens after Wipe")
	}
}

func TestWorld_QueueForTiling_DedupsByScreen(t *testing.T) {
	w := New(newFakePort())
	w.QueueForTiling(5)
	w.QueueForTiling(5)
	w.QueueForTiling(6)

	drained := w.DrainTilingQueue()
	if len(drained) != 2 {
		t.Fatalf("expected 2 deduplicated screens, got %d: %v", len(drained), drained)
	}
	if again := w.DrainTilingQueue(); len(again) != 0 {
		t.Fatalf("expected queue empty after drain, got %v", again)
	}
}

func TestWorld_ResolveActive_FallsBackToFirstScreen(t *testing.T) {
	port := newFakePort()
	port.addWindow(1, 0, 0, 0, 100, 100)
	port.active = 0 // no active window reported

	w := New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	desktop, viewport, screen, _, ok := w.ActivePath()
	if !ok {
		t.Fatalf("expected ActivePath to resolve even with no active window")
	}
	if desktop != 0 || viewport != 0 || screen != 0 {
		t.Fatalf("expected fallback to desktop/viewport/screen 0, got %d/%d/%d", desktop, viewport, screen)
	}
}

func TestWorld_ResolveActive_TracksActiveWindowsScreen(t *testing.T) {
	port := newFakePort()
	port.addWindow(1, 0, 0, 0, 100, 100)
	port.active = 1

	w := New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	_, _, _, window, ok := w.ActivePath()
	if !ok || window != 1 {
		t.Fatalf("expected active window 1, got %d (ok=%v)", window, ok)
	}
}

func TestWorld_StickyWindow_ResolvesToCurrentDesktop(t *testing.T) {
	port := newFakePort()
	port.currentDesktop = 1
	port.addWindow(1, -1, 0, 0, 100, 100) // sticky

	w := New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	d1, ok := w.Desktop(1)
	if !ok {
		t.Fatalf("expected desktop 1")
	}
	found := false
	for _, s := range d1.Viewports()[0].Screens() {
		if _, ok := s.Windows()[1]; ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sticky window placed on current desktop (1), not desktop 0")
	}
}

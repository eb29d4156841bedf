package ipc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pytyle/pytyle/internal/config"
	"github.com/pytyle/pytyle/internal/dispatch"
	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/tiler"
	"github.com/pytyle/pytyle/internal/world"
)

// fakePort is a minimal platform.Port double: one screen, no windows.
type fakePort struct {
	screen platform.Screen
}

func (f *fakePort) Close() error                            { return nil }
func (f *fakePort) EventLoop()                               {}
func (f *fakePort) Alive() bool                               { return true }
func (f *fakePort) Subscribe(fn func(platform.Signal)) error  { return nil }
func (f *fakePort) GrabKey(seq string, fn func(uint8, uint16)) error { return nil }
func (f *fakePort) UngrabAll()                                {}
func (f *fakePort) GrabButton(seq string, fn func()) error     { return nil }
func (f *fakePort) UngrabAllButtons()                          {}
func (f *fakePort) DesktopCount() (int, error)                 { return 1, nil }
func (f *fakePort) CurrentDesktop() (int, error)               { return 0, nil }
func (f *fakePort) DesktopGeometry() (int, int, error)         { return 1000, 800, nil }
func (f *fakePort) Screens() ([]platform.Screen, error)        { return []platform.Screen{f.screen}, nil }
func (f *fakePort) Viewports(w, h int) ([]platform.Viewport, error) {
	return []platform.Viewport{{Width: w, Height: h}}, nil
}
func (f *fakePort) ClientList() ([]platform.WindowID, error) { return nil, nil }
func (f *fakePort) ActiveWindow() (platform.WindowID, error) { return 0, nil }
func (f *fakePort) WindowSnapshot(id platform.WindowID) (platform.WindowSnapshot, error) {
	return platform.WindowSnapshot{}, errNotFound
}
func (f *fakePort) Configure(id platform.WindowID, x, y, w, h int) error { return nil }
func (f *fakePort) Activate(id platform.WindowID) error                 { return nil }
func (f *fakePort) Raise(id platform.WindowID) error                    { return nil }
func (f *fakePort) CloseWindow(id platform.WindowID) error               { return nil }
func (f *fakePort) Maximize(id platform.WindowID) error                 { return nil }
func (f *fakePort) Unmaximize(id platform.WindowID) error                { return nil }
func (f *fakePort) SetUndecorated(id platform.WindowID, undecorated bool) error { return nil }
func (f *fakePort) ResetGravity(id platform.WindowID) error              { return nil }
func (f *fakePort) MoveToDesktop(id platform.WindowID, desktop int) error { return nil }

type fakeErrT string

func (e fakeErrT) Error() string { return string(e) }

const errNotFound = fakeErrT("not found")

var _ platform.Port = (*fakePort)(nil)

func newTestServer(t *testing.T) (*Server, *world.World) {
	t.Helper()

	port := &fakePort{screen: platform.Screen{
		ID:       0,
		Bounds:   platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
		Workarea: platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
	}}

	w := world.New(port)
	if err := w.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	registry := dispatch.NewRegistry()
	opts := tiler.Options{MasterCapacity: 1, DecorationsEnabled: true, TilersOrder: []tiler.Kind{tiler.KindVertical}}
	for _, scr := range w.Screens() {
		inst, err := tiler.New(tiler.KindVertical, scr.ID, w, port, opts)
		if err != nil {
			t.Fatalf("tiler.New: %v", err)
		}
		registry.Set(scr.ID, inst)
	}

	d := dispatch.New(w, registry, port, func(tiler.Kind) tiler.Options { return opts })

	reload := func() (*config.LoadResult, error) {
		return &config.LoadResult{Config: config.DefaultConfig(), Sources: map[string]config.Source{}}, nil
	}
	latest := &config.LoadResult{Config: config.DefaultConfig(), Sources: map[string]config.Source{}}

	runtimeDir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	srv, err := NewServer(w, registry, d, reload, latest)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv, w
}

func TestServer_DispatchActionRoundTrip(t *testing.T) {
	srv, w := newTestServer(t)
	_ = srv
	_ = w

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.SendAction("tile")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected OK response, got error %q", resp.Error)
	}
}

func TestServer_UnknownActionReturnsError(t *testing.T) {
	newTestServer(t)

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.SendAction("not_a_real_action")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.OK {
		t.Fatal("expected an error response for an unknown action")
	}
}

func TestServer_Status(t *testing.T) {
	newTestServer(t)

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.Send(Request{Action: ActionStatus})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected OK response, got error %q", resp.Error)
	}
}

func TestServer_Explain(t *testing.T) {
	newTestServer(t)

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.Send(Request{Action: ActionExplain, Path: "misc.timeout"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected OK response, got error %q", resp.Error)
	}
}

func TestClient_Send_ConnectionFailureWhenNoDaemon(t *testing.T) {
	runtimeDir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)
	_ = os.Remove(filepath.Join(runtimeDir, "pytyle.sock"))

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.SendAction("tile"); err == nil {
		t.Fatal("expected a connection error with no daemon listening")
	}
}

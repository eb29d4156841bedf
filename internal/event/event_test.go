package event

import (
	"testing"

	"github.com/pytyle/pytyle/internal/platform"
)

func TestClassify_PropertyTable(t *testing.T) {
	cases := []struct {
		atom string
		want Kind
	}{
		{"_NET_ACTIVE_WINDOW", ActiveChanged},
		{"_NET_CURRENT_DESKTOP", DesktopChanged},
		{"_NET_DESKTOP_VIEWPORT", DesktopChanged},
		{"_NET_DESKTOP_GEOMETRY", ScreenLayoutChanged},
		{"_NET_NUMBER_OF_DESKTOPS", ScreenLayoutChanged},
		{"WM_STATE", WindowStateChanged},
		{"_NET_CLIENT_LIST", WindowListChanged},
		{"_NET_WM_DESKTOP", WindowChanged},
		{"_NET_WORKAREA", WorkareaChanged},
	}
	for _, c := range cases {
		ev, ok := Classify(platform.Signal{Kind: platform.SignalPropertyNotify, Atom: c.atom, Window: 7})
		if !ok {
			t.Fatalf("atom %s: expected a match", c.atom)
		}
		if ev.Kind != c.want {
			t.Fatalf("atom %s: got %v, want %v", c.atom, ev.Kind, c.want)
		}
		if ev.Window != 7 {
			t.Fatalf("atom %s: window not carried through", c.atom)
		}
	}
}

func TestClassify_UnknownPropertyIsFiltered(t *testing.T) {
	_, ok := Classify(platform.Signal{Kind: platform.SignalPropertyNotify, Atom: "_NET_WM_PID"})
	if ok {
		t.Fatalf("expected an atom outside the closed table to be dropped")
	}
}

func TestClassify_NonPropertyKinds(t *testing.T) {
	cases := []struct {
		kind platform.SignalKind
		want Kind
	}{
		{platform.SignalConfigureNotify, WindowChanged},
		{platform.SignalCreateNotify, WindowCreated},
		{platform.SignalDestroyNotify, WindowDestroyed},
		{platform.SignalFocusIn, FocusIn},
	}
	for _, c := range cases {
		ev, ok := Classify(platform.Signal{Kind: c.kind, Window: 3})
		if !ok || ev.Kind != c.want {
			t.Fatalf("kind %v: got (%v, %v), want (%v, true)", c.kind, ev.Kind, ok, c.want)
		}
	}
}

func TestNormalizeModmask(t *testing.T) {
	cases := []struct {
		raw  uint16
		want uint16
	}{
		{0, ModAny},
		{1 << 4, ModAny}, // Mod2 (NumLock), filtered entirely
		{ModShift, ModShift},
		{ModShift | (1 << 1), ModShift}, // Shift plus CapsLock noise
		{ModControl | ModMod4, ModControl | ModMod4},
	}
	for _, c := range cases {
		got := NormalizeModmask(c.raw)
		if got != c.want {
			t.Fatalf("NormalizeModmask(%b) = %b, want %b", c.raw, got, c.want)
		}
	}
}

func TestNewKeyPressed(t *testing.T) {
	ev := NewKeyPressed(38, ModMod4)
	if ev.Kind != KeyPressed || ev.Keycode != 38 || ev.Modmask != ModMod4 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

type fakeSubscribePort struct {
	platform.Port
	fn func(platform.Signal)
}

func (f *fakeSubscribePort) Subscribe(fn func(platform.Signal)) error {
	f.fn = fn
	return nil
}

func TestWatcher_ForwardsClassifiedSignals(t *testing.T) {
	port := &fakeSubscribePort{}
	w, err := NewWatcher(port)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	port.fn(platform.Signal{Kind: platform.SignalPropertyNotify, Atom: "_NET_ACTIVE_WINDOW", Window: 42})
	select {
	case ev := <-w.Events:
		if ev.Kind != ActiveChanged || ev.Window != 42 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("expected a forwarded event")
	}
}

func TestWatcher_DropsUnknownSignal(t *testing.T) {
	port := &fakeSubscribePort{}
	w, err := NewWatcher(port)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	port.fn(platform.Signal{Kind: platform.SignalPropertyNotify, Atom: "_NET_WM_PID"})
	select {
	case ev := <-w.Events:
		t.Fatalf("expected no event, got %+v", ev)
	default:
	}
}

// Package event folds raw X11 notifications onto the closed set of
// semantic events spec.md §4.2 names. PropertyNotify, ConfigureNotify,
// CreateNotify, DestroyNotify and FocusIn all arrive from a Display
// Port subscription and are classified here; KeyPressed is synthesized
// directly by internal/dispatch's hotkey grabs instead, since xgbutil
// grabs one key sequence per binding rather than delivering a raw
// keycode stream a classifier could sit in front of.
package event

import "github.com/pytyle/pytyle/internal/platform"

// Kind is one of the eleven semantic events the rest of the daemon
// reacts to.
type Kind int

const (
	ActiveChanged Kind = iota
	DesktopChanged
	FocusIn
	KeyPressed
	ScreenLayoutChanged
	WindowStateChanged
	WindowListChanged
	WindowChanged
	WindowCreated
	WindowDestroyed
	WorkareaChanged
)

func (k Kind) String() string {
	switch k {
	case ActiveChanged:
		return "ActiveChanged"
	case DesktopChanged:
		return "DesktopChanged"
	case FocusIn:
		return "FocusIn"
	case KeyPressed:
		return "KeyPressed"
	case ScreenLayoutChanged:
		return "ScreenLayoutChanged"
	case WindowStateChanged:
		return "WindowStateChanged"
	case WindowListChanged:
		return "WindowListChanged"
	case WindowChanged:
		return "WindowChanged"
	case WindowCreated:
		return "WindowCreated"
	case WindowDestroyed:
		return "WindowDestroyed"
	case WorkareaChanged:
		return "WorkareaChanged"
	default:
		return "Unknown"
	}
}

// Event is one classified notification the Scheduler applies against
// the World Model.
type Event struct {
	Kind    Kind
	Window  platform.WindowID
	Keycode uint8
	Modmask uint16
}

// Modifier masks the Event Classifier keeps; everything else in a raw
// X11 state bitmask is noise (NumLock, ScrollLock, pointer buttons).
const (
	ModShift   uint16 = 1 << 0
	ModControl uint16 = 1 << 2
	ModMod1    uint16 = 1 << 3
	ModMod4    uint16 = 1 << 6
	// ModAny is the normalized result when a raw bitmask carries none
	// of the four modifiers above; it matches a KEYMAP entry bound
	// with no modifier prefix.
	ModAny uint16 = 1 << 15
)

// NormalizeModmask filters a raw X11 key-event state bitmask down to
// {Shift, Control, Mod1, Mod4} per spec.md §4.2. A mask with none of
// those bits set becomes ModAny.
func NormalizeModmask(raw uint16) uint16 {
	masked := raw & (ModShift | ModControl | ModMod1 | ModMod4)
	if masked == 0 {
		return ModAny
	}
	return masked
}

// NewKeyPressed builds the KeyPressed event for a hotkey grab
// callback. modmask should already be normalized.
func NewKeyPressed(keycode uint8, modmask uint16) Event {
	return Event{Kind: KeyPressed, Keycode: keycode, Modmask: modmask}
}

// propertyKinds maps an EWMH/ICCCM property atom name onto the
// semantic event it produces, the closed table of spec.md §4.2.
var propertyKinds = map[string]Kind{
	"_NET_ACTIVE_WINDOW":      ActiveChanged,
	"_NET_CURRENT_DESKTOP":    DesktopChanged,
	"_NET_DESKTOP_VIEWPORT":   DesktopChanged,
	"_NET_DESKTOP_GEOMETRY":   ScreenLayoutChanged,
	"_NET_NUMBER_OF_DESKTOPS": ScreenLayoutChanged,
	"WM_STATE":                WindowStateChanged,
	"_NET_CLIENT_LIST":        WindowListChanged,
	"_NET_WM_DESKTOP":         WindowChanged,
	"_NET_WORKAREA":           WorkareaChanged,
}

// Classify folds one raw Signal onto a semantic Event. ok is false for
// a PropertyNotify on an atom outside the closed table above.
func Classify(sig platform.Signal) (Event, bool) {
	switch sig.Kind {
	case platform.SignalPropertyNotify:
		kind, ok := propertyKinds[sig.Atom]
		if !ok {
			return Event{}, false
		}
		return Event{Kind: kind, Window: sig.Window}, true
	case platform.SignalConfigureNotify:
		return Event{Kind: WindowChanged, Window: sig.Window}, true
	case platform.SignalCreateNotify:
		return Event{Kind: WindowCreated, Window: sig.Window}, true
	case platform.SignalDestroyNotify:
		return Event{Kind: WindowDestroyed, Window: sig.Window}, true
	case platform.SignalFocusIn:
		return Event{Kind: FocusIn, Window: sig.Window}, true
	default:
		return Event{}, false
	}
}

// Watcher subscribes to a Display Port and forwards every classified
// notification on Events.
type Watcher struct {
	Events chan Event
}

// NewWatcher subscribes port and starts forwarding. The channel is
// buffered so a slow Scheduler iteration never blocks the goroutine
// driving the Port's EventLoop; a full buffer drops the event rather
// than stalling X11 dispatch, since the next Reload/resolve_active
// pass reconciles regardless.
func NewWatcher(port platform.Port) (*Watcher, error) {
	w := &Watcher{Events: make(chan Event, 64)}
	err := port.Subscribe(func(sig platform.Signal) {
		ev, ok := Classify(sig)
		if !ok {
			return
		}
		select {
		case w.Events <- ev:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

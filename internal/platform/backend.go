// Package platform is the Display Port: the one seam between the
// EWMH/X11 transport (internal/x11) and everything above it. All X
// types are confined to internal/x11; Port is the interface the world
// model, tiler, and dispatcher program against instead.
package platform

// WindowID is an opaque, hex-normalized window identifier.
type WindowID uint32

// Rect is a plain rectangle; X and Y may be negative.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Screen is a physical display rectangle plus its strut-adjusted
// workarea, keyed by xinerama/RandR head index.
type Screen struct {
	ID       int
	Name     string
	Bounds   Rect
	Workarea Rect
}

// Viewport is a Compiz-style pan region within a desktop.
type Viewport struct {
	OriginX, OriginY int
	Width, Height    int
}

// SignalKind is the raw notification kind a Port delivers to a
// Subscribe callback; internal/event folds these onto the closed
// semantic event set of spec.md §4.2.
type SignalKind int

const (
	SignalPropertyNotify SignalKind = iota
	SignalConfigureNotify
	SignalCreateNotify
	SignalDestroyNotify
	SignalFocusIn
)

// Signal is one raw X11 notification.
type Signal struct {
	Kind   SignalKind
	Window WindowID
	Atom   string // property name; only set for SignalPropertyNotify
}

// WindowSnapshot is everything the World Model needs about a window as
// of the last refresh.
type WindowSnapshot struct {
	ID            WindowID
	Desktop       int // -1 means sticky (all desktops)
	Bounds        Rect
	DecorLeft     int
	DecorRight    int
	DecorTop      int
	DecorBottom   int
	Title         string
	ClassInstance string
	ClassName     string
	StaticGravity bool
	Popup         bool
	Hidden        bool
}

// Port is the Display Port: atom interning, property read/write,
// geometry query, key grab/ungrab, client-message send, window
// activation/stacking/resize, and physical-screen enumeration.
type Port interface {
	// Close releases the underlying X11 connection.
	Close() error
	// EventLoop blocks, dispatching X events to registered callbacks.
	EventLoop()
	// Alive probes whether the window manager is still responding,
	// for TransportError recovery.
	Alive() bool

	// Subscribe registers fn against every PropertyNotify,
	// ConfigureNotify, CreateNotify, DestroyNotify and FocusIn
	// notification the Event Classifier needs. fn runs on the
	// goroutine driving EventLoop and must not block.
	Subscribe(fn func(Signal)) error
	// GrabKey registers a global "Mod4-Shift-t" style key sequence;
	// fn runs on every matching KeyPress with the raw keycode and
	// modifier state, unnormalized.
	GrabKey(keySequence string, fn func(keycode uint8, modmask uint16)) error
	// UngrabAll reverses every GrabKey registration, for a config
	// reload.
	UngrabAll()
	// GrabButton registers a global "Mod4-1" style mouse button
	// sequence, the optional CALLBACKS config section of spec.md §6;
	// fn runs on every matching ButtonPress.
	GrabButton(buttonSequence string, fn func()) error
	// UngrabAllButtons reverses every GrabButton registration.
	UngrabAllButtons()

	DesktopCount() (int, error)
	CurrentDesktop() (int, error)
	DesktopGeometry() (width, height int, err error)
	Screens() ([]Screen, error)
	Viewports(screenWidth, screenHeight int) ([]Viewport, error)

	ClientList() ([]WindowID, error)
	ActiveWindow() (WindowID, error)
	WindowSnapshot(id WindowID) (WindowSnapshot, error)

	Configure(id WindowID, x, y, width, height int) error
	Activate(id WindowID) error
	Raise(id WindowID) error
	CloseWindow(id WindowID) error
	Maximize(id WindowID) error
	Unmaximize(id WindowID) error
	SetUndecorated(id WindowID, undecorated bool) error
	ResetGravity(id WindowID) error
	MoveToDesktop(id WindowID, desktop int) error
}

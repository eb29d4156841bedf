package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// SignalKind is the raw notification kind handed up from the
// transport; internal/event folds these onto the closed semantic
// event set of spec.md §4.2.
type SignalKind int

const (
	SignalPropertyNotify SignalKind = iota
	SignalConfigureNotify
	SignalCreateNotify
	SignalDestroyNotify
	SignalFocusIn
)

// Signal is one X11 notification, stripped down to what callers above
// this package need.
type Signal struct {
	Kind   SignalKind
	Window xproto.Window
	Atom   string // property name; only set for SignalPropertyNotify
}

// Subscribe selects SubstructureNotify, PropertyChange and FocusChange
// on the root window and forwards PropertyNotify, ConfigureNotify,
// CreateNotify, DestroyNotify and FocusIn (mode Normal only) to fn.
// fn runs on the goroutine driving EventLoop and must not block.
func (c *Connection) Subscribe(fn func(Signal)) error {
	win := xwindow.New(c.XUtil, c.Root)
	if err := win.Listen(
		xproto.EventMaskSubstructureNotify,
		xproto.EventMaskPropertyChange,
		xproto.EventMaskFocusChange,
	); err != nil {
		return err
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := atomName(xu, ev.Atom)
		if err != nil {
			return
		}
		fn(Signal{Kind: SignalPropertyNotify, Window: ev.Window, Atom: name})
	}).Connect(c.XUtil, c.Root)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window == c.Root {
			return
		}
		fn(Signal{Kind: SignalConfigureNotify, Window: ev.Window})
	}).Connect(c.XUtil, c.Root)

	xevent.CreateNotifyFun(func(xu *xgbutil.XUtil, ev xevent.CreateNotifyEvent) {
		fn(Signal{Kind: SignalCreateNotify, Window: ev.Window})
	}).Connect(c.XUtil, c.Root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		fn(Signal{Kind: SignalDestroyNotify, Window: ev.Window})
	}).Connect(c.XUtil, c.Root)

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Mode != xproto.NotifyModeNormal {
			return
		}
		fn(Signal{Kind: SignalFocusIn, Window: ev.Window})
	}).Connect(c.XUtil, c.Root)

	return nil
}

func atomName(xu *xgbutil.XUtil, atom xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(xu.Conn(), atom).Reply()
	if err != nil {
		return "", err
	}
	return string(reply.Name), nil
}

var ignoreModsOnce sync.Once

// GrabKey registers a global key sequence ("Mod4-Shift-t" syntax) on
// the root window; fn runs on every matching KeyPress with the raw
// keycode and modifier state, unnormalized. The first call configures
// xevent.IgnoreMods so the CapsLock/NumLock/ScrollLock variants of
// every binding grab alongside the plain one.
func (c *Connection) GrabKey(keySequence string, fn func(keycode uint8, modmask uint16)) error {
	ignoreModsOnce.Do(func() { configureIgnoreMods(c.XUtil) })
	if err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		fn(uint8(ev.Detail), ev.State)
	}).Connect(c.XUtil, c.Root, keySequence, true); err != nil {
		return err
	}
	c.grabbed = append(c.grabbed, keySequence)
	return nil
}

// UngrabAll reverses every GrabKey registration made so far, without
// touching the PropertyNotify/ConfigureNotify/CreateNotify/
// DestroyNotify/FocusIn subscriptions made by Subscribe, for the
// Scheduler's config-reload step.
func (c *Connection) UngrabAll() {
	for _, seq := range c.grabbed {
		mods, keycodes, err := keybind.ParseString(c.XUtil, seq)
		if err != nil {
			continue
		}
		for _, kc := range keycodes {
			keybind.Ungrab(c.XUtil, keybind.KeyPress, c.Root, mods, kc)
		}
	}
	c.grabbed = nil
}

// GrabButton registers a global "Mod4-1" style mouse button sequence
// on the root window, the CALLBACKS config section of spec.md §6; fn
// runs on every matching ButtonPress.
func (c *Connection) GrabButton(buttonSequence string, fn func()) error {
	if err := mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		fn()
	}).Connect(c.XUtil, c.Root, buttonSequence, false, true); err != nil {
		return err
	}
	c.buttonsGrabbed = true
	return nil
}

// UngrabAllButtons reverses every GrabButton registration, for the
// Scheduler's config-reload step.
func (c *Connection) UngrabAllButtons() {
	if !c.buttonsGrabbed {
		return
	}
	mousebind.Detach(c.XUtil, c.Root)
	c.buttonsGrabbed = false
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) { unique[mask] = struct{}{} }

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

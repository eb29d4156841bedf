package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Rect is a plain X rectangle, (x, y) may be negative.
type Rect struct {
	X, Y, Width, Height int
}

// DesktopCount returns _NET_NUMBER_OF_DESKTOPS.
func (c *Connection) DesktopCount() (int, error) {
	n, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("get desktop count: %w", err)
	}
	return int(n), nil
}

// CurrentDesktop returns _NET_CURRENT_DESKTOP.
func (c *Connection) CurrentDesktop() (int, error) {
	d, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("get current desktop: %w", err)
	}
	return int(d), nil
}

// DesktopGeometry returns the total desktop resolution, _NET_DESKTOP_GEOMETRY.
func (c *Connection) DesktopGeometry() (width, height int, err error) {
	geo, err := ewmh.DesktopGeoGet(c.XUtil)
	if err != nil {
		return 0, 0, fmt.Errorf("get desktop geometry: %w", err)
	}
	return geo.Width, geo.Height, nil
}

// DesktopViewports returns the per-desktop viewport origin,
// _NET_DESKTOP_VIEWPORT. Non-Compiz managers report (0, 0) per desktop.
func (c *Connection) DesktopViewports() ([][2]int, error) {
	origins, err := ewmh.DesktopViewportGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("get desktop viewport: %w", err)
	}
	out := make([][2]int, len(origins))
	for i, o := range origins {
		out[i] = [2]int{o.X, o.Y}
	}
	return out, nil
}

// Workareas returns the per-desktop workarea rectangle, _NET_WORKAREA.
func (c *Connection) Workareas() ([]Rect, error) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("get workarea: %w", err)
	}
	out := make([]Rect, len(areas))
	for i, a := range areas {
		out[i] = Rect{X: int(a.X), Y: int(a.Y), Width: int(a.Width), Height: int(a.Height)}
	}
	return out, nil
}

// ClientList returns _NET_CLIENT_LIST, every top-level managed window.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("get client list: %w", err)
	}
	return clients, nil
}

// WindowState returns _NET_WM_STATE atom names for a window.
func (c *Connection) WindowState(win xproto.Window) ([]string, error) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return nil, newStaleWindowError(win, err)
	}
	return states, nil
}

// WindowType returns _NET_WM_WINDOW_TYPE atom names for a window.
func (c *Connection) WindowType(win xproto.Window) ([]string, error) {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return nil, newStaleWindowError(win, err)
	}
	return types, nil
}

// WindowName returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowName(win xproto.Window) (string, error) {
	name, err := ewmh.WmNameGet(c.XUtil, win)
	if err == nil && name != "" {
		return name, nil
	}
	name, err = icccm.WmNameGet(c.XUtil, win)
	if err != nil {
		return "", newStaleWindowError(win, err)
	}
	return name, nil
}

// WindowClass returns the WM_CLASS (instance, class) pair.
func (c *Connection) WindowClass(win xproto.Window) (instance, class string, err error) {
	classHint, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return "", "", newStaleWindowError(win, err)
	}
	return classHint.Instance, classHint.Class, nil
}

// WindowTransientFor reports whether the window declares a non-root
// WM_TRANSIENT_FOR target (the "popup" flag).
func (c *Connection) WindowTransientFor(win xproto.Window) (bool, error) {
	target, err := icccm.WmTransientForGet(c.XUtil, win)
	if err != nil {
		// Absence of the property is normal, not an error.
		return false, nil
	}
	return target != 0 && target != c.Root, nil
}

// StaticGravity reports whether the window requested StaticGravity via
// WM_NORMAL_HINTS, per the geometry helper's gravity-reset rule.
func (c *Connection) StaticGravity(win xproto.Window) (bool, error) {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		return false, nil
	}
	const sizeHintPWinGravity = 1 << 9
	return hints.Flags&sizeHintPWinGravity != 0 && hints.WinGravity == xproto.GravityStatic, nil
}

// ResetStaticGravity sets win_gravity=NorthWest to undo a StaticGravity
// request, per the geometry helper's static-gravity cleanup step.
func (c *Connection) ResetStaticGravity(win xproto.Window) error {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		hints = &icccm.NormalHints{}
	}
	const sizeHintPWinGravity = 1 << 9
	hints.Flags |= sizeHintPWinGravity
	hints.WinGravity = xproto.GravityNorthWest
	return icccm.WmNormalHintsSet(c.XUtil, win, hints)
}

// WindowGeometry returns the window rectangle translated into root
// coordinates.
func (c *Connection) WindowGeometry(win xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, newStaleWindowError(win, err)
	}
	translated, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, newStaleWindowError(win, err)
	}
	return Rect{
		X:      int(translated.DstX),
		Y:      int(translated.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// supportingWMCheck reads _NET_SUPPORTING_WM_CHECK, used as a
// WM-is-alive probe.
func (c *Connection) supportingWMCheck() (xproto.Window, error) {
	win, err := ewmh.SupportingWmCheckGet(c.XUtil, c.Root)
	if err != nil {
		return 0, err
	}
	return win, nil
}

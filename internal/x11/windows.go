package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

type frameExtents struct {
	Left, Right, Top, Bottom int
}

func (c *Connection) frameExtents(win xproto.Window) (frameExtents, error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return frameExtents{}, newStaleWindowError(win, err)
	}
	return frameExtents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}, nil
}

// IsNormalWindow reports whether a window's _NET_WM_WINDOW_TYPE marks
// it as a regular application window rather than a dock, splash,
// desktop, or notification surface.
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := c.WindowType(win)
	if err != nil {
		// Unknown type: tolerate it as normal rather than drop the window.
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_TOOLBAR", "_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_DIALOG":
			return false
		}
	}
	return len(types) == 0
}

// IsHiddenState reports whether a window's _NET_WM_STATE marks it as
// hidden, minimized, or excluded from normal placement (HIDDEN,
// SKIP_TASKBAR, SKIP_PAGER).
func (c *Connection) IsHiddenState(win xproto.Window) bool {
	states, err := c.WindowState(win)
	if err != nil {
		return false
	}
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_HIDDEN", "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER":
			return true
		}
	}
	return false
}

// ActiveWindow returns _NET_ACTIVE_WINDOW.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, NewTransportError(err)
	}
	return win, nil
}

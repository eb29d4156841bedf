package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Client messages are built by hand rather than through xgbutil/ewmh's
// request helpers: several of those helpers (WmDesktopReq among them)
// panic on this library version via a uint/int type assertion. Every
// write-side EWMH request in this file follows the same manual
// construct-and-send shape.

const sourceIndicationPagerOrDirectAction = 2

func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

func (c *Connection) sendRootClientMessage(win xproto.Window, atomName string, data [5]uint32) error {
	atom, err := c.internAtom(atomName)
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// SetWindowDesktop moves a window to the given virtual desktop via a
// _NET_WM_DESKTOP client message.
func (c *Connection) SetWindowDesktop(win xproto.Window, desktop int) error {
	return c.sendRootClientMessage(win, "_NET_WM_DESKTOP",
		[5]uint32{uint32(desktop), sourceIndicationPagerOrDirectAction, 0, 0, 0})
}

// ActivateWindow requests activation via a _NET_ACTIVE_WINDOW client
// message.
func (c *Connection) ActivateWindow(win xproto.Window) error {
	return c.sendRootClientMessage(win, "_NET_ACTIVE_WINDOW",
		[5]uint32{sourceIndicationPagerOrDirectAction, 0, 0, 0, 0})
}

// CloseWindow requests the window close itself via _NET_CLOSE_WINDOW.
func (c *Connection) CloseWindow(win xproto.Window) error {
	return c.sendRootClientMessage(win, "_NET_CLOSE_WINDOW",
		[5]uint32{0, sourceIndicationPagerOrDirectAction, 0, 0, 0})
}

// wmStateAction mirrors the _NET_WM_STATE client message action values.
type wmStateAction uint32

const (
	wmStateRemove wmStateAction = 0
	wmStateAdd    wmStateAction = 1
)

func (c *Connection) requestWmState(win xproto.Window, action wmStateAction, prop1, prop2 string) error {
	atom1, err := c.internAtom(prop1)
	if err != nil {
		return err
	}
	var atom2 xproto.Atom
	if prop2 != "" {
		atom2, err = c.internAtom(prop2)
		if err != nil {
			return err
		}
	}
	return c.sendRootClientMessage(win, "_NET_WM_STATE",
		[5]uint32{uint32(action), uint32(atom1), uint32(atom2), sourceIndicationPagerOrDirectAction, 0})
}

// UnmaximizeWindow removes MAXIMIZED_HORZ and MAXIMIZED_VERT if set,
// making the window freely resizable. Used before every geometry
// configure per the Tiler's shared geometry helper.
func (c *Connection) UnmaximizeWindow(win xproto.Window) error {
	states, err := c.WindowState(win)
	if err != nil {
		return err
	}
	hasH, hasV := false, false
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			hasH = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			hasV = true
		}
	}
	if !hasH && !hasV {
		return nil
	}
	return c.requestWmState(win, wmStateRemove, "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT")
}

// MaximizeWindow requests both MAXIMIZED_HORZ and MAXIMIZED_VERT, used
// by the Tiler's max_all command.
func (c *Connection) MaximizeWindow(win xproto.Window) error {
	return c.requestWmState(win, wmStateAdd, "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT")
}

// SetUndecorated toggles the (non-standard but widely honored)
// _OB_WM_STATE_UNDECORATED hint, used when LAYOUT.original_decor
// requests decorations be restored/stripped around a tile pass.
func (c *Connection) SetUndecorated(win xproto.Window, undecorated bool) error {
	action := wmStateAdd
	if !undecorated {
		action = wmStateRemove
	}
	return c.requestWmState(win, action, "_OB_WM_STATE_UNDECORATED", "")
}

// ConfigureWindow moves and resizes a window directly (no EWMH
// indirection needed once the window is known to be unmaximized).
func (c *Connection) ConfigureWindow(win xproto.Window, x, y, width, height int) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)},
	).Check()
}

// RaiseWindow restacks a window above its siblings.
func (c *Connection) RaiseWindow(win xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowStackMode,
		[]uint32{uint32(xproto.StackModeAbove)},
	).Check()
}

// GetFrameExtents returns the window decoration sizes, or zeros if
// unavailable.
func (c *Connection) GetFrameExtents(win xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := c.frameExtents(win)
	if err != nil {
		return 0, 0, 0, 0, nil
	}
	return extents.Left, extents.Right, extents.Top, extents.Bottom, nil
}

// Package x11 confines all X11 transport: atom interning, property
// read/write, client messages, geometry queries and RandR screen
// enumeration. Nothing outside this package touches xgb/xgbutil types.
package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	grabbed       []string // key sequences currently grabbed via GrabKey
	buttonsGrabbed bool    // whether GrabButton has attached anything to Root
}

// NewConnection establishes a connection to the X11 server and
// initializes the extensions the Display Port depends on.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// keybind.Initialize is required before any key grab/ungrab call;
	// mousebind.Initialize likewise before any CALLBACKS button grab.
	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the main X11 event loop. Blocking; returns when the
// connection is closed or xevent.Quit is called.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// Alive probes whether the connection's window manager still answers
// _NET_SUPPORTING_WM_CHECK. Polled (through platform.Port.Alive) by
// daemon.Reconciler's TransportError recovery to detect when a WM
// restart has completed.
func (c *Connection) Alive() bool {
	_, err := c.supportingWMCheck()
	return err == nil
}

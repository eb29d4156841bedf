//go:build linux

package platform

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/pytyle/pytyle/internal/x11"
)

// LinuxPort wraps an X11 connection behind the Display Port interface.
type LinuxPort struct {
	conn *x11.Connection
}

var _ Port = (*LinuxPort)(nil)

// NewLinuxPort wraps an existing X11 connection.
func NewLinuxPort(conn *x11.Connection) *LinuxPort {
	return &LinuxPort{conn: conn}
}

// NewLinuxPortFromDisplay opens a fresh X11 connection and wraps it.
func NewLinuxPortFromDisplay() (*LinuxPort, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("connect to X11: %w", err)
	}
	return &LinuxPort{conn: conn}, nil
}

// XUtil exposes the underlying xgbutil connection, for the Event
// Classifier and key-grab registration — the only place above this
// package allowed to see an xgbutil type, matching the optional
// x11Accessor pattern the teacher used for hotkey registration.
func (p *LinuxPort) XUtil() *xgbutil.XUtil {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.XUtil
}

// RootWindow returns the X11 root window.
func (p *LinuxPort) RootWindow() xproto.Window {
	if p == nil || p.conn == nil {
		return 0
	}
	return p.conn.Root
}

func (p *LinuxPort) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

func (p *LinuxPort) EventLoop() {
	p.conn.EventLoop()
}

func (p *LinuxPort) Alive() bool {
	return p.conn.Alive()
}

func (p *LinuxPort) Subscribe(fn func(Signal)) error {
	return p.conn.Subscribe(func(sig x11.Signal) {
		fn(Signal{Kind: SignalKind(sig.Kind), Window: WindowID(sig.Window), Atom: sig.Atom})
	})
}

func (p *LinuxPort) GrabKey(keySequence string, fn func(keycode uint8, modmask uint16)) error {
	return p.conn.GrabKey(keySequence, fn)
}

func (p *LinuxPort) UngrabAll() {
	p.conn.UngrabAll()
}

func (p *LinuxPort) GrabButton(buttonSequence string, fn func()) error {
	return p.conn.GrabButton(buttonSequence, fn)
}

func (p *LinuxPort) UngrabAllButtons() {
	p.conn.UngrabAllButtons()
}

func (p *LinuxPort) DesktopCount() (int, error) {
	return p.conn.DesktopCount()
}

func (p *LinuxPort) CurrentDesktop() (int, error) {
	return p.conn.CurrentDesktop()
}

func (p *LinuxPort) DesktopGeometry() (int, int, error) {
	return p.conn.DesktopGeometry()
}

func (p *LinuxPort) Screens() ([]Screen, error) {
	monitors, err := p.conn.Monitors()
	if err != nil {
		return nil, err
	}

	workareas, waErr := p.conn.Workareas()
	currentDesktop := 0
	if d, err := p.conn.CurrentDesktop(); err == nil {
		currentDesktop = d
	}

	screens := make([]Screen, 0, len(monitors))
	for _, m := range monitors {
		workarea := Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
		if p.conn.ApplyDockStruts(&m) {
			workarea = Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
		} else if waErr == nil && currentDesktop < len(workareas) {
			workarea = intersectRect(Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}, rectFromX11(workareas[currentDesktop]))
		}
		screens = append(screens, Screen{
			ID:       m.ID,
			Name:     m.Name,
			Bounds:   Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Workarea: workarea,
		})
	}
	return screens, nil
}

func (p *LinuxPort) Viewports(screenWidth, screenHeight int) ([]Viewport, error) {
	vps, err := p.conn.Viewports(screenWidth, screenHeight)
	if err != nil {
		return nil, err
	}
	out := make([]Viewport, len(vps))
	for i, v := range vps {
		out[i] = Viewport{OriginX: v.OriginX, OriginY: v.OriginY, Width: v.Width, Height: v.Height}
	}
	return out, nil
}

func (p *LinuxPort) ClientList() ([]WindowID, error) {
	clients, err := p.conn.ClientList()
	if err != nil {
		return nil, err
	}
	out := make([]WindowID, len(clients))
	for i, c := range clients {
		out[i] = WindowID(c)
	}
	return out, nil
}

func (p *LinuxPort) ActiveWindow() (WindowID, error) {
	win, err := p.conn.ActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

func (p *LinuxPort) WindowSnapshot(id WindowID) (WindowSnapshot, error) {
	win := xproto.Window(id)

	rect, err := p.conn.WindowGeometry(win)
	if err != nil {
		return WindowSnapshot{}, err
	}
	desktop, err := p.conn.WindowDesktop(win)
	if err != nil {
		return WindowSnapshot{}, err
	}
	left, right, top, bottom, err := p.conn.GetFrameExtents(win)
	if err != nil {
		return WindowSnapshot{}, err
	}
	title, _ := p.conn.WindowName(win)
	instance, class, _ := p.conn.WindowClass(win)
	staticGravity, _ := p.conn.StaticGravity(win)
	popup, _ := p.conn.WindowTransientFor(win)
	hidden := p.conn.IsHiddenState(win) || isHiddenType(p.conn, win)

	return WindowSnapshot{
		ID:            id,
		Desktop:       desktop,
		Bounds:        rectFromX11(x11.Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}),
		DecorLeft:     left,
		DecorRight:    right,
		DecorTop:      top,
		DecorBottom:   bottom,
		Title:         strings.TrimSpace(title),
		ClassInstance: instance,
		ClassName:     class,
		StaticGravity: staticGravity,
		Popup:         popup,
		Hidden:        hidden,
	}, nil
}

func isHiddenType(conn *x11.Connection, win xproto.Window) bool {
	return !conn.IsNormalWindow(win)
}

func (p *LinuxPort) Configure(id WindowID, x, y, width, height int) error {
	win := xproto.Window(id)
	if err := p.conn.UnmaximizeWindow(win); err != nil {
		return err
	}
	return p.conn.ConfigureWindow(win, x, y, width, height)
}

func (p *LinuxPort) Activate(id WindowID) error {
	return p.conn.ActivateWindow(xproto.Window(id))
}

func (p *LinuxPort) Raise(id WindowID) error {
	return p.conn.RaiseWindow(xproto.Window(id))
}

func (p *LinuxPort) CloseWindow(id WindowID) error {
	return p.conn.CloseWindow(xproto.Window(id))
}

func (p *LinuxPort) Maximize(id WindowID) error {
	return p.conn.MaximizeWindow(xproto.Window(id))
}

func (p *LinuxPort) Unmaximize(id WindowID) error {
	return p.conn.UnmaximizeWindow(xproto.Window(id))
}

func (p *LinuxPort) SetUndecorated(id WindowID, undecorated bool) error {
	return p.conn.SetUndecorated(xproto.Window(id), undecorated)
}

func (p *LinuxPort) ResetGravity(id WindowID) error {
	return p.conn.ResetStaticGravity(xproto.Window(id))
}

func (p *LinuxPort) MoveToDesktop(id WindowID, desktop int) error {
	return p.conn.SetWindowDesktop(xproto.Window(id), desktop)
}

func rectFromX11(r x11.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func intersectRect(a, b Rect) Rect {
	x1, y1 := max(a.X, b.X), max(a.Y, b.Y)
	x2, y2 := min(a.X+a.Width, b.X+b.Width), min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return a
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

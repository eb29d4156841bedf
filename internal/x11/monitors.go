package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is a physical display rectangle as reported by RandR (the
// modern successor to the xinerama extension the original spec names).
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Monitors retrieves all enabled physical displays via XRandR. Screen
// identity (ID) is the CRTC index, stable across calls for a fixed
// output topology, matching spec.md's "Screen id is the xinerama head
// index" rule.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, NewTransportError(fmt.Errorf("randr init: %w", err))
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, NewTransportError(fmt.Errorf("get screen resources: %w", err))
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("screen-%d", i)
		if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	if len(monitors) == 0 {
		// No RandR outputs enabled (headless Xvfb, etc): one screen
		// covering the whole root window, xinerama head index 0.
		geo, err := ewmh.DesktopGeoGet(c.XUtil)
		if err != nil {
			return nil, NewTransportError(fmt.Errorf("no monitors and no desktop geometry: %w", err))
		}
		monitors = []Monitor{{ID: 0, Name: "screen-0", X: 0, Y: 0, Width: geo.Width, Height: geo.Height}}
	}

	return monitors, nil
}

type dockStruts struct {
	left, right, top, bottom int
}

// ApplyDockStruts shrinks mon in place to exclude the reserved region
// of every dock/panel window that overlaps it (_NET_WM_STRUT_PARTIAL,
// falling back to _NET_WM_STRUT). Returns false if no struts apply, in
// which case the caller should fall back to _NET_WORKAREA instead.
func (c *Connection) ApplyDockStruts(mon *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootWidth, rootHeight := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := c.ClientList()
	if err != nil {
		return false
	}

	var struts dockStruts
	for _, win := range clients {
		types, err := c.WindowType(win)
		if err != nil {
			continue
		}
		isDock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				isDock = true
				break
			}
		}
		if !isDock {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			updateStrutsForMonitor(mon, rootWidth, rootHeight, sp, &struts)
			continue
		}
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			sp := &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftStartY: 0, LeftEndY: uint(rootHeight - 1),
				RightStartY: 0, RightEndY: uint(rootHeight - 1),
				TopStartX: 0, TopEndX: uint(rootWidth - 1),
				BottomStartX: 0, BottomEndX: uint(rootWidth - 1),
			}
			updateStrutsForMonitor(mon, rootWidth, rootHeight, sp, &struts)
		}
	}

	if struts.left == 0 && struts.right == 0 && struts.top == 0 && struts.bottom == 0 {
		return false
	}

	mon.X += struts.left
	mon.Y += struts.top
	mon.Width -= struts.left + struts.right
	mon.Height -= struts.top + struts.bottom
	if mon.Width < 1 {
		mon.Width = 1
	}
	if mon.Height < 1 {
		mon.Height = 1
	}
	return true
}

func updateStrutsForMonitor(mon *Monitor, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	monX1, monY1 := mon.X, mon.Y
	monX2, monY2 := mon.X+mon.Width, mon.Y+mon.Height

	if sp.Top > 0 {
		x1, x2 := int(sp.TopStartX), int(sp.TopEndX)+1
		y1, y2 := 0, int(sp.Top)
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.top = max(acc.top, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).h)
		}
	}
	if sp.Bottom > 0 {
		x1, x2 := int(sp.BottomStartX), int(sp.BottomEndX)+1
		y2 := rootHeight
		y1 := rootHeight - int(sp.Bottom)
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.bottom = max(acc.bottom, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).h)
		}
	}
	if sp.Left > 0 {
		x1, x2 := 0, int(sp.Left)
		y1, y2 := int(sp.LeftStartY), int(sp.LeftEndY)+1
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.left = max(acc.left, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).w)
		}
	}
	if sp.Right > 0 {
		x2 := rootWidth
		x1 := rootWidth - int(sp.Right)
		y1, y2 := int(sp.RightStartY), int(sp.RightEndY)+1
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.right = max(acc.right, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).w)
		}
	}
}

type intersection struct{ w, h int }

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1, y1 := max(ax1, bx1), max(ay1, by1)
	x2, y2 := min(ax2, bx2), min(ay2, by2)
	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}

func intersects(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) bool {
	isect := intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2)
	return isect.w > 0 && isect.h > 0
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

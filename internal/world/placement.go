package world

import "github.com/BurntSushi/xgbutil/xrect"

// resolvedDesktopID maps a window's raw desktop attribute (-1 for
// sticky, "visible on all desktops") onto the desktop it should be
// placed within for screen-containment purposes: the currently active
// desktop.
func (w *World) resolvedDesktopID(rawDesktop int) DesktopID {
	if rawDesktop >= 0 {
		return DesktopID(rawDesktop)
	}
	return w.currentDesktop
}

func toXRect(r Rect) xrect.Rect {
	return xrect.Make(int16(r.X), int16(r.Y), uint16(clampNonNegative(r.Width)), uint16(clampNonNegative(r.Height)))
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// locateWindowLocked implements spec.md §4.1's placement rule: a
// window's (desktop, x, y) determines its Screen by two tests,
// Viewport.contains(x, y) then Screen.contains(x, y). Windows with
// negative (x, y) are treated as residing at the viewport/screen whose
// origin is (0, 0).
//
// Viewport selection additionally falls back to xrect.LargestOverlap
// (already a transitive dependency via xgbutil) when the window
// straddles more than one viewport/screen boundary, matching the
// "largest overlap wins" rule xrect documents for exactly this
// monitor-assignment problem.
func (w *World) locateWindowLocked(desktop DesktopID, win *Window) (ScreenID, ViewportID, bool) {
	d, ok := w.desktops[desktop]
	if !ok || len(d.viewportOrder) == 0 {
		return 0, 0, false
	}

	x, y := win.Rect.X, win.Rect.Y
	if x < 0 || y < 0 {
		x, y = 0, 0
	}

	for _, vid := range d.viewportOrder {
		vp := d.viewports[vid]
		vpRect := Rect{X: vp.OriginX, Y: vp.OriginY, Width: vp.Width, Height: vp.Height}
		if !vpRect.Contains(x, y) {
			continue
		}
		for _, sid := range vp.screenOrder {
			scr := vp.screens[sid]
			if scr.Bounds.Contains(x-vp.OriginX, y-vp.OriginY) {
				return sid, vid, true
			}
		}
	}

	// No containing viewport/screen found directly (e.g. the window is
	// off the edge of every monitor): fall back to whichever
	// viewport/screen has the largest rectangle overlap with the
	// window.
	needle := toXRect(Rect{X: x, Y: y, Width: maxInt(win.Rect.Width, 1), Height: maxInt(win.Rect.Height, 1)})
	var bestVid ViewportID
	var bestSid ScreenID
	found := false
	bestArea := 0
	for _, vid := range d.viewportOrder {
		vp := d.viewports[vid]
		for _, sid := range vp.screenOrder {
			scr := vp.screens[sid]
			abs := Rect{X: scr.Bounds.X + vp.OriginX, Y: scr.Bounds.Y + vp.OriginY, Width: scr.Bounds.Width, Height: scr.Bounds.Height}
			area := xrect.IntersectArea(needle, toXRect(abs))
			if area > bestArea {
				bestArea = area
				bestVid, bestSid = vid, sid
				found = true
			}
		}
	}
	if found {
		return bestSid, bestVid, true
	}

	// Still nothing: first viewport, first screen.
	vid := d.viewportOrder[0]
	vp := d.viewports[vid]
	if len(vp.screenOrder) == 0 {
		return 0, 0, false
	}
	return vp.screenOrder[0], vid, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

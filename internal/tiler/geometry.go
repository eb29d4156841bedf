package tiler

import "github.com/pytyle/pytyle/internal/world"

// decorationInsetFallback is the fixed inset used when decorations are
// disabled entirely, per spec.md §4.4's geometry helper.
const decorationInsetFallback = 2

// resizeWindow is the shared geometry helper every layout resizes
// through: it resets static gravity to NorthWest if the window
// requested StaticGravity, subtracts decoration extents from the
// target rectangle (or applies a fixed inset when decorations are
// disabled), and unmaximizes the window before issuing the configure
// so a previously maximized window becomes resizable again.
func (t *Instance) resizeWindow(id world.WindowID, target world.Rect) error {
	win, ok := t.w.Window(id)
	if !ok {
		return nil
	}
	t.lastRect[id] = target

	if win.StaticGravity {
		_ = t.surface.ResetGravity(id)
	}

	_ = t.surface.Unmaximize(id)

	x, y, w, h := target.X, target.Y, target.Width, target.Height
	if t.decorationsEnabled {
		w -= win.DecorLeft + win.DecorRight
		h -= win.DecorTop + win.DecorBottom
	} else {
		_ = t.surface.SetUndecorated(id, true)
		t.decorWasDisabled[id] = true
		w -= 2 * decorationInsetFallback
		h -= 2 * decorationInsetFallback
		x += decorationInsetFallback
		y += decorationInsetFallback
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	return t.surface.Configure(id, x, y, w, h)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func divCeil(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

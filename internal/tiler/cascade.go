package tiler

import "github.com/pytyle/pytyle/internal/world"

const (
	cascadeDefaultDecorationHeight = 25.0
	cascadeDefaultPushOver         = 10.0
)

// cascadeLayout keeps one stack: the top-of-stack window gets the full
// workarea height and the bottom-of-stack window gets the full
// workarea width; each window below the top loses one decoration_height
// of height (subtracted from below), and each window above the bottom
// loses one push_over of width, aligned per horz_align. width_factor
// and height_factor are not consulted here — Cascade's master
// increase/decrease are disabled (AddMaster/RemoveMaster already no-op
// for KindCascade in universal.go), so nothing ever adjusts them, and
// spec.md's worked example is reproduced by decoration_height and
// push_over alone. Cascade treats Tile Storage purely as one ordered
// stack via mergedOrder.
type cascadeLayout struct{}

func (cascadeLayout) tile(t *Instance) error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	wa := scr.Workarea
	order := mergedOrder(t) // order[0] is the top of the stack
	n := len(order)
	if n == 0 {
		return nil
	}

	decorHeight := int(t.state.GetOr("decoration_height", cascadeDefaultDecorationHeight))
	pushOver := int(t.state.GetOr("push_over", cascadeDefaultPushOver))
	rightAlign := t.state.GetOr("horz_align", 0) != 0

	rects := make([]world.Rect, n)
	for i := 0; i < n; i++ {
		// Height insets accumulate going down from the top of the
		// stack: order[0] gets the full workarea height.
		h := wa.Height - i*decorHeight
		if h < 1 {
			h = 1
		}
		y := wa.Y + i*decorHeight

		// Width insets accumulate going up from the bottom of the
		// stack: order[n-1] gets the full workarea width.
		fromBottom := n - 1 - i
		w := wa.Width - fromBottom*pushOver
		if w < 1 {
			w = 1
		}
		var x int
		if rightAlign {
			x = wa.X
		} else {
			x = wa.X + fromBottom*pushOver
		}

		rects[i] = world.Rect{X: x, Y: y, Width: w, Height: h}
	}

	for i, id := range order {
		if err := t.resizeWindow(id, rects[i]); err != nil {
			return err
		}
	}
	return t.helpResetStack(order)
}

func (cascadeLayout) cycle(t *Instance) error {
	order := mergedOrder(t)
	if len(order) < 2 {
		return nil
	}
	front := order[0]
	t.store.Remove(front)
	t.store.AddBottom(front)
	return t.activate(order[1])
}

func (cascadeLayout) masterIncrease(t *Instance) error { return nil }
func (cascadeLayout) masterDecrease(t *Instance) error { return nil }

func (cascadeLayout) findNext(t *Instance) (world.WindowID, bool) {
	return findNextColumn(t)
}

func (cascadeLayout) findPrevious(t *Instance) (world.WindowID, bool) {
	return findPreviousColumn(t)
}

// helpResetStack re-raises the whole stack bottom-to-top, then raises
// the active window on top, per spec.md §4.4.5's placement-changing
// commands all ending with this step.
func (t *Instance) helpResetStack(order []world.WindowID) error {
	for i := len(order) - 1; i >= 0; i-- {
		_ = t.surface.Raise(order[i])
	}
	if scr, ok := t.screenObj(); ok && scr.Active != 0 {
		_ = t.surface.Raise(scr.Active)
	}
	return nil
}

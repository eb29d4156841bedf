package tiler

import "github.com/pytyle/pytyle/internal/world"

const horizontalSplitStep = 25 // pixels

type horizontalLayout struct{}

// tile is Vertical rotated 90 degrees: masters occupy the top
// half-row, slaves the bottom.
func (horizontalLayout) tile(t *Instance) error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	wa := scr.Workarea
	masters := t.store.Masters()
	slaves := t.store.Slaves()

	widthFactor := t.state.GetOr("height_factor", verticalDefaultWidthFactor)
	masterHeight := wa.Height
	if len(slaves) > 0 {
		masterHeight = int(float64(wa.Height) * widthFactor)
	}
	slaveHeight := wa.Height - masterHeight

	masterWidth := wa.Width / maxInt(1, len(masters))
	for i, id := range masters {
		if err := t.resizeWindow(id, world.Rect{
			X: wa.X + i*masterWidth, Y: wa.Y,
			Width: masterWidth, Height: masterHeight,
		}); err != nil {
			return err
		}
	}

	slaveWidth := wa.Width / maxInt(1, len(slaves))
	for i, id := range slaves {
		if err := t.resizeWindow(id, world.Rect{
			X: wa.X + i*slaveWidth, Y: wa.Y + masterHeight,
			Width: slaveWidth, Height: slaveHeight,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (horizontalLayout) cycle(t *Instance) error { return defaultCycle(t) }

// masterIncrease/masterDecrease adjust the shared horizontal split in
// fixed pixel increments, converted to a delta of the stored
// height_factor via the workarea height, per spec.md §4.4.2.
func (horizontalLayout) masterIncrease(t *Instance) error {
	return horizontalAdjustSplit(t, horizontalSplitStep)
}

func (horizontalLayout) masterDecrease(t *Instance) error {
	return horizontalAdjustSplit(t, -horizontalSplitStep)
}

func horizontalAdjustSplit(t *Instance, deltaPixels int) error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	current := t.state.GetOr("height_factor", verticalDefaultWidthFactor)
	deltaFactor := float64(deltaPixels) / float64(maxInt(1, scr.Workarea.Height))
	next := current + deltaFactor
	if next < 0.05 {
		next = 0.05
	}
	if next > 0.95 {
		next = 0.95
	}
	t.state.Set("height_factor", next)
	t.w.QueueForTiling(t.screen)
	return nil
}

func (horizontalLayout) findNext(t *Instance) (world.WindowID, bool) {
	return findNextColumn(t)
}

func (horizontalLayout) findPrevious(t *Instance) (world.WindowID, bool) {
	return findPreviousColumn(t)
}

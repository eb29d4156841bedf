package tiler

import "github.com/pytyle/pytyle/internal/world"

const horizontalRowsDefaultRowSize = 2

type horizontalRowsLayout struct{}

// tile is like Horizontal, but slaves fill multiple rows of width
// row_size (default 2). rows = ceil(|slaves| / row_size); the last row
// may be shorter.
func (horizontalRowsLayout) tile(t *Instance) error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	wa := scr.Workarea
	masters := t.store.Masters()
	slaves := t.store.Slaves()

	heightFactor := t.state.GetOr("height_factor", verticalDefaultWidthFactor)
	masterHeight := wa.Height
	if len(slaves) > 0 {
		masterHeight = int(float64(wa.Height) * heightFactor)
	}
	slaveAreaHeight := wa.Height - masterHeight

	masterWidth := wa.Width / maxInt(1, len(masters))
	for i, id := range masters {
		if err := t.resizeWindow(id, world.Rect{
			X: wa.X + i*masterWidth, Y: wa.Y,
			Width: masterWidth, Height: masterHeight,
		}); err != nil {
			return err
		}
	}

	if len(slaves) == 0 {
		return nil
	}

	rowSize := int(t.state.GetOr("row_size", horizontalRowsDefaultRowSize))
	if rowSize < 1 {
		rowSize = horizontalRowsDefaultRowSize
	}
	rows := divCeil(len(slaves), rowSize)
	rowHeight := slaveAreaHeight / maxInt(1, rows)

	for i, id := range slaves {
		row := i / rowSize
		lastRow := row == rows-1
		rowStart := row * rowSize
		rowLen := rowSize
		if lastRow {
			rowLen = len(slaves) - rowStart
		}
		col := i - rowStart
		slaveWidth := wa.Width / maxInt(1, rowLen)

		if err := t.resizeWindow(id, world.Rect{
			X: wa.X + col*slaveWidth, Y: wa.Y + masterHeight + row*rowHeight,
			Width: slaveWidth, Height: rowHeight,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (horizontalRowsLayout) cycle(t *Instance) error { return defaultCycle(t) }

// masterIncrease/masterDecrease add a pixel delta to height_factor
// (converted via the workarea height); the pixel delta is rounded down
// to a multiple of rows to avoid fractional per-row drift.
func (horizontalRowsLayout) masterIncrease(t *Instance) error {
	return horizontalRowsAdjust(t, horizontalSplitStep)
}

func (horizontalRowsLayout) masterDecrease(t *Instance) error {
	return horizontalRowsAdjust(t, -horizontalSplitStep)
}

func horizontalRowsAdjust(t *Instance, deltaPixels int) error {
	slaves := t.store.Slaves()
	masters := t.store.Masters()
	if len(masters) == 0 || len(slaves) == 0 {
		// Resolved Open Question (SPEC_FULL.md §9): the early-return
		// branch does not mutate height_factor.
		return nil
	}
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	rowSize := int(t.state.GetOr("row_size", horizontalRowsDefaultRowSize))
	if rowSize < 1 {
		rowSize = horizontalRowsDefaultRowSize
	}
	rows := maxInt(1, divCeil(len(slaves), rowSize))
	rounded := (deltaPixels / rows) * rows

	current := t.state.GetOr("height_factor", verticalDefaultWidthFactor)
	deltaFactor := float64(rounded) / float64(maxInt(1, scr.Workarea.Height))
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

// findNext/findPrevious walk masters[0..] then slaves[0..], per
// spec.md §4.4.3's row-visual-order traversal.
func (horizontalRowsLayout) findNext(t *Instance) (world.WindowID, bool) {
	return findNextColumn(t)
}

func (horizontalRowsLayout) findPrevious(t *Instance) (world.WindowID, bool) {
	return findPreviousColumn(t)
}

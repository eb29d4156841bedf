package tiler

import "github.com/pytyle/pytyle/internal/world"

const (
	verticalDefaultWidthFactor = 0.5
	verticalWidthFactorStep    = 0.05
)

type verticalLayout struct{}

func (verticalLayout) tile(t *Instance) error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	wa := scr.Workarea
	masters := t.store.Masters()
	slaves := t.store.Slaves()

	widthFactor := t.state.GetOr("width_factor", verticalDefaultWidthFactor)
	masterWidth := wa.Width
	if len(slaves) > 0 {
		masterWidth = int(float64(wa.Width) * widthFactor)
	}
	slaveWidth := wa.Width - masterWidth

	masterHeight := wa.Height / maxInt(1, len(masters))
	for i, id := range masters {
		if err := t.resizeWindow(id, world.Rect{
			X: wa.X, Y: wa.Y + i*masterHeight,
			Width: masterWidth, Height: masterHeight,
		}); err != nil {
			return err
		}
	}

	slaveHeight := wa.Height / maxInt(1, len(slaves))
	for i, id := range slaves {
		if err := t.resizeWindow(id, world.Rect{
			X: wa.X + masterWidth, Y: wa.Y + i*slaveHeight,
			Width: slaveWidth, Height: slaveHeight,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (verticalLayout) cycle(t *Instance) error { return defaultCycle(t) }

func (verticalLayout) masterIncrease(t *Instance) error {
	return verticalAdjustWidthFactor(t, verticalWidthFactorStep)
}

func (verticalLayout) masterDecrease(t *Instance) error {
	return verticalAdjustWidthFactor(t, -verticalWidthFactorStep)
}

func verticalAdjustWidthFactor(t *Instance, delta float64) error {
	if _, ok := t.screenObj(); !ok {
		return nil
	}
	current := t.state.GetOr("width_factor", verticalDefaultWidthFactor)
	next := current + delta
	if next < 0.05 {
		next = 0.05
	}
	if next > 0.95 {
		next = 0.95
	}
	t.state.Set("width_factor", next)
	t.w.QueueForTiling(t.screen)
	return nil
}

func (verticalLayout) findNext(t *Instance) (world.WindowID, bool) {
	return findNextColumn(t)
}

func (verticalLayout) findPrevious(t *Instance) (world.WindowID, bool) {
	return findPreviousColumn(t)
}

package tiler

import "github.com/pytyle/pytyle/internal/world"

// maximalLayout gives every stored window the full workarea. Master/
// slave membership still exists in Tile Storage (so AddMaster/
// RemoveMaster requests don't error) but carries no layout meaning:
// master_increase, master_decrease and cycle are no-ops. Only
// screen_focus, screen_put, win_next and win_previous do anything
// useful on a Maximal screen.
type maximalLayout struct{}

func (maximalLayout) tile(t *Instance) error {
	scr, ok := t.screenObj()
	if !ok {
		return nil
	}
	wa := scr.Workarea
	for _, id := range mergedOrder(t) {
		if err := t.resizeWindow(id, wa); err != nil {
			return err
		}
	}
	return nil
}

func (maximalLayout) cycle(t *Instance) error { return nil }

func (maximalLayout) masterIncrease(t *Instance) error { return nil }
func (maximalLayout) masterDecrease(t *Instance) error { return nil }

func (maximalLayout) findNext(t *Instance) (world.WindowID, bool) {
	return findNextColumn(t)
}

func (maximalLayout) findPrevious(t *Instance) (world.WindowID, bool) {
	return findPreviousColumn(t)
}

package tiler

import "github.com/pytyle/pytyle/internal/world"

// defaultCycle is the shared cycle algorithm of spec.md §4.5, used by
// Vertical and Horizontal: if masters and slaves are both non-empty,
// clamp cycleIndex into [0, |slaves|), swap masters[0] with
// slaves[cycleIndex], activate the new masters[0], and advance
// cycleIndex modulo |slaves|. A no-op otherwise.
func defaultCycle(t *Instance) error {
	masters := t.store.Masters()
	slaves := t.store.Slaves()
	if len(masters) == 0 || len(slaves) == 0 {
		return nil
	}
	if t.cycleIndex >= len(slaves) {
		t.cycleIndex = 0
	}

	a, b := masters[0], slaves[t.cycleIndex]
	aRect, aOK := t.rectOf(a)
	bRect, bOK := t.rectOf(b)
	t.store.Switch(a, b)
	if aOK && bOK {
		_ = t.resizeWindow(a, bRect)
		_ = t.resizeWindow(b, aRect)
	}
	_ = t.activate(b)

	t.cycleIndex = (t.cycleIndex + 1) % len(slaves)
	return nil
}

// mergedOrder returns masters followed by slaves: the traversal order
// find_next/find_previous walk for Vertical and Horizontal, per
// spec.md §4.6.
func mergedOrder(t *Instance) []world.WindowID {
	out := make([]world.WindowID, 0, t.store.Len())
	out = append(out, t.store.Masters()...)
	out = append(out, t.store.Slaves()...)
	return out
}

func findNextColumn(t *Instance) (world.WindowID, bool) {
	return stepMerged(t, mergedOrder(t), 1)
}

func findPreviousColumn(t *Instance) (world.WindowID, bool) {
	return stepMerged(t, mergedOrder(t), -1)
}

func stepMerged(t *Instance, order []world.WindowID, delta int) (world.WindowID, bool) {
	if len(order) == 0 {
		return 0, false
	}
	scr, ok := t.screenObj()
	if !ok || scr.Active == 0 {
		return order[0], true
	}
	idx := -1
	for i, id := range order {
		if id == scr.Active {
			idx = i
			break
		}
	}
	if idx < 0 {
		return order[0], true
	}
	n := len(order)
	next := ((idx+delta)%n + n) % n
	return order[next], true
}

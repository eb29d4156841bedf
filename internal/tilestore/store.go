// Package tilestore is the Tile Storage component: per-screen ordered
// containers of master and slave windows, the single source of truth
// for what a layout sees.
package tilestore

import "github.com/pytyle/pytyle/internal/world"

// Store holds a screen's ordered masters and slaves plus the master
// capacity that bounds how many windows can be masters at once.
//
// Order is visually meaningful: it mirrors on-screen placement.
type Store struct {
	masters        []world.WindowID
	slaves         []world.WindowID
	masterCapacity int
	baseCapacity   int
}

// New creates a Store with the given master capacity (default 1 per
// spec; callers pass the configured value).
func New(masterCapacity int) *Store {
	if masterCapacity < 0 {
		masterCapacity = 0
	}
	return &Store{masterCapacity: masterCapacity, baseCapacity: masterCapacity}
}

// Masters returns the current master list. Callers must not mutate it.
func (s *Store) Masters() []world.WindowID { return s.masters }

// Slaves returns the current slave list. Callers must not mutate it.
func (s *Store) Slaves() []world.WindowID { return s.slaves }

// MasterCapacity returns the current capacity.
func (s *Store) MasterCapacity() int { return s.masterCapacity }

// Len is the total number of stored windows.
func (s *Store) Len() int { return len(s.masters) + len(s.slaves) }

// Contains reports whether id is a master or a slave.
func (s *Store) Contains(id world.WindowID) bool {
	return indexOf(s.masters, id) >= 0 || indexOf(s.slaves, id) >= 0
}

// IsMaster reports whether id is currently a master.
func (s *Store) IsMaster(id world.WindowID) bool {
	return indexOf(s.masters, id) >= 0
}

// Add implements the add operation of spec.md §4.3: if the window is
// already a slave and master room exists, remove-then-promote; if
// master room exists, append to masters; otherwise append to slaves.
// Hidden windows are the caller's responsibility to exclude before
// calling Add (the Reload protocol below does this directly).
func (s *Store) Add(id world.WindowID) {
	s.addAt(id, false)
}

// AddTop is Add, but inserts at index 0 of whichever list it lands in.
func (s *Store) AddTop(id world.WindowID) {
	s.addAt(id, true)
}

// AddBottom is Add: it always appends. Kept distinct from Add for
// callers that want to be explicit about Reload's "fold in via
// add_bottom" step.
func (s *Store) AddBottom(id world.WindowID) {
	s.addAt(id, false)
}

func (s *Store) addAt(id world.WindowID, top bool) {
	if si := indexOf(s.slaves, id); si >= 0 && len(s.masters) < s.masterCapacity {
		s.slaves = removeAt(s.slaves, si)
		s.masters = insertWindow(s.masters, id, top)
		return
	}
	if indexOf(s.masters, id) >= 0 {
		return // already a master
	}
	if len(s.masters) < s.masterCapacity {
		s.masters = insertWindow(s.masters, id, top)
		return
	}
	if indexOf(s.slaves, id) < 0 {
		s.slaves = insertWindow(s.slaves, id, top)
	}
}

// Remove removes id from whichever list contains it.
func (s *Store) Remove(id world.WindowID) {
	if i := indexOf(s.masters, id); i >= 0 {
		s.masters = removeAt(s.masters, i)
		return
	}
	if i := indexOf(s.slaves, id); i >= 0 {
		s.slaves = removeAt(s.slaves, i)
	}
}

// Switch swaps the entries with ids a and b without changing list
// boundaries, preserving master/slave classification and ordering
// slots for every other entry.
func (s *Store) Switch(a, b world.WindowID) {
	if ai, ok := s.locate(a); ok {
		if bi, ok := s.locate(b); ok {
			s.setAt(ai, b)
			s.setAt(bi, a)
		}
	}
}

type slot struct {
	master bool
	index  int
}

func (s *Store) locate(id world.WindowID) (slot, bool) {
	if i := indexOf(s.masters, id); i >= 0 {
		return slot{master: true, index: i}, true
	}
	if i := indexOf(s.slaves, id); i >= 0 {
		return slot{master: false, index: i}, true
	}
	return slot{}, false
}

func (s *Store) setAt(sl slot, id world.WindowID) {
	if sl.master {
		s.masters[sl.index] = id
	} else {
		s.slaves[sl.index] = id
	}
}

// TryPromote moves id from slaves to masters (appended) if id is a
// slave and master room exists. Reports whether it was promoted.
func (s *Store) TryPromote(id world.WindowID) bool {
	i := indexOf(s.slaves, id)
	if i < 0 || len(s.masters) >= s.masterCapacity {
		return false
	}
	s.slaves = removeAt(s.slaves, i)
	s.masters = append(s.masters, id)
	return true
}

// IncMasterCount raises the capacity by one.
func (s *Store) IncMasterCount() {
	s.masterCapacity++
}

// DecMasterCount lowers the capacity by one, never below zero.
// Capacity changes do not by themselves reclassify windows already in
// the masters list; that happens on the next Add/Remove or Reload.
func (s *Store) DecMasterCount() {
	if s.masterCapacity > 0 {
		s.masterCapacity--
	}
}

// Reset drops the entire storage and restores the capacity New was
// given (the configured value).
func (s *Store) Reset() {
	s.masters = nil
	s.slaves = nil
	s.masterCapacity = s.baseCapacity
}

// ReloadCandidate is one window under consideration during Reload.
type ReloadCandidate struct {
	ID     world.WindowID
	Hidden bool
}

// Reload implements the Reload protocol of spec.md §4.3: called by a
// tiler before every tile pass when is-tiled is false. It prunes
// windows no longer on the screen or now hidden; if the active window
// belongs to the screen and masters have room, promotes it first; then
// folds in remaining screen windows via add_bottom, calling
// TryPromote for windows already present.
func (s *Store) Reload(onScreen []ReloadCandidate, active world.WindowID) {
	s.reload(onScreen, active, false)
}

// ReloadTop is Reload, but folds in windows not already present via
// add_top instead of add_bottom — Cascade's "newest at top of stack"
// variant of the Reload protocol (spec.md §4.4.5).
func (s *Store) ReloadTop(onScreen []ReloadCandidate, active world.WindowID) {
	s.reload(onScreen, active, true)
}

func (s *Store) reload(onScreen []ReloadCandidate, active world.WindowID, foldTop bool) {
	keep := make(map[world.WindowID]bool, len(onScreen))
	for _, c := range onScreen {
		if !c.Hidden {
			keep[c.ID] = true
		}
	}
	s.pruneLocked(keep)

	activeIsCandidate := false
	for _, c := range onScreen {
		if c.ID == active && !c.Hidden {
			activeIsCandidate = true
			break
		}
	}
	if activeIsCandidate {
		if s.Contains(active) {
			s.TryPromote(active)
		} else if len(s.masters) < s.masterCapacity {
			s.masters = append(s.masters, active)
		} else {
			s.slaves = append(s.slaves, active)
		}
	}

	for _, c := range onScreen {
		if c.Hidden || c.ID == active {
			continue
		}
		if s.Contains(c.ID) {
			s.TryPromote(c.ID)
			continue
		}
		if foldTop {
			s.AddTop(c.ID)
		} else {
			s.AddBottom(c.ID)
		}
	}
}

func (s *Store) pruneLocked(keep map[world.WindowID]bool) {
	s.masters = filterWindows(s.masters, keep)
	s.slaves = filterWindows(s.slaves, keep)
}

func filterWindows(list []world.WindowID, keep map[world.WindowID]bool) []world.WindowID {
	out := list[:0]
	for _, id := range list {
		if keep[id] {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func indexOf(list []world.WindowID, id world.WindowID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func removeAt(list []world.WindowID, i int) []world.WindowID {
	return append(list[:i:i], list[i+1:]...)
}

func insertWindow(list []world.WindowID, id world.WindowID, top bool) []world.WindowID {
	if top {
		out := make([]world.WindowID, 0, len(list)+1)
		out = append(out, id)
		out = append(out, list...)
		return out
	}
	return append(list, id)
}

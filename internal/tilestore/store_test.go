package tilestore

import (
	"testing"

	"github.com/pytyle/pytyle/internal/world"
)

func TestStore_Add_FillsMastersBeforeSlaves(t *testing.T) {
	s := New(1)
	s.Add(world.WindowID(1))
	s.Add(world.WindowID(2))
	s.Add(world.WindowID(3))

	if got := s.Masters(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected masters=[1], got %v", got)
	}
	if got := s.Slaves(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("expected slaves=[2,3], got %v", got)
	}
}

func TestStore_Add_SlaveWithMasterRoomPromotes(t *testing.T) {
	s := New(2)
	s.Add(world.WindowID(1))
	s.IncMasterCount() // capacity 3 now, but only 1 master exists
	s.Add(world.WindowID(2))
	if !s.IsMaster(world.WindowID(2)) {
		t.Fatalf("expected window 2 promoted to master when room exists")
	}
}

func TestStore_P1_MasterCountBoundedAndTotalConserved(t *testing.T) {
	s := New(2)
	ids := []world.WindowID{1, 2, 3, 4, 5}
	for _, id := range ids {
		s.Add(id)
	}
	if len(s.Masters()) > s.MasterCapacity() {
		t.Fatalf("masters exceed capacity: %d > %d", len(s.Masters()), s.MasterCapacity())
	}
	if s.Len() != len(ids) {
		t.Fatalf("expected %d total stored windows, got %d", len(ids), s.Len())
	}

	s.Remove(world.WindowID(3))
	if s.Len() != len(ids)-1 {
		t.Fatalf("expected %d stored windows after remove, got %d", len(ids)-1, s.Len())
	}
	if s.Contains(world.WindowID(3)) {
		t.Fatalf("expected window 3 gone after remove")
	}
}

func TestStore_Switch_PreservesSlotsAndClassification(t *testing.T) {
	s := New(1)
	s.Add(world.WindowID(1)) // master
	s.Add(world.WindowID(2)) // slave
	s.Add(world.WindowID(3)) // slave

	s.Switch(world.WindowID(1), world.WindowID(3))

	if !s.IsMaster(world.WindowID(3)) {
		t.Fatalf("expected window 3 to become master after switch")
	}
	if s.IsMaster(world.WindowID(1)) {
		t.Fatalf("expected window 1 to become slave after switch")
	}
	if got := s.Slaves(); len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("expected slave slot order [2,1] preserved, got %v", got)
	}
}

func TestStore_TryPromote_RespectsCapacity(t *testing.T) {
	s := New(1)
	s.Add(world.WindowID(1)) // fills the one master slot
	s.Add(world.WindowID(2)) // slave

	if s.TryPromote(world.WindowID(2)) {
		t.Fatalf("expected promotion to fail: no master room")
	}
	s.IncMasterCount()
	if !s.TryPromote(world.WindowID(2)) {
		t.Fatalf("expected promotion to succeed once capacity allows it")
	}
}

func TestStore_DecMasterCount_NeverNegative(t *testing.T) {
	s := New(0)
	s.DecMasterCount()
	s.DecMasterCount()
	if s.MasterCapacity() != 0 {
		t.Fatalf("expected capacity to stay at 0, got %d", s.MasterCapacity())
	}
}

func TestStore_P6_ScreenPutMovesWindowBetweenStores(t *testing.T) {
	source := New(1)
	target := New(1)
	source.Add(world.WindowID(1))
	source.Add(world.WindowID(2)) // active, currently a slave

	active := world.WindowID(2)
	source.Remove(active)
	target.Add(active)

	if source.Contains(active) {
		t.Fatalf("expected active window removed from source store")
	}
	if !target.Contains(active) {
		t.Fatalf("expected active window present in target store")
	}
}

func TestStore_P7_ReloadIsIdempotentWithNoWorldChange(t *testing.T) {
	s := New(1)
	onScreen := []ReloadCandidate{
		{ID: 1}, {ID: 2}, {ID: 3},
	}
	s.Reload(onScreen, 1)
	firstMasters := append([]world.WindowID(nil), s.Masters()...)
	firstSlaves := append([]world.WindowID(nil), s.Slaves()...)

	s.Reload(onScreen, 1)

	if !equalIDs(s.Masters(), firstMasters) || !equalIDs(s.Slaves(), firstSlaves) {
		t.Fatalf("expected Reload to be a no-op on repeat: masters %v->%v slaves %v->%v",
			firstMasters, s.Masters(), firstSlaves, s.Slaves())
	}
}

func TestStore_Reload_PrunesHiddenAndOffScreenWindows(t *testing.T) {
	s := New(2)
	s.Add(world.WindowID(1))
	s.Add(world.WindowID(2))
	s.Add(world.WindowID(3))

	// window 2 is now hidden, window 3 left the screen entirely.
	onScreen := []ReloadCandidate{
		{ID: 1},
		{ID: 2, Hidden: true},
	}
	s.Reload(onScreen, 0)

	if s.Contains(world.WindowID(2)) {
		t.Fatalf("expected hidden window 2 pruned")
	}
	if s.Contains(world.WindowID(3)) {
		t.Fatalf("expected off-screen window 3 pruned")
	}
	if !s.Contains(world.WindowID(1)) {
		t.Fatalf("expected window 1 to survive reload")
	}
}

func TestStore_Reload_PromotesActiveFirst(t *testing.T) {
	s := New(1)
	onScreen := []ReloadCandidate{
		{ID: 10}, {ID: 11}, {ID: 12},
	}
	s.Reload(onScreen, 11)

	if got := s.Masters(); len(got) != 1 || got[0] != 11 {
		t.Fatalf("expected active window 11 promoted to the sole master slot, got %v", got)
	}
}

func TestStore_ReloadTop_FoldsNewWindowsAtStackTop(t *testing.T) {
	s := New(0) // Cascade disables master capacity entirely
	s.ReloadTop([]ReloadCandidate{{ID: 1}}, 0)
	s.ReloadTop([]ReloadCandidate{{ID: 1}, {ID: 2}}, 0)
	s.ReloadTop([]ReloadCandidate{{ID: 1}, {ID: 2}, {ID: 3}}, 0)

	if got := s.Slaves(); len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("expected newest-at-top fold order [3,2,1], got %v", got)
	}
}

func equalIDs(a, b []world.WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

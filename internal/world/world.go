package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pytyle/pytyle/internal/platform"
)

// World is the Desktop/Viewport/Screen/Window tree plus a flat Window
// index and the ordered, deduplicating "needs tiling" queue.
//
// Every mutation runs on the single event-loop goroutine per spec.md
// §5; the mutex here exists only so IPC-triggered reads (daemon.status)
// from the server goroutine don't race the loop.
type World struct {
	port platform.Port

	mu       sync.Mutex
	desktops map[DesktopID]*Desktop
	order    []DesktopID
	windows  map[WindowID]*Window

	queue     []ScreenID
	queuedSet map[ScreenID]bool

	configReloadRequested bool

	currentDesktop DesktopID
	activeDesktop  DesktopID
	activeViewport ViewportID
	activeScreen   ScreenID
	activeWindow   WindowID
	haveActive     bool
}

// New creates an empty World bound to a Display Port. Call LoadAll
// before using it.
func New(port platform.Port) *World {
	return &World{
		port:      port,
		desktops:  make(map[DesktopID]*Desktop),
		windows:   make(map[WindowID]*Window),
		queuedSet: make(map[ScreenID]bool),
	}
}

// LoadAll builds the tree from scratch via the Display Port.
func (w *World) LoadAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadAllLocked()
}

func (w *World) loadAllLocked() error {
	count, err := w.port.DesktopCount()
	if err != nil {
		return fmt.Errorf("load desktops: %w", err)
	}

	w.desktops = make(map[DesktopID]*Desktop, count)
	w.order = w.order[:0]

	workareas := w.fetchWorkareas()
	totalW, totalH, _ := w.port.DesktopGeometry()

	for i := 0; i < count; i++ {
		id := DesktopID(i)
		workarea := Rect{}
		if i < len(workareas) {
			workarea = workareas[i]
		}
		d := &Desktop{ID: id, Workarea: workarea, TotalWidth: totalW, TotalHeight: totalH}
		w.desktops[id] = d
		w.order = append(w.order, id)
	}

	if err := w.rebuildViewportsAndScreensLocked(); err != nil {
		return err
	}

	if cur, err := w.port.CurrentDesktop(); err == nil {
		w.currentDesktop = DesktopID(cur)
	}

	w.windows = make(map[WindowID]*Window)
	clients, err := w.port.ClientList()
	if err != nil {
		return fmt.Errorf("load client list: %w", err)
	}
	for _, id := range clients {
		w.addWindowLocked(id)
	}

	return w.resolveActiveLocked(true)
}

func (w *World) fetchWorkareas() []Rect {
	areas, err := w.port.Screens()
	if err != nil || len(areas) == 0 {
		return nil
	}
	// Screens() already reports per-screen strut-adjusted workareas;
	// the desktop-level workarea used for placement fallback is the
	// union bounding box of every screen's workarea.
	min := areas[0].Workarea
	maxX, maxY := min.X+min.Width, min.Y+min.Height
	for _, s := range areas[1:] {
		if s.Workarea.X < min.X {
			min.X = s.Workarea.X
		}
		if s.Workarea.Y < min.Y {
			min.Y = s.Workarea.Y
		}
		if s.Workarea.X+s.Workarea.Width > maxX {
			maxX = s.Workarea.X + s.Workarea.Width
		}
		if s.Workarea.Y+s.Workarea.Height > maxY {
			maxY = s.Workarea.Y + s.Workarea.Height
		}
	}
	rect := Rect{X: min.X, Y: min.Y, Width: maxX - min.X, Height: maxY - min.Y}
	out := make([]Rect, 0, 1)
	out = append(out, rect)
	return out
}

// rebuildViewportsAndScreensLocked replaces every desktop's viewport
// and screen tree. Screen identity is the RandR/xinerama head index,
// stable across rebuilds; a geometry change still wipes and rebuilds
// the whole tree per spec.md's lifecycle rule.
func (w *World) rebuildViewportsAndScreensLocked() error {
	screens, err := w.port.Screens()
	if err != nil {
		return fmt.Errorf("load screens: %w", err)
	}

	screenW, screenH := 0, 0
	for _, s := range screens {
		if s.Bounds.Width > screenW {
			screenW = s.Bounds.Width
		}
		if s.Bounds.Height > screenH {
			screenH = s.Bounds.Height
		}
	}

	for _, d := range w.desktops {
		vps, err := w.port.Viewports(screenW, screenH)
		if err != nil {
			vps = []platform.Viewport{{Width: screenW, Height: screenH}}
		}

		d.viewports = make(map[ViewportID]*Viewport, len(vps))
		d.viewportOrder = d.viewportOrder[:0]

		for vi, vp := range vps {
			vid := ViewportID(vi)
			v := &Viewport{ID: vid, OriginX: vp.OriginX, OriginY: vp.OriginY, Width: vp.Width, Height: vp.Height}
			v.screens = make(map[ScreenID]*Screen, len(screens))
			v.screenOrder = v.screenOrder[:0]

			for _, s := range screens {
				sid := ScreenID(s.ID)
				scr := &Screen{
					ID:       sid,
					RawID:    s.ID,
					Bounds:   Rect{X: s.Bounds.X - vp.OriginX, Y: s.Bounds.Y - vp.OriginY, Width: s.Bounds.Width, Height: s.Bounds.Height},
					Workarea: Rect{X: s.Workarea.X - vp.OriginX, Y: s.Workarea.Y - vp.OriginY, Width: s.Workarea.Width, Height: s.Workarea.Height},
					windows:  make(map[WindowID]*Window),
				}
				v.screens[sid] = scr
				v.screenOrder = append(v.screenOrder, sid)
			}

			d.viewports[vid] = v
			d.viewportOrder = append(d.viewportOrder, vid)
		}
	}

	return nil
}

// Reload refreshes attributes (desktop count, workareas, window
// geometry/state) without changing Desktop/Viewport/Screen identities,
// and without dropping windows wholesale the way Wipe does.
func (w *World) Reload() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	count, err := w.port.DesktopCount()
	if err != nil {
		return fmt.Errorf("reload desktop count: %w", err)
	}
	if count != len(w.desktops) {
		return w.loadAllLocked()
	}

	workareas := w.fetchWorkareas()
	for i, d := range w.orderedDesktopsLocked() {
		if i < len(workareas) {
			d.Workarea = workareas[i]
		}
	}

	if cur, err := w.port.CurrentDesktop(); err == nil {
		w.currentDesktop = DesktopID(cur)
	}

	clients, err := w.port.ClientList()
	if err != nil {
		return fmt.Errorf("reload client list: %w", err)
	}
	seen := make(map[WindowID]bool, len(clients))
	for _, id := range clients {
		seen[id] = true
		if _, ok := w.windows[id]; ok {
			w.refreshWindowLocked(id)
		} else {
			w.addWindowLocked(id)
		}
	}
	for id := range w.windows {
		if !seen[id] {
			w.removeWindowLocked(id)
		}
	}

	return w.resolveActiveLocked(false)
}

// Wipe drops the whole tree: called on screen-geometry change or WM
// restart, immediately before LoadAll rebuilds it.
func (w *World) Wipe() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.desktops = make(map[DesktopID]*Desktop)
	w.order = nil
	w.windows = make(map[WindowID]*Window)
	w.queue = nil
	w.queuedSet = make(map[ScreenID]bool)
	w.haveActive = false
}

// RequestConfigReload marks that the Scheduler should reload config at
// the top of the next loop iteration.
func (w *World) RequestConfigReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.configReloadRequested = true
}

// TakeConfigReloadRequest reports and clears the pending-reload flag.
func (w *World) TakeConfigReloadRequest() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	requested := w.configReloadRequested
	w.configReloadRequested = false
	return requested
}

// QueueForTiling enqueues a screen for retile, deduplicating by
// identity: a screen already queued is not added twice.
func (w *World) QueueForTiling(id ScreenID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.queuedSet[id] {
		return
	}
	w.queuedSet[id] = true
	w.queue = append(w.queue, id)
}

// DrainTilingQueue pops and returns every screen currently queued, in
// FIFO order, clearing the queue.
func (w *World) DrainTilingQueue() []ScreenID {
	w.mu.Lock()
	defer w.mu.Unlock()
	drained := w.queue
	w.queue = nil
	w.queuedSet = make(map[ScreenID]bool)
	return drained
}

// ResolveActive consults the Display Port for the active window id and
// walks desktops/viewports/screens to locate it. If no active window
// exists, the first viewport and first screen of the current desktop
// are selected. Idempotent and cheap unless force is true: a cached
// match against the same active window id returns without traversal.
func (w *World) ResolveActive(force bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolveActiveLocked(force)
}

func (w *World) resolveActiveLocked(force bool) error {
	activeWin, err := w.port.ActiveWindow()
	if err != nil {
		activeWin = 0
	}

	if !force && w.haveActive && activeWin == w.activeWindow {
		return nil
	}

	currentDesktop, err := w.port.CurrentDesktop()
	if err != nil {
		return fmt.Errorf("resolve current desktop: %w", err)
	}
	desktopID := DesktopID(currentDesktop)
	desktop, ok := w.desktops[desktopID]
	if !ok {
		return fmt.Errorf("current desktop %d not in world", currentDesktop)
	}

	if win, ok := w.windows[activeWin]; ok && activeWin != 0 {
		if sid, vid, ok := w.locateWindowLocked(desktopID, win); ok {
			w.activeDesktop = desktopID
			w.activeViewport = vid
			w.activeScreen = sid
			w.activeWindow = activeWin
			w.haveActive = true
			w.desktops[desktopID].viewports[vid].screens[sid].Active = activeWin
			return nil
		}
	}

	// No active window located: first viewport, first screen of the
	// current desktop; the screen's active pointer may end up null.
	w.activeDesktop = desktopID
	w.haveActive = true
	if len(desktop.viewportOrder) == 0 {
		w.activeViewport, w.activeScreen, w.activeWindow = 0, 0, 0
		return nil
	}
	vid := desktop.viewportOrder[0]
	w.activeViewport = vid
	vp := desktop.viewports[vid]
	if len(vp.screenOrder) == 0 {
		w.activeScreen, w.activeWindow = 0, 0
		return nil
	}
	w.activeScreen = vp.screenOrder[0]
	w.activeWindow = vp.screens[w.activeScreen].Active
	return nil
}

// ActivePath returns the resolved desktop/viewport/screen/window path.
// ok is false only before the first successful resolution.
func (w *World) ActivePath() (desktop DesktopID, viewport ViewportID, screen ScreenID, window WindowID, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeDesktop, w.activeViewport, w.activeScreen, w.activeWindow, w.haveActive
}

// Desktop looks up a Desktop by id.
func (w *World) Desktop(id DesktopID) (*Desktop, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.desktops[id]
	return d, ok
}

// Screen looks up a Screen by id across every desktop/viewport (screen
// ids are stable RandR head indices, so this is unambiguous in
// practice; ties resolve to the first desktop in id order).
func (w *World) Screen(id ScreenID) (*Screen, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.orderedDesktopsLocked() {
		for _, v := range d.Viewports() {
			if s, ok := v.screens[id]; ok {
				return s, true
			}
		}
	}
	return nil, false
}

// Window looks up a window by id via the flat index.
func (w *World) Window(id WindowID) (*Window, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	win, ok := w.windows[id]
	return win, ok
}

// SaveGeometry captures a window's current rectangle as its "original"
// rectangle, per spec.md §3's Window.original attribute — the tile
// command does this for every stored window the first time a screen
// starts tiling.
func (w *World) SaveGeometry(id WindowID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if win, ok := w.windows[id]; ok {
		win.Original = win.Rect
		win.haveOriginal = true
	}
}

// OriginalGeometry returns the rectangle captured by the last
// SaveGeometry call. ok is false if SaveGeometry was never called for
// this window (or it no longer exists).
func (w *World) OriginalGeometry(id WindowID) (Rect, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	win, ok := w.windows[id]
	if !ok || !win.haveOriginal {
		return Rect{}, false
	}
	return win.Original, true
}

// SetActive sets a screen's active-window pointer, used after commands
// that move focus (win_master, win_previous/next, screen_focus,
// screen_put) resolve the new active window without a full
// resolve_active traversal.
func (w *World) SetActive(screen ScreenID, window WindowID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.desktops {
		for _, v := range d.viewports {
			if s, ok := v.screens[screen]; ok {
				s.Active = window
				return
			}
		}
	}
}

// Screens returns every Screen across every Desktop/Viewport, in
// stable order.
func (w *World) Screens() []*Screen {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []*Screen
	for _, d := range w.orderedDesktopsLocked() {
		for _, v := range d.Viewports() {
			out = append(out, v.Screens()...)
		}
	}
	return out
}

func (w *World) orderedDesktopsLocked() []*Desktop {
	ids := make([]DesktopID, len(w.order))
	copy(ids, w.order)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Desktop, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.desktops[id])
	}
	return out
}

func (w *World) addWindowLocked(id WindowID) {
	snap, err := w.port.WindowSnapshot(id)
	if err != nil {
		return // stale already; nothing to add
	}
	win := windowFromSnapshot(id, snap)
	w.windows[id] = win
	desktop := w.resolvedDesktopID(win.Desktop)
	if sid, vid, ok := w.locateWindowLocked(desktop, win); ok {
		if d, ok := w.desktops[desktop]; ok {
			d.viewports[vid].screens[sid].windows[id] = win
		}
	}
}

func (w *World) refreshWindowLocked(id WindowID) {
	snap, err := w.port.WindowSnapshot(id)
	if err != nil {
		w.removeWindowLocked(id)
		return
	}
	old := w.windows[id]
	oldDesktop := w.resolvedDesktopID(old.Desktop)
	oldSid, oldVid, oldFound := w.locateWindowLocked(oldDesktop, old)

	updated := windowFromSnapshot(id, snap)
	updated.Original = old.Original
	updated.haveOriginal = old.haveOriginal
	w.windows[id] = updated

	newDesktop := w.resolvedDesktopID(updated.Desktop)
	newSid, newVid, newFound := w.locateWindowLocked(newDesktop, updated)

	if oldFound {
		if d, ok := w.desktops[oldDesktop]; ok {
			delete(d.viewports[oldVid].screens[oldSid].windows, id)
		}
	}
	if newFound {
		if d, ok := w.desktops[newDesktop]; ok {
			d.viewports[newVid].screens[newSid].windows[id] = updated
		}
	}
}

func (w *World) removeWindowLocked(id WindowID) {
	win, ok := w.windows[id]
	if !ok {
		return
	}
	desktop := w.resolvedDesktopID(win.Desktop)
	if sid, vid, found := w.locateWindowLocked(desktop, win); found {
		if d, ok := w.desktops[desktop]; ok {
			delete(d.viewports[vid].screens[sid].windows, id)
			if d.viewports[vid].screens[sid].Active == id {
				d.viewports[vid].screens[sid].Active = 0
			}
		}
	}
	delete(w.windows, id)
}

func windowFromSnapshot(id WindowID, snap platform.WindowSnapshot) *Window {
	return &Window{
		ID:            id,
		Desktop:       snap.Desktop,
		Rect:          snap.Bounds,
		DecorLeft:     snap.DecorLeft,
		DecorRight:    snap.DecorRight,
		DecorTop:      snap.DecorTop,
		DecorBottom:   snap.DecorBottom,
		Title:         snap.Title,
		ClassInstance: snap.ClassInstance,
		ClassName:     snap.ClassName,
		StaticGravity: snap.StaticGravity,
		Popup:         snap.Popup,
		Hidden:        snap.Hidden,
	}
}

package world

// Desktop is a virtual workspace: a workarea rectangle, a total
// desktop resolution, and the set of Viewports panned within it.
type Desktop struct {
	ID            DesktopID
	Name          string
	Workarea      Rect
	TotalWidth    int
	TotalHeight   int
	viewports     map[ViewportID]*Viewport
	viewportOrder []ViewportID
}

// Viewport is a Compiz-style pan region inside a Desktop. Non-Compiz
// managers expose exactly one Viewport per Desktop at origin (0, 0).
type Viewport struct {
	ID          ViewportID
	OriginX     int
	OriginY     int
	Width       int
	Height      int
	screens     map[ScreenID]*Screen
	screenOrder []ScreenID
}

// Screen is a physical display rectangle, relative to its Viewport's
// origin, with the windows currently believed to be on it.
//
// Tile Storage and the Tiler instance are deliberately NOT fields here:
// spec.md describes a Screen as owning "exactly one Tiler instance",
// but giving Screen a dependency on the tiler package would make
// world import tiler and tiler import world — a cycle. Tile Storage
// and Tiler instances are kept in a dispatch.Registry keyed by
// ScreenID instead; Screen only carries the two flags spec.md assigns
// it (TilingEnabled, IsTiled) plus its windows and active pointer.
type Screen struct {
	ID       ScreenID
	RawID    int // xinerama/RandR head index; 0 if none
	Bounds   Rect
	Workarea Rect // Bounds minus dock/panel struts; what tilers lay windows out in

	TilingEnabled bool
	IsTiled       bool
	Active        WindowID
	windows       map[WindowID]*Window
}

// Window mirrors spec.md §3's Window entity.
type Window struct {
	ID            WindowID
	Desktop       int // -1 means sticky (all desktops); otherwise a DesktopID value
	Rect          Rect
	DecorLeft     int
	DecorRight    int
	DecorTop      int
	DecorBottom   int
	Title         string
	ClassInstance string
	ClassName     string
	StaticGravity bool
	Popup         bool
	Hidden        bool
	Original      Rect // captured at the last SaveGeometry call
	haveOriginal  bool
}

// Windows returns the windows currently believed to be on this screen.
func (s *Screen) Windows() map[WindowID]*Window {
	return s.windows
}

// Viewports returns a Desktop's viewports in stable order.
func (d *Desktop) Viewports() []*Viewport {
	out := make([]*Viewport, 0, len(d.viewportOrder))
	for _, id := range d.viewportOrder {
		out = append(out, d.viewports[id])
	}
	return out
}

// Screens returns a Viewport's screens in stable order.
func (v *Viewport) Screens() []*Screen {
	out := make([]*Screen, 0, len(v.screenOrder))
	for _, id := range v.screenOrder {
		out = append(out, v.screens[id])
	}
	return out
}

// Contains is the half-open rectangle test spec.md §4.1 uses for both
// Viewport.contains and Screen.contains.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Package tiler implements the Tiler protocol of spec.md §4.4: a
// fixed command set, of which only tile, cycle, master_increase,
// master_decrease, find_next and find_previous vary per layout. The
// Tiler strategy set is closed, so it is modeled as a Kind tag plus a
// small internal vtable rather than open inheritance.
package tiler

import (
	"fmt"

	"github.com/pytyle/pytyle/internal/tilestate"
	"github.com/pytyle/pytyle/internal/tilestore"
	"github.com/pytyle/pytyle/internal/world"
)

// Kind names one of the five closed Tiler variants.
type Kind string

const (
	KindVertical       Kind = "vertical"
	KindHorizontal     Kind = "horizontal"
	KindHorizontalRows Kind = "horizontal_rows"
	KindMaximal        Kind = "maximal"
	KindCascade        Kind = "cascade"
)

// ParseKind maps a configured layout name onto a Kind.
func ParseKind(name string) (Kind, bool) {
	switch Kind(name) {
	case KindVertical, KindHorizontal, KindHorizontalRows, KindMaximal, KindCascade:
		return Kind(name), true
	default:
		return "", false
	}
}

// Surface is the slice of the Display Port every layout needs to
// move, raise, activate and gravity/maximize-reset a window. It is
// satisfied by platform.Port.
type Surface interface {
	Configure(id world.WindowID, x, y, width, height int) error
	Activate(id world.WindowID) error
	Raise(id world.WindowID) error
	ResetGravity(id world.WindowID) error
	Maximize(id world.WindowID) error
	Unmaximize(id world.WindowID) error
	SetUndecorated(id world.WindowID, undecorated bool) error
}

// layout is the small internal vtable for the six commands that vary
// per Kind; every other command is a universal, layout-independent
// implementation living on Instance.
type layout interface {
	tile(t *Instance) error
	cycle(t *Instance) error
	masterIncrease(t *Instance) error
	masterDecrease(t *Instance) error
	findNext(t *Instance) (world.WindowID, bool)
	findPrevious(t *Instance) (world.WindowID, bool)
}

// Instance is a Tiler bound to one screen: its Tile Storage, Tile
// State, and layout strategy. Per the world package's doc comment,
// Instances live in a dispatch.Registry keyed by world.ScreenID rather
// than as a field on world.Screen, to avoid a world<->tiler import
// cycle.
type Instance struct {
	kind    Kind
	screen  world.ScreenID
	w       *world.World
	surface Surface
	store   *tilestore.Store
	state   *tilestate.State
	impl    layout

	decorationsEnabled bool
	originalDecor      bool
	decorWasDisabled   map[world.WindowID]bool
	filtered           func(classInstance, className string) bool

	// lastRect tracks the rectangle each window was last asked to
	// occupy. World.Window.Rect only reflects what the display server
	// last reported, which lags a Configure call until the next
	// refresh event; swaps (cycle, make_active_master, switch_*) need
	// the rect a window was just placed at, not the stale one.
	lastRect map[world.WindowID]world.Rect

	cycleIndex int

	tilersOrder []Kind
	tilerPos    int
}

// Options carries the MISC/LAYOUT configuration an Instance needs.
type Options struct {
	MasterCapacity     int
	Defaults           map[string]float64
	TilersOrder        []Kind
	DecorationsEnabled bool
	OriginalDecor      bool
	// Filtered reports whether a window's class should be excluded
	// from Tile Storage, the FILTER config section of spec.md §6. Nil
	// means nothing is filtered.
	Filtered func(classInstance, className string) bool
}

// New constructs an Instance for the given screen and layout Kind.
func New(kind Kind, screen world.ScreenID, w *world.World, surface Surface, opts Options) (*Instance, error) {
	impl, ok := layoutImpls[kind]
	if !ok {
		return nil, fmt.Errorf("tiler: unknown layout kind %q", kind)
	}
	pos := 0
	for i, k := range opts.TilersOrder {
		if k == kind {
			pos = i
			break
		}
	}
	return &Instance{
		kind:               kind,
		screen:             screen,
		w:                  w,
		surface:            surface,
		store:              tilestore.New(opts.MasterCapacity),
		state:              tilestate.New(opts.Defaults),
		impl:               impl,
		decorationsEnabled: opts.DecorationsEnabled,
		originalDecor:      opts.OriginalDecor,
		filtered:           opts.Filtered,
		decorWasDisabled:   make(map[world.WindowID]bool),
		lastRect:           make(map[world.WindowID]world.Rect),
		tilersOrder:        opts.TilersOrder,
		tilerPos:           pos,
	}, nil
}

var layoutImpls = map[Kind]layout{
	KindVertical:       verticalLayout{},
	KindHorizontal:     horizontalLayout{},
	KindHorizontalRows: horizontalRowsLayout{},
	KindMaximal:        maximalLayout{},
	KindCascade:        cascadeLayout{},
}

// Kind reports this Instance's layout variant.
func (t *Instance) Kind() Kind { return t.kind }

// ScreenID reports the screen this Instance is bound to.
func (t *Instance) ScreenID() world.ScreenID { return t.screen }

// Store exposes the underlying Tile Storage, for IPC status queries.
func (t *Instance) Store() *tilestore.Store { return t.store }

// State exposes the underlying Tile State, for IPC status queries.
func (t *Instance) State() *tilestate.State { return t.state }

func (t *Instance) screenObj() (*world.Screen, bool) {
	return t.w.Screen(t.screen)
}

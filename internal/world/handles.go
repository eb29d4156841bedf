// Package world holds the Desktop -> Viewport -> Screen -> Window tree
// (the World Model) and keeps it in sync with the Display Port through
// explicit refresh calls driven by the Event Classifier.
//
// Per the arena/handle re-design: nodes are referenced by small integer
// handles instead of parent-child back-pointers, so there is no
// ownership cycle to break during deletion. Looking up "this window's
// screen" goes through World, never through a pointer stored on Window.
package world

import "github.com/pytyle/pytyle/internal/platform"

// DesktopID, ViewportID, ScreenID and WindowID are distinct handle
// types so a ScreenID can never be silently passed where a WindowID is
// expected.
type (
	DesktopID  uint32
	ViewportID uint32
	ScreenID   uint32
	WindowID   = platform.WindowID
)

// Rect is a plain rectangle; X and Y may be negative.
type Rect = platform.Rect

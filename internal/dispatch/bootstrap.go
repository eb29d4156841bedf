package dispatch

import (
	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/tiler"
	"github.com/pytyle/pytyle/internal/world"
)

// InitialKindResolver resolves the TILING config entry for a screen's
// raw (xinerama/RandR) id, falling back to the "default" key — the
// shape of (*config.Config).InitialKind, injected so this package
// doesn't need to import internal/config.
type InitialKindResolver func(screenRawID int) (tiler.Kind, bool)

// Bootstrap builds one tiler.Instance per screen currently in w, bound
// per initialKind's TILING resolution (spec.md §6: "initial tiler per
// (screen id [, desk-or-viewport id]); fallback key 'default'"), and
// registers each in registry. fallback is used when neither a
// screen-specific nor a "default" TILING entry resolves. Called once
// at daemon startup and again after the transport-recovery rehook's
// world.Wipe+LoadAll; the Scheduler's config-reload and
// screen-layout-change rebuilds do not call it, and keep the
// registered instances keyed by ScreenID.
func Bootstrap(w *world.World, registry *Registry, port platform.Port, initialKind InitialKindResolver, optsFor func(tiler.Kind) tiler.Options, fallback tiler.Kind) error {
	for _, scr := range w.Screens() {
		kind, ok := initialKind(scr.RawID)
		if !ok {
			kind = fallback
		}
		inst, err := tiler.New(kind, scr.ID, w, port, optsFor(kind))
		if err != nil {
			return err
		}
		registry.Set(scr.ID, inst)
	}
	return nil
}

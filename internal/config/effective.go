package config

import (
	"strconv"
	"strings"

	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/tiler"
)

// BuildEffectiveConfig layers raw on top of the built-in defaults and
// returns the resolved Config. Every MISC field, and every LAYOUT
// parameter table, falls back independently: a file that sets
// "misc.decorations: false" does not lose the built-in KEYMAP.
func BuildEffectiveConfig(raw RawConfig) *Config {
	def := DefaultConfig()

	misc := def.Misc
	if raw.Misc.Tilers != nil {
		misc.Tilers = *raw.Misc.Tilers
	}
	if raw.Misc.GlobalTiling != nil {
		misc.GlobalTiling = *raw.Misc.GlobalTiling
	}
	if raw.Misc.Timeout != nil {
		misc.Timeout = *raw.Misc.Timeout
	}
	if raw.Misc.Decorations != nil {
		misc.Decorations = *raw.Misc.Decorations
	}
	if raw.Misc.OriginalDecor != nil {
		misc.OriginalDecor = *raw.Misc.OriginalDecor
	}

	keymap := mergeStringMap(def.Keymap, raw.Keymap)
	tilingTable := mergeStringMap(def.Tiling, raw.Tiling)
	layout := mergeLayoutMap(def.Layout, raw.Layout)

	var workarea map[int]platform.Insets
	if len(raw.Workarea) > 0 {
		workarea = make(map[int]platform.Insets, len(raw.Workarea))
		for id, ins := range raw.Workarea {
			workarea[id] = platform.Insets{Top: ins.Top, Bottom: ins.Bottom, Left: ins.Left, Right: ins.Right}
		}
	}

	return &Config{
		Misc:      misc,
		Keymap:    keymap,
		Workarea:  workarea,
		Filter:    append([]string{}, raw.Filter...),
		Layout:    layout,
		Tiling:    tilingTable,
		Callbacks: raw.Callbacks,
	}
}

// TilersOrder maps MISC's ordered layout-name list onto tiler.Kind,
// silently dropping any name that fails tiler.ParseKind (already
// reported by Validate at load time).
func (c *Config) TilersOrder() []tiler.Kind {
	out := make([]tiler.Kind, 0, len(c.Misc.Tilers))
	for _, name := range c.Misc.Tilers {
		if kind, ok := tiler.ParseKind(name); ok {
			out = append(out, kind)
		}
	}
	return out
}

// TilerOptions builds the tiler.Options a fresh Instance of kind
// needs: its LAYOUT parameter table (minus the master_count entry,
// which becomes MasterCapacity), the MISC decoration flags, the
// cycle_tiler rotation, and the FILTER predicate.
func (c *Config) TilerOptions(kind tiler.Kind) tiler.Options {
	params := c.Layout[string(kind)]
	defaults := make(map[string]float64, len(params))
	masterCapacity := 1
	for k, v := range params {
		if k == "master_count" {
			masterCapacity = int(v)
			continue
		}
		defaults[k] = v
	}

	return tiler.Options{
		MasterCapacity:     masterCapacity,
		Defaults:           defaults,
		TilersOrder:        c.TilersOrder(),
		DecorationsEnabled: c.Misc.Decorations,
		OriginalDecor:      c.Misc.OriginalDecor,
		Filtered:           c.FilterPredicate(),
	}
}

// FilterPredicate returns the FILTER matcher tiler.Options.Filtered
// needs: a case-insensitive substring match of either window class
// field, or nil when FILTER is empty (so tiler.Instance skips the
// call entirely).
func (c *Config) FilterPredicate() func(classInstance, className string) bool {
	if len(c.Filter) == 0 {
		return nil
	}
	needles := make([]string, len(c.Filter))
	for i, s := range c.Filter {
		needles[i] = strings.ToLower(s)
	}
	return func(classInstance, className string) bool {
		instance := strings.ToLower(classInstance)
		name := strings.ToLower(className)
		for _, needle := range needles {
			if strings.Contains(instance, needle) || strings.Contains(name, needle) {
				return true
			}
		}
		return false
	}
}

// WorkareaOverrides adapts Workarea to platform.Insets, for
// platform.WithWorkareaOverrides.
func (c *Config) WorkareaOverrides() map[int]platform.Insets {
	return c.Workarea
}

// InitialKind resolves the TILING config entry for screenRawID (and,
// if set, a desktop-or-viewport id), falling back to the "default"
// key, per spec.md §6: "initial tiler per (screen id [, desk-or-
// viewport id]); fallback key 'default'."
func (c *Config) InitialKind(screenRawID int, deskOrViewport *int) (tiler.Kind, bool) {
	if deskOrViewport != nil {
		key := strconv.Itoa(screenRawID) + "," + strconv.Itoa(*deskOrViewport)
		if name, ok := c.Tiling[key]; ok {
			return tiler.ParseKind(name)
		}
	}
	if name, ok := c.Tiling[strconv.Itoa(screenRawID)]; ok {
		return tiler.ParseKind(name)
	}
	if name, ok := c.Tiling["default"]; ok {
		return tiler.ParseKind(name)
	}
	return "", false
}

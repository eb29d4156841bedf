package config

import "github.com/pytyle/pytyle/internal/tiler"

// builtinTilersOrder is the default cycle_tiler rotation when MISC
// omits "tilers": every layout, in spec.md §4.4's declaration order.
func builtinTilersOrder() []string {
	return []string{
		string(tiler.KindVertical),
		string(tiler.KindHorizontal),
		string(tiler.KindHorizontalRows),
		string(tiler.KindMaximal),
		string(tiler.KindCascade),
	}
}

// builtinKeymap is the default KEYMAP table, used whenever a layer
// omits the section entirely. Every binding uses the Mod4 ("super")
// modifier so it does not collide with terminal or window-manager
// chrome bindings.
func builtinKeymap() map[string]string {
	return map[string]string{
		"Mod4-t":       "tile.default",
		"Mod4-Shift-t": "untile",
		"Mod4-space":   "cycle_tiler",
		"Mod4-l":       "master_increase",
		"Mod4-h":       "master_decrease",
		"Mod4-Return":  "make_active_master",
		"Mod4-j":       "win_next",
		"Mod4-k":       "win_previous",
		"Mod4-Shift-j": "switch_next",
		"Mod4-Shift-k": "switch_previous",
		"Mod4-i":       "add_master",
		"Mod4-u":       "remove_master",
		"Mod4-m":       "max_all",
		"Mod4-Shift-m": "restore_all",
		"Mod4-c":       "cycle",
		"Mod4-r":       "reset",
	}
}

// builtinLayout is the default LAYOUT table, mirroring the per-layout
// defaults each tiler falls back to internally (tiler.Instance reads
// these through Tile State's defaults map, so a value here merely
// documents what the layout already assumes when LAYOUT omits it).
func builtinLayout() map[string]map[string]float64 {
	return map[string]map[string]float64{
		string(tiler.KindVertical): {
			"master_count": 1,
			"width_factor": 0.5,
		},
		string(tiler.KindHorizontal): {
			"master_count": 1,
			"height_factor": 0.5,
		},
		string(tiler.KindHorizontalRows): {
			"master_count":  1,
			"height_factor": 0.5,
			"row_size":      2,
		},
		string(tiler.KindMaximal): {},
		string(tiler.KindCascade): {
			"decoration_height": 25,
			"width_factor":      0.05,
			"height_factor":     0.05,
			"push_over":         10,
			"horz_align":        0,
		},
	}
}

// builtinTiling is the default TILING table: every screen starts
// untiled (Vertical, enabled on first "tile" hotkey) unless a layer
// overrides "default" or a screen-specific key.
func builtinTiling() map[string]string {
	return map[string]string{
		"default": string(tiler.KindVertical),
	}
}

// DefaultConfig returns the built-in Config used when no config file
// is present and as the base layer underneath every loaded file.
func DefaultConfig() *Config {
	return &Config{
		Misc: Misc{
			Tilers:        builtinTilersOrder(),
			GlobalTiling:  false,
			Timeout:       0, // the Scheduler's 100 ms default
			Decorations:   true,
			OriginalDecor: true,
		},
		Keymap:    builtinKeymap(),
		Workarea:  nil,
		Filter:    nil,
		Layout:    builtinLayout(),
		Tiling:    builtinTiling(),
		Callbacks: nil,
	}
}

// Package config loads and validates pytyle's configuration surface
// (spec.md §6): MISC, KEYMAP, WORKAREA, FILTER, LAYOUT, TILING and
// CALLBACKS. Config is the immutable, fully-resolved result of a load;
// RawConfig and the loader handle the layered, include-merging YAML
// source on disk.
package config

import (
	"fmt"

	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/tiler"
)

// Misc holds the MISC config section of spec.md §6.
type Misc struct {
	// Tilers is the ordered list of layout names cycle_tiler advances
	// through.
	Tilers []string
	// GlobalTiling is read from MISC.global_tiling and reported by
	// Explain; nothing outside this package reads it, so tile/untile
	// act only on the screen they are dispatched to.
	GlobalTiling bool
	// Timeout is the Scheduler's idle poll interval, in seconds; 0
	// selects the Scheduler's 100 ms default.
	Timeout int
	// Decorations enables border/titlebar suppression while a window
	// is tiled.
	Decorations bool
	// OriginalDecor restores a window's decoration state on untile
	// instead of leaving it undecorated.
	OriginalDecor bool
}

// Config is the fully-resolved configuration surface.
type Config struct {
	Misc Misc
	// Keymap maps a "Mod4-Shift-t" style key sequence to an action
	// name (a layout command from spec.md §4.4, or "tile.<layout>").
	Keymap map[string]string
	// Workarea maps an xinerama/RandR screen index to the dock insets
	// that override its detected workarea.
	Workarea map[int]platform.Insets
	// Filter is the list of case-insensitive class substrings that
	// exclude a window from Tile Storage.
	Filter []string
	// Layout maps a layout name to its parameter table, e.g.
	// Layout["vertical"]["width_factor"].
	Layout map[string]map[string]float64
	// Tiling maps a "<screen>" or "<screen>,<desktop-or-viewport>" key
	// to the layout name that screen starts tiling with; "default" is
	// the fallback key.
	Tiling map[string]string
	// Callbacks maps a "Mod4-1" style mouse button sequence to an
	// action name. Optional; nil means no mouse bindings.
	Callbacks map[string]string
}

// ValidationError reports one problem found while validating a loaded
// Config, with the Source (file/line/column) it came from when known.
type ValidationError struct {
	Path   string
	Err    error
	Source Source
}

func (e *ValidationError) Error() string {
	if e.Source.File != "" {
		return fmt.Sprintf("%s (%s:%d): %v", e.Path, e.Source.File, e.Source.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate reports every problem with c that Load/BuildEffectiveConfig
// could not repair by falling back to a default: unknown action names
// are caught here (spec.md §7's UnknownAction, "logged at config load
// time, skipped") rather than at dispatch time.
func (c *Config) Validate() []*ValidationError {
	var errs []*ValidationError

	for seq, action := range c.Keymap {
		if !knownAction(action) {
			errs = append(errs, &ValidationError{
				Path: "keymap." + seq,
				Err:  fmt.Errorf("unknown action %q", action),
			})
		}
	}
	for seq, action := range c.Callbacks {
		if !knownAction(action) {
			errs = append(errs, &ValidationError{
				Path: "callbacks." + seq,
				Err:  fmt.Errorf("unknown action %q", action),
			})
		}
	}
	for _, name := range c.Misc.Tilers {
		if _, ok := tiler.ParseKind(name); !ok {
			errs = append(errs, &ValidationError{
				Path: "misc.tilers",
				Err:  fmt.Errorf("unknown layout %q", name),
			})
		}
	}
	for key, name := range c.Tiling {
		if name == "default" {
			continue
		}
		if _, ok := tiler.ParseKind(name); !ok {
			errs = append(errs, &ValidationError{
				Path: "tiling." + key,
				Err:  fmt.Errorf("unknown layout %q", name),
			})
		}
	}
	if c.Misc.Timeout < 0 {
		errs = append(errs, &ValidationError{Path: "misc.timeout", Err: fmt.Errorf("must be >= 0")})
	}
	return errs
}

// knownAction reports whether name is one of the universal tiler
// commands, a numeric-suffixed screen_focus.N/screen_put.N form, or a
// tile.<layout> layout-switch form — the full action vocabulary
// internal/dispatch.Dispatcher.invoke understands.
func knownAction(name string) bool {
	switch name {
	case "tile", "untile", "cycle", "cycle_tiler", "reset",
		"add_master", "remove_master", "make_active_master",
		"win_master", "win_previous", "win_next",
		"switch_previous", "switch_next",
		"max_all", "restore_all",
		"master_increase", "master_decrease":
		return true
	}
	if name == "tile.default" {
		return true
	}
	if _, ok := tilerSuffix(name); ok {
		return true
	}
	if _, ok := numericActionSuffix(name, "screen_focus"); ok {
		return true
	}
	if _, ok := numericActionSuffix(name, "screen_put"); ok {
		return true
	}
	return false
}

// tilerSuffix reports whether name has the "tile.<layout>" shape and,
// if so, the layout Kind it names.
func tilerSuffix(name string) (tiler.Kind, bool) {
	const prefix = "tile."
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return "", false
	}
	return tiler.ParseKind(name[len(prefix):])
}

// numericActionSuffix reports whether name has the "<prefix>.N" shape.
func numericActionSuffix(name, prefix string) (string, bool) {
	full := prefix + "."
	if len(name) <= len(full) || name[:len(full)] != full {
		return "", false
	}
	suffix := name[len(full):]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	if suffix == "" {
		return "", false
	}
	return suffix, true
}

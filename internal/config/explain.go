package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pytyle/pytyle/internal/platform"
)

// Explain resolves a dotted config path ("misc.timeout", "keymap.Mod4-t",
// "layout.vertical.width_factor") against a LoadResult, returning the
// effective value and the Source it came from — a loaded file if one
// set it, SourceBuiltin otherwise. Used by pytylectl's config-explain
// action.
func Explain(res *LoadResult, path string) (any, Source, error) {
	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return nil, Source{}, fmt.Errorf("config: empty path")
	}

	val, err := lookup(res.Config, parts)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return val, src, nil
	}
	return val, Source{Kind: SourceBuiltin}, nil
}

func lookup(c *Config, parts []string) (any, error) {
	switch parts[0] {
	case "misc":
		return lookupMisc(c.Misc, parts[1:])
	case "keymap":
		return lookupStringMap(c.Keymap, parts[1:], "keymap")
	case "callbacks":
		return lookupStringMap(c.Callbacks, parts[1:], "callbacks")
	case "tiling":
		return lookupStringMap(c.Tiling, parts[1:], "tiling")
	case "filter":
		return c.Filter, nil
	case "workarea":
		return lookupWorkarea(c.Workarea, parts[1:])
	case "layout":
		return lookupLayout(c.Layout, parts[1:])
	default:
		return nil, fmt.Errorf("config: unknown section %q", parts[0])
	}
}

func lookupMisc(m Misc, rest []string) (any, error) {
	if len(rest) != 1 {
		return nil, fmt.Errorf("config: misc.<field> expects exactly one field name")
	}
	switch rest[0] {
	case "tilers":
		return m.Tilers, nil
	case "global_tiling":
		return m.GlobalTiling, nil
	case "timeout":
		return m.Timeout, nil
	case "decorations":
		return m.Decorations, nil
	case "original_decor":
		return m.OriginalDecor, nil
	default:
		return nil, fmt.Errorf("config: unknown misc field %q", rest[0])
	}
}

func lookupStringMap(m map[string]string, rest []string, section string) (any, error) {
	if len(rest) == 0 {
		return m, nil
	}
	if len(rest) != 1 {
		return nil, fmt.Errorf("config: %s.<key> expects exactly one key", section)
	}
	val, ok := m[rest[0]]
	if !ok {
		return nil, fmt.Errorf("config: %s %q not set", section, rest[0])
	}
	return val, nil
}

func lookupWorkarea(m map[int]platform.Insets, rest []string) (any, error) {
	if len(rest) == 0 {
		return m, nil
	}
	id, err := strconv.Atoi(rest[0])
	if err != nil {
		return nil, fmt.Errorf("config: workarea screen id %q is not numeric", rest[0])
	}
	ins, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("config: workarea %d not set", id)
	}
	if len(rest) == 1 {
		return ins, nil
	}
	if len(rest) != 2 {
		return nil, fmt.Errorf("config: workarea.<id>.<edge> expects exactly two path segments")
	}
	switch rest[1] {
	case "top":
		return ins.Top, nil
	case "bottom":
		return ins.Bottom, nil
	case "left":
		return ins.Left, nil
	case "right":
		return ins.Right, nil
	default:
		return nil, fmt.Errorf("config: unknown workarea edge %q", rest[1])
	}
}

func lookupLayout(m map[string]map[string]float64, rest []string) (any, error) {
	if len(rest) == 0 {
		return m, nil
	}
	table, ok := m[rest[0]]
	if !ok {
		return nil, fmt.Errorf("config: unknown layout %q", rest[0])
	}
	if len(rest) == 1 {
		return table, nil
	}
	if len(rest) != 2 {
		return nil, fmt.Errorf("config: layout.<name>.<param> expects exactly two path segments")
	}
	val, ok := table[rest[1]]
	if !ok {
		return nil, fmt.Errorf("config: layout %q has no parameter %q", rest[0], rest[1])
	}
	return val, nil
}

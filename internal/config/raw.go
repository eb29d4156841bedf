package config

// RawInsets mirrors platform.Insets for YAML decoding; all four edges
// default to 0 when omitted.
type RawInsets struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// RawMisc is the overlay form of Misc: every field is a pointer so a
// layer that omits a key does not clobber a lower layer's value.
type RawMisc struct {
	Tilers        *[]string `yaml:"tilers"`
	GlobalTiling  *bool     `yaml:"global_tiling"`
	Timeout       *int      `yaml:"timeout"`
	Decorations   *bool     `yaml:"decorations"`
	OriginalDecor *bool     `yaml:"original_decor"`
}

// RawConfig is the as-decoded shape of one YAML document, before
// layering. include lists further documents to merge underneath this
// one (child-then-self, so this document's keys win).
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Misc      RawMisc                      `yaml:"misc"`
	Keymap    map[string]string            `yaml:"keymap"`
	Workarea  map[int]RawInsets            `yaml:"workarea"`
	Filter    []string                     `yaml:"filter"`
	Layout    map[string]map[string]float64 `yaml:"layout"`
	Tiling    map[string]string            `yaml:"tiling"`
	Callbacks map[string]string            `yaml:"callbacks"`
}

// IncludeList decodes either a single scalar path or a YAML sequence
// of paths into a []string, the way the teacher's include directive
// accepted both forms.
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		if single != "" {
			*l = IncludeList{single}
		}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*l = IncludeList(many)
	return nil
}

// mergeRawConfig layers overlay on top of base: scalar MISC fields and
// slices are replaced wholesale when set in overlay; maps are merged
// key-by-key, with overlay's entries winning, and LAYOUT is merged two
// levels deep so one file can override a single parameter without
// restating the whole layout table.
func mergeRawConfig(base, overlay RawConfig) RawConfig {
	out := base

	out.Misc = mergeMisc(base.Misc, overlay.Misc)

	if overlay.Filter != nil {
		out.Filter = overlay.Filter
	}
	out.Keymap = mergeStringMap(base.Keymap, overlay.Keymap)
	out.Tiling = mergeStringMap(base.Tiling, overlay.Tiling)
	out.Callbacks = mergeStringMap(base.Callbacks, overlay.Callbacks)
	out.Workarea = mergeInsetsMap(base.Workarea, overlay.Workarea)
	out.Layout = mergeLayoutMap(base.Layout, overlay.Layout)

	return out
}

func mergeMisc(base, overlay RawMisc) RawMisc {
	out := base
	if overlay.Tilers != nil {
		out.Tilers = overlay.Tilers
	}
	if overlay.GlobalTiling != nil {
		out.GlobalTiling = overlay.GlobalTiling
	}
	if overlay.Timeout != nil {
		out.Timeout = overlay.Timeout
	}
	if overlay.Decorations != nil {
		out.Decorations = overlay.Decorations
	}
	if overlay.OriginalDecor != nil {
		out.OriginalDecor = overlay.OriginalDecor
	}
	return out
}

func mergeStringMap(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func mergeInsetsMap(base, overlay map[int]RawInsets) map[int]RawInsets {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[int]RawInsets, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func mergeLayoutMap(base, overlay map[string]map[string]float64) map[string]map[string]float64 {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]map[string]float64, len(base)+len(overlay))
	for name, params := range base {
		cp := make(map[string]float64, len(params))
		for k, v := range params {
			cp[k] = v
		}
		out[name] = cp
	}
	for name, params := range overlay {
		cp, ok := out[name]
		if !ok {
			cp = make(map[string]float64, len(params))
		}
		for k, v := range params {
			cp[k] = v
		}
		out[name] = cp
	}
	return out
}

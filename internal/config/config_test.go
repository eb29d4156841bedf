package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pytyle/pytyle/internal/tiler"
)

func TestDefaultConfig_ValidatesClean(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("default config should validate cleanly, got %v", errs)
	}
}

func TestBuildEffectiveConfig_OverlayWinsOverDefaults(t *testing.T) {
	timeout := 250
	raw := RawConfig{
		Misc: RawMisc{Timeout: &timeout},
		Keymap: map[string]string{
			"Mod4-x": "tile.horizontal",
		},
		Layout: map[string]map[string]float64{
			"vertical": {"width_factor": 0.6},
		},
	}
	cfg := BuildEffectiveConfig(raw)

	if cfg.Misc.Timeout != 250 {
		t.Fatalf("timeout override not applied: %d", cfg.Misc.Timeout)
	}
	if cfg.Misc.Decorations != true {
		t.Fatalf("untouched misc field should keep its default: %v", cfg.Misc.Decorations)
	}
	if cfg.Keymap["Mod4-x"] != "tile.horizontal" {
		t.Fatalf("overlay keymap entry missing")
	}
	if _, ok := cfg.Keymap["Mod4-t"]; !ok {
		t.Fatalf("builtin keymap entries should survive a partial overlay")
	}
	if cfg.Layout["vertical"]["width_factor"] != 0.6 {
		t.Fatalf("layout parameter override not applied: %v", cfg.Layout["vertical"])
	}
	if cfg.Layout["vertical"]["master_count"] != 1 {
		t.Fatalf("unrelated layout parameter should survive a partial overlay: %v", cfg.Layout["vertical"])
	}
}

func TestConfig_Validate_CatchesUnknownAction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keymap["Mod4-z"] = "not_a_real_action"
	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Path != "keymap.Mod4-z" {
		t.Fatalf("expected exactly one unknown-action error, got %v", errs)
	}
}

func TestConfig_TilerOptions_SplitsMasterCountFromDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout["vertical"]["master_count"] = 2
	opts := cfg.TilerOptions(tiler.KindVertical)
	if opts.MasterCapacity != 2 {
		t.Fatalf("expected MasterCapacity 2, got %d", opts.MasterCapacity)
	}
	if _, ok := opts.Defaults["master_count"]; ok {
		t.Fatalf("master_count should not leak into Defaults")
	}
	if opts.Defaults["width_factor"] != 0.5 {
		t.Fatalf("expected width_factor default to survive: %v", opts.Defaults)
	}
}

func TestConfig_FilterPredicate_MatchesEitherClassField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter = []string{"dmenu"}
	pred := cfg.FilterPredicate()
	if pred == nil {
		t.Fatal("expected non-nil predicate once FILTER is set")
	}
	if !pred("DMenu", "dmenu") {
		t.Fatal("expected case-insensitive match against class instance")
	}
	if !pred("x", "Dmenu-Run") {
		t.Fatal("expected case-insensitive substring match against class name")
	}
	if pred("xterm", "XTerm") {
		t.Fatal("unrelated window should not match")
	}
}

func TestConfig_FilterPredicate_NilWhenEmpty(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FilterPredicate() != nil {
		t.Fatal("expected nil predicate when FILTER is empty")
	}
}

func TestConfig_InitialKind_FallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiling["1"] = "horizontal"

	kind, ok := cfg.InitialKind(1, nil)
	if !ok || kind != tiler.KindHorizontal {
		t.Fatalf("expected screen-specific override, got %v %v", kind, ok)
	}

	kind, ok = cfg.InitialKind(9, nil)
	if !ok || kind != tiler.KindVertical {
		t.Fatalf("expected default fallback, got %v %v", kind, ok)
	}
}

func TestConfig_InitialKind_ScreenViewportKeyWinsOverScreenKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiling["0"] = "horizontal"
	cfg.Tiling["0,1"] = "cascade"

	viewport := 1
	kind, ok := cfg.InitialKind(0, &viewport)
	if !ok || kind != tiler.KindCascade {
		t.Fatalf("expected screen,viewport key to win, got %v %v", kind, ok)
	}
}

func TestLoadFromPath_MissingFileFallsBackToDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if res.Config.Misc.Timeout != DefaultConfig().Misc.Timeout {
		t.Fatalf("expected default config when no file present")
	}
}

func TestLoadFromPath_DecodesAndTracksSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "misc:\n  timeout: 42\nkeymap:\n  Mod4-q: tile\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.Misc.Timeout != 42 {
		t.Fatalf("expected loaded timeout 42, got %d", res.Config.Misc.Timeout)
	}
	if res.Config.Keymap["Mod4-q"] != "tile" {
		t.Fatalf("expected loaded keymap entry")
	}

	val, src, err := Explain(res, "misc.timeout")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if val.(int) != 42 {
		t.Fatalf("Explain returned wrong value: %v", val)
	}
	if src.Kind != SourceFile || src.File != path {
		t.Fatalf("expected source to point at %s, got %+v", path, src)
	}

	_, src, err = Explain(res, "misc.decorations")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if src.Kind != SourceBuiltin {
		t.Fatalf("expected builtin source for an unset field, got %+v", src)
	}
}

func TestLoadFromPath_IncludeMerge(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	mainPath := filepath.Join(dir, "main.yaml")

	if err := os.WriteFile(basePath, []byte("misc:\n  timeout: 10\nfilter:\n  - dmenu\n"), 0o644); err != nil {
		t.Fatalf("write base fixture: %v", err)
	}
	if err := os.WriteFile(mainPath, []byte("include: base.yaml\nmisc:\n  decorations: false\n"), 0o644); err != nil {
		t.Fatalf("write main fixture: %v", err)
	}

	res, err := LoadFromPath(mainPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.Misc.Timeout != 10 {
		t.Fatalf("expected included timeout to survive, got %d", res.Config.Misc.Timeout)
	}
	if res.Config.Misc.Decorations != false {
		t.Fatalf("expected main.yaml's override to apply")
	}
	if len(res.Config.Filter) != 1 || res.Config.Filter[0] != "dmenu" {
		t.Fatalf("expected included filter entry, got %v", res.Config.Filter)
	}
}

func TestLoadFromPath_IncludeCycleErrors(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.yaml")
	bPath := filepath.Join(dir, "b.yaml")

	if err := os.WriteFile(aPath, []byte("include: b.yaml\n"), 0o644); err != nil {
		t.Fatalf("write a fixture: %v", err)
	}
	if err := os.WriteFile(bPath, []byte("include: a.yaml\n"), 0o644); err != nil {
		t.Fatalf("write b fixture: %v", err)
	}

	if _, err := LoadFromPath(aPath); err == nil {
		t.Fatal("expected an include-cycle error")
	}
}

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind distinguishes a value that came from a loaded file from
// one that fell back to the built-in default table.
type SourceKind int

const (
	SourceBuiltin SourceKind = iota
	SourceFile
)

// Source records where one configuration value came from, for
// pytylectl's "config explain" surface.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

// LoadResult is a fully merged configuration plus enough provenance to
// answer Explain queries against it.
type LoadResult struct {
	Config  *Config
	Sources map[string]Source // dotted path -> Source
	Files   []string          // every file that contributed, include order
}

// DefaultConfigPath returns "~/.config/pytyle/config.yaml".
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pytyle", "config.yaml"), nil
}

// Load reads the default config path, falling back to the built-in
// Config if no file exists there. Parse errors are reported, not
// fatal: per spec.md §7, "configuration parse errors are reported and
// the defaults table is used."
func Load() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and layers path (and anything it includes) on
// top of the built-in defaults. A missing file is not an error: it
// just means the defaults apply.
func LoadFromPath(path string) (*LoadResult, error) {
	if !pathExists(path) {
		return &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}, nil
	}

	raw, sources, files, err := loadRawMerged(path, map[string]bool{}, []string{})
	if err != nil {
		return &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}, err
	}

	cfg := BuildEffectiveConfig(raw)
	return &LoadResult{Config: cfg, Sources: sources, Files: files}, nil
}

// loadRawMerged decodes path, recursively resolves its include list
// (child documents first, so an including file's own keys win), and
// returns the merged RawConfig plus a path->Source map covering every
// leaf this and its includes set. seen guards against include cycles.
func loadRawMerged(path string, seen map[string]bool, stack []string) (RawConfig, map[string]Source, []string, error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, nil, nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if seen[abs] {
		return RawConfig{}, nil, nil, fmt.Errorf("config: include cycle: %s -> %s", strings.Join(stack, " -> "), abs)
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return RawConfig{}, nil, nil, fmt.Errorf("config: read %s: %w", abs, err)
	}

	var doc RawConfig
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return RawConfig{}, nil, nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if err := decodeStrictYAML(data, &doc); err != nil && err != io.EOF {
		return RawConfig{}, nil, nil, fmt.Errorf("config: decode %s: %w", abs, err)
	}

	merged := RawConfig{}
	files := []string{}
	sources := map[string]Source{}
	for _, inc := range doc.Include {
		incPath := resolvePathRelativeToFile(inc, abs)
		childRaw, childSources, childFiles, err := loadRawMerged(incPath, seen, append(stack, abs))
		if err != nil {
			return RawConfig{}, nil, nil, err
		}
		merged = mergeRawConfig(merged, childRaw)
		for k, v := range childSources {
			sources[k] = v
		}
		files = append(files, childFiles...)
	}

	merged = mergeRawConfig(merged, doc)
	files = append(files, abs)
	collectSources(&node, abs, sources)

	return merged, sources, files, nil
}

// decodeStrictYAML decodes data into v with KnownFields enabled, so a
// typo'd config key is a load error instead of being silently ignored.
func decodeStrictYAML(data []byte, v *RawConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// canonicalPath returns an absolute, symlink-resolved form of path so
// the include-cycle guard compares the same file regardless of how it
// was referenced.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// resolvePathRelativeToFile resolves an include entry relative to the
// file that named it, expanding a leading "~".
func resolvePathRelativeToFile(include, fromFile string) string {
	if strings.HasPrefix(include, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(include, "~"))
		}
	}
	if filepath.IsAbs(include) {
		return include
	}
	return filepath.Join(filepath.Dir(fromFile), include)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// collectSources walks a decoded yaml.Node document, recording the
// file/line/column of every scalar leaf under a dotted path key
// ("misc.timeout", "keymap.Mod4-t", "layout.vertical.width_factor"),
// so Explain can answer exactly which file set a given value.
func collectSources(node *yaml.Node, file string, out map[string]Source) {
	if node == nil {
		return
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		collectSources(node.Content[0], file, out)
		return
	}
	if node.Kind != yaml.MappingNode {
		return
	}
	collectSourcesRec(node, "", file, out)
}

func collectSourcesRec(mapping *yaml.Node, prefix, file string, out map[string]Source) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		val := mapping.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + path
		}
		switch val.Kind {
		case yaml.MappingNode:
			collectSourcesRec(val, path, file, out)
		default:
			out[path] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
		}
	}
}

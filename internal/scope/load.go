package scope

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Load reads a scope file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON. The document is validated before it is
// decoded into a Scope.
func Load(path string) (*Scope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scope %s: %w", path, err)
	}
	return Parse(data, formatOf(path))
}

// Format selects the decoder used by Parse.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes and validates a scope document.
func Parse(data []byte, format Format) (*Scope, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse scope YAML: %w", err)
		}
		raw = normalize(raw)
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse scope JSON: %w", err)
		}
	}

	if err := Validate(raw); err != nil {
		return nil, err
	}

	// Round-trip through JSON so YAML and JSON scopes decode identically.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode scope: %w", err)
	}
	var s Scope
	if err := json.Unmarshal(buf, &s); err != nil {
		return nil, fmt.Errorf("decode scope: %w", err)
	}
	return &s, nil
}

// normalize converts YAML-decoded values into JSON-compatible ones and
// returns a deep copy of maps and slices.
// yaml.v3 yields map[any]any for mappings with non-string keys.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = normalize(v)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalize(v)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, v := range val {
			a[i] = normalize(v)
		}
		return a
	default:
		return v
	}
}

package manifest

import (
	"bytes"
	"encoding/json"
	"slices"
)

// keyOrder is the order npm itself writes the generated fields in.
var keyOrder = []string{
	"name",
	"private",
	"version",
	"description",
	"keywords",
	"dependencies",
	"scripts",
	"main",
	"repository",
	"author",
	"license",
}

// Encode renders m as an indented package.json. Known top-level fields come
// first in npm order; any other field follows in lexical order. Nested maps
// are sorted by encoding/json.
func Encode(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	keys := make([]string, 0, len(m))
	for _, k := range keyOrder {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range m {
		if !slices.Contains(keyOrder, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	keys = append(keys, extra...)

	for i, k := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		name, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(": ")

		val, err := marshal(m[k])
		if err != nil {
			return nil, err
		}
		var ind bytes.Buffer
		if err := json.Indent(&ind, val, "  ", "  "); err != nil {
			return nil, err
		}
		buf.Write(ind.Bytes())
	}
	if len(keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// marshal encodes v without escaping <, > and &, which show up in scripts.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a package.json document. The top level must be an object.
func Decode(data []byte) (Manifest, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Err: err}
	}
	if m == nil {
		m = map[string]any{}
	}
	return Manifest(m), nil
}

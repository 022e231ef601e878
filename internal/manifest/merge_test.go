package manifest

import (
	"reflect"
	"testing"
)

// TestDeepMerge covers the merge rules: maps merge, everything else replaces.
func TestDeepMerge(t *testing.T) {
	t.Run("nested maps merge key by key", func(t *testing.T) {
		dst := Manifest{"repository": map[string]any{"type": "git", "url": "a"}}
		got := DeepMerge(dst, map[string]any{"repository": map[string]any{"url": "b"}})
		want := map[string]any{"type": "git", "url": "b"}
		if !reflect.DeepEqual(got["repository"], want) {
			t.Errorf("repository = %v, want %v", got["repository"], want)
		}
	})

	t.Run("arrays are replaced", func(t *testing.T) {
		dst := Manifest{"keywords": []any{"a", "b"}}
		got := DeepMerge(dst, map[string]any{"keywords": []any{"c"}})
		if !reflect.DeepEqual(got["keywords"], []any{"c"}) {
			t.Errorf("keywords = %v, want [c]", got["keywords"])
		}
	})

	t.Run("map replaces scalar", func(t *testing.T) {
		dst := Manifest{"author": ""}
		got := DeepMerge(dst, map[string]any{"author": map[string]any{"name": "Jo"}})
		if !reflect.DeepEqual(got["author"], map[string]any{"name": "Jo"}) {
			t.Errorf("author = %v", got["author"])
		}
	})

	t.Run("nil overrides", func(t *testing.T) {
		dst := Manifest{"license": ""}
		got := DeepMerge(dst, map[string]any{"license": nil})
		if v, ok := got["license"]; !ok || v != nil {
			t.Errorf("license = %v (present %v), want nil", v, ok)
		}
	})

	t.Run("inputs untouched", func(t *testing.T) {
		inner := map[string]any{"a": "1"}
		dst := Manifest{"dependencies": inner}
		src := map[string]any{"dependencies": map[string]any{"b": "2"}}
		got := DeepMerge(dst, src)
		got["dependencies"].(map[string]any)["c"] = "3"

		if len(inner) != 1 {
			t.Errorf("dst mutated: %v", inner)
		}
		if len(src["dependencies"].(map[string]any)) != 1 {
			t.Errorf("src mutated: %v", src)
		}
	})
}

// TestPruneDisabled verifies that only literal false entries are removed.
func TestPruneDisabled(t *testing.T) {
	m := Manifest{"dependencies": map[string]any{
		"a": false,
		"b": "1.0.0",
		"c": true,
		"d": "false",
		"e": nil,
	}}
	PruneDisabled(m)

	deps := m["dependencies"].(map[string]any)
	if _, ok := deps["a"]; ok {
		t.Error("a should be removed")
	}
	for _, k := range []string{"b", "c", "d", "e"} {
		if _, ok := deps[k]; !ok {
			t.Errorf("%s should be kept", k)
		}
	}
}

// TestPruneDisabledNoDependencies verifies that a manifest without dependencies is left alone.
func TestPruneDisabledNoDependencies(t *testing.T) {
	m := Manifest{"name": "x"}
	PruneDisabled(m)
	if len(m) != 1 {
		t.Errorf("manifest changed: %v", m)
	}
}

// TestApplyDefaults verifies the shallow fill-in of missing keys.
func TestApplyDefaults(t *testing.T) {
	fallback := Manifest{
		"name":         "gen",
		"license":      "",
		"dependencies": map[string]any{"a": "1"},
	}
	primary := map[string]any{
		"name":         "mine",
		"license":      nil,
		"dependencies": map[string]any{"b": "2"},
	}

	got := ApplyDefaults(primary, fallback)
	if got["name"] != "mine" {
		t.Errorf("name = %v, want mine", got["name"])
	}
	if v, ok := got["license"]; !ok || v != nil {
		t.Errorf("license = %v, want explicit nil kept", v)
	}
	if !reflect.DeepEqual(got["dependencies"], map[string]any{"b": "2"}) {
		t.Errorf("dependencies = %v, want primary's map untouched", got["dependencies"])
	}

	if got := ApplyDefaults(nil, fallback); got.Name() != "gen" {
		t.Errorf("ApplyDefaults(nil).Name() = %q, want gen", got.Name())
	}
}

package manifest

// DeepMerge returns a copy of dst with src merged over it. Nested maps are
// merged key by key; any other src value (scalar, array, nil) replaces the
// dst value. Neither argument is modified.
func DeepMerge(dst Manifest, src map[string]any) Manifest {
	return Manifest(mergeMaps(map[string]any(dst), src))
}

func mergeMaps(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = clone(v)
	}
	for k, sv := range src {
		sm, srcIsMap := sv.(map[string]any)
		dm, dstIsMap := out[k].(map[string]any)
		if srcIsMap && dstIsMap {
			out[k] = mergeMaps(dm, sm)
			continue
		}
		out[k] = clone(sv)
	}
	return out
}

// PruneDisabled removes every dependency whose value is the boolean false.
// It is how an override drops a default dependency:
//
//	packageJson: {dependencies: {ejs: false}}
func PruneDisabled(m Manifest) {
	deps, ok := m["dependencies"].(map[string]any)
	if !ok {
		return
	}
	for name, v := range deps {
		if b, isBool := v.(bool); isBool && !b {
			delete(deps, name)
		}
	}
}

// ApplyDefaults returns a copy of primary with every top-level key it lacks
// taken from fallback. A key present in primary wins even when its value is
// nil.
func ApplyDefaults(primary map[string]any, fallback Manifest) Manifest {
	out := make(Manifest, len(fallback)+len(primary))
	for k, v := range primary {
		out[k] = clone(v)
	}
	for k, v := range fallback {
		if _, ok := out[k]; !ok {
			out[k] = clone(v)
		}
	}
	return out
}

func clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = clone(v)
		}
		return m
	case Manifest:
		return clone(map[string]any(val))
	case []any:
		a := make([]any, len(val))
		for i, v := range val {
			a[i] = clone(v)
		}
		return a
	default:
		return v
	}
}

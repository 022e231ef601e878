// Package manifest assembles the package.json of a newly generated Sails
// application from a generation scope.
package manifest

import "fmt"

// Manifest is the in-memory form of a package.json document. Values are
// JSON-compatible: string, bool, float64, []any, map[string]any or nil.
type Manifest map[string]any

// Name returns the "name" field, or "" when it is missing or not a string.
func (m Manifest) Name() string {
	s, _ := m["name"].(string)
	return s
}

// Dependencies returns the string-valued entries of the "dependencies" field.
// Entries of any other type are skipped.
func (m Manifest) Dependencies() map[string]string {
	raw, _ := m["dependencies"].(map[string]any)
	deps := make(map[string]string, len(raw))
	for name, v := range raw {
		if s, ok := v.(string); ok {
			deps[name] = s
		}
	}
	return deps
}

// Scripts returns the string-valued entries of the "scripts" field.
func (m Manifest) Scripts() map[string]string {
	raw, _ := m["scripts"].(map[string]any)
	scripts := make(map[string]string, len(raw))
	for name, v := range raw {
		if s, ok := v.(string); ok {
			scripts[name] = s
		}
	}
	return scripts
}

// ConfigurationError is returned when the framework version the generated
// app should depend on cannot be determined.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ParseError is returned when a package.json cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse package.json: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

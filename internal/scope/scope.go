// Package scope describes the choices a generation run is made from: the
// application name and author, whether the app has a frontend, and the
// package.json overrides supplied by the caller.
package scope

import (
	"encoding/json"
	"fmt"
)

// GitHub holds the account the generated repository URL points at.
type GitHub struct {
	Username string `json:"username" yaml:"username"`
}

// Scope is the input of a generation run. It is never mutated by the
// manifest assembler.
type Scope struct {
	AppName     string `json:"appName"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	// Frontend is nil when unset. Only an explicit false drops the
	// frontend tooling from the generated dependencies.
	Frontend *bool  `json:"frontend,omitempty"`
	GitHub   GitHub `json:"github"`

	// SailsPackageJSON is the framework's own package.json. It takes
	// precedence over SailsRoot, even when empty. The override maps are
	// encoded as null when unset so an empty object survives a round-trip.
	SailsPackageJSON map[string]any `json:"sailsPackageJSON"`
	// SailsRoot is the framework install directory; its package.json is
	// read when SailsPackageJSON is nil.
	SailsRoot string `json:"sailsRoot,omitempty"`

	// PackageJSON is deep-merged over the generated defaults. A dependency
	// whose value is false is removed from the result.
	PackageJSON map[string]any `json:"packageJson"`
	// AppPackageJSON wins over everything for each top-level key it defines.
	AppPackageJSON map[string]any `json:"appPackageJSON"`
}

// Bool returns a pointer to v, for filling Scope.Frontend.
func Bool(v bool) *bool { return &v }

// FrontendEnabled reports whether frontend dependencies should be generated.
func (s *Scope) FrontendEnabled() bool {
	return s.Frontend == nil || *s.Frontend
}

// Validate runs the presence/type checks of the scope schema against s.
func (s *Scope) Validate() error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode scope: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode scope: %w", err)
	}
	return Validate(doc)
}

// Clone returns a deep copy of s, so callers can adjust a scope without
// touching the one they were given. Nil and empty maps stay distinct.
func (s *Scope) Clone() *Scope {
	c := *s
	if s.Frontend != nil {
		c.Frontend = Bool(*s.Frontend)
	}
	c.SailsPackageJSON = cloneMap(s.SailsPackageJSON)
	c.PackageJSON = cloneMap(s.PackageJSON)
	c.AppPackageJSON = cloneMap(s.AppPackageJSON)
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return normalize(m).(map[string]any)
}

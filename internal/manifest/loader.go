package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sailsgen/sails-new/internal/scope"
)

// HostVersion returns the version of the Sails framework the generated app
// is pinned against. Exactly one source is consulted:
//
//	scope.SailsPackageJSON → <scope.SailsRoot>/package.json → ConfigurationError
func HostVersion(s *scope.Scope) (string, error) {
	pkg, err := hostPackage(s)
	if err != nil {
		return "", err
	}
	v, ok := pkg["version"].(string)
	if !ok || v == "" {
		return "", &ConfigurationError{Reason: "the Sails package.json does not declare a version"}
	}
	return v, nil
}

func hostPackage(s *scope.Scope) (Manifest, error) {
	if s.SailsPackageJSON != nil {
		return Manifest(s.SailsPackageJSON), nil
	}
	if s.SailsRoot != "" {
		return ReadFile(filepath.Join(s.SailsRoot, "package.json"))
	}
	return nil, &ConfigurationError{
		Reason: "could not load package.json from Sails itself; pass either sailsPackageJSON or sailsRoot",
	}
}

// ReadFile loads and decodes a package.json from disk. Read failures wrap
// the underlying os error; decode failures are *ParseError.
func ReadFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Decode(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}

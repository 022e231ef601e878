// Package scaffold writes the generated files of a new Sails application
// to disk.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/sailsgen/sails-new/internal/assets"
	"github.com/sailsgen/sails-new/internal/config"
	"github.com/sailsgen/sails-new/internal/manifest"
)

// PackageJSONPath is the manifest location inside the app.
const PackageJSONPath = "package.json"

// Options controls how Write treats the target directory.
type Options struct {
	// Force allows writing into a directory that already has files in it.
	// Existing files with the same names are overwritten.
	Force bool
}

// Result lists what Write produced.
type Result struct {
	Dir   string
	Files []string // app-relative, sorted
}

// Write creates dir if needed and writes package.json plus the static
// assets into it. A non-empty dir is refused unless opts.Force is set; the
// tool's own state directory does not count.
func Write(dir string, m manifest.Manifest, opts Options) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create app dir: %w", err)
	}
	if !opts.Force {
		if err := ensureEmpty(dir); err != nil {
			return nil, err
		}
	}

	data, err := manifest.Encode(m)
	if err != nil {
		return nil, fmt.Errorf("encode package.json: %w", err)
	}

	files, err := assets.Files()
	if err != nil {
		return nil, err
	}
	files[PackageJSONPath] = data

	res := &Result{Dir: dir}
	for rel, content := range files {
		out := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(out), err)
		}
		if err := os.WriteFile(out, content, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", out, err)
		}
		res.Files = append(res.Files, rel)
	}
	slices.Sort(res.Files)
	return res, nil
}

// WritePackageJSON replaces only the package.json of an existing app.
func WritePackageJSON(dir string, m manifest.Manifest) error {
	data, err := manifest.Encode(m)
	if err != nil {
		return fmt.Errorf("encode package.json: %w", err)
	}
	path := filepath.Join(dir, PackageJSONPath)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadPackageJSON loads the package.json of an existing app.
func ReadPackageJSON(dir string) (manifest.Manifest, error) {
	return manifest.ReadFile(filepath.Join(dir, PackageJSONPath))
}

func ensureEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read app dir: %w", err)
	}
	for _, e := range entries {
		if e.Name() == config.StateDir {
			continue
		}
		return fmt.Errorf("app directory %s is not empty; use --force to write into it", dir)
	}
	return nil
}

package generator

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/sailsgen/sails-new/internal/config"
	"github.com/sailsgen/sails-new/internal/manifest"
	"github.com/sailsgen/sails-new/internal/scaffold"
	"github.com/sailsgen/sails-new/internal/scope"
)

// Change is one dependency whose declared range differs.
type Change struct {
	Name string
	From string // empty when added
	To   string // empty when removed
}

// DependencyDiff describes how an app's package.json dependencies differ
// from a freshly assembled manifest. Only dependencies the generator owns
// appear in it.
type DependencyDiff struct {
	Added      []Change
	Removed    []Change
	Upgraded   []Change // lower bound moved up
	Downgraded []Change // lower bound moved down
	Changed    []Change // same lower bound, or not comparable
}

// HasChanges returns true if there is anything to apply.
func (d *DependencyDiff) HasChanges() bool {
	return len(d.Added)+len(d.Removed)+len(d.Upgraded)+len(d.Downgraded)+len(d.Changed) > 0
}

// UpdateResult is returned after a successful Update.
type UpdateResult struct {
	Diff      *DependencyDiff
	Installed bool // dependencies were installed after rewriting package.json
	Refreshed bool // nothing changed and installed packages were updated in place
	Duration  time.Duration
}

// Plan holds the two manifests an update moves between.
type Plan struct {
	// Scope is the recorded scope with the chosen Sails version source.
	Scope       *scope.Scope
	HostVersion string
	// Previous is what the app was last generated or updated with.
	// Dependencies outside Previous and Current belong to the user.
	Previous manifest.Manifest
	Current  manifest.Manifest
}

// NewPlan rebuilds both manifests of a generated app from its record.
// A non-empty sailsVersion or sailsRoot replaces the recorded version source.
func NewPlan(rec *config.Record, sailsVersion, sailsRoot string) (*Plan, error) {
	s := rec.Scope.Clone()
	switch {
	case sailsVersion != "":
		s.SailsPackageJSON = map[string]any{"version": sailsVersion}
		s.SailsRoot = ""
	case sailsRoot != "":
		s.SailsPackageJSON = nil
		s.SailsRoot = sailsRoot
	}

	version, err := manifest.HostVersion(s)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Scope:       s,
		HostVersion: version,
		Previous:    manifest.Build(rec.Scope.Clone(), rec.HostVersion),
		Current:     manifest.Build(s, version),
	}, nil
}

// Diff compares the dependencies in appDir/package.json with p.Current.
func (g *Generator) Diff(appDir string, p *Plan) (*DependencyDiff, error) {
	existing, err := scaffold.ReadPackageJSON(appDir)
	if err != nil {
		return nil, err
	}
	return diffDependencies(existing.Dependencies(), p.Previous.Dependencies(), p.Current.Dependencies()), nil
}

// Update rewrites the generator-owned dependencies of appDir/package.json
// to match p.Current, leaving every other field and every dependency the
// user added as they are. With install set the package manager installs
// the new ranges, or refreshes installed packages when nothing changed.
// The app's record is updated to p.
func (g *Generator) Update(appDir string, p *Plan, install bool) (*UpdateResult, error) {
	start := time.Now()

	rec, err := config.Read(appDir)
	if err != nil {
		return nil, err
	}

	existing, err := scaffold.ReadPackageJSON(appDir)
	if err != nil {
		return nil, err
	}
	diff := diffDependencies(existing.Dependencies(), p.Previous.Dependencies(), p.Current.Dependencies())

	if diff.HasChanges() {
		if err := scaffold.WritePackageJSON(appDir, applyDiff(existing, diff)); err != nil {
			return nil, err
		}
		g.Log.Printf("Updated dependencies in %s", scaffold.PackageJSONPath)
	}

	res := &UpdateResult{Diff: diff}
	if install {
		if diff.HasChanges() {
			g.Log.Printf("Installing dependencies via %s", g.PM.Name())
			if err := g.installGroup(appDir, nil); err != nil {
				return nil, fmt.Errorf("install: %w", err)
			}
			res.Installed = true
		} else {
			g.Log.Printf("Refreshing dependencies via %s", g.PM.Name())
			if err := g.updateGroup(appDir, nil); err != nil {
				return nil, fmt.Errorf("update: %w", err)
			}
			res.Refreshed = true
		}
		rec.Installed = true
		rec.PM = g.PM.Name()
	}

	rec.Scope = *p.Scope.Clone()
	rec.HostVersion = p.HostVersion
	rec.GeneratedAt = time.Now().UTC()
	if err := config.Write(appDir, rec); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	return res, nil
}

// diffDependencies compares what the app declares with what the generator
// produces now. A name is generator-owned when it is in previous or
// current; a user dependency is never reported as removed.
func diffDependencies(existing, previous, current map[string]string) *DependencyDiff {
	d := &DependencyDiff{}
	for _, name := range slices.Sorted(maps.Keys(current)) {
		newRange := current[name]
		oldRange, ok := existing[name]
		switch {
		case !ok:
			d.Added = append(d.Added, Change{Name: name, To: newRange})
		case oldRange == newRange:
		default:
			c := Change{Name: name, From: oldRange, To: newRange}
			switch compareRanges(oldRange, newRange) {
			case 1:
				d.Upgraded = append(d.Upgraded, c)
			case -1:
				d.Downgraded = append(d.Downgraded, c)
			default:
				d.Changed = append(d.Changed, c)
			}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(existing)) {
		_, owned := previous[name]
		if _, keep := current[name]; owned && !keep {
			d.Removed = append(d.Removed, Change{Name: name, From: existing[name]})
		}
	}
	return d
}

// applyDiff returns existing with d applied to its dependencies.
func applyDiff(existing manifest.Manifest, d *DependencyDiff) manifest.Manifest {
	raw, _ := existing["dependencies"].(map[string]any)
	deps := make(map[string]any, len(raw))
	maps.Copy(deps, raw)

	for _, bucket := range [][]Change{d.Added, d.Upgraded, d.Downgraded, d.Changed} {
		for _, c := range bucket {
			deps[c.Name] = c.To
		}
	}
	for _, c := range d.Removed {
		delete(deps, c.Name)
	}
	return manifest.ApplyDefaults(map[string]any{"dependencies": deps}, existing)
}

// compareRanges returns 1 when the lower bound of b is above a's, -1 when
// below, and 0 when equal or when either range has no parsable version.
func compareRanges(a, b string) int {
	va, errA := lowerBound(a)
	vb, errB := lowerBound(b)
	if errA != nil || errB != nil {
		return 0
	}
	return vb.Compare(va)
}

// lowerBound parses the version of a simple range such as "^1.2.3",
// "~1.2.3", ">=1.2.3" or "1.2.3".
func lowerBound(r string) (*semver.Version, error) {
	r = strings.TrimSpace(r)
	r = strings.TrimLeft(r, "^~>=v ")
	return semver.NewVersion(r)
}

package manifest

import (
	"fmt"
	"maps"
	"strings"

	"github.com/sailsgen/sails-new/internal/scope"
)

const (
	defaultDescription = "a Sails application"
	repositoryURL      = "git://github.com/%s/%s.git"
)

// baseline is the dependency table of an app with a frontend. The "sails"
// entry is filled in from the host version at assembly time.
var baseline = map[string]string{
	"grunt":              "1.0.1",
	"sails-hook-orm":     "^1.0.2",
	"sails-hook-sockets": "^1.0.7",
	"sails-hook-grunt":   "^1.0.0",
	"lodash":             "3.10.1",
	"async":              "2.0.1",
}

// frontendless lists the baseline packages kept for --no-frontend apps.
var frontendless = []string{
	"sails",
	"sails-hook-orm",
	"sails-hook-sockets",
	"lodash",
	"async",
}

// testScript runs mocha and, when it fails, prints hints on getting a test
// setup in place. The failure branch ends in a plain echo.
var testScript = strings.Join([]string{
	"echo",
	`echo "` + strings.Repeat("* ", 27) + `"`,
	`echo "About to run tests..."`,
	"echo",
	"if node ./node_modules/mocha/bin/mocha --timeout 10000 ; then sleep 0.0001; else echo",
	"echo",
	`echo "- - -"`,
	`echo "Looks like something went wrong."`,
	`echo "|  If you are not sure what to do next, try:"`,
	`echo "|  npm install mocha@3.0.2 --save-dev --save-exact"`,
	`echo "|  "`,
	`echo "|  And then:"`,
	`echo "|  mkdir test/"`,
	"echo ; fi",
}, " && ")

// CaretRange returns the compatible-with range for version.
func CaretRange(version string) string {
	return "^" + version
}

// BaselineDependencies returns a fresh copy of the default dependency set,
// pinning sails to sailsRange.
func BaselineDependencies(sailsRange string) map[string]string {
	deps := maps.Clone(baseline)
	deps["sails"] = sailsRange
	return deps
}

// FrontendlessDependencies narrows deps to the packages without frontend
// tooling relevance. Packages missing from deps stay missing.
func FrontendlessDependencies(deps map[string]string) map[string]string {
	out := make(map[string]string, len(frontendless))
	for _, name := range frontendless {
		if v, ok := deps[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Defaults builds the generated package.json before any override is applied.
func Defaults(s *scope.Scope, sailsRange string) Manifest {
	deps := BaselineDependencies(sailsRange)
	if !s.FrontendEnabled() {
		deps = FrontendlessDependencies(deps)
	}
	depMap := make(map[string]any, len(deps))
	for k, v := range deps {
		depMap[k] = v
	}

	description := s.Description
	if description == "" {
		description = defaultDescription
	}

	return Manifest{
		"name":         s.AppName,
		"private":      true,
		"version":      "0.0.0",
		"description":  description,
		"keywords":     []any{},
		"dependencies": depMap,
		"scripts": map[string]any{
			"start": "node app.js",
			"test":  testScript,
			"debug": "node debug app.js",
		},
		"main": "app.js",
		"repository": map[string]any{
			"type": "git",
			"url":  fmt.Sprintf(repositoryURL, s.GitHub.Username, s.AppName),
		},
		"author":  s.Author,
		"license": "",
	}
}

// Assemble produces the package.json for the app described by s. It fails
// with a *ConfigurationError when the Sails version cannot be determined.
func Assemble(s *scope.Scope) (Manifest, error) {
	version, err := HostVersion(s)
	if err != nil {
		return nil, err
	}
	return Build(s, version), nil
}

// Build assembles the package.json for a known Sails version.
//
// Precedence, highest first: s.AppPackageJSON, s.PackageJSON, generated
// defaults. The steps below apply them lowest first.
func Build(s *scope.Scope, sailsVersion string) Manifest {
	// 1. Generated defaults.
	m := Defaults(s, CaretRange(sailsVersion))

	// 2. packageJson overrides win over the defaults.
	if s.PackageJSON != nil {
		m = DeepMerge(m, s.PackageJSON)
		if _, ok := s.PackageJSON["dependencies"].(map[string]any); ok {
			PruneDisabled(m)
		}
	}

	// 3. appPackageJSON wins over everything, one top-level key at a time.
	return ApplyDefaults(s.AppPackageJSON, m)
}

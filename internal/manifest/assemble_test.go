package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sailsgen/sails-new/internal/scope"
)

// sampleScope returns a scope with an explicit Sails package.json and no overrides.
func sampleScope() *scope.Scope {
	return &scope.Scope{
		AppName:          "todo",
		GitHub:           scope.GitHub{Username: "jo"},
		SailsPackageJSON: map[string]any{"name": "sails", "version": "1.2.3"},
	}
}

func mustAssemble(t *testing.T, s *scope.Scope) Manifest {
	t.Helper()
	m, err := Assemble(s)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return m
}

// TestAssembleBaselineDependencies verifies the full dependency set when the
// frontend is unset or enabled.
func TestAssembleBaselineDependencies(t *testing.T) {
	want := map[string]string{
		"sails":              "^1.2.3",
		"grunt":              "1.0.1",
		"sails-hook-orm":     "^1.0.2",
		"sails-hook-sockets": "^1.0.7",
		"sails-hook-grunt":   "^1.0.0",
		"lodash":             "3.10.1",
		"async":              "2.0.1",
	}
	for _, frontend := range []*bool{nil, scope.Bool(true)} {
		s := sampleScope()
		s.Frontend = frontend
		got := mustAssemble(t, s).Dependencies()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Dependencies() = %v, want %v", got, want)
		}
	}
}

// TestAssembleNoFrontend verifies that frontend: false drops grunt and the grunt hook.
func TestAssembleNoFrontend(t *testing.T) {
	s := sampleScope()
	s.Frontend = scope.Bool(false)

	got := mustAssemble(t, s).Dependencies()
	want := map[string]string{
		"sails":              "^1.2.3",
		"sails-hook-orm":     "^1.0.2",
		"sails-hook-sockets": "^1.0.7",
		"lodash":             "3.10.1",
		"async":              "2.0.1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dependencies() = %v, want %v", got, want)
	}
	for _, name := range []string{"grunt", "sails-hook-grunt"} {
		if _, ok := got[name]; ok {
			t.Errorf("%s present in frontendless app", name)
		}
	}
}

// TestAssembleExtraDependency verifies that override dependencies are added to the baseline.
func TestAssembleExtraDependency(t *testing.T) {
	s := sampleScope()
	s.PackageJSON = map[string]any{
		"dependencies": map[string]any{"extra-lib": "1.0.0"},
	}

	deps := mustAssemble(t, s).Dependencies()
	if deps["extra-lib"] != "1.0.0" {
		t.Errorf("extra-lib = %q, want %q", deps["extra-lib"], "1.0.0")
	}
	if len(deps) != 8 {
		t.Errorf("len(deps) = %d, want 8: %v", len(deps), deps)
	}
}

// TestAssembleRemovesFalseDependency verifies that a false override removes the key entirely.
func TestAssembleRemovesFalseDependency(t *testing.T) {
	s := sampleScope()
	s.PackageJSON = map[string]any{
		"dependencies": map[string]any{"lodash": false},
	}

	m := mustAssemble(t, s)
	raw := m["dependencies"].(map[string]any)
	if _, ok := raw["lodash"]; ok {
		t.Errorf("lodash still present: %v", raw)
	}
	if raw["async"] != "2.0.1" {
		t.Errorf("async = %v, want 2.0.1", raw["async"])
	}
}

// TestAssembleOverrideWinsOnScalars verifies override precedence over generated defaults.
func TestAssembleOverrideWinsOnScalars(t *testing.T) {
	s := sampleScope()
	s.PackageJSON = map[string]any{
		"version":      "1.0.0",
		"dependencies": map[string]any{"lodash": "4.17.21"},
		"scripts":      map[string]any{"lint": "eslint ."},
	}

	m := mustAssemble(t, s)
	if m["version"] != "1.0.0" {
		t.Errorf("version = %v, want 1.0.0", m["version"])
	}
	if got := m.Dependencies()["lodash"]; got != "4.17.21" {
		t.Errorf("lodash = %q, want 4.17.21", got)
	}
	scripts := m.Scripts()
	if scripts["lint"] != "eslint ." || scripts["start"] != "node app.js" {
		t.Errorf("scripts not merged key by key: %v", scripts)
	}
}

// TestAssembleOverrideWithoutDependenciesKeepsFalse verifies that pruning only
// runs when the overrides define dependencies.
func TestAssembleOverrideWithoutDependenciesKeepsFalse(t *testing.T) {
	s := sampleScope()
	s.PackageJSON = map[string]any{"private": false}

	m := mustAssemble(t, s)
	if m["private"] != false {
		t.Errorf("private = %v, want false", m["private"])
	}
	if len(m.Dependencies()) != 7 {
		t.Errorf("dependencies changed: %v", m.Dependencies())
	}
}

// TestAssembleSailsRange verifies the caret range built from sailsPackageJSON.
func TestAssembleSailsRange(t *testing.T) {
	m := mustAssemble(t, sampleScope())
	if got := m.Dependencies()["sails"]; got != "^1.2.3" {
		t.Errorf("dependencies.sails = %q, want %q", got, "^1.2.3")
	}
}

// TestAssembleAppPackageJSONWins verifies that appPackageJSON replaces only the fields it defines.
func TestAssembleAppPackageJSONWins(t *testing.T) {
	s := sampleScope()
	s.AppPackageJSON = map[string]any{"license": "MIT"}

	m := mustAssemble(t, s)
	if m["license"] != "MIT" {
		t.Errorf("license = %v, want MIT", m["license"])
	}

	d := mustAssemble(t, sampleScope())
	for k, v := range d {
		if k == "license" {
			continue
		}
		if !reflect.DeepEqual(m[k], v) {
			t.Errorf("%s = %v, want default %v", k, m[k], v)
		}
	}
}

// TestAssembleAppPackageJSONNotMerged verifies that appPackageJSON replaces a
// nested field wholesale instead of merging into it.
func TestAssembleAppPackageJSONNotMerged(t *testing.T) {
	s := sampleScope()
	s.AppPackageJSON = map[string]any{
		"dependencies": map[string]any{"express": "^4.0.0"},
	}

	deps := mustAssemble(t, s).Dependencies()
	if len(deps) != 1 || deps["express"] != "^4.0.0" {
		t.Errorf("Dependencies() = %v, want only express", deps)
	}
}

// TestAssembleDoesNotMutateScope verifies that the scope's maps are left untouched.
func TestAssembleDoesNotMutateScope(t *testing.T) {
	s := sampleScope()
	s.PackageJSON = map[string]any{"dependencies": map[string]any{"lodash": false}}
	s.AppPackageJSON = map[string]any{"license": "MIT"}

	m := mustAssemble(t, s)
	m["license"] = "ISC"
	m["dependencies"].(map[string]any)["async"] = "3.0.0"

	if s.AppPackageJSON["license"] != "MIT" {
		t.Error("appPackageJSON mutated")
	}
	if len(s.AppPackageJSON) != 1 {
		t.Errorf("appPackageJSON gained fields: %v", s.AppPackageJSON)
	}
	if s.PackageJSON["dependencies"].(map[string]any)["lodash"] != false {
		t.Error("packageJson mutated")
	}
	if _, ok := baseline["sails"]; ok {
		t.Error("baseline table mutated")
	}
	again := mustAssemble(t, sampleScope())
	if again.Dependencies()["async"] != "2.0.1" {
		t.Error("defaults shared between assemblies")
	}
}

// TestAssembleDefaults verifies the static and scope-derived fields.
func TestAssembleDefaults(t *testing.T) {
	m := mustAssemble(t, sampleScope())

	checks := map[string]any{
		"name":        "todo",
		"private":     true,
		"version":     "0.0.0",
		"description": "a Sails application",
		"main":        "app.js",
		"author":      "",
		"license":     "",
	}
	for k, want := range checks {
		if m[k] != want {
			t.Errorf("%s = %v, want %v", k, m[k], want)
		}
	}
	if kw, ok := m["keywords"].([]any); !ok || len(kw) != 0 {
		t.Errorf("keywords = %#v, want empty list", m["keywords"])
	}
	repo := m["repository"].(map[string]any)
	if repo["type"] != "git" || repo["url"] != "git://github.com/jo/todo.git" {
		t.Errorf("repository = %v", repo)
	}
}

// TestAssembleDescriptionAndAuthor verifies that scope values replace the fallbacks.
func TestAssembleDescriptionAndAuthor(t *testing.T) {
	s := sampleScope()
	s.Description = "Todo tracker"
	s.Author = "Jo Doe"

	m := mustAssemble(t, s)
	if m["description"] != "Todo tracker" {
		t.Errorf("description = %v", m["description"])
	}
	if m["author"] != "Jo Doe" {
		t.Errorf("author = %v", m["author"])
	}
}

// TestAssembleScripts verifies the start, debug and test scripts.
func TestAssembleScripts(t *testing.T) {
	scripts := mustAssemble(t, sampleScope()).Scripts()

	if scripts["start"] != "node app.js" {
		t.Errorf("start = %q", scripts["start"])
	}
	if scripts["debug"] != "node debug app.js" {
		t.Errorf("debug = %q", scripts["debug"])
	}
	const want = `echo && echo "* * * * * * * * * * * * * * * * * * * * * * * * * * * " && ` +
		`echo "About to run tests..." && echo && ` +
		`if node ./node_modules/mocha/bin/mocha --timeout 10000 ; then sleep 0.0001; else ` +
		`echo && echo && echo "- - -" && echo "Looks like something went wrong." && ` +
		`echo "|  If you are not sure what to do next, try:" && ` +
		`echo "|  npm install mocha@3.0.2 --save-dev --save-exact" && ` +
		`echo "|  " && echo "|  And then:" && echo "|  mkdir test/" && echo ; fi`
	if scripts["test"] != want {
		t.Errorf("test script =\n%q\nwant\n%q", scripts["test"], want)
	}
}

// TestAssembleNoVersionSource verifies the ConfigurationError when neither source is given.
func TestAssembleNoVersionSource(t *testing.T) {
	s := &scope.Scope{AppName: "todo"}
	m, err := Assemble(s)
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Assemble() error = %v, want *ConfigurationError", err)
	}
	if m != nil {
		t.Errorf("Assemble() returned manifest %v alongside error", m)
	}
}

// TestAssembleSailsRoot verifies the path-based version lookup.
func TestAssembleSailsRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name":"sails","version":"0.12.14"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m := mustAssemble(t, &scope.Scope{AppName: "todo", SailsRoot: root})
	if got := m.Dependencies()["sails"]; got != "^0.12.14" {
		t.Errorf("dependencies.sails = %q, want ^0.12.14", got)
	}
}

// TestAssembleExplicitPackageBeatsRoot verifies that sailsPackageJSON wins over sailsRoot.
func TestAssembleExplicitPackageBeatsRoot(t *testing.T) {
	s := sampleScope()
	s.SailsRoot = filepath.Join(t.TempDir(), "does-not-exist")

	m := mustAssemble(t, s)
	if got := m.Dependencies()["sails"]; got != "^1.2.3" {
		t.Errorf("dependencies.sails = %q, want ^1.2.3", got)
	}
}

// TestAssembleSailsRootMissing verifies that an unreadable root propagates the os error.
func TestAssembleSailsRootMissing(t *testing.T) {
	_, err := Assemble(&scope.Scope{AppName: "todo", SailsRoot: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Assemble() error = %v, want fs.ErrNotExist", err)
	}
}

// TestAssembleSailsRootCorrupt verifies that a corrupt package.json yields a ParseError.
func TestAssembleSailsRootCorrupt(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "package.json"), []byte("{not json"), 0o644)

	_, err := Assemble(&scope.Scope{AppName: "todo", SailsRoot: root})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Assemble() error = %v, want *ParseError", err)
	}
	if pe.Path != filepath.Join(root, "package.json") {
		t.Errorf("ParseError.Path = %q", pe.Path)
	}
}

// TestHostVersionMissingVersion verifies that a host package.json without a version is rejected.
func TestHostVersionMissingVersion(t *testing.T) {
	_, err := HostVersion(&scope.Scope{SailsPackageJSON: map[string]any{"name": "sails"}})
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Errorf("HostVersion() error = %v, want *ConfigurationError", err)
	}
}

// TestFrontendlessDependencies verifies the narrowing helper on its own.
func TestFrontendlessDependencies(t *testing.T) {
	got := FrontendlessDependencies(BaselineDependencies("^1.0.0"))
	if len(got) != 5 {
		t.Errorf("len = %d, want 5: %v", len(got), got)
	}
	if got["sails"] != "^1.0.0" {
		t.Errorf("sails = %q", got["sails"])
	}
}

// Package pm abstracts node package manager operations behind a common interface.
// Use Detect() to obtain the appropriate manager for the current environment.
package pm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Progress carries one line of package manager output.
type Progress struct {
	Line string
}

// InstalledPackage describes a package found in node_modules.
type InstalledPackage struct {
	Name    string
	Version string
}

// PackageManager abstracts npm/pnpm install operations.
// All methods run synchronously and stream progress via the channel.
// The caller closes the channel once the method returns.
type PackageManager interface {
	// Name returns "npm" or "pnpm".
	Name() string
	// Install installs pkgs into dir/node_modules. With no pkgs it installs
	// the dependencies declared in dir/package.json.
	Install(dir string, pkgs []string, progress chan<- Progress) error
	// Update refreshes installed packages within their declared ranges.
	// With no pkgs it updates every dependency in dir/package.json.
	Update(dir string, pkgs []string, progress chan<- Progress) error
	// ListInstalled returns packages installed in dir.
	ListInstalled(dir string) ([]InstalledPackage, error)
}

// Detect returns pnpm if available, otherwise npm.
func Detect() PackageManager {
	if _, err := exec.LookPath("pnpm"); err == nil {
		return &PnpmManager{}
	}
	return &NpmManager{}
}

// ByName returns the manager called name ("npm" or "pnpm"), or Detect()
// for an empty name.
func ByName(name string) (PackageManager, error) {
	switch name {
	case "":
		return Detect(), nil
	case "npm":
		return &NpmManager{}, nil
	case "pnpm":
		return &PnpmManager{}, nil
	}
	return nil, fmt.Errorf("unknown package manager %q (want npm or pnpm)", name)
}

// requirePackageJSON fails when dir has no package.json. The generated
// manifest is the source of truth, so none is synthesized here.
func requirePackageJSON(dir string) error {
	pkgPath := filepath.Join(dir, "package.json")
	if _, err := os.Stat(pkgPath); err != nil {
		return fmt.Errorf("no package.json in %s: %w", dir, err)
	}
	return nil
}

// run executes bin with args in dir, streaming stdout and stderr as
// progress lines.
func run(bin, dir string, args []string, progress chan<- Progress) error {
	if err := requirePackageJSON(dir); err != nil {
		return err
	}

	cmd := exec.Command(bin, args...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", bin, err)
	}

	done := make(chan struct{}, 2)
	pipe := func(r io.Reader) {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) != "" {
				progress <- Progress{Line: line}
			}
		}
		done <- struct{}{}
	}
	go pipe(stdout)
	go pipe(stderr)
	<-done
	<-done

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s %s: %w", bin, args[0], err)
	}
	return nil
}

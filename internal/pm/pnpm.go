package pm

import (
	"encoding/json"
	"fmt"
	"os/exec"
)

// PnpmManager implements PackageManager using pnpm.
type PnpmManager struct{}

func (p *PnpmManager) Name() string { return "pnpm" }

func (p *PnpmManager) Install(dir string, pkgs []string, progress chan<- Progress) error {
	// "pnpm add" requires at least one package; a bare install reads package.json.
	verb := "add"
	if len(pkgs) == 0 {
		verb = "install"
	}
	return run("pnpm", dir, installArgs(verb, "--dir", dir, pkgs), progress)
}

func (p *PnpmManager) Update(dir string, pkgs []string, progress chan<- Progress) error {
	return run("pnpm", dir, installArgs("update", "--dir", dir, pkgs), progress)
}

func (p *PnpmManager) ListInstalled(dir string) ([]InstalledPackage, error) {
	cmd := exec.Command("pnpm", "list", "--dir", dir, "--json", "--depth=0")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("pnpm list: %w", err)
	}
	return parsePnpmList(out)
}

func parsePnpmList(out []byte) ([]InstalledPackage, error) {
	// pnpm list --json returns an array
	var results []struct {
		Dependencies map[string]struct {
			Version string `json:"version"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal(out, &results); err != nil {
		return nil, err
	}

	var pkgList []InstalledPackage
	if len(results) > 0 {
		for name, dep := range results[0].Dependencies {
			pkgList = append(pkgList, InstalledPackage{
				Name:    name,
				Version: dep.Version,
			})
		}
	}
	return pkgList, nil
}

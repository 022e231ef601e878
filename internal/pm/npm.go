package pm

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// NpmManager implements PackageManager using npm.
type NpmManager struct{}

func (n *NpmManager) Name() string { return "npm" }

func (n *NpmManager) Install(dir string, pkgs []string, progress chan<- Progress) error {
	return run("npm", dir, installArgs("install", "--prefix", dir, pkgs), progress)
}

func (n *NpmManager) Update(dir string, pkgs []string, progress chan<- Progress) error {
	return run("npm", dir, installArgs("update", "--prefix", dir, pkgs), progress)
}

func (n *NpmManager) ListInstalled(dir string) ([]InstalledPackage, error) {
	nmDir := filepath.Join(dir, "node_modules")
	if _, err := os.Stat(nmDir); os.IsNotExist(err) {
		return nil, nil
	}

	cmd := exec.Command("npm", "list", "--prefix", dir, "--json", "--depth=0")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("npm list: %w", err)
	}
	return parseNpmList(out)
}

func parseNpmList(out []byte) ([]InstalledPackage, error) {
	var result struct {
		Dependencies map[string]struct {
			Version string `json:"version"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, err
	}

	pkgs := make([]InstalledPackage, 0, len(result.Dependencies))
	for name, dep := range result.Dependencies {
		pkgs = append(pkgs, InstalledPackage{Name: name, Version: dep.Version})
	}
	return pkgs, nil
}

// installArgs builds "<verb> <dirFlag> <dir> [pkgs...]".
func installArgs(verb, dirFlag, dir string, pkgs []string) []string {
	return append([]string{verb, dirFlag, dir}, pkgs...)
}

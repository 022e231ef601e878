// Package generator orchestrates a sails-new run: it assembles the
// package.json, writes the app files, optionally installs dependencies via
// a pm.PackageManager and records the run via the config package. It also
// re-syncs the dependencies of an already generated app.
package generator

import (
	"fmt"
	"time"

	"github.com/sailsgen/sails-new/internal/config"
	"github.com/sailsgen/sails-new/internal/logger"
	"github.com/sailsgen/sails-new/internal/manifest"
	"github.com/sailsgen/sails-new/internal/pm"
	"github.com/sailsgen/sails-new/internal/scaffold"
	"github.com/sailsgen/sails-new/internal/scope"
)

// Request holds what the user chose to generate.
type Request struct {
	AppDir  string
	Scope   *scope.Scope
	Install bool // run the package manager after writing files
	Force   bool // write into a non-empty AppDir
}

// Result is returned after a successful Generate.
type Result struct {
	AppDir      string
	Manifest    manifest.Manifest
	HostVersion string
	Files       []string
	RecordPath  string
	Installed   bool
	Duration    time.Duration
}

// Generator orchestrates app generation and dependency updates.
type Generator struct {
	PM     pm.PackageManager
	Log    *logger.Logger
	OnStep func(step, total int, label string) // called at each named stage
	OnLine func(line string)                   // called for each raw output line from pm
}

// Generate runs every stage of req in order and stops at the first failure.
func (g *Generator) Generate(req *Request) (*Result, error) {
	start := time.Now()

	total := 3
	if req.Install {
		total++
	}
	n := 0
	next := func(label string) {
		n++
		g.step(n, total, label)
	}

	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}

	next("Assembling package.json")
	hostVersion, err := manifest.HostVersion(req.Scope)
	if err != nil {
		return nil, err
	}
	m := manifest.Build(req.Scope, hostVersion)
	g.Log.Printf("  sails %s, %d dependencies", manifest.CaretRange(hostVersion), len(m.Dependencies()))

	next("Writing project files")
	written, err := scaffold.Write(req.AppDir, m, scaffold.Options{Force: req.Force})
	if err != nil {
		return nil, fmt.Errorf("write files: %w", err)
	}
	for _, f := range written.Files {
		g.Log.Printf("  created %s", f)
	}

	if req.Install {
		next(fmt.Sprintf("Installing dependencies via %s", g.PM.Name()))
		if err := g.installGroup(req.AppDir, nil); err != nil {
			return nil, fmt.Errorf("install: %w", err)
		}
	}

	next("Writing generation record")
	rec := config.NewRecord(req.AppDir, hostVersion, req.Scope)
	rec.Files = written.Files
	rec.Installed = req.Install
	if req.Install {
		rec.PM = g.PM.Name()
	}
	if err := config.Write(req.AppDir, rec); err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}

	return &Result{
		AppDir:      req.AppDir,
		Manifest:    m,
		HostVersion: hostVersion,
		Files:       written.Files,
		RecordPath:  config.RecordPath(req.AppDir),
		Installed:   req.Install,
		Duration:    time.Since(start),
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (g *Generator) step(n, total int, label string) {
	g.Log.Printf("[%d/%d] %s", n, total, label)
	if g.OnStep != nil {
		g.OnStep(n, total, label)
	}
}

// installGroup installs pkgs into dir, draining progress lines to the log
// and forwarding each line to OnLine if set.
// It waits for the drain goroutine to finish before returning so no output
// is lost even when the channel is buffered.
func (g *Generator) installGroup(dir string, pkgs []string) error {
	return g.runGroup(dir, pkgs, g.PM.Install)
}

// updateGroup refreshes pkgs in dir within their declared ranges.
func (g *Generator) updateGroup(dir string, pkgs []string) error {
	return g.runGroup(dir, pkgs, g.PM.Update)
}

// runGroup is the shared driver for package manager operations.
func (g *Generator) runGroup(dir string, pkgs []string, op func(string, []string, chan<- pm.Progress) error) error {
	ch := make(chan pm.Progress, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range ch {
			if p.Line == "" {
				continue
			}
			g.Log.Printf("  %s", p.Line)
			if g.OnLine != nil {
				g.OnLine(p.Line)
			}
		}
	}()
	err := op(dir, pkgs, ch)
	close(ch)
	<-done // wait for drain goroutine to flush all buffered lines
	return err
}

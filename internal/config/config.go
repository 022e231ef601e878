// Package config manages the generation record written to
// <appDir>/.sails-new/generate.json and the user defaults read from
// ~/.sails-new/config.yaml. The record is versioned to support
// forward-compatible migrations.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sailsgen/sails-new/internal/scope"
)

const (
	recordVersion = 1
	// StateDir holds the record and logs inside a generated app.
	StateDir   = ".sails-new"
	recordFile = "generate.json"
)

// Record is the persistent state of a generation run. It keeps the scope
// so the app's dependencies can be re-assembled later.
type Record struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	AppDir      string      `json:"appDir"`
	PM          string      `json:"pm,omitempty"`
	HostVersion string      `json:"hostVersion"`
	Scope       scope.Scope `json:"scope"`
	Files       []string    `json:"files"`
	Installed   bool        `json:"installed"`
	Version     int         `json:"version"`
}

// RecordPath returns the path of the record for the given app directory.
func RecordPath(appDir string) string {
	return filepath.Join(appDir, StateDir, recordFile)
}

// Write persists rec to <appDir>/.sails-new/generate.json.
func Write(appDir string, rec *Record) error {
	dir := filepath.Join(appDir, StateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if err := os.WriteFile(RecordPath(appDir), data, 0o600); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Read loads the record of a previously generated app.
func Read(appDir string) (*Record, error) {
	path := RecordPath(appDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no generation record at %s (was this app generated by sails-new?): %w", path, err)
		}
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	// Future: handle rec.Version < recordVersion migrations here.

	return &rec, nil
}

// NewRecord creates a fresh Record ready to be written.
func NewRecord(appDir, hostVersion string, s *scope.Scope) *Record {
	abs, _ := filepath.Abs(appDir)
	return &Record{
		Version:     recordVersion,
		AppDir:      abs,
		HostVersion: hostVersion,
		GeneratedAt: time.Now().UTC(),
		Scope:       *s.Clone(),
	}
}

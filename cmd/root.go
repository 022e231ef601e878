// Package cmd implements the sails-new CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// SetVersionInfo is called from main.go with values injected at build time via -ldflags.
// It must be called before Execute().
func SetVersionInfo(version, commit, date string) {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"sails-new %s (commit %s, built %s)\n", version, commit, date,
	))
	rootCmd.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "sails-new [app-dir]",
	Short: "Generate a new Sails application",
	Long: `sails-new generates the package.json and config/globals.js of a new
Sails application and keeps its dependencies in sync afterwards.

Examples:
  sails-new my-app --sails-version 1.5.12    interactive wizard
  sails-new my-app --yes --no-frontend       API-only app with defaults
  sails-new manifest --scope scope.yaml      print package.json only
  sails-new update my-app                    re-sync dependencies
  sails-new status my-app                    show generation record
  sails-new logs my-app                      show generation log`,
	RunE:         runGenerate,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "defaults file (default ~/.sails-new/config.yaml)")
}

// resolveAppDir returns the absolute app directory from the first argument,
// or the current directory when none is given.
func resolveAppDir(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve app dir: %w", err)
	}
	return cwd, nil
}

func configPath(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("config")
	return p
}

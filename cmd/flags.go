package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sailsgen/sails-new/internal/config"
	"github.com/sailsgen/sails-new/internal/scope"
	"github.com/sailsgen/sails-new/internal/wizard"
)

// scopeFlags are the scope fields that can be given on the command line.
// They override the same fields of a --scope file.
type scopeFlags struct {
	file         string
	name         string
	author       string
	description  string
	githubUser   string
	noFrontend   bool
	sailsRoot    string
	sailsVersion string
}

var flagScope scopeFlags

func (f *scopeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.file, "scope", "", "scope file (.json, .yaml or .yml)")
	fs.StringVar(&f.name, "name", "", "app name (default: app directory name)")
	fs.StringVar(&f.author, "author", "", "package.json author")
	fs.StringVar(&f.description, "description", "", "package.json description")
	fs.StringVar(&f.githubUser, "github-user", "", "GitHub username for the repository URL")
	fs.BoolVar(&f.noFrontend, "no-frontend", false, "leave out the Grunt asset pipeline")
	fs.StringVar(&f.sailsRoot, "sails-root", "", "Sails install directory to read the version from")
	fs.StringVar(&f.sailsVersion, "sails-version", "", "Sails version to depend on")
}

// scope loads the --scope file, if any, and applies the remaining flags.
func (f *scopeFlags) scope() (*scope.Scope, error) {
	s := &scope.Scope{}
	if f.file != "" {
		loaded, err := scope.Load(f.file)
		if err != nil {
			return nil, err
		}
		s = loaded
	}

	if f.name != "" {
		s.AppName = f.name
	}
	if f.author != "" {
		s.Author = f.author
	}
	if f.description != "" {
		s.Description = f.description
	}
	if f.githubUser != "" {
		s.GitHub.Username = f.githubUser
	}
	if f.noFrontend {
		s.Frontend = scope.Bool(false)
	}
	switch {
	case f.sailsVersion != "":
		s.SailsPackageJSON = map[string]any{"version": f.sailsVersion}
	case f.sailsRoot != "":
		s.SailsPackageJSON = nil
		s.SailsRoot = f.sailsRoot
	}
	return s, nil
}

// wizardOptions collects what the wizard needs from the flags, the
// defaults file and the app-dir argument.
func (f *scopeFlags) wizardOptions(cmd *cobra.Command, args []string) (wizard.Options, error) {
	s, err := f.scope()
	if err != nil {
		return wizard.Options{}, err
	}
	opts := wizard.Options{
		Scope:    s,
		Defaults: config.LoadDefaults(configPath(cmd)),
	}
	if len(args) > 0 {
		opts.DefaultAppDir, err = resolveAppDir(args)
		if err != nil {
			return wizard.Options{}, err
		}
	}
	return opts, nil
}

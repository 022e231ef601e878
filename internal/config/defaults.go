package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultsName = "config"
	defaultsType = "yaml"
	envPrefix    = "SAILS_NEW"
)

// Defaults pre-fill the wizard and the CLI flags.
type Defaults struct {
	Author         string
	GitHubUsername string
	SailsRoot      string
	SailsVersion   string
	Frontend       bool
	Install        bool
}

// Dir returns the user config directory (~/.sails-new).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return StateDir
	}
	return filepath.Join(home, StateDir)
}

// DefaultsPath returns ~/.sails-new/config.yaml.
func DefaultsPath() string {
	return filepath.Join(Dir(), defaultsName+"."+defaultsType)
}

// LoadDefaults reads the defaults file at path (DefaultsPath when empty)
// and SAILS_NEW_* environment variables, the latter taking precedence.
// A missing file is not an error.
//
//	author: Jo Doe
//	github:
//	  username: jo
//	sails:
//	  root: /usr/local/lib/node_modules/sails
//	frontend: true
func LoadDefaults(path string) Defaults {
	if path == "" {
		path = DefaultsPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(defaultsType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("frontend", true)
	v.SetDefault("install", false)

	// Ignore error if the file doesn't exist yet.
	_ = v.ReadInConfig()

	return Defaults{
		Author:         v.GetString("author"),
		GitHubUsername: v.GetString("github.username"),
		SailsRoot:      v.GetString("sails.root"),
		SailsVersion:   v.GetString("sails.version"),
		Frontend:       v.GetBool("frontend"),
		Install:        v.GetBool("install"),
	}
}

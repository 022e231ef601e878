// Package assets holds the static files copied verbatim into every
// generated application.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed templates
var templatesFS embed.FS

// Files returns every static file keyed by its path inside the app. The
// config/globals.js template ships with every global binding (lodash,
// async, models, sails) commented out.
func Files() (map[string][]byte, error) {
	out := make(map[string][]byte)
	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		out[strings.TrimPrefix(p, "templates/")] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read embedded assets: %w", err)
	}
	return out, nil
}

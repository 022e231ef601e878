package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sailsgen/sails-new/internal/manifest"
	"github.com/sailsgen/sails-new/internal/wizard"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the package.json that would be generated",
	Long: `Assembles package.json from the scope file, flags and user defaults
and prints it to stdout. No files are written.`,
	RunE: runManifest,
	Args: cobra.NoArgs,
}

// manifestScope is separate from flagScope so both commands can register
// the same flag names.
var manifestScope scopeFlags

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestScope.register(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	opts, err := manifestScope.wizardOptions(cmd, args)
	if err != nil {
		return err
	}
	opts.Yes = true

	req, err := wizard.Run(opts)
	if err != nil {
		return err
	}
	if err := req.Scope.Validate(); err != nil {
		return err
	}

	m, err := manifest.Assemble(req.Scope)
	if err != nil {
		return err
	}
	data, err := manifest.Encode(m)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

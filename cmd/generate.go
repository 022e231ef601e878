package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sailsgen/sails-new/internal/generator"
	"github.com/sailsgen/sails-new/internal/logger"
	"github.com/sailsgen/sails-new/internal/manifest"
	"github.com/sailsgen/sails-new/internal/pm"
	"github.com/sailsgen/sails-new/internal/wizard"
)

var (
	flagYes     bool
	flagInstall bool
	flagForce   bool
	flagPM      string
)

func init() {
	flagScope.register(rootCmd)
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "skip wizard and generate with defaults")
	rootCmd.Flags().BoolVar(&flagInstall, "install", false, "install dependencies after generating")
	rootCmd.Flags().BoolVar(&flagForce, "force", false, "write into a non-empty directory")
	rootCmd.Flags().StringVar(&flagPM, "pm", "", "package manager to install with: npm or pnpm (default: detect)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts, err := flagScope.wizardOptions(cmd, args)
	if err != nil {
		return err
	}
	opts.Install = flagInstall
	opts.Yes = flagYes

	// Show wizard or use defaults.
	req, err := wizard.Run(opts)
	if err != nil {
		return err // includes "cancelled"
	}
	req.Force = flagForce

	if err := os.MkdirAll(req.AppDir, 0o755); err != nil {
		return fmt.Errorf("create app dir: %w", err)
	}

	// The spinner owns the terminal; the log goes to the file only.
	log, err := logger.NewQuiet(req.AppDir)
	if err != nil {
		return err
	}
	defer log.Close()

	packageManager, err := pm.ByName(flagPM)
	if err != nil {
		return err
	}
	if req.Install {
		log.Printf("Using %s", packageManager.Name())
	}

	fmt.Println()
	sp := newSpinner(os.Stdout)

	g := &generator.Generator{
		PM:  packageManager,
		Log: log,
		OnStep: func(step, total int, label string) {
			sp.setLabel(fmt.Sprintf("[%d/%d] %s", step, total, label))
		},
		OnLine: func(line string) {
			sp.setDetail(line)
		},
	}

	sp.start()
	result, err := g.Generate(req)
	sp.stop(err)

	if err != nil {
		log.Printf("error: %v", err)
		var cfgErr *manifest.ConfigurationError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("%w (pass --sails-version or --sails-root)", err)
		}
		return fmt.Errorf("generation failed: %w (log: %s)", err, log.LogPath())
	}

	printSuccess(result)
	return nil
}

// ── success banner ────────────────────────────────────────────────────────────

func printSuccess(r *generator.Result) {
	ok := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	val := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Println()
	fmt.Println(ok.Render("✓ App generated") + dim.Render(fmt.Sprintf("  (%s)", r.Duration.Round(time.Millisecond))))
	fmt.Println()
	fmt.Printf("  App:       %s\n", val.Render(r.Manifest.Name()))
	fmt.Printf("  Directory: %s\n", val.Render(r.AppDir))
	fmt.Printf("  Sails:     %s\n", val.Render(manifest.CaretRange(r.HostVersion)))
	fmt.Printf("  Files:     %s\n", dim.Render(fmt.Sprint(r.Files)))
	fmt.Println()
	fmt.Printf("  %s\n", dim.Render("Next steps:"))
	fmt.Printf("    cd %s\n", r.AppDir)
	if !r.Installed {
		fmt.Printf("    npm install\n")
	}
	fmt.Printf("    sails lift\n")
	fmt.Println()
}

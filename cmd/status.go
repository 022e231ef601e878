package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sailsgen/sails-new/internal/config"
	"github.com/sailsgen/sails-new/internal/manifest"
	"github.com/sailsgen/sails-new/internal/pm"
	"github.com/sailsgen/sails-new/internal/scaffold"
)

var statusCmd = &cobra.Command{
	Use:   "status [app-dir]",
	Short: "Show generation status",
	RunE:  runStatus,
	Args:  cobra.MaximumNArgs(1),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	appDir, err := resolveAppDir(args)
	if err != nil {
		return err
	}

	rec, err := config.Read(appDir)
	if err != nil {
		return err
	}

	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	val := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	miss := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	frontend := "yes"
	if !rec.Scope.FrontendEnabled() {
		frontend = "no"
	}

	fmt.Println()
	fmt.Printf("  %s %s\n\n", label.Render("App:"), val.Render(rec.Scope.AppName))
	fmt.Printf("  %s %s\n", label.Render("Directory:"), val.Render(rec.AppDir))
	fmt.Printf("  %s %s\n", label.Render("Generated:"), rec.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  %s %s\n", label.Render("Sails:    "), manifest.CaretRange(rec.HostVersion))
	fmt.Printf("  %s %s\n", label.Render("Frontend: "), frontend)
	if rec.PM != "" {
		fmt.Printf("  %s %s\n", label.Render("PM:       "), rec.PM)
	}
	fmt.Println()

	current, err := scaffold.ReadPackageJSON(appDir)
	if err != nil {
		return err
	}
	deps := current.Dependencies()

	// Installed versions are only looked up when node_modules was populated.
	installed := map[string]string{}
	if rec.Installed {
		manager, err := pm.ByName(rec.PM)
		if err != nil {
			return err
		}
		pkgs, err := manager.ListInstalled(appDir)
		if err != nil {
			fmt.Printf("  %s\n\n", dimStr(fmt.Sprintf("could not list installed packages: %v", err)))
		}
		for _, p := range pkgs {
			installed[p.Name] = p.Version
		}
	}

	fmt.Printf("  %s\n", label.Render("Dependencies:"))
	for _, name := range slices.Sorted(maps.Keys(deps)) {
		mark := ok.Render("●")
		version := installed[name]
		if rec.Installed && version == "" {
			mark = miss.Render("○")
			version = "not installed"
		}
		fmt.Printf("    %s %-22s  %-10s  %s\n", mark, name, deps[name], dimStr(version))
	}

	fmt.Println()
	return nil
}

func dimStr(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(s)
}

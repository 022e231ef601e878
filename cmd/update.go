package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sailsgen/sails-new/internal/config"
	"github.com/sailsgen/sails-new/internal/generator"
	"github.com/sailsgen/sails-new/internal/logger"
	"github.com/sailsgen/sails-new/internal/pm"
)

var updateCmd = &cobra.Command{
	Use:   "update [app-dir]",
	Short: "Re-sync a generated app's dependencies",
	Long: `Re-assembles package.json from the scope recorded at generation time,
shows how the dependencies changed, and rewrites them after confirmation.
Fields other than dependencies, and dependencies you added yourself, are
left as they are. With --install and nothing to change, installed packages
are refreshed within their declared ranges.`,
	RunE: runUpdate,
	Args: cobra.MaximumNArgs(1),
}

var (
	flagUpdateSailsVersion string
	flagUpdateSailsRoot    string
	flagUpdateInstall      bool
	flagUpdateYes          bool
	flagUpdatePM           string
)

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&flagUpdateSailsVersion, "sails-version", "", "move to this Sails version")
	updateCmd.Flags().StringVar(&flagUpdateSailsRoot, "sails-root", "", "read the Sails version from this install directory")
	updateCmd.Flags().BoolVar(&flagUpdateInstall, "install", false, "install dependencies after updating")
	updateCmd.Flags().BoolVarP(&flagUpdateYes, "yes", "y", false, "apply without asking")
	updateCmd.Flags().StringVar(&flagUpdatePM, "pm", "", "package manager to install with (default: recorded, then detect)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	appDir, err := resolveAppDir(args)
	if err != nil {
		return err
	}

	rec, err := config.Read(appDir)
	if err != nil {
		return err
	}

	plan, err := generator.NewPlan(rec, flagUpdateSailsVersion, flagUpdateSailsRoot)
	if err != nil {
		return err
	}

	pmName := flagUpdatePM
	if pmName == "" {
		pmName = rec.PM
	}
	packageManager, err := pm.ByName(pmName)
	if err != nil {
		return err
	}

	log, err := logger.New(appDir)
	if err != nil {
		return err
	}
	defer log.Close()

	g := &generator.Generator{
		PM:  packageManager,
		Log: log,
	}

	fmt.Println("Checking for updates...")
	diff, err := g.Diff(appDir, plan)
	if err != nil {
		return err
	}

	if !diff.HasChanges() && !flagUpdateInstall {
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓ Already up to date"))
		return nil
	}

	if diff.HasChanges() {
		printDiff(diff)
		if !flagUpdateYes && !confirm("Apply updates? [Y/n] ") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	result, err := g.Update(appDir, plan, flagUpdateInstall)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	ok := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	done := "✓ Update complete"
	if result.Refreshed {
		done = "✓ Installed packages refreshed"
	}
	fmt.Printf("\n%s\n", ok.Render(done)+dim.Render(fmt.Sprintf("  (%s)", result.Duration.Round(100*time.Millisecond))))
	return nil
}

func printDiff(d *generator.DependencyDiff) {
	add := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	upd := lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	down := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	rem := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Println()
	for _, c := range d.Added {
		fmt.Printf("  %s  %s %s\n", add.Render("+"), c.Name, dim.Render(c.To))
	}
	for _, c := range d.Upgraded {
		fmt.Printf("  %s  %s %s\n", upd.Render("↑"), c.Name, dim.Render(c.From+" → "+c.To))
	}
	for _, c := range d.Downgraded {
		fmt.Printf("  %s  %s %s\n", down.Render("↓"), c.Name, dim.Render(c.From+" → "+c.To))
	}
	for _, c := range d.Changed {
		fmt.Printf("  %s  %s %s\n", upd.Render("~"), c.Name, dim.Render(c.From+" → "+c.To))
	}
	for _, c := range d.Removed {
		fmt.Printf("  %s  %s %s\n", rem.Render("-"), c.Name, dim.Render(c.From))
	}
	fmt.Println()
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	r := bufio.NewReader(os.Stdin)
	line, _ := r.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "" || line == "y" || line == "yes"
}

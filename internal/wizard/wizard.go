// Package wizard implements the interactive Bubble Tea TUI for sails-new.
// The wizard walks through three stages: app details (directory, name,
// description, author, GitHub user), options (frontend, dependency
// install), and a final confirmation screen.
// When Options.Yes is true, or stdin is not a terminal, the TUI is skipped
// and Run returns a Request built from the flags and user defaults.
package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/sailsgen/sails-new/internal/config"
	"github.com/sailsgen/sails-new/internal/generator"
	"github.com/sailsgen/sails-new/internal/scope"
)

// Options controls wizard behaviour.
type Options struct {
	// DefaultAppDir pre-fills the app directory input.
	DefaultAppDir string
	// Scope carries values from --scope and the flags. Its overrides and
	// Sails version source pass through the wizard untouched.
	Scope *scope.Scope
	// Defaults fill in whatever Scope leaves empty.
	Defaults config.Defaults
	// Install pre-selects the dependency install toggle.
	Install bool
	// Yes skips the TUI and returns defaults immediately.
	Yes bool
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run shows the interactive wizard and returns the generation request.
// If opts.Yes is true or stdin is not a terminal, returns defaults without
// launching the TUI.
func Run(opts Options) (*generator.Request, error) {
	if opts.Yes || !Interactive() {
		return defaultRequest(opts), nil
	}

	model := newModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	result := final.(wizardModel)
	if result.cancelled {
		return nil, fmt.Errorf("generation cancelled")
	}
	return result.toRequest(), nil
}

// ── styles ────────────────────────────────────────────────────────────────────

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = dimStyle
)

// ── model stages ─────────────────────────────────────────────────────────────

type stage int

const (
	stageDetails stage = iota // app dir, name, description, author, github user
	stageOptions              // frontend & install toggles
	stageConfirm              // confirm / cancel
)

// input indexes into wizardModel.inputs.
const (
	inputDir = iota
	inputName
	inputDescription
	inputAuthor
	inputGitHub
	inputCount
)

var inputLabels = [inputCount]struct{ title, hint string }{
	{"App directory", "Where package.json and config/ are written"},
	{"App name", "The package.json name"},
	{"Description", "Leave empty for \"a Sails application\""},
	{"Author", "Optional"},
	{"GitHub username", "Used for the repository URL"},
}

type toggle struct {
	id      string
	desc    string
	checked bool
}

const (
	toggleFrontend = iota
	toggleInstall
)

type wizardModel struct {
	base        *scope.Scope
	errMsg      string
	inputs      []textinput.Model
	toggles     []toggle
	stage       stage
	activeInput int
	cursor      int
	cancelled   bool
	confirmed   bool
}

func newModel(opts Options) wizardModel {
	req := defaultRequest(opts)
	s := req.Scope

	values := [inputCount]string{
		inputDir:         req.AppDir,
		inputName:        s.AppName,
		inputDescription: s.Description,
		inputAuthor:      s.Author,
		inputGitHub:      s.GitHub.Username,
	}
	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		ti := textinput.New()
		ti.SetValue(values[i])
		ti.Width = 50
		inputs[i] = ti
	}
	inputs[inputDir].Placeholder = "~/projects/my-app"
	inputs[inputName].Placeholder = "my-app"
	inputs[inputDir].Focus()

	toggles := []toggle{
		toggleFrontend: {id: "frontend", desc: "Grunt asset pipeline and sails-hook-grunt", checked: s.FrontendEnabled()},
		toggleInstall:  {id: "install", desc: "Install dependencies after generating", checked: req.Install},
	}

	return wizardModel{
		base:    s,
		stage:   stageDetails,
		inputs:  inputs,
		toggles: toggles,
	}
}

// ── tea.Model interface ───────────────────────────────────────────────────────

func (m wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	// forward to active input
	var cmd tea.Cmd
	if m.stage == stageDetails {
		m.inputs[m.activeInput], cmd = m.inputs[m.activeInput].Update(msg)
	}
	return m, cmd
}

func (m wizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageDetails:
		return m.handleDetailsKey(msg)
	case stageOptions:
		return m.handleOptionsKey(msg)
	case stageConfirm:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

func (m wizardModel) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "tab", "down":
		m.focus((m.activeInput + 1) % inputCount)
		return m, textinput.Blink
	case "shift+tab", "up":
		m.focus((m.activeInput + inputCount - 1) % inputCount)
		return m, textinput.Blink
	case "enter":
		if err := m.validateDetails(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.stage = stageOptions
		m.cursor = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.activeInput], cmd = m.inputs[m.activeInput].Update(msg)
	return m, cmd
}

func (m wizardModel) handleOptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.toggles)-1 {
			m.cursor++
		}
	case " ":
		m.toggles[m.cursor].checked = !m.toggles[m.cursor].checked
	case "enter":
		m.stage = stageConfirm
	}
	return m, nil
}

func (m wizardModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "n", "N":
		m.cancelled = true
		return m, tea.Quit
	case "enter", "y", "Y":
		m.confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *wizardModel) focus(i int) {
	m.inputs[m.activeInput].Blur()
	m.activeInput = i
	m.inputs[i].Focus()
}

func (m wizardModel) validateDetails() error {
	if strings.TrimSpace(m.inputs[inputDir].Value()) == "" {
		return fmt.Errorf("app directory is required")
	}
	if strings.TrimSpace(m.inputs[inputName].Value()) == "" {
		return fmt.Errorf("app name is required")
	}
	return nil
}

// ── View ──────────────────────────────────────────────────────────────────────

func (m wizardModel) View() string {
	switch m.stage {
	case stageDetails:
		return m.viewDetails()
	case stageOptions:
		return m.viewOptions()
	case stageConfirm:
		return m.viewConfirm()
	}
	return ""
}

func (m wizardModel) viewDetails() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("  sails-new") + "  new Sails app\n\n")

	for i, in := range m.inputs {
		b.WriteString("  " + sectionStyle.Render(inputLabels[i].title) + "\n")
		b.WriteString("  " + in.View() + "\n")
		b.WriteString(dimStyle.Render("  "+inputLabels[i].hint) + "\n\n")
	}

	if m.errMsg != "" {
		b.WriteString("  " + errorStyle.Render("✖ "+m.errMsg) + "\n\n")
	}

	b.WriteString(helpStyle.Render("  tab next field · enter continue · esc quit"))
	return b.String()
}

func (m wizardModel) viewOptions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("  sails-new") + "  options\n\n")

	for i, t := range m.toggles {
		b.WriteString(m.renderToggle(i, t))
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("  ↑↓ move · space toggle · enter continue · esc quit"))
	return b.String()
}

func (m wizardModel) renderToggle(idx int, t toggle) string {
	cursor := "  "
	if idx == m.cursor {
		cursor = focusStyle.Render(" ▶")
	}
	check := "○"
	style := normalStyle
	if t.checked {
		check = selectedStyle.Render("◉")
		style = selectedStyle
	}
	return fmt.Sprintf("%s %s  %-10s  %s\n",
		cursor, check,
		style.Render(t.id),
		dimStyle.Render(t.desc),
	)
}

func (m wizardModel) viewConfirm() string {
	req := m.toRequest()
	var b strings.Builder
	b.WriteString(titleStyle.Render("  sails-new") + "  ready to generate\n\n")
	b.WriteString(fmt.Sprintf("  App:       %s\n", focusStyle.Render(req.Scope.AppName)))
	b.WriteString(fmt.Sprintf("  Directory: %s\n", focusStyle.Render(req.AppDir)))
	if req.Scope.GitHub.Username != "" {
		b.WriteString(fmt.Sprintf("  GitHub:    %s\n", focusStyle.Render(req.Scope.GitHub.Username)))
	}

	var opts []string
	if req.Scope.FrontendEnabled() {
		opts = append(opts, "frontend")
	}
	if req.Install {
		opts = append(opts, "install")
	}
	if len(opts) > 0 {
		b.WriteString("  Options:   " + strings.Join(opts, ", ") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("  Press enter to generate · n to cancel"))
	return b.String()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (m wizardModel) toRequest() *generator.Request {
	s := m.base.Clone()
	s.AppName = strings.TrimSpace(m.inputs[inputName].Value())
	s.Description = strings.TrimSpace(m.inputs[inputDescription].Value())
	s.Author = strings.TrimSpace(m.inputs[inputAuthor].Value())
	s.GitHub.Username = strings.TrimSpace(m.inputs[inputGitHub].Value())
	s.Frontend = nil
	if !m.toggles[toggleFrontend].checked {
		s.Frontend = scope.Bool(false)
	}
	return &generator.Request{
		AppDir:  expandHome(strings.TrimSpace(m.inputs[inputDir].Value())),
		Scope:   s,
		Install: m.toggles[toggleInstall].checked,
	}
}

func defaultRequest(opts Options) *generator.Request {
	s := &scope.Scope{}
	if opts.Scope != nil {
		s = opts.Scope.Clone()
	}
	d := opts.Defaults

	appDir := opts.DefaultAppDir
	if appDir == "" && s.AppName != "" {
		appDir = s.AppName
	}
	if appDir == "" {
		appDir, _ = os.Getwd()
	}
	appDir = expandHome(appDir)
	if abs, err := filepath.Abs(appDir); err == nil {
		appDir = abs
	}

	if s.AppName == "" {
		s.AppName = filepath.Base(appDir)
	}
	if s.Author == "" {
		s.Author = d.Author
	}
	if s.GitHub.Username == "" {
		s.GitHub.Username = d.GitHubUsername
	}
	if s.Frontend == nil && !d.Frontend {
		s.Frontend = scope.Bool(false)
	}
	if s.SailsPackageJSON == nil && s.SailsRoot == "" {
		switch {
		case d.SailsVersion != "":
			s.SailsPackageJSON = map[string]any{"version": d.SailsVersion}
		case d.SailsRoot != "":
			s.SailsRoot = d.SailsRoot
		}
	}

	return &generator.Request{
		AppDir:  appDir,
		Scope:   s,
		Install: opts.Install || d.Install,
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

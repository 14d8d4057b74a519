package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runcoach/internal/coaching"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Keyboard Shortcuts"))

	sections = append(sections, m.renderSection("Replay", []keyHelp{
		{"space", "Pause / resume"},
		{"r", "Restart from the first sample"},
		{"j/k or arrows", "Scroll the decision feed"},
	}))

	sections = append(sections, m.renderSection("General", []keyHelp{
		{"?", "Help (this screen)"},
		{"esc", "Back / close help"},
		{"q", "Quit"},
	}))

	sections = append(sections, m.renderStatesHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderStatesHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Run States"))
	lines = append(lines, "")

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	for _, s := range coaching.AllStates() {
		if !s.Reachable() {
			continue
		}
		intent := coaching.IntentFor(s)
		lines = append(lines, "  "+helpKeyStyle.Render(s.String())+"  "+urgencyStyle(intent.Urgency).Render(intent.String()))
		lines = append(lines, "  "+mutedStyle.Render(coaching.ReasonFor(s)))
	}

	return strings.Join(lines, "\n")
}

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runcoach/internal/scenario"
	"runcoach/internal/service"
	"runcoach/internal/telemetry"
)

// Screen identifiers
type Screen int

const (
	ScreenReplay Screen = iota
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen Screen

	// Screen models
	replay ReplayModel
	help   HelpModel

	scenarioName string

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App replaying sc through the coaching service
func NewApp(cs *service.CoachService, sc *scenario.Scenario, units telemetry.Units, tick time.Duration) *App {
	return &App{
		screen:       ScreenReplay,
		replay:       NewReplayModel(cs, sc, units, tick),
		help:         NewHelpModel(),
		scenarioName: sc.Name,
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.replay.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "?":
			a.screen = ScreenHelp
			return a, nil
		case "esc":
			if a.screen == ScreenHelp {
				a.screen = ScreenReplay
				return a, nil
			}
		}
		if a.screen == ScreenHelp {
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case ReplayDoneMsg:
		if msg.Err != nil {
			a.status = "Journal error: " + msg.Err.Error()
		} else {
			a.status = "Replay complete. Press r to run it again."
		}
		return a, nil
	}

	// Timer and size messages always reach the replay, even behind help
	var m tea.Model
	var cmd tea.Cmd
	m, cmd = a.replay.Update(msg)
	a.replay = m.(ReplayModel)
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "r" {
		a.status = ""
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := headerStyle.Render("runcoach  " + a.scenarioName)

	var content string
	switch a.screen {
	case ScreenReplay:
		content = a.replay.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, a.renderFooter())
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

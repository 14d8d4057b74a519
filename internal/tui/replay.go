package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"runcoach/internal/coaching"
	"runcoach/internal/scenario"
	"runcoach/internal/service"
	"runcoach/internal/telemetry"
)

const (
	feedHeight     = 8
	chartPoints    = 60
	minChartPoints = 3
)

// ReplayModel steps a scenario through the coaching service on a timer
type ReplayModel struct {
	coachService *service.CoachService
	scenario     *scenario.Scenario
	units        telemetry.Units
	tick         time.Duration

	index    int // next sample to process
	gen      int // bumps on restart and resume so stale ticks are dropped
	started  bool
	paused   bool
	done     bool
	last     *service.Step
	decision *coaching.Output
	emitted  int
	withheld int
	paces    []float64
	feed     []string
	err      error

	viewport viewport.Model
	width    int
}

// NewReplayModel creates a replay viewer for a scenario
func NewReplayModel(cs *service.CoachService, sc *scenario.Scenario, units telemetry.Units, tick time.Duration) ReplayModel {
	if tick <= 0 {
		tick = 500 * time.Millisecond
	}
	return ReplayModel{
		coachService: cs,
		scenario:     sc,
		units:        units,
		tick:         tick,
		viewport:     viewport.New(80, feedHeight),
		width:        80,
	}
}

type replayStartedMsg struct {
	err error
}

type replayTickMsg struct {
	gen int
}

// ReplayDoneMsg is sent when the last sample has been processed
type ReplayDoneMsg struct {
	Err error
}

// Init starts a journal session for the replay
func (m ReplayModel) Init() tea.Cmd {
	return m.start
}

func (m ReplayModel) start() tea.Msg {
	sc := m.scenario
	var startedAt time.Time
	if len(sc.Samples) > 0 {
		first := sc.Samples[0]
		startedAt = first.Timestamp.Add(-time.Duration(first.ElapsedSec * float64(time.Second)))
	}
	_, err := m.coachService.StartSession(context.Background(), sc.Name, sc.Name, sc.Profile, startedAt)
	return replayStartedMsg{err: err}
}

func (m ReplayModel) scheduleTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return replayTickMsg{gen: gen}
	})
}

// Update handles messages
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replayStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.started = true
		return m, m.scheduleTick()

	case replayTickMsg:
		if msg.gen != m.gen || m.paused || m.done || !m.started {
			return m, nil
		}
		return m.advance()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case " ", "space":
			if m.done || !m.started {
				return m, nil
			}
			m.paused = !m.paused
			if !m.paused {
				m.gen++
				return m, m.scheduleTick()
			}
			return m, nil
		case "r":
			return m.restart()
		}
	}

	// Feed scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// advance processes the next sample
func (m ReplayModel) advance() (tea.Model, tea.Cmd) {
	samples := m.scenario.Samples
	if m.index >= len(samples) {
		return m.finish()
	}

	step, err := m.coachService.Process(context.Background(), samples[m.index])
	if err != nil {
		m.err = err
		m.done = true
		return m, nil
	}
	m.index++
	m.last = &step
	m.paces = append(m.paces, step.Metrics.CurrentPaceSecPerKm)

	if step.Emitted {
		m.emitted++
		out := step.Output
		m.decision = &out
		m.feed = append(m.feed, m.feedLine(step))
		m.viewport.SetContent(strings.Join(m.feed, "\n"))
		m.viewport.GotoBottom()
	} else {
		m.withheld++
	}

	if m.index >= len(samples) {
		return m.finish()
	}
	return m, m.scheduleTick()
}

func (m ReplayModel) finish() (tea.Model, tea.Cmd) {
	m.done = true
	var last time.Time
	if n := len(m.scenario.Samples); n > 0 {
		last = m.scenario.Samples[n-1].Timestamp
	}
	err := m.coachService.FinishSession(context.Background(), last)
	if err != nil {
		m.err = err
	}
	return m, func() tea.Msg { return ReplayDoneMsg{Err: err} }
}

// restart drops progress and opens a new session
func (m ReplayModel) restart() (tea.Model, tea.Cmd) {
	if m.started && !m.done {
		// close the abandoned session so the journal keeps its counters
		if err := m.coachService.FinishSession(context.Background(), time.Time{}); err != nil {
			m.err = err
			m.done = true
			return m, nil
		}
	}
	m.gen++
	m.index = 0
	m.started = false
	m.paused = false
	m.done = false
	m.last = nil
	m.decision = nil
	m.emitted = 0
	m.withheld = 0
	m.paces = nil
	m.feed = nil
	m.err = nil
	m.viewport.SetContent("")
	return m, m.start
}

func (m ReplayModel) feedLine(step service.Step) string {
	out := step.Output
	return fmt.Sprintf("[%s] %-13s %s %3.0f%%  %s",
		telemetry.FormatClock(step.Metrics.ElapsedSec),
		out.State,
		urgencyStyle(out.Intent.Urgency).Render(out.Intent.String()),
		out.Confidence*100,
		helpDescStyle.Render(out.Reason),
	)
}

// View renders the replay screen
func (m ReplayModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if !m.started && m.last == nil {
		return "\n  Starting replay..."
	}

	var sections []string

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderMetrics(), "  ", m.renderDecision())
	sections = append(sections, top)

	sections = append(sections, cardTitleStyle.Render("Decisions"))
	sections = append(sections, m.viewport.View())

	if chart := m.renderPaceChart(); chart != "" {
		sections = append(sections, chart)
	}

	sections = append(sections, m.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ReplayModel) renderMetrics() string {
	var lines []string
	lines = append(lines, cardTitleStyle.Render("Run"))

	if m.last == nil {
		lines = append(lines, helpDescStyle.Render("waiting for first sample"))
		return cardStyle.Render(strings.Join(lines, "\n"))
	}

	mt := m.last.Metrics
	lines = append(lines,
		RenderMetric("Elapsed", telemetry.FormatClock(mt.ElapsedSec), ""),
		RenderMetric("Distance", m.units.FormatDistance(mt.DistanceMeters), ""),
		RenderMetric("Pace", m.units.FormatPaceWithUnit(mt.CurrentPaceSecPerKm), signed(mt.PaceDelta30s, "s")),
		RenderMetric("Avg pace", m.units.FormatPaceWithUnit(mt.AvgPaceSecPerKm), ""),
		RenderMetric("Speed", fmt.Sprintf("%.2f m/s", mt.SpeedMps), ""),
		RenderMetric("Elevation", fmt.Sprintf("%.0f m", mt.ElevationMeters), signed(mt.ElevationDelta30s, "m")),
		"",
		RenderMetric("State", m.last.State.String(), ""),
		RenderMetric("Effort", string(m.last.Effort), ""),
	)
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// signed formats a 30s delta, empty when flat
func signed(v float64, unit string) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%+.0f%s/30s", v, unit)
}

func (m ReplayModel) renderDecision() string {
	var lines []string
	lines = append(lines, cardTitleStyle.Render("Coach"))

	if m.decision == nil {
		lines = append(lines, helpDescStyle.Render("nothing said yet"))
		return cardStyle.Render(strings.Join(lines, "\n"))
	}

	d := m.decision
	style := urgencyStyle(d.Intent.Urgency)
	lines = append(lines,
		RenderMetric("Goal", string(d.Intent.Goal), ""),
		RenderMetric("Tone", string(d.Intent.Tone), ""),
		RenderMetric("Urgency", style.Render(string(d.Intent.Urgency)), ""),
		RenderMetric("Confidence", fmt.Sprintf("%.0f%%", d.Confidence*100), ""),
		RenderProgressBar(d.Confidence, 30),
		"",
		helpDescStyle.Render(d.Reason),
	)
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m ReplayModel) renderPaceChart() string {
	data := downsample(m.units.ConvertPaceSeries(m.paces), chartPoints)
	if len(data) < minChartPoints {
		return ""
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(chartPoints),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("Pace (%s)", m.units.PaceLabel())),
	)
	return "\n" + chart
}

func (m ReplayModel) renderStatus() string {
	total := len(m.scenario.Samples)
	pct := 0.0
	if total > 0 {
		pct = float64(m.index) / float64(total)
	}

	state := "playing"
	switch {
	case m.done:
		state = "finished"
	case m.paused:
		state = "paused"
	}

	line := fmt.Sprintf("  %s %d/%d  %s  spoke %d, withheld %d",
		RenderProgressBar(pct, 30), m.index, total, state, m.emitted, m.withheld)
	keys := "  " + strings.Join([]string{
		RenderKeyHelp("space", "pause"),
		RenderKeyHelp("r", "restart"),
		RenderKeyHelp("?", "help"),
		RenderKeyHelp("q", "quit"),
	}, "  ")
	return statusStyle.Render(line) + "\n" + keys
}

// downsample averages data into at most targetLen buckets, skipping zeros
func downsample(data []float64, targetLen int) []float64 {
	if len(data) <= targetLen {
		return data
	}

	result := make([]float64, targetLen)
	ratio := float64(len(data)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(data) {
			end = len(data)
		}

		sum := 0.0
		count := 0
		for j := start; j < end; j++ {
			if data[j] > 0 {
				sum += data[j]
				count++
			}
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}
	return result
}

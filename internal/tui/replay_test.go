package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runcoach/internal/coaching"
	"runcoach/internal/config"
	"runcoach/internal/scenario"
	"runcoach/internal/service"
	"runcoach/internal/store"
	"runcoach/internal/telemetry"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keySpace = tea.KeyMsg{Type: tea.KeySpace}

func newTestReplay(t *testing.T, name string) ReplayModel {
	t.Helper()

	sc, ok := scenario.Builtin(name)
	require.True(t, ok)

	svc := service.NewCoachService(nil, coaching.DefaultCooldowns(), nil)
	units := telemetry.NewUnits(config.DefaultConfig().Display)
	m := NewReplayModel(svc, sc, units, time.Millisecond)

	return update(t, m, m.Init()())
}

func update(t *testing.T, m ReplayModel, msg tea.Msg) ReplayModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(ReplayModel)
}

func tick(t *testing.T, m ReplayModel) ReplayModel {
	t.Helper()
	return update(t, m, replayTickMsg{gen: m.gen})
}

func TestReplayStepsThroughScenario(t *testing.T) {
	m := newTestReplay(t, "cooldown")
	require.True(t, m.started)
	assert.Contains(t, m.View(), "nothing said yet")

	for i := 0; i < 5; i++ {
		m = tick(t, m)
	}

	assert.True(t, m.done)
	assert.Equal(t, 5, m.index)
	assert.Equal(t, 1, m.emitted)
	assert.Equal(t, 4, m.withheld)
	require.NotNil(t, m.decision)
	assert.Equal(t, coaching.StateSteady, m.decision.State)
	assert.Len(t, m.feed, 1)

	view := m.View()
	assert.Contains(t, view, "finished")
	assert.Contains(t, view, "STEADY")
	assert.Contains(t, view, "5:00/km")

	// further ticks are ignored
	m = tick(t, m)
	assert.Equal(t, 5, m.index)
}

func TestReplayFinishEmitsDone(t *testing.T) {
	m := newTestReplay(t, "fast-start")

	m = tick(t, m)
	next, cmd := m.Update(replayTickMsg{gen: m.gen})
	m = next.(ReplayModel)

	require.NotNil(t, cmd)
	done, ok := cmd().(ReplayDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.Err)
	assert.True(t, m.done)
}

func TestReplayPauseResume(t *testing.T) {
	m := newTestReplay(t, "hit-the-wall")
	m = tick(t, m)
	require.Equal(t, 1, m.index)

	m = update(t, m, keySpace)
	assert.True(t, m.paused)
	assert.Contains(t, m.View(), "paused")

	m = tick(t, m)
	assert.Equal(t, 1, m.index, "paused replay ignores ticks")

	staleGen := m.gen
	next, cmd := m.Update(keySpace)
	m = next.(ReplayModel)
	assert.False(t, m.paused)
	assert.NotNil(t, cmd, "resume schedules a tick")

	m = update(t, m, replayTickMsg{gen: staleGen})
	assert.Equal(t, 1, m.index, "ticks from before the resume are dropped")

	m = tick(t, m)
	assert.Equal(t, 2, m.index)
}

func TestReplayRestart(t *testing.T) {
	m := newTestReplay(t, "hit-the-wall")
	for i := 0; i < 4; i++ {
		m = tick(t, m)
	}
	require.True(t, m.done)
	require.Equal(t, 3, m.emitted)

	next, cmd := m.Update(keyRunes("r"))
	m = next.(ReplayModel)
	assert.False(t, m.done)
	assert.Zero(t, m.index)
	assert.Empty(t, m.feed)
	assert.Nil(t, m.decision)
	require.NotNil(t, cmd)

	m = update(t, m, cmd())
	require.True(t, m.started)

	// the engine starts over, so the first snapshot speaks again
	m = tick(t, m)
	assert.Equal(t, 1, m.emitted)
}

func TestReplayRestartReportsJournalError(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)

	sc, _ := scenario.Builtin("hit-the-wall")
	svc := service.NewCoachService(st, coaching.DefaultCooldowns(), nil)
	m := NewReplayModel(svc, sc, telemetry.NewUnits(config.DefaultConfig().Display), time.Millisecond)
	m = update(t, m, m.Init()())
	m = tick(t, m)
	require.NoError(t, m.err)

	// the abandoned session cannot be closed once the journal is gone
	require.NoError(t, st.Close())

	next, cmd := m.Update(keyRunes("r"))
	m = next.(ReplayModel)
	assert.Nil(t, cmd, "no new session after a failed close")
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error")
}

func TestReplayChartNeedsPoints(t *testing.T) {
	m := newTestReplay(t, "hit-the-wall")
	m = tick(t, m)
	m = tick(t, m)
	assert.Empty(t, m.renderPaceChart())

	m = tick(t, m)
	assert.Contains(t, m.renderPaceChart(), "Pace (min/km)")
}

func TestDownsample(t *testing.T) {
	data := []float64{1, 1, 2, 2, 0, 0, 4, 6}
	assert.Equal(t, []float64{1, 2, 0, 5}, downsample(data, 4))
	assert.Equal(t, data, downsample(data, 10))
}

func TestAppKeys(t *testing.T) {
	sc, _ := scenario.Builtin("cooldown")
	svc := service.NewCoachService(nil, coaching.DefaultCooldowns(), nil)
	app := NewApp(svc, sc, telemetry.NewUnits(config.DefaultConfig().Display), time.Millisecond)

	app.Update(app.Init()())
	assert.Contains(t, app.View(), "runcoach  cooldown")

	app.Update(keyRunes("?"))
	assert.Equal(t, ScreenHelp, app.screen)
	view := app.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "UPHILL")
	assert.False(t, strings.Contains(view, "FINISHING"), "unreachable states are not listed")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenReplay, app.screen)

	app.Update(ReplayDoneMsg{})
	assert.Contains(t, app.View(), "Replay complete")

	_, cmd := app.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

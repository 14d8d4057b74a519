package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	_ "modernc.org/sqlite"

	"runcoach/internal/coaching"
	"runcoach/internal/scenario"
	"runcoach/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// openTestStore creates an in-memory journal with migrations applied
func openTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	st, err := store.NewTestStore(db)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func mustScenario(t *testing.T, name string) *scenario.Scenario {
	t.Helper()
	sc, ok := scenario.Builtin(name)
	require.True(t, ok, "builtin %q", name)
	return sc
}

// drain runs a replay in the background the way the CLI does
func drain(ctx context.Context, t *testing.T, svc *CoachService, sc *scenario.Scenario) (*ReplayResult, []ReplayProgress, error) {
	t.Helper()

	progress := make(chan ReplayProgress)
	type outcome struct {
		result *ReplayResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		r, err := svc.Replay(ctx, sc, progress)
		done <- outcome{r, err}
	}()

	var seen []ReplayProgress
	for p := range progress {
		seen = append(seen, p)
	}
	o := <-done
	return o.result, seen, o.err
}

func TestReplayHitTheWall(t *testing.T) {
	st := openTestStore(t)
	svc := NewCoachService(st, coaching.DefaultCooldowns(), nil)
	ctx := context.Background()

	result, seen, err := drain(ctx, t, svc, mustScenario(t, "hit-the-wall"))
	require.NoError(t, err)

	require.Len(t, seen, 4)
	assert.Equal(t, 3, seen[3].Index)
	assert.Equal(t, 4, seen[3].Total)

	assert.Equal(t, 4, result.Samples)
	assert.Equal(t, 3, result.Emitted)
	assert.Equal(t, 1, result.Withheld, "repeated struggling intent is suppressed")
	assert.Equal(t, map[coaching.State]int{
		coaching.StateSteady:      1,
		coaching.StateSlowingDown: 1,
		coaching.StateStruggling:  2,
	}, result.StateCounts)
	assert.Equal(t, 25.0, result.SteadyPercent())
	assert.Equal(t, 25*time.Minute, result.Duration)
	assert.Equal(t, "Hit the wall", result.Pacing.Assessment)
	assert.Len(t, result.Pacing.Splits, 6)

	var states []coaching.State
	for _, d := range result.Decisions {
		states = append(states, d.State)
	}
	assert.Equal(t, []coaching.State{
		coaching.StateSteady,
		coaching.StateSlowingDown,
		coaching.StateStruggling,
	}, states)

	// the last snapshot was classified but not spoken
	assert.Equal(t, coaching.StateStruggling, seen[3].Step.State)
	assert.False(t, seen[3].Step.Emitted)

	// journal mirrors the replay
	sess, err := st.GetSession(ctx, result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "hit-the-wall", sess.Source)
	require.NotNil(t, sess.FinishedAt)
	assert.Equal(t, 25*time.Minute, sess.Duration(), "session spans run start to last sample")
	assert.Equal(t, 3, sess.Emitted)
	assert.Equal(t, 1, sess.Withheld)

	decisions, err := st.ListDecisions(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, decisions, 3)
	assert.Equal(t, "STRUGGLING", decisions[2].State)
	assert.Equal(t, "stay_calm", decisions[2].Goal)
	assert.Equal(t, 1200.0, decisions[2].ElapsedSec)
}

func TestReplayCooldownUsesSampleTime(t *testing.T) {
	svc := NewCoachService(nil, coaching.DefaultCooldowns(), nil)

	result, err := svc.Replay(context.Background(), mustScenario(t, "cooldown"), nil)
	require.NoError(t, err)

	// five snapshots 3s apart: only the first clears the 60s low cooldown
	assert.Equal(t, 5, result.Samples)
	assert.Equal(t, 1, result.Emitted)
	assert.Equal(t, 4, result.Withheld)
	assert.Equal(t, 100.0, result.SteadyPercent())
	assert.Equal(t, "Well paced: steady for 100% of the run", Summarize(result))
}

func TestReplayShortCooldowns(t *testing.T) {
	cd := coaching.Cooldowns{Low: 2 * time.Second, Medium: 2 * time.Second, High: 2 * time.Second}
	svc := NewCoachService(nil, cd, nil)

	result, err := svc.Replay(context.Background(), mustScenario(t, "cooldown"), nil)
	require.NoError(t, err)

	// cooldown passes every time but the intent never changes
	assert.Equal(t, 1, result.Emitted)
	assert.Equal(t, 4, result.Withheld)
}

func TestReplayGPSLoop(t *testing.T) {
	svc := NewCoachService(openTestStore(t), coaching.DefaultCooldowns(), nil)

	result, err := svc.Replay(context.Background(), mustScenario(t, "gps-hill-loop"), nil)
	require.NoError(t, err)

	assert.Equal(t, 241, result.Samples)
	assert.Greater(t, result.StateCounts[coaching.StateUphill], 0)
	assert.Greater(t, result.StateCounts[coaching.StateStruggling], 0)
	assert.Zero(t, result.StateCounts[coaching.StateFinishing])
	assert.Equal(t, result.Samples, result.Emitted+result.Withheld)

	// consecutive decisions never repeat goal and tone
	for i := 1; i < len(result.Decisions); i++ {
		prev, cur := result.Decisions[i-1].Intent, result.Decisions[i].Intent
		assert.False(t, prev.Goal == cur.Goal && prev.Tone == cur.Tone,
			"decision %d repeats %v", i, cur)
	}
}

func TestReplayCancelled(t *testing.T) {
	svc := NewCoachService(nil, coaching.DefaultCooldowns(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, seen, err := drain(ctx, t, svc, mustScenario(t, "hit-the-wall"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, seen)
	require.NotNil(t, result)
	assert.Zero(t, result.Samples)
}

func TestReplayEmptyScenario(t *testing.T) {
	svc := NewCoachService(nil, coaching.DefaultCooldowns(), nil)
	progress := make(chan ReplayProgress, 1)

	_, err := svc.Replay(context.Background(), &scenario.Scenario{Name: "empty"}, progress)
	assert.True(t, errors.Is(err, scenario.ErrEmptyScenario))

	_, open := <-progress
	assert.False(t, open, "progress is closed on every path")
}

func TestProcessRequiresSession(t *testing.T) {
	svc := NewCoachService(nil, coaching.DefaultCooldowns(), nil)

	_, err := svc.Process(context.Background(), coaching.Metrics{})
	assert.True(t, errors.Is(err, ErrNoSession))
	assert.True(t, errors.Is(svc.FinishSession(context.Background(), time.Time{}), ErrNoSession))
}

func TestLiveSession(t *testing.T) {
	st := openTestStore(t)
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewCoachService(st, coaching.DefaultCooldowns(), zap.New(core))
	ctx := context.Background()

	profile := coaching.Profile{Level: coaching.LevelBeginner, TypicalPaceSecPerKm: 360, Goal: coaching.RunGoalEasy}
	start := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)

	sess, err := svc.StartSession(ctx, "morning", SourceLive, profile, start)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, profile, svc.Profile())

	step, err := svc.Process(ctx, coaching.Metrics{
		Timestamp:           start.Add(30 * time.Second),
		ElapsedSec:          30,
		CurrentPaceSecPerKm: 350,
		AvgPaceSecPerKm:     350,
		SpeedMps:            2.9,
	})
	require.NoError(t, err)
	assert.True(t, step.Emitted)
	assert.Equal(t, coaching.StateSteady, step.State)
	assert.Equal(t, coaching.EffortEasy, step.Effort)

	require.NoError(t, svc.FinishSession(ctx, start.Add(time.Minute)))

	last, err := st.LastSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, last.ID)
	assert.Equal(t, 1, last.Samples)

	assert.Equal(t, 1, logs.FilterMessage("session started").Len())
	assert.Equal(t, 1, logs.FilterMessage("session finished").Len())
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		counts map[coaching.State]int
		want   string
	}{
		{"empty", nil, "No data to assess"},
		{"overreached", map[coaching.State]int{coaching.StateStruggling: 1, coaching.StateSteady: 3}, "Overreached: struggling for 25% of the run, start easier next time"},
		{"well paced", map[coaching.State]int{coaching.StateSteady: 7, coaching.StateStart: 3}, "Well paced: steady for 70% of the run"},
		{"faded", map[coaching.State]int{coaching.StateSteady: 5, coaching.StateFatigue: 2, coaching.StateSlowingDown: 3}, "Faded: slowing or tiring for 50% of the run"},
		{"hilly", map[coaching.State]int{coaching.StateSteady: 5, coaching.StateUphill: 3, coaching.StateDownhill: 2}, "Hilly: terrain drove 50% of the run"},
		{"mixed", map[coaching.State]int{coaching.StateSteady: 4, coaching.StateStrong: 3, coaching.StateSpeedingUp: 3}, "Mixed effort: steady for 40% of the run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ReplayResult{StateCounts: tt.counts}
			for _, n := range tt.counts {
				r.Samples += n
			}
			assert.Equal(t, tt.want, Summarize(r))
		})
	}

	assert.Equal(t, "No data to assess", Summarize(nil))
	assert.Equal(t, "3 of 4 snapshots produced feedback (1 withheld)",
		SpokeLine(&ReplayResult{Samples: 4, Emitted: 3, Withheld: 1}))
}

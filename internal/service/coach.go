package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"runcoach/internal/analysis"
	"runcoach/internal/coaching"
	"runcoach/internal/scenario"
	"runcoach/internal/store"
)

// ErrNoSession is returned when metrics arrive before StartSession
var ErrNoSession = errors.New("no active session")

// CoachService runs snapshots through the coaching engine and journals what it says.
// It is not safe for concurrent use; one service drives one run at a time.
type CoachService struct {
	store  *store.Store // nil disables journaling
	logger *zap.Logger
	engine *coaching.Engine

	now     time.Time // timestamp of the snapshot being processed
	session *store.Session
	profile coaching.Profile
	totals  store.SessionTotals
	states  map[coaching.State]int
}

// NewCoachService creates a coaching service. The engine clock follows
// snapshot timestamps, so replays honour cooldowns in run time.
func NewCoachService(st *store.Store, cooldowns coaching.Cooldowns, logger *zap.Logger) *CoachService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CoachService{
		store:  st,
		logger: logger,
	}
	s.engine = coaching.NewEngine(
		coaching.WithCooldowns(cooldowns),
		coaching.WithClock(s.clock),
		coaching.WithLogger(logger.Named("engine")),
	)
	return s
}

func (s *CoachService) clock() time.Time {
	if s.now.IsZero() {
		return time.Now()
	}
	return s.now
}

// Step is the outcome of processing one snapshot
type Step struct {
	Metrics coaching.Metrics
	State   coaching.State // classified even when nothing is said
	Effort  coaching.EffortLevel
	Output  coaching.Output
	Emitted bool
}

// StartSession resets the engine and opens a journal entry for a new run
func (s *CoachService) StartSession(ctx context.Context, name, source string, profile coaching.Profile, startedAt time.Time) (*store.Session, error) {
	s.now = time.Time{}
	s.engine.Reset()
	s.profile = profile
	s.totals = store.SessionTotals{}
	s.states = make(map[coaching.State]int)

	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	sess := &store.Session{
		Name:        name,
		Source:      source,
		Level:       string(profile.Level),
		TypicalPace: profile.TypicalPaceSecPerKm,
		Goal:        string(profile.Goal),
		StartedAt:   startedAt.UTC(),
	}

	if s.store != nil {
		if err := s.store.CreateSession(ctx, sess); err != nil {
			return nil, fmt.Errorf("creating session: %w", err)
		}
	}
	s.session = sess

	s.logger.Info("session started",
		zap.String("session", sess.ID),
		zap.String("name", name),
		zap.String("source", source),
		zap.String("level", string(profile.Level)),
		zap.Float64("typical_pace", profile.TypicalPaceSecPerKm))

	return sess, nil
}

// Process runs one snapshot through the engine and journals an emitted output
func (s *CoachService) Process(ctx context.Context, m coaching.Metrics) (Step, error) {
	if s.session == nil {
		return Step{}, ErrNoSession
	}

	s.now = m.Timestamp
	step := Step{
		Metrics: m,
		Effort:  coaching.EffortLevelFor(m.SpeedMps),
	}
	step.State, step.Output, step.Emitted = s.engine.Evaluate(m, s.profile)
	s.totals.Samples++
	s.states[step.State]++

	if !step.Emitted {
		s.totals.Withheld++
		return step, nil
	}
	s.totals.Emitted++

	if s.store != nil && s.session.ID != "" {
		d := &store.Decision{
			SessionID:  s.session.ID,
			DecidedAt:  step.Output.Timestamp.UTC(),
			ElapsedSec: m.ElapsedSec,
			State:      step.Output.State.String(),
			Goal:       string(step.Output.Intent.Goal),
			Tone:       string(step.Output.Intent.Tone),
			Urgency:    string(step.Output.Intent.Urgency),
			Confidence: step.Output.Confidence,
			Reason:     step.Output.Reason,
		}
		if err := s.store.RecordDecision(ctx, d); err != nil {
			return step, fmt.Errorf("recording decision: %w", err)
		}
	}

	return step, nil
}

// FinishSession closes the journal entry with the run's counters
func (s *CoachService) FinishSession(ctx context.Context, at time.Time) error {
	if s.session == nil {
		return ErrNoSession
	}
	sess := s.session
	s.session = nil

	if at.IsZero() {
		at = s.clock()
	}
	if s.store != nil {
		if err := s.store.FinishSession(ctx, sess.ID, at.UTC(), s.totals); err != nil {
			return fmt.Errorf("finishing session: %w", err)
		}
	}

	s.logger.Info("session finished",
		zap.String("session", sess.ID),
		zap.Int("samples", s.totals.Samples),
		zap.Int("emitted", s.totals.Emitted),
		zap.Int("withheld", s.totals.Withheld))
	return nil
}

// Profile returns the profile of the current session
func (s *CoachService) Profile() coaching.Profile {
	return s.profile
}

// ReplayProgress reports each snapshot as it is replayed
type ReplayProgress struct {
	Index int
	Total int
	Step  Step
}

// ReplayResult contains the results of a replay
type ReplayResult struct {
	SessionID   string
	Scenario    string
	Samples     int
	Emitted     int
	Withheld    int
	StateCounts map[coaching.State]int // every classified snapshot, spoken or not
	Decisions   []coaching.Output
	Duration    time.Duration
	Pacing      analysis.Pacing
}

// Percent returns the share of snapshots classified as state
func (r *ReplayResult) Percent(state coaching.State) float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.StateCounts[state]) * 100 / float64(r.Samples)
}

// SteadyPercent returns the share of snapshots classified as STEADY
func (r *ReplayResult) SteadyPercent() float64 {
	return r.Percent(coaching.StateSteady)
}

// Replay feeds every sample of a scenario through a fresh session.
// Progress is closed when the replay ends, whatever the outcome.
func (s *CoachService) Replay(ctx context.Context, sc *scenario.Scenario, progress chan<- ReplayProgress) (*ReplayResult, error) {
	if progress != nil {
		defer close(progress)
	}

	if len(sc.Samples) == 0 {
		return nil, scenario.ErrEmptyScenario
	}

	first := sc.Samples[0]
	startedAt := first.Timestamp.Add(-time.Duration(first.ElapsedSec * float64(time.Second)))
	sess, err := s.StartSession(ctx, sc.Name, sc.Name, sc.Profile, startedAt)
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{
		SessionID: sess.ID,
		Scenario:  sc.Name,
		Duration:  sc.Duration(),
	}

	for i, m := range sc.Samples {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		step, err := s.Process(ctx, m)
		if err != nil {
			s.collect(result)
			return result, fmt.Errorf("processing sample %d: %w", i, err)
		}
		if step.Emitted {
			result.Decisions = append(result.Decisions, step.Output)
		}

		if progress != nil {
			select {
			case progress <- ReplayProgress{Index: i, Total: len(sc.Samples), Step: step}:
			case <-ctx.Done():
				s.collect(result)
				return result, ctx.Err()
			}
		}
	}

	s.collect(result)
	result.Pacing = analysis.Analyze(sc.Samples)

	last := sc.Samples[len(sc.Samples)-1]
	if err := s.FinishSession(ctx, last.Timestamp); err != nil {
		return result, err
	}

	return result, nil
}

// collect copies the session counters into a result
func (s *CoachService) collect(result *ReplayResult) {
	result.Samples = s.totals.Samples
	result.Emitted = s.totals.Emitted
	result.Withheld = s.totals.Withheld
	result.StateCounts = make(map[coaching.State]int, len(s.states))
	for st, n := range s.states {
		result.StateCounts[st] = n
	}
}

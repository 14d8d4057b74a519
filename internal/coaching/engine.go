package coaching

import (
	"time"

	"go.uber.org/zap"
)

// Clock supplies "now" to the engine
type Clock func() time.Time

// Engine turns a stream of metric snapshots into sparse coaching decisions.
// One Engine serves one run session. It is not safe for concurrent use;
// callers invoking Update from several goroutines must serialize access.
type Engine struct {
	history    FeedbackHistory
	cooldowns  Cooldowns
	thresholds Thresholds
	clock      Clock
	logger     *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithCooldowns overrides the per-urgency cooldown table
func WithCooldowns(c Cooldowns) Option {
	return func(e *Engine) {
		e.cooldowns = c
	}
}

// WithThresholds overrides the classifier constants
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) {
		e.thresholds = t
	}
}

// WithClock sets the time source used for cooldowns and output timestamps
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger used for decision tracing
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine with a fresh feedback history
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cooldowns:  DefaultCooldowns(),
		thresholds: DefaultThresholds(),
		clock:      time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Update classifies the snapshot and decides whether feedback may be given.
// It returns false while a cooldown is active or when the intent would repeat
// the previous one; history is only touched when an output is returned.
func (e *Engine) Update(m Metrics, p Profile) (Output, bool) {
	_, out, ok := e.Evaluate(m, p)
	return out, ok
}

// Evaluate is Update that also reports the classified state, which callers
// need for snapshots the engine keeps quiet about.
func (e *Engine) Evaluate(m Metrics, p Profile) (State, Output, bool) {
	state := e.thresholds.Classify(m, p)
	intent := IntentFor(state)
	confidence := e.Confidence(m, p, state)
	reason := ReasonFor(state)

	now := e.clock()
	fields := []zap.Field{
		zap.Stringer("state", state),
		zap.String("goal", string(intent.Goal)),
		zap.String("tone", string(intent.Tone)),
		zap.String("urgency", string(intent.Urgency)),
		zap.Float64("confidence", confidence),
	}

	if wait := e.remainingCooldown(now); wait > 0 {
		e.logger.Debug("feedback withheld", append(fields,
			zap.String("cause", "cooldown"),
			zap.Duration("remaining", wait))...)
		return state, Output{}, false
	}

	if SuppressDuplicate(e.history.LastIntent, intent) {
		e.logger.Debug("feedback withheld", append(fields, zap.String("cause", "duplicate"))...)
		return state, Output{}, false
	}

	out := Output{
		State:      state,
		Intent:     intent,
		Confidence: confidence,
		Reason:     reason,
		Timestamp:  now,
	}

	e.history.LastFeedbackAt = now
	e.history.LastIntent = &intent
	e.history.FeedbacksSinceStart++

	e.logger.Debug("feedback emitted", append(fields,
		zap.String("reason", reason),
		zap.Int("count", e.history.FeedbacksSinceStart))...)

	return state, out, true
}

// remainingCooldown returns how long the previous intent still keeps the engine quiet
func (e *Engine) remainingCooldown(now time.Time) time.Duration {
	if e.history.LastIntent == nil {
		return 0
	}
	required := e.cooldowns.For(e.history.LastIntent.Urgency)
	elapsed := now.Sub(e.history.LastFeedbackAt)
	if elapsed >= required {
		return 0
	}
	return required - elapsed
}

// Confidence scores the signal clarity of state for this snapshot
func (e *Engine) Confidence(m Metrics, p Profile, s State) float64 {
	return Confidence(m, p, s)
}

// Reset starts a new session so a previous run's cooldown cannot leak
func (e *Engine) Reset() {
	e.history = FeedbackHistory{
		LastFeedbackAt:      e.clock(),
		LastIntent:          nil,
		FeedbacksSinceStart: 0,
	}
}

// History returns a copy of the feedback history
func (e *Engine) History() FeedbackHistory {
	h := e.history
	if h.LastIntent != nil {
		intent := *h.LastIntent
		h.LastIntent = &intent
	}
	return h
}

// SetLastFeedbackTime moves the cooldown clock, for tests and special cases
func (e *Engine) SetLastFeedbackTime(t time.Time) {
	e.history.LastFeedbackAt = t
}

// Cooldowns returns the engine's cooldown table
func (e *Engine) Cooldowns() Cooldowns {
	return e.cooldowns
}

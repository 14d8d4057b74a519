package coaching

import (
	"fmt"
	"math"
	"time"
)

// Metrics is a snapshot of derived run telemetry, delivered every few seconds
type Metrics struct {
	Timestamp           time.Time
	ElapsedSec          float64 // seconds since start
	DistanceMeters      float64 // cumulative
	CurrentPaceSecPerKm float64
	AvgPaceSecPerKm     float64 // since start
	SpeedMps            float64
	ElevationMeters     float64
	ElevationDelta30s   float64 // meters, signed
	PaceDelta30s        float64 // sec/km, positive means slower
}

// finite reports whether every numeric field holds a usable value
func (m Metrics) finite() bool {
	for _, v := range []float64{
		m.ElapsedSec,
		m.DistanceMeters,
		m.CurrentPaceSecPerKm,
		m.AvgPaceSecPerKm,
		m.SpeedMps,
		m.ElevationMeters,
		m.ElevationDelta30s,
		m.PaceDelta30s,
	} {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Level is the runner's experience level
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// RunGoal is the stated purpose of the run
type RunGoal string

const (
	RunGoalEasy     RunGoal = "easy"
	RunGoalTempo    RunGoal = "tempo"
	RunGoalLong     RunGoal = "long"
	RunGoalInterval RunGoal = "interval"
)

// Profile is the runner's baseline, constant for a run
type Profile struct {
	Level               Level
	TypicalPaceSecPerKm float64 // normal easy pace
	Goal                RunGoal
}

// State classifies the current moment of a run
type State int

const (
	StateStart State = iota
	StateSteady
	StateSpeedingUp
	StateSlowingDown
	StateUphill
	StateDownhill
	StateFatigue
	StateStrong
	StateFinishing // declared but never produced by the classifier
	StateStruggling
)

var stateNames = map[State]string{
	StateStart:       "START",
	StateSteady:      "STEADY",
	StateSpeedingUp:  "SPEEDING_UP",
	StateSlowingDown: "SLOWING_DOWN",
	StateUphill:      "UPHILL",
	StateDownhill:    "DOWNHILL",
	StateFatigue:     "FATIGUE",
	StateStrong:      "STRONG",
	StateFinishing:   "FINISHING",
	StateStruggling:  "STRUGGLING",
}

// AllStates lists every state in declaration order
func AllStates() []State {
	return []State{
		StateStart, StateSteady, StateSpeedingUp, StateSlowingDown, StateUphill,
		StateDownhill, StateFatigue, StateStrong, StateFinishing, StateStruggling,
	}
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Reachable reports whether Classify can ever return s.
// FINISHING needs a run target (distance or duration) that Profile does not carry.
func (s State) Reachable() bool {
	_, known := stateNames[s]
	return known && s != StateFinishing
}

// ParseState converts an upper-case state name back into a State
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown run state %q", name)
}

// Goal is what the coach should try to accomplish
type Goal string

const (
	GoalMaintain       Goal = "maintain"
	GoalReduceEffort   Goal = "reduce_effort"
	GoalIncreaseEffort Goal = "increase_effort"
	GoalStayCalm       Goal = "stay_calm"
	GoalPrepareFinish  Goal = "prepare_finish"
)

// Tone is the emotional register of the feedback
type Tone string

const (
	ToneCalm         Tone = "calm"
	ToneMotivational Tone = "motivational"
	ToneSupportive   Tone = "supportive"
	ToneCautionary   Tone = "cautionary"
)

// Urgency is how soon feedback should be delivered
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Intent is the structured coaching decision, independent of wording
type Intent struct {
	Goal    Goal
	Tone    Tone
	Urgency Urgency
}

func (i Intent) String() string {
	return fmt.Sprintf("%s/%s/%s", i.Goal, i.Tone, i.Urgency)
}

// Output is a decision that passed the cooldown and duplicate gates
type Output struct {
	State      State
	Intent     Intent
	Confidence float64 // 0-1, clarity of the signal
	Reason     string  // for logs, not for the runner
	Timestamp  time.Time
}

// FeedbackHistory is the engine's memory of what it has already said
type FeedbackHistory struct {
	LastFeedbackAt      time.Time
	LastIntent          *Intent // nil until the first output
	FeedbacksSinceStart int
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

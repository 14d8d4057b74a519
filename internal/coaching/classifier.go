package coaching

// Thresholds are the policy constants of the state classifier
type Thresholds struct {
	StartSec              float64 // START below this elapsed time
	FatigueAvgDegradation float64 // percent slower than typical, on average pace
	FatiguePaceDelta      float64 // sec/km over 30s
	FatigueMinElapsedSec  float64
	StrugglingDegradation float64 // percent slower than typical, on current pace
	StrugglingPaceDelta   float64
	StrugglingMinSpeedMps float64
	HillElevationDelta    float64 // meters over 30s, either direction
	SpeedingUpPaceDelta   float64 // negative
	StrongDegradation     float64 // negative, percent faster than typical
	StrongMinSpeedMps     float64
	SlowingDownPaceDelta  float64
}

// DefaultThresholds returns the tuned classifier constants
func DefaultThresholds() Thresholds {
	return Thresholds{
		StartSec:              10,
		FatigueAvgDegradation: 15,
		FatiguePaceDelta:      2,
		FatigueMinElapsedSec:  120,
		StrugglingDegradation: 25,
		StrugglingPaceDelta:   5,
		StrugglingMinSpeedMps: 2.5, // 9 km/h
		HillElevationDelta:    15,
		SpeedingUpPaceDelta:   -1,
		StrongDegradation:     -10,
		StrongMinSpeedMps:     5,
		SlowingDownPaceDelta:  0.5,
	}
}

// Classify detects the current run state using the default thresholds
func Classify(m Metrics, p Profile) State {
	return DefaultThresholds().Classify(m, p)
}

// Classify detects the current run state.
// Rules are checked in priority order and the first match wins:
// wellbeing (START, FATIGUE, STRUGGLING) before terrain (UPHILL, DOWNHILL)
// before momentum (SPEEDING_UP, STRONG, SLOWING_DOWN), then STEADY.
func (t Thresholds) Classify(m Metrics, p Profile) State {
	// Unknown input carries no signal
	if !m.finite() || !isFinite(p.TypicalPaceSecPerKm) {
		return StateSteady
	}

	if m.ElapsedSec < t.StartSec {
		return StateStart
	}

	avgDegradation := PaceDeviationPercent(m.AvgPaceSecPerKm, p.TypicalPaceSecPerKm)
	if avgDegradation > t.FatigueAvgDegradation &&
		m.PaceDelta30s > t.FatiguePaceDelta &&
		m.ElapsedSec > t.FatigueMinElapsedSec {
		return StateFatigue
	}

	curDegradation := PaceDeviationPercent(m.CurrentPaceSecPerKm, p.TypicalPaceSecPerKm)
	if curDegradation > t.StrugglingDegradation ||
		m.PaceDelta30s > t.StrugglingPaceDelta ||
		m.SpeedMps < t.StrugglingMinSpeedMps {
		return StateStruggling
	}

	if m.ElevationDelta30s > t.HillElevationDelta {
		return StateUphill
	}
	if m.ElevationDelta30s < -t.HillElevationDelta {
		return StateDownhill
	}

	if m.CurrentPaceSecPerKm < m.AvgPaceSecPerKm && m.PaceDelta30s < t.SpeedingUpPaceDelta {
		return StateSpeedingUp
	}

	if curDegradation < t.StrongDegradation && m.SpeedMps > t.StrongMinSpeedMps {
		return StateStrong
	}

	if m.CurrentPaceSecPerKm > m.AvgPaceSecPerKm && m.PaceDelta30s > t.SlowingDownPaceDelta {
		return StateSlowingDown
	}

	// FINISHING would go here once a run target is known.

	return StateSteady
}

// PaceDeviationPercent returns how far current is from target, in percent.
// Positive means slower. A zero, negative or non-finite target yields 0.
func PaceDeviationPercent(current, target float64) float64 {
	if target <= 0 || !isFinite(target) || !isFinite(current) {
		return 0
	}
	return (current - target) / target * 100
}

// EffortLevel is a coarse bucket of running speed
type EffortLevel string

const (
	EffortEasy     EffortLevel = "easy"
	EffortModerate EffortLevel = "moderate"
	EffortHard     EffortLevel = "hard"
)

// EffortLevelFor buckets a speed in m/s: easy below 14.4 km/h,
// moderate below 19.8 km/h, hard above
func EffortLevelFor(speedMps float64) EffortLevel {
	switch {
	case !isFinite(speedMps) || speedMps < 4:
		return EffortEasy
	case speedMps < 5.5:
		return EffortModerate
	default:
		return EffortHard
	}
}

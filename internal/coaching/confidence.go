package coaching

import "math"

// Confidence estimates how clear the signal behind a state is, from 0 to 1.
// It is not a probability of being right. The per-state constants are
// empirical tuning and must stay as they are.
func Confidence(m Metrics, p Profile, s State) float64 {
	return clampUnit(rawConfidence(m, p, s))
}

func rawConfidence(m Metrics, p Profile, s State) float64 {
	switch s {
	case StateStart:
		return 1.0

	case StateUphill, StateDownhill:
		elevationChange := math.Abs(m.ElevationDelta30s)
		switch {
		case elevationChange > 25:
			return 0.95
		case elevationChange > 15:
			return 0.85
		default:
			return 0.70
		}
	}

	absDeviation := math.Abs(PaceDeviationPercent(m.CurrentPaceSecPerKm, p.TypicalPaceSecPerKm))

	switch s {
	case StateStruggling:
		return math.Min(0.95, absDeviation/20)

	case StateFatigue:
		return math.Min(0.90, 0.5+m.PaceDelta30s/10)

	case StateStrong:
		return math.Min(0.95, absDeviation/15)

	case StateSteady:
		paceVariation := math.Abs(m.PaceDelta30s)
		switch {
		case paceVariation < 0.5:
			return 0.90
		case paceVariation < 1:
			return 0.75
		default:
			return 0.60
		}

	default:
		return 0.65
	}
}

// clampUnit bounds v to [0,1]; NaN becomes 0
func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

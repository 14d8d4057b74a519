package coaching

import (
	"math"
	"testing"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		modify func(m *Metrics)
		want   float64
	}{
		{"start is certain", StateStart, func(m *Metrics) {}, 1.0},
		{"steep climb", StateUphill, func(m *Metrics) { m.ElevationDelta30s = 30 }, 0.95},
		{"moderate climb", StateUphill, func(m *Metrics) { m.ElevationDelta30s = 18 }, 0.85},
		{"gentle climb", StateUphill, func(m *Metrics) { m.ElevationDelta30s = 10 }, 0.70},
		{"steep descent", StateDownhill, func(m *Metrics) { m.ElevationDelta30s = -26 }, 0.95},
		{"moderate descent", StateDownhill, func(m *Metrics) { m.ElevationDelta30s = -16 }, 0.85},
		{"struggling far off pace", StateStruggling, func(m *Metrics) { m.CurrentPaceSecPerKm = 400 }, 0.95},
		{"struggling slightly off pace", StateStruggling, func(m *Metrics) { m.CurrentPaceSecPerKm = 330 }, 0.5},
		{"fatigue building", StateFatigue, func(m *Metrics) { m.PaceDelta30s = 3 }, 0.8},
		{"fatigue capped", StateFatigue, func(m *Metrics) { m.PaceDelta30s = 8 }, 0.9},
		{"strong", StateStrong, func(m *Metrics) { m.CurrentPaceSecPerKm = 260 }, 0.8889},
		{"strong capped", StateStrong, func(m *Metrics) { m.CurrentPaceSecPerKm = 200 }, 0.95},
		{"steady and flat", StateSteady, func(m *Metrics) { m.PaceDelta30s = 0.2 }, 0.90},
		{"steady with some wobble", StateSteady, func(m *Metrics) { m.PaceDelta30s = -0.8 }, 0.75},
		{"steady but noisy", StateSteady, func(m *Metrics) { m.PaceDelta30s = 1.5 }, 0.60},
		{"speeding up", StateSpeedingUp, func(m *Metrics) {}, 0.65},
		{"slowing down", StateSlowingDown, func(m *Metrics) {}, 0.65},
		{"finishing", StateFinishing, func(m *Metrics) {}, 0.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := steadyMetrics()
			tt.modify(&m)

			got := Confidence(m, steadyProfile(), tt.state)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Confidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidenceBounds(t *testing.T) {
	values := []float64{
		0, -1, 1, 2.5, 15, -15, 300, -300, 1e9, -1e9,
		math.NaN(), math.Inf(1), math.Inf(-1),
	}
	typicalPaces := []float64{0, -300, 300, math.NaN(), math.Inf(1)}

	for _, s := range AllStates() {
		for _, v := range values {
			for _, typical := range typicalPaces {
				m := Metrics{
					ElapsedSec:          v,
					CurrentPaceSecPerKm: v,
					AvgPaceSecPerKm:     v,
					SpeedMps:            v,
					ElevationDelta30s:   v,
					PaceDelta30s:        v,
				}
				p := Profile{TypicalPaceSecPerKm: typical}

				got := Confidence(m, p, s)
				if math.IsNaN(got) || got < 0 || got > 1 {
					t.Fatalf("Confidence(%v, value=%v, typical=%v) = %v, out of [0,1]", s, v, typical, got)
				}
			}
		}
	}
}

func TestConfidenceZeroTypicalPace(t *testing.T) {
	m := steadyMetrics()
	m.CurrentPaceSecPerKm = 500
	p := Profile{TypicalPaceSecPerKm: 0}

	if got := Confidence(m, p, StateStruggling); got != 0 {
		t.Errorf("Confidence(STRUGGLING) with zero typical pace = %v, want 0", got)
	}
	if got := Confidence(m, p, StateStrong); got != 0 {
		t.Errorf("Confidence(STRONG) with zero typical pace = %v, want 0", got)
	}
}

func TestConfidenceNegativeFatigueClamped(t *testing.T) {
	m := steadyMetrics()
	m.PaceDelta30s = -12

	if got := Confidence(m, steadyProfile(), StateFatigue); got != 0 {
		t.Errorf("Confidence(FATIGUE) = %v, want 0", got)
	}
}

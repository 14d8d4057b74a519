// Package analysis computes after-the-run pacing metrics from metric snapshots.
package analysis

import (
	"math"

	"runcoach/internal/coaching"
)

const (
	// MinFadeSamples is the fewest snapshots a fade estimate is made from
	MinFadeSamples = 4

	// MinMovingSpeed filters out standing still (m/s)
	MinMovingSpeed = 0.5

	// SteadyBand is how far from average pace still counts as steady (fraction)
	SteadyBand = 0.1
)

// Pacing summarizes how evenly a run was paced
type Pacing struct {
	FadePct      float64 // second half slower than first, percent
	SteadyPct    float64 // snapshots within SteadyBand of the final average pace
	Splits       []Split
	Assessment   string
	TotalMeters  float64
	TotalSeconds float64
}

// Split is the time taken for one full kilometer
type Split struct {
	Km          int
	Seconds     float64
	PaceVsAvg   float64 // percent, positive is slower than the run average
	ElevationUp float64 // meters climbed within the split
}

// Analyze computes the pacing summary of a sequence of snapshots
func Analyze(samples []coaching.Metrics) Pacing {
	p := Pacing{
		FadePct: PaceFade(samples),
		Splits:  KmSplits(samples),
	}
	if n := len(samples); n > 0 {
		last := samples[n-1]
		p.TotalMeters = last.DistanceMeters
		p.TotalSeconds = last.ElapsedSec
		p.SteadyPct = SteadyPacePct(samples, last.AvgPaceSecPerKm)
	}
	p.Assessment = FadeAssessment(p.FadePct)
	return p
}

// PaceFade compares average speed between the first and second half.
// Positive means the second half was slower. Returns 0 without enough data.
func PaceFade(samples []coaching.Metrics) float64 {
	if len(samples) < MinFadeSamples {
		return 0
	}

	mid := len(samples) / 2
	first := averageSpeed(samples[:mid])
	second := averageSpeed(samples[mid:])
	if first == 0 || second == 0 {
		return 0
	}

	return ((first / second) - 1) * 100
}

func averageSpeed(samples []coaching.Metrics) float64 {
	var total float64
	var count int
	for _, m := range samples {
		if m.SpeedMps > MinMovingSpeed && !math.IsInf(m.SpeedMps, 0) {
			total += m.SpeedMps
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// SteadyPacePct returns the share of snapshots whose pace is within
// SteadyBand of avgPace
func SteadyPacePct(samples []coaching.Metrics, avgPace float64) float64 {
	if len(samples) == 0 || avgPace <= 0 {
		return 0
	}

	steady, valid := 0, 0
	for _, m := range samples {
		if m.CurrentPaceSecPerKm <= 0 || math.IsNaN(m.CurrentPaceSecPerKm) {
			continue
		}
		valid++

		ratio := m.CurrentPaceSecPerKm / avgPace
		if ratio > 1-SteadyBand && ratio < 1+SteadyBand {
			steady++
		}
	}

	if valid == 0 {
		return 0
	}
	return float64(steady) / float64(valid) * 100
}

// KmSplits interpolates when each full kilometer was reached.
// The run is taken to start at zero distance and zero elapsed time.
func KmSplits(samples []coaching.Metrics) []Split {
	var splits []Split
	if len(samples) == 0 {
		return splits
	}

	points := samples
	if first := samples[0]; first.DistanceMeters > 0 || first.ElapsedSec > 0 {
		origin := coaching.Metrics{ElevationMeters: first.ElevationMeters}
		points = append([]coaching.Metrics{origin}, samples...)
	}

	prevT := 0.0
	climbed := 0.0
	next := 1000.0

	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if rise := b.ElevationMeters - a.ElevationMeters; rise > 0 {
			climbed += rise
		}
		for b.DistanceMeters >= next && b.DistanceMeters > a.DistanceMeters {
			frac := (next - a.DistanceMeters) / (b.DistanceMeters - a.DistanceMeters)
			at := a.ElapsedSec + frac*(b.ElapsedSec-a.ElapsedSec)
			splits = append(splits, Split{
				Km:          len(splits) + 1,
				Seconds:     at - prevT,
				ElevationUp: climbed,
			})
			prevT = at
			climbed = 0
			next += 1000
		}
	}

	if len(splits) == 0 {
		return splits
	}
	avg := prevT / float64(len(splits))
	for i := range splits {
		splits[i].PaceVsAvg = (splits[i].Seconds/avg - 1) * 100
	}
	return splits
}

// FadeAssessment returns a human-readable pacing assessment
func FadeAssessment(fade float64) string {
	switch {
	case fade < -3:
		return "Negative split"
	case fade < 3:
		return "Even pacing"
	case fade < 5:
		return "Slight fade"
	case fade < 8:
		return "Noticeable fade"
	case fade < 12:
		return "Strong fade"
	default:
		return "Hit the wall"
	}
}

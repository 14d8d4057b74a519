package analysis

import (
	"math"
	"testing"

	"runcoach/internal/coaching"
)

func snap(elapsed, distance, pace, avgPace, speed, elevation float64) coaching.Metrics {
	return coaching.Metrics{
		ElapsedSec:          elapsed,
		DistanceMeters:      distance,
		CurrentPaceSecPerKm: pace,
		AvgPaceSecPerKm:     avgPace,
		SpeedMps:            speed,
		ElevationMeters:     elevation,
	}
}

// wallRun slows from 5:00/km to 6:40/km over four snapshots
func wallRun() []coaching.Metrics {
	return []coaching.Metrics{
		snap(600, 3000, 300, 300, 3.33, 50),
		snap(900, 4500, 320, 305, 3.13, 55),
		snap(1200, 5700, 350, 310, 2.86, 60),
		snap(1500, 6300, 400, 315, 2.5, 65),
	}
}

func TestPaceFade(t *testing.T) {
	tests := []struct {
		name    string
		samples []coaching.Metrics
		want    float64
		delta   float64
	}{
		{"too few samples", wallRun()[:3], 0, 0},
		{"hit the wall", wallRun(), 20.5, 0.1},
		{
			name: "even",
			samples: []coaching.Metrics{
				snap(60, 200, 300, 300, 3.3, 0),
				snap(120, 400, 300, 300, 3.3, 0),
				snap(180, 600, 300, 300, 3.3, 0),
				snap(240, 800, 300, 300, 3.3, 0),
			},
			want: 0,
		},
		{
			name: "negative split",
			samples: []coaching.Metrics{
				snap(60, 200, 300, 300, 3.0, 0),
				snap(120, 400, 300, 300, 3.0, 0),
				snap(180, 600, 300, 300, 4.0, 0),
				snap(240, 800, 300, 300, 4.0, 0),
			},
			want: -25,
		},
		{
			name: "standing still is ignored",
			samples: []coaching.Metrics{
				snap(60, 200, 300, 300, 0.1, 0),
				snap(120, 400, 300, 300, 0.2, 0),
				snap(180, 600, 300, 300, 3.0, 0),
				snap(240, 800, 300, 300, 3.0, 0),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaceFade(tt.samples)
			if math.Abs(got-tt.want) > tt.delta+1e-9 {
				t.Errorf("PaceFade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSteadyPacePct(t *testing.T) {
	if got := SteadyPacePct(wallRun(), 315); got != 50 {
		t.Errorf("SteadyPacePct() = %v, want 50", got)
	}
	if got := SteadyPacePct(wallRun(), 0); got != 0 {
		t.Errorf("SteadyPacePct() with zero average = %v, want 0", got)
	}
	if got := SteadyPacePct(nil, 300); got != 0 {
		t.Errorf("SteadyPacePct(nil) = %v, want 0", got)
	}

	noPace := []coaching.Metrics{snap(60, 0, 0, 300, 0, 0), snap(120, 0, math.NaN(), 300, 0, 0)}
	if got := SteadyPacePct(noPace, 300); got != 0 {
		t.Errorf("SteadyPacePct() without pace = %v, want 0", got)
	}
}

func TestKmSplits(t *testing.T) {
	splits := KmSplits(wallRun())
	if len(splits) != 6 {
		t.Fatalf("len(splits) = %d, want 6", len(splits))
	}

	wantSeconds := []float64{200, 200, 200, 200, 225, 325}
	wantClimb := []float64{0, 0, 0, 5, 5, 5}
	for i, s := range splits {
		if s.Km != i+1 {
			t.Errorf("split %d Km = %d", i, s.Km)
		}
		if math.Abs(s.Seconds-wantSeconds[i]) > 1e-6 {
			t.Errorf("split %d Seconds = %v, want %v", i, s.Seconds, wantSeconds[i])
		}
		if math.Abs(s.ElevationUp-wantClimb[i]) > 1e-6 {
			t.Errorf("split %d ElevationUp = %v, want %v", i, s.ElevationUp, wantClimb[i])
		}
	}

	// average split is 225s
	if math.Abs(splits[0].PaceVsAvg-(-11.111)) > 0.01 {
		t.Errorf("split 1 PaceVsAvg = %v, want -11.1", splits[0].PaceVsAvg)
	}
	if math.Abs(splits[5].PaceVsAvg-44.444) > 0.01 {
		t.Errorf("split 6 PaceVsAvg = %v, want 44.4", splits[5].PaceVsAvg)
	}
}

func TestKmSplitsShortRun(t *testing.T) {
	if got := KmSplits(nil); len(got) != 0 {
		t.Errorf("KmSplits(nil) = %v, want none", got)
	}
	short := []coaching.Metrics{snap(120, 400, 300, 300, 3.3, 0), snap(240, 800, 300, 300, 3.3, 0)}
	if got := KmSplits(short); len(got) != 0 {
		t.Errorf("KmSplits() under 1km = %v, want none", got)
	}
}

func TestFadeAssessment(t *testing.T) {
	tests := []struct {
		fade float64
		want string
	}{
		{-5, "Negative split"},
		{0, "Even pacing"},
		{2.9, "Even pacing"},
		{3, "Slight fade"},
		{5, "Noticeable fade"},
		{8, "Strong fade"},
		{12, "Hit the wall"},
		{20.5, "Hit the wall"},
	}

	for _, tt := range tests {
		if got := FadeAssessment(tt.fade); got != tt.want {
			t.Errorf("FadeAssessment(%v) = %q, want %q", tt.fade, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	p := Analyze(wallRun())

	if p.Assessment != "Hit the wall" {
		t.Errorf("Assessment = %q, want %q", p.Assessment, "Hit the wall")
	}
	if p.TotalMeters != 6300 || p.TotalSeconds != 1500 {
		t.Errorf("totals = %v m / %v s, want 6300 m / 1500 s", p.TotalMeters, p.TotalSeconds)
	}
	if p.SteadyPct != 50 {
		t.Errorf("SteadyPct = %v, want 50", p.SteadyPct)
	}
	if len(p.Splits) != 6 {
		t.Errorf("len(Splits) = %d, want 6", len(p.Splits))
	}

	empty := Analyze(nil)
	if empty.Assessment != "Even pacing" || empty.FadePct != 0 {
		t.Errorf("Analyze(nil) = %+v", empty)
	}
}

package telemetry

import (
	"time"

	"runcoach/internal/coaching"
)

// DeltaWindow is the lookback used for elevation and pace deltas
const DeltaWindow = 30 * time.Second

// Point is a single GPS fix
type Point struct {
	Time     time.Time
	Lat      float64
	Lng      float64
	Altitude *float64 // meters, nil when the device has no altitude
	Accuracy float64  // meters
}

// sample is a derived reading kept for the delta window
type sample struct {
	at        time.Time
	pace      float64
	elevation float64
}

// Tracker derives coaching metrics from a stream of GPS fixes.
// It does the distance, smoothing and windowing the coaching engine expects
// its caller to have done already.
type Tracker struct {
	start       time.Time
	started     bool
	last        *Point
	distance    float64
	speeds      []float64
	elevation   float64
	accuracy    float64
	samples     []sample
	pausedAt    time.Time
	paused      bool
	pausedTotal time.Duration
	lastAt      time.Time
}

// NewTracker creates a tracker whose clock starts at start
func NewTracker(start time.Time) *Tracker {
	return &Tracker{
		start:   start,
		started: true,
	}
}

// Add ingests a GPS fix. Fixes received while paused are ignored.
func (t *Tracker) Add(p Point) {
	if t.paused {
		return
	}
	if !t.started {
		t.start = p.Time
		t.started = true
	}

	var delta float64
	if t.last != nil {
		delta = Distance(t.last.Lat, t.last.Lng, p.Lat, p.Lng)
		if delta < MaxJumpMeters {
			t.distance += delta
		}

		if delta > 0 && delta < MaxJumpMeters {
			dt := p.Time.Sub(t.last.Time).Seconds()
			if dt > 0 {
				t.speeds = append(t.speeds, Speed(delta, dt))
				if len(t.speeds) > SpeedSmoothingSamples {
					t.speeds = t.speeds[1:]
				}
			}
		}
	}

	if p.Altitude != nil {
		t.elevation = *p.Altitude
	}
	t.accuracy = p.Accuracy

	last := p
	t.last = &last
	t.lastAt = p.Time

	t.samples = append(t.samples, sample{
		at:        p.Time,
		pace:      PaceFromSpeed(t.SpeedMps()),
		elevation: t.elevation,
	})
	t.prune(p.Time)
}

// prune drops samples older than the delta window, keeping the newest one
// at or before the window start as the baseline
func (t *Tracker) prune(now time.Time) {
	cutoff := now.Add(-DeltaWindow)
	keepFrom := 0
	for i, s := range t.samples {
		if !s.at.After(cutoff) {
			keepFrom = i
		}
	}
	t.samples = t.samples[keepFrom:]
}

// Pause stops counting elapsed time and ignores fixes until Resume
func (t *Tracker) Pause(at time.Time) {
	if t.paused {
		return
	}
	t.paused = true
	t.pausedAt = at
}

// Resume continues a paused run. Smoothed speed restarts from scratch.
func (t *Tracker) Resume(at time.Time) {
	if !t.paused {
		return
	}
	t.paused = false
	if at.After(t.pausedAt) {
		t.pausedTotal += at.Sub(t.pausedAt)
	}
	t.speeds = nil
	t.samples = nil
	if t.last != nil {
		// time spent paused is not running time
		t.last.Time = at
	}
}

// SpeedMps returns the moving average of recent speeds
func (t *Tracker) SpeedMps() float64 {
	if len(t.speeds) == 0 {
		return 0
	}
	var total float64
	for _, s := range t.speeds {
		total += s
	}
	return total / float64(len(t.speeds))
}

// DistanceMeters returns the accumulated distance
func (t *Tracker) DistanceMeters() float64 {
	return t.distance
}

// GPSAcquired reports whether the last fix was accurate enough to trust
func (t *Tracker) GPSAcquired() bool {
	return t.last != nil && t.accuracy < AcquiredAccuracyMeters
}

// Elapsed returns running time at the given instant, excluding pauses
func (t *Tracker) Elapsed(at time.Time) time.Duration {
	end := at
	if t.paused {
		end = t.pausedAt
	}
	elapsed := end.Sub(t.start) - t.pausedTotal
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Metrics builds a coaching snapshot as of the last fix
func (t *Tracker) Metrics() coaching.Metrics {
	at := t.lastAt
	if at.IsZero() {
		at = t.start
	}
	elapsed := t.Elapsed(at).Seconds()
	speed := t.SpeedMps()
	pace := PaceFromSpeed(speed)

	m := coaching.Metrics{
		Timestamp:           at,
		ElapsedSec:          elapsed,
		DistanceMeters:      t.distance,
		CurrentPaceSecPerKm: pace,
		AvgPaceSecPerKm:     PaceSecPerKm(t.distance, elapsed),
		SpeedMps:            speed,
		ElevationMeters:     t.elevation,
	}

	if len(t.samples) > 0 {
		base := t.samples[0]
		m.ElevationDelta30s = t.elevation - base.elevation
		if base.pace > 0 && pace > 0 {
			m.PaceDelta30s = pace - base.pace
		}
	}

	return m
}

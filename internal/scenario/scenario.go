// Package scenario provides scripted runs that can be replayed through the
// coaching engine, either built in or loaded from YAML files.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"runcoach/internal/coaching"
	"runcoach/internal/telemetry"
)

// ErrUnknownScenario is returned when a name matches neither a file nor a built-in
var ErrUnknownScenario = errors.New("unknown scenario")

// ErrEmptyScenario is returned when a scenario has neither samples nor GPS points
var ErrEmptyScenario = errors.New("scenario has no samples")

// Scenario is a scripted run: a profile and the snapshots a tracker would deliver
type Scenario struct {
	Name        string
	Description string
	Profile     coaching.Profile
	Samples     []coaching.Metrics
}

// Duration returns the elapsed time covered by the samples
func (s *Scenario) Duration() time.Duration {
	if len(s.Samples) == 0 {
		return 0
	}
	last := s.Samples[len(s.Samples)-1]
	return time.Duration(last.ElapsedSec * float64(time.Second))
}

// WithDefaultProfile fills profile fields the scenario left empty
func (s *Scenario) WithDefaultProfile(p coaching.Profile) {
	if s.Profile.Level == "" {
		s.Profile.Level = p.Level
	}
	if s.Profile.TypicalPaceSecPerKm == 0 {
		s.Profile.TypicalPaceSecPerKm = p.TypicalPaceSecPerKm
	}
	if s.Profile.Goal == "" {
		s.Profile.Goal = p.Goal
	}
}

// file is the YAML layout of a scenario
type file struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Start       time.Time    `yaml:"start"`
	Profile     profileFile  `yaml:"profile"`
	Samples     []sampleFile `yaml:"samples"`
	Points      []pointFile  `yaml:"points"`
}

type profileFile struct {
	Level               string  `yaml:"level"`
	TypicalPaceSecPerKm float64 `yaml:"typical_pace_sec_per_km"`
	Goal                string  `yaml:"goal"`
}

type sampleFile struct {
	ElapsedSec          float64 `yaml:"elapsed_sec"`
	DistanceMeters      float64 `yaml:"distance_m"`
	CurrentPaceSecPerKm float64 `yaml:"current_pace"`
	AvgPaceSecPerKm     float64 `yaml:"avg_pace"`
	SpeedMps            float64 `yaml:"speed_mps"`
	ElevationMeters     float64 `yaml:"elevation_m"`
	ElevationDelta30s   float64 `yaml:"elevation_delta_30s"`
	PaceDelta30s        float64 `yaml:"pace_delta_30s"`
}

type pointFile struct {
	OffsetSec float64  `yaml:"t"`
	Lat       float64  `yaml:"lat"`
	Lng       float64  `yaml:"lng"`
	Altitude  *float64 `yaml:"alt"`
	Accuracy  float64  `yaml:"accuracy"`
}

// Load reads a scenario from a YAML file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Parse decodes a YAML scenario. Explicit samples win over GPS points.
func Parse(data []byte) (*Scenario, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	start := f.Start
	if start.IsZero() {
		start = defaultStart
	}

	s := &Scenario{
		Name:        f.Name,
		Description: f.Description,
		Profile: coaching.Profile{
			Level:               coaching.Level(f.Profile.Level),
			TypicalPaceSecPerKm: f.Profile.TypicalPaceSecPerKm,
			Goal:                coaching.RunGoal(f.Profile.Goal),
		},
	}

	switch {
	case len(f.Samples) > 0:
		for _, sf := range f.Samples {
			s.Samples = append(s.Samples, sf.metrics(start))
		}
	case len(f.Points) > 0:
		points := make([]telemetry.Point, 0, len(f.Points))
		for _, pf := range f.Points {
			points = append(points, telemetry.Point{
				Time:     start.Add(seconds(pf.OffsetSec)),
				Lat:      pf.Lat,
				Lng:      pf.Lng,
				Altitude: pf.Altitude,
				Accuracy: pf.Accuracy,
			})
		}
		s.Samples = FromPoints(start, points)
	default:
		return nil, ErrEmptyScenario
	}

	return s, nil
}

func (sf sampleFile) metrics(start time.Time) coaching.Metrics {
	return coaching.Metrics{
		Timestamp:           start.Add(seconds(sf.ElapsedSec)),
		ElapsedSec:          sf.ElapsedSec,
		DistanceMeters:      sf.DistanceMeters,
		CurrentPaceSecPerKm: sf.CurrentPaceSecPerKm,
		AvgPaceSecPerKm:     sf.AvgPaceSecPerKm,
		SpeedMps:            sf.SpeedMps,
		ElevationMeters:     sf.ElevationMeters,
		ElevationDelta30s:   sf.ElevationDelta30s,
		PaceDelta30s:        sf.PaceDelta30s,
	}
}

// FromPoints runs GPS fixes through a tracker, one snapshot per fix
func FromPoints(start time.Time, points []telemetry.Point) []coaching.Metrics {
	tr := telemetry.NewTracker(start)
	samples := make([]coaching.Metrics, 0, len(points))
	for _, p := range points {
		tr.Add(p)
		samples = append(samples, tr.Metrics())
	}
	return samples
}

// Resolve returns the scenario stored at nameOrPath, or the built-in of that name
func Resolve(nameOrPath string) (*Scenario, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return Load(nameOrPath)
	}
	if s, ok := Builtin(nameOrPath); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScenario, nameOrPath, Names())
}

// Names lists the built-in scenarios in alphabetical order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Thin keeps only samples at least interval apart in run time, the cadence
// at which a live run would consult the coach. The first sample is always kept.
func (s *Scenario) Thin(interval time.Duration) {
	if interval <= 0 || len(s.Samples) < 2 {
		return
	}

	kept := s.Samples[:1]
	lastKept := s.Samples[0].ElapsedSec
	for _, m := range s.Samples[1:] {
		if seconds(m.ElapsedSec-lastKept) >= interval {
			kept = append(kept, m)
			lastKept = m.ElapsedSec
		}
	}
	s.Samples = kept
}

package scenario

import (
	"math"
	"time"

	"runcoach/internal/coaching"
	"runcoach/internal/telemetry"
)

var defaultStart = time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)

// builtins maps a name to a constructor so callers always get a fresh copy
var builtins = map[string]func() *Scenario{
	"realtime":       realtime,
	"uphill-fatigue": uphillFatigue,
	"hit-the-wall":   hitTheWall,
	"cooldown":       cooldown,
	"fast-start":     fastStart,
	"gps-hill-loop":  gpsHillLoop,
}

// Builtin returns a fresh copy of the named built-in scenario
func Builtin(name string) (*Scenario, bool) {
	build, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return build(), true
}

// at builds a snapshot stamped relative to the default start
func at(elapsed, distance, pace, avgPace, speed, elevation, elevDelta, paceDelta float64) coaching.Metrics {
	return coaching.Metrics{
		Timestamp:           defaultStart.Add(seconds(elapsed)),
		ElapsedSec:          elapsed,
		DistanceMeters:      distance,
		CurrentPaceSecPerKm: pace,
		AvgPaceSecPerKm:     avgPace,
		SpeedMps:            speed,
		ElevationMeters:     elevation,
		ElevationDelta30s:   elevDelta,
		PaceDelta30s:        paceDelta,
	}
}

func realtime() *Scenario {
	return &Scenario{
		Name:        "realtime",
		Description: "Single snapshot two minutes in, climbing while pace improves",
		Profile: coaching.Profile{
			Level:               coaching.LevelIntermediate,
			TypicalPaceSecPerKm: 300,
			Goal:                coaching.RunGoalEasy,
		},
		Samples: []coaching.Metrics{
			at(120, 400, 298, 315, 3.36, 125, 18, -2),
		},
	}
}

func uphillFatigue() *Scenario {
	return &Scenario{
		Name:        "uphill-fatigue",
		Description: "Beginner on a long climb who tires as the hill drags on",
		Profile: coaching.Profile{
			Level:               coaching.LevelBeginner,
			TypicalPaceSecPerKm: 360,
			Goal:                coaching.RunGoalEasy,
		},
		Samples: []coaching.Metrics{
			at(10, 60, 350, 350, 2.86, 100, 2, 0),
			at(180, 540, 355, 356, 2.82, 118, 6, 1),
			at(360, 1020, 370, 360, 2.7, 160, 21, 5),
			at(540, 1500, 390, 370, 2.56, 220, 20, 8),
			at(720, 1950, 410, 375, 2.44, 280, 18, 12),
		},
	}
}

func hitTheWall() *Scenario {
	return &Scenario{
		Name:        "hit-the-wall",
		Description: "Long run that goes from steady to a pace collapse",
		Profile: coaching.Profile{
			Level:               coaching.LevelIntermediate,
			TypicalPaceSecPerKm: 300,
			Goal:                coaching.RunGoalLong,
		},
		Samples: []coaching.Metrics{
			at(600, 3000, 300, 300, 3.33, 50, 0, 0),
			at(900, 4500, 320, 305, 3.13, 55, 0, 5),
			at(1200, 5700, 350, 310, 2.86, 60, 0, 12),
			at(1500, 6300, 400, 315, 2.5, 65, 0, 15),
		},
	}
}

func cooldown() *Scenario {
	samples := make([]coaching.Metrics, 0, 5)
	for i := 0; i < 5; i++ {
		elapsed := 300 + float64(i)*3
		samples = append(samples, at(elapsed, 1500+float64(i)*10, 300, 300, 3.33, 50, 0, 0))
	}
	return &Scenario{
		Name:        "cooldown",
		Description: "Identical steady snapshots every 3s; only the first speaks",
		Profile: coaching.Profile{
			Level:               coaching.LevelIntermediate,
			TypicalPaceSecPerKm: 300,
			Goal:                coaching.RunGoalEasy,
		},
		Samples: samples,
	}
}

func fastStart() *Scenario {
	return &Scenario{
		Name:        "fast-start",
		Description: "Runner goes out much faster than usual",
		Profile: coaching.Profile{
			Level:               coaching.LevelIntermediate,
			TypicalPaceSecPerKm: 300,
			Goal:                coaching.RunGoalEasy,
		},
		Samples: []coaching.Metrics{
			at(20, 150, 260, 260, 3.85, 50, 0, -20),
			at(50, 350, 270, 265, 3.7, 55, 1, 5),
		},
	}
}

// gpsHillLoop synthesizes a 12 minute GPS track: flat, a climb, a descent,
// then a late slowdown, and derives snapshots through the tracker
func gpsHillLoop() *Scenario {
	const (
		interval = 3 // seconds between fixes
		total    = 720
	)

	metersPerDegree := telemetry.EarthRadiusMeters * math.Pi / 180

	points := make([]telemetry.Point, 0, total/interval+1)
	var traveled, altitude float64 = 0, 100
	for sec := 0; sec <= total; sec += interval {
		if sec > 0 {
			speed := 3.4
			climb := 0.0
			switch {
			case sec > 180 && sec <= 330:
				speed, climb = 3.0, 0.7 // about 21m per 30s
			case sec > 330 && sec <= 450:
				speed, climb = 3.8, -0.7
			case sec > 600:
				speed = 2.2
			}
			traveled += speed * interval
			altitude += climb * interval
		}

		alt := altitude
		points = append(points, telemetry.Point{
			Time:     defaultStart.Add(time.Duration(sec) * time.Second),
			Lat:      45 + traveled/metersPerDegree,
			Lng:      7,
			Altitude: &alt,
			Accuracy: 6,
		})
	}

	return &Scenario{
		Name:        "gps-hill-loop",
		Description: "GPS track with a climb, a descent and a late slowdown",
		Profile: coaching.Profile{
			Level:               coaching.LevelIntermediate,
			TypicalPaceSecPerKm: 300,
			Goal:                coaching.RunGoalEasy,
		},
		Samples: FromPoints(defaultStart, points),
	}
}

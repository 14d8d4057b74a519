package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"runcoach/internal/coaching"
	"runcoach/internal/telemetry"
)

var classifyFlags struct {
	elapsed     float64
	distance    float64
	pace        float64
	avgPace     float64
	speed       float64
	elevation   float64
	elevDelta   float64
	paceDelta   float64
	level       string
	typicalPace float64
	goal        string
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single metrics snapshot",
	Long: `Classify runs one snapshot through the state classifier and intent mapper
and prints the state, intent, confidence and reason. Profile flags default to
the configured profile. Speed defaults to the one implied by --pace.`,
	Example: `  runcoach classify --elapsed 1200 --pace 350 --avg-pace 310 --pace-delta 12`,
	Args:    cobra.NoArgs,
	RunE:    runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	f := classifyCmd.Flags()
	f.Float64Var(&classifyFlags.elapsed, "elapsed", 600, "Elapsed time in seconds")
	f.Float64Var(&classifyFlags.distance, "distance", 0, "Distance in meters")
	f.Float64Var(&classifyFlags.pace, "pace", 0, "Current pace in s/km (default: typical pace)")
	f.Float64Var(&classifyFlags.avgPace, "avg-pace", 0, "Average pace in s/km (default: current pace)")
	f.Float64Var(&classifyFlags.speed, "speed", 0, "Speed in m/s (default: derived from pace)")
	f.Float64Var(&classifyFlags.elevation, "elevation", 0, "Elevation in meters")
	f.Float64Var(&classifyFlags.elevDelta, "elev-delta", 0, "Elevation change over the last 30s in meters")
	f.Float64Var(&classifyFlags.paceDelta, "pace-delta", 0, "Pace change over the last 30s in s/km (positive is slower)")
	f.StringVar(&classifyFlags.level, "level", "", "Runner level: beginner, intermediate or advanced")
	f.Float64Var(&classifyFlags.typicalPace, "typical-pace", 0, "Typical pace in s/km")
	f.StringVar(&classifyFlags.goal, "goal", "", "Run goal: easy, tempo, long or interval")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pc := cfg.Profile
	if classifyFlags.level != "" {
		pc.Level = classifyFlags.level
	}
	if classifyFlags.typicalPace > 0 {
		pc.TypicalPaceSecPerKm = classifyFlags.typicalPace
	}
	if classifyFlags.goal != "" {
		pc.Goal = classifyFlags.goal
	}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("invalid profile flags: %w", err)
	}
	profile := pc.ToProfile()

	m := coaching.Metrics{
		Timestamp:           time.Now(),
		ElapsedSec:          classifyFlags.elapsed,
		DistanceMeters:      classifyFlags.distance,
		CurrentPaceSecPerKm: classifyFlags.pace,
		AvgPaceSecPerKm:     classifyFlags.avgPace,
		SpeedMps:            classifyFlags.speed,
		ElevationMeters:     classifyFlags.elevation,
		ElevationDelta30s:   classifyFlags.elevDelta,
		PaceDelta30s:        classifyFlags.paceDelta,
	}
	if m.CurrentPaceSecPerKm == 0 {
		m.CurrentPaceSecPerKm = profile.TypicalPaceSecPerKm
	}
	if m.AvgPaceSecPerKm == 0 {
		m.AvgPaceSecPerKm = m.CurrentPaceSecPerKm
	}
	if m.SpeedMps == 0 && m.CurrentPaceSecPerKm > 0 {
		m.SpeedMps = 1000 / m.CurrentPaceSecPerKm
	}

	state := coaching.Classify(m, profile)
	intent := coaching.IntentFor(state)
	units := telemetry.NewUnits(cfg.Display)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "State:      %s\n", state)
	fmt.Fprintf(out, "Goal:       %s\n", intent.Goal)
	fmt.Fprintf(out, "Tone:       %s\n", intent.Tone)
	fmt.Fprintf(out, "Urgency:    %s\n", intent.Urgency)
	fmt.Fprintf(out, "Confidence: %.0f%%\n", coaching.Confidence(m, profile, state)*100)
	fmt.Fprintf(out, "Reason:     %s\n", coaching.ReasonFor(state))
	fmt.Fprintf(out, "Effort:     %s\n", coaching.EffortLevelFor(m.SpeedMps))
	fmt.Fprintf(out, "Pace:       %s (%+.1f%% vs typical %s)\n",
		units.FormatPaceWithUnit(m.CurrentPaceSecPerKm),
		coaching.PaceDeviationPercent(m.CurrentPaceSecPerKm, profile.TypicalPaceSecPerKm),
		units.FormatPaceWithUnit(profile.TypicalPaceSecPerKm))

	logger.Debug("classified snapshot",
		zap.Stringer("state", state),
		zap.Float64("elapsed", m.ElapsedSec),
		zap.Float64("pace", m.CurrentPaceSecPerKm))
	return nil
}

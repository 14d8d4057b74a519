package service

import (
	"fmt"

	"runcoach/internal/coaching"
)

// Summarize gives a one-line assessment of how a replayed run went
func Summarize(r *ReplayResult) string {
	if r == nil || r.Samples == 0 {
		return "No data to assess"
	}

	struggling := r.Percent(coaching.StateStruggling)
	faded := r.Percent(coaching.StateFatigue) + r.Percent(coaching.StateSlowingDown)
	hilly := r.Percent(coaching.StateUphill) + r.Percent(coaching.StateDownhill)
	steady := r.SteadyPercent()

	switch {
	case struggling >= OverreachedStrugglingPercent:
		return fmt.Sprintf("Overreached: struggling for %.0f%% of the run, start easier next time", struggling)
	case steady >= WellPacedSteadyPercent:
		return fmt.Sprintf("Well paced: steady for %.0f%% of the run", steady)
	case faded >= FadedPercent:
		return fmt.Sprintf("Faded: slowing or tiring for %.0f%% of the run", faded)
	case hilly >= HillyPercent:
		return fmt.Sprintf("Hilly: terrain drove %.0f%% of the run", hilly)
	default:
		return fmt.Sprintf("Mixed effort: steady for %.0f%% of the run", steady)
	}
}

// SpokeLine reports how often the coach actually spoke
func SpokeLine(r *ReplayResult) string {
	return fmt.Sprintf("%d of %d snapshots produced feedback (%d withheld)", r.Emitted, r.Samples, r.Withheld)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"runcoach/internal/coaching"
	"runcoach/internal/config"
	"runcoach/internal/scenario"
	"runcoach/internal/service"
	"runcoach/internal/store"
	"runcoach/internal/telemetry"
)

var (
	replayNoJournal bool
	replayAll       bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario|file>",
	Short: "Replay a scenario and print the coaching decisions",
	Long: `Replay feeds every snapshot of a scenario through the coaching engine, using
the snapshot timestamps as the clock, and prints the feedback the coach would
give. Built-in scenario names and YAML files are both accepted. Decisions are
stored in the journal unless --no-journal is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVar(&replayNoJournal, "no-journal", false, "Do not store the session in the journal")
	replayCmd.Flags().BoolVarP(&replayAll, "all", "a", false, "Also print snapshots where the coach stayed quiet")
}

// loadScenario resolves a scenario and applies the configured profile and cadence
func loadScenario(cfg *config.Config, nameOrPath string) (*scenario.Scenario, error) {
	sc, err := scenario.Resolve(nameOrPath)
	if err != nil {
		return nil, err
	}
	sc.WithDefaultProfile(cfg.Profile.ToProfile())
	sc.Thin(cfg.Replay.SampleInterval())
	return sc, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sc, err := loadScenario(cfg, args[0])
	if err != nil {
		return err
	}

	var st *store.Store
	if !replayNoJournal {
		st, err = openJournal()
		if err != nil {
			return err
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := service.NewCoachService(st, cfg.Coaching.Cooldowns.ToCooldowns(), logger)
	units := telemetry.NewUnits(cfg.Display)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Replaying %s (%d samples, %s)\n", sc.Name, len(sc.Samples), sc.Duration())
	fmt.Fprintf(out, "Runner: %s, typical pace %s, %s run\n\n",
		sc.Profile.Level, units.FormatPaceWithUnit(sc.Profile.TypicalPaceSecPerKm), sc.Profile.Goal)

	progress := make(chan service.ReplayProgress)
	type outcome struct {
		result *service.ReplayResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := svc.Replay(ctx, sc, progress)
		done <- outcome{r, err}
	}()

	for p := range progress {
		printStep(out, units, p.Step)
	}

	o := <-done
	if o.err != nil {
		return fmt.Errorf("replaying %s: %w", sc.Name, o.err)
	}

	printResult(out, o.result, st != nil)
	return nil
}

func printStep(out io.Writer, units telemetry.Units, step service.Step) {
	clock := telemetry.FormatClock(step.Metrics.ElapsedSec)
	if !step.Emitted {
		if replayAll {
			fmt.Fprintf(out, "[%s] %-13s %-9s (quiet)\n", clock, step.State, units.FormatPace(step.Metrics.CurrentPaceSecPerKm))
		}
		return
	}

	o := step.Output
	fmt.Fprintf(out, "[%s] %-13s %-9s %-36s %3.0f%%  %s\n",
		clock, o.State, units.FormatPace(step.Metrics.CurrentPaceSecPerKm),
		o.Intent.String(), o.Confidence*100, o.Reason)
}

func printResult(out io.Writer, r *service.ReplayResult, journaled bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, service.Summarize(r))
	fmt.Fprintln(out, service.SpokeLine(r))

	fmt.Fprintln(out, "\nStates:")
	for _, s := range coaching.AllStates() {
		if n := r.StateCounts[s]; n > 0 {
			fmt.Fprintf(out, "  %-13s %3d  %5.1f%%\n", s, n, r.Percent(s))
		}
	}

	pacing := r.Pacing
	fmt.Fprintf(out, "\nPacing: %s (fade %+.1f%%, %.0f%% of snapshots near average pace)\n",
		pacing.Assessment, pacing.FadePct, pacing.SteadyPct)
	for _, sp := range pacing.Splits {
		fmt.Fprintf(out, "  km %-3d %6s  %+5.1f%%  +%.0fm\n",
			sp.Km, telemetry.FormatClock(sp.Seconds), sp.PaceVsAvg, sp.ElevationUp)
	}

	if journaled {
		fmt.Fprintf(out, "\nSaved as session %s\n", r.SessionID)
	}
}

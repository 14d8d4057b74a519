package cmd

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"runcoach/internal/config"
	"runcoach/internal/service"
	"runcoach/internal/store"
	"runcoach/internal/telemetry"
	"runcoach/internal/tui"
)

var watchNoJournal bool

var watchCmd = &cobra.Command{
	Use:   "watch <scenario|file>",
	Short: "Watch a scenario replay in the terminal viewer",
	Long: `Watch steps through a scenario at the configured tick rate and shows the
current metrics, run state, latest decision and a pace chart. With --verbose,
engine logs go to runcoach.log in the config directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchNoJournal, "no-journal", false, "Do not store sessions in the journal")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sc, err := loadScenario(cfg, args[0])
	if err != nil {
		return err
	}

	// stderr belongs to the viewer
	viewLogger := zap.NewNop()
	if verbose {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		viewLogger, err = newLogger(true, []string{filepath.Join(dir, "runcoach.log")})
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer viewLogger.Sync()
	}

	var st *store.Store
	if !watchNoJournal {
		st, err = openJournal()
		if err != nil {
			return err
		}
		defer st.Close()
	}

	svc := service.NewCoachService(st, cfg.Coaching.Cooldowns.ToCooldowns(), viewLogger)
	app := tui.NewApp(svc, sc, telemetry.NewUnits(cfg.Display), cfg.Replay.TickInterval())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

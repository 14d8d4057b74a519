package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"runcoach/internal/config"
	"runcoach/internal/store"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "runcoach",
	Short: "Rule-based running coach",
	Long: `runcoach classifies running metrics into a run state, maps the state to a
coaching intent and decides when feedback should be given. Scenarios can be
replayed on the command line or watched in a terminal viewer, and every
emitted decision is kept in a local journal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine decisions at debug level")
}

// newLogger builds the CLI logger. Only warnings are shown unless verbose.
// outputPaths redirects logs away from stderr, which the viewer owns.
func newLogger(verbose bool, outputPaths []string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if len(outputPaths) > 0 {
		cfg.OutputPaths = outputPaths
		cfg.ErrorOutputPaths = outputPaths
	}
	return cfg.Build()
}

// loadConfig reads the config file, falling back to defaults when there is none
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		dir, _ := config.GetConfigDir()
		return nil, fmt.Errorf("invalid config in %s/config.json: %w", dir, err)
	}
	return cfg, nil
}

// openJournal opens the decision journal in the config directory
func openJournal() (*store.Store, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(store.DefaultPath(dir))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return st, nil
}

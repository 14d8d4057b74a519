package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"runcoach/internal/service"
	"runcoach/internal/store"
	"runcoach/internal/telemetry"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List journaled coaching sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openJournal()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.ListSessions(cmd.Context(), sessionsLimit)
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions yet. Try: runcoach replay hit-the-wall")
			return nil
		}
		printSessions(out, sessions)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the decisions of a session (default: the latest)",
	Long: `Show prints a journaled session and every decision it emitted. The id may
be shortened to any unique prefix. Without an id the latest session is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openJournal()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		var sess *store.Session
		if len(args) == 0 {
			sess, err = st.LastSession(ctx)
		} else {
			sess, err = st.FindSession(ctx, args[0])
		}
		if errors.Is(err, store.ErrSessionNotFound) {
			return fmt.Errorf("no such session")
		}
		if err != nil {
			return err
		}

		decisions, err := st.ListDecisions(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("loading decisions: %w", err)
		}

		printSession(cmd.OutOrStdout(), sess, decisions)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its decisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openJournal()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		sess, err := st.FindSession(ctx, args[0])
		if errors.Is(err, store.ErrSessionNotFound) {
			return fmt.Errorf("no such session")
		}
		if err != nil {
			return err
		}
		if err := st.DeleteSession(ctx, sess.ID); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", shortID(sess.ID), sess.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd, showCmd, deleteCmd)

	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", service.RecentSessionsLimit, "Number of sessions to list")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func printSessions(out io.Writer, sessions []store.Session) {
	fmt.Fprintf(out, "%-8s  %-20s  %-16s  %8s  %s\n", "ID", "NAME", "STARTED", "DURATION", "SPOKE")
	for _, s := range sessions {
		duration := "running"
		if s.FinishedAt != nil {
			duration = s.Duration().String()
		}
		fmt.Fprintf(out, "%-8s  %-20s  %-16s  %8s  %d/%d\n",
			shortID(s.ID), truncate(s.Name, 20), humanize.Time(s.StartedAt), duration, s.Emitted, s.Samples)
	}
}

func printSession(out io.Writer, s *store.Session, decisions []store.Decision) {
	fmt.Fprintf(out, "Session %s\n", s.ID)
	fmt.Fprintf(out, "  Name:     %s\n", s.Name)
	fmt.Fprintf(out, "  Source:   %s\n", s.Source)
	fmt.Fprintf(out, "  Runner:   %s, typical pace %.0f s/km, %s run\n", s.Level, s.TypicalPace, s.Goal)
	fmt.Fprintf(out, "  Started:  %s (%s)\n", s.StartedAt.Format("2006-01-02 15:04"), humanize.Time(s.StartedAt))
	if s.FinishedAt != nil {
		fmt.Fprintf(out, "  Duration: %s\n", s.Duration())
		fmt.Fprintf(out, "  Spoke:    %d of %d snapshots (%d withheld)\n", s.Emitted, s.Samples, s.Withheld)
	}

	fmt.Fprintln(out)
	if len(decisions) == 0 {
		fmt.Fprintln(out, "No decisions recorded.")
		return
	}
	for _, d := range decisions {
		fmt.Fprintf(out, "[%s] %-13s %-36s %3.0f%%  %s\n",
			telemetry.FormatClock(d.ElapsedSec), d.State,
			strings.Join([]string{d.Goal, d.Tone, d.Urgency}, "/"), d.Confidence*100, d.Reason)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

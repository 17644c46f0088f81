package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flagForce bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired entries",
	Long: "Delete expired entries, honoring clearRandomly and neverClearAll.\n" +
		"With --force every expired entry is removed regardless of those settings.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, w, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sweep := s.Sweep
		if flagForce {
			sweep = s.Purge
		}
		n, err := sweep()
		if err != nil {
			return fail(fmt.Errorf("sweeping cache: %w", err))
		}
		return w.WriteCount(cmd.OutOrStdout(), "removed", n)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, w, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Clear()
		if err != nil {
			return fail(fmt.Errorf("clearing cache: %w", err))
		}
		return w.WriteCount(cmd.OutOrStdout(), "cleared", n)
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List cache entries",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, w, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.Entries()
		if err != nil {
			return fail(fmt.Errorf("listing cache: %w", err))
		}
		return w.WriteEntries(cmd.OutOrStdout(), entries, time.Now())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, w, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.GetStats()
		if err != nil {
			return fail(fmt.Errorf("reading cache stats: %w", err))
		}
		return w.WriteStats(cmd.OutOrStdout(), stats)
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&flagForce, "force", false, "Ignore clearRandomly and neverClearAll")
}

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dshills/kvcache/internal/cache"
	"github.com/spf13/cobra"
)

// Entry command flags
var (
	flagTTL           string
	flagJSONValue     bool
	flagDeleteExpired bool
)

var setCmd = &cobra.Command{
	Use:   "set [flags] <key> <value>",
	Short: "Store a value under a key",
	Long: "Store a value under a key. Flags go before the key so values such as\n" +
		"-1 are taken literally.",
	Example: "  kvcache set --ttl 60 session:9 -1",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var wopts []cache.WriteOption
		if flagTTL != "" {
			ttl, err := strconv.ParseInt(flagTTL, 10, 64)
			if err != nil {
				return fmt.Errorf("--ttl must be an integer: %w", err)
			}
			if ttl < cache.NeverExpires {
				return fmt.Errorf("--ttl must be -1 or a non-negative number of seconds, got %d", ttl)
			}
			wopts = append(wopts, cache.WithTTL(ttl))
		}
		var value any = args[1]
		if flagJSONValue {
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				return fmt.Errorf("parsing JSON value: %w", err)
			}
		}

		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Write(args[0], value, wopts...); err != nil {
			return fail(fmt.Errorf("writing %q: %w", args[0], err))
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, w, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		var value any
		ok, err := s.Read(args[0], &value)
		if err != nil {
			return fail(fmt.Errorf("reading %q: %w", args[0], err))
		}
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: not found\n", args[0])
			exitCode = ExitMiss
			return nil
		}
		return w.WriteValue(cmd.OutOrStdout(), args[0], value)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"rm"},
	Short:   "Remove every entry for a key",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Delete(args[0]); err != nil {
			return fail(fmt.Errorf("deleting %q: %w", args[0], err))
		}
		return nil
	},
}

var ttlCmd = &cobra.Command{
	Use:   "ttl <key>",
	Short: "Show when a key expires",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, w, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		epoch, ok, err := s.ExpiresAt(args[0])
		if err != nil {
			return fail(err)
		}
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: not found\n", args[0])
			exitCode = ExitMiss
			return nil
		}
		return w.WriteExpiry(cmd.OutOrStdout(), args[0], epoch, time.Now())
	},
}

var expiredCmd = &cobra.Command{
	Use:   "expired <key>",
	Short: "Report whether a key is expired (missing keys count as expired)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, w, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		expired, err := s.IsExpired(args[0])
		if err != nil {
			return fail(err)
		}
		return w.WriteValue(cmd.OutOrStdout(), args[0], expired)
	},
}

func init() {
	setCmd.Flags().StringVar(&flagTTL, "ttl", "", "TTL in seconds, -1 for never (default: configured default TTL)")
	setCmd.Flags().BoolVar(&flagJSONValue, "json", false, "Parse the value as JSON")
	setCmd.Flags().SetInterspersed(false)
	getCmd.Flags().BoolVar(&flagDeleteExpired, "delete-expired", false, "Delete the entry first if it is expired")
}

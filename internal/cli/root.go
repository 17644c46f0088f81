package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/dshills/kvcache/internal/cache"
	"github.com/dshills/kvcache/internal/config"
	"github.com/dshills/kvcache/internal/output"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitMiss         = 1
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

// Global flags
var (
	flagDir        string
	flagDefaultTTL string
	flagFormat     string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "kvcache",
	Short:         "File-backed key/value cache",
	Long:          "kvcache stores values in a directory, one file per key, with the expiry encoded in the file name.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	exitCode = ExitSuccess
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if exitCode == ExitRuntimeError {
			return ExitRuntimeError
		}
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// fail marks err as a runtime failure rather than a usage error.
func fail(err error) error {
	exitCode = ExitRuntimeError
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print kvcache version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kvcache version %s\n", version)
	},
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagDir != "" {
		m["dir"] = flagDir
	}
	if flagDefaultTTL != "" {
		m["defaultTtlSeconds"] = flagDefaultTTL
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagDeleteExpired {
		m["deleteExpiredOnRead"] = "true"
	}
	return m
}

// openStore loads the effective configuration and opens the store it
// describes. The caller must Close the store.
func openStore() (*cache.Store, output.Writer, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return nil, nil, err
	}
	writer, err := output.GetWriter(cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	opts := []cache.Option{cache.WithOptions(cfg.Cache.Options())}
	if flagVerbose {
		opts = append(opts, cache.WithLogger(log.New(os.Stderr, "kvcache: ", 0)))
	}
	s, err := cache.Open(opts...)
	if err != nil {
		return nil, nil, fail(err)
	}
	return s, writer, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Cache directory (default: platform cache dir)")
	rootCmd.PersistentFlags().StringVar(&flagDefaultTTL, "default-ttl", "", "Default TTL in seconds, -1 for never")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log deletion failures and sweeps to stderr")

	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(ttlCmd)
	rootCmd.AddCommand(expiredCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

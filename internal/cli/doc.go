// Package cli wires together the Cobra command tree for the kvcache binary.
//
// It defines the root command and all subcommands (set, get, delete, ttl,
// expired, sweep, clear, list, stats, config, version), binds flags, reads
// configuration, opens the store, and returns deterministic exit codes.
// Every command that opens the store closes it on return, which runs the
// end-of-life sweep.
package cli

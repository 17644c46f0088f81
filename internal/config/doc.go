// Package config loads and merges kvcache configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (KVCACHE_DIR, KVCACHE_DEFAULT_TTL,
//     KVCACHE_CLEAR_RANDOMLY, KVCACHE_NEVER_CLEAR_ALL,
//     KVCACHE_DELETE_EXPIRED_ON_READ, KVCACHE_FORMAT)
//  3. Config file ($XDG_CONFIG_HOME/kvcache/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write one, and
// [SetField] to update a single key.
package config

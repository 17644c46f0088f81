// Package cache provides a file-backed key/value store with per-entry expiry.
//
// Every entry is a single file in the store directory named
//
//	cache.<sanitizedKey>.<expiryEpoch>
//
// where sanitizedKey is the caller's key with everything outside
// [A-Za-z0-9._-] removed and expiryEpoch is a UNIX time in seconds, or -1
// for entries that never expire. The file name is the only record of an
// entry's expiry; there is no index file. File bodies are JSON. Values
// written with [Serialized] are CBOR-encoded first and stored as a JSON
// string.
//
// Expired entries are removed lazily: on read when DeleteExpiredOnRead is
// set, and by [Store.Sweep], which [Store.Close] runs once. With
// ClearRandomly the sweep only runs about once per hundred calls.
//
// Keys that sanitize to the same string share an entry. Writes from several
// processes are not coordinated, so two entries for one key can briefly
// coexist; reads then use the one with the latest expiry.
package cache

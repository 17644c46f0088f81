// Kvcache is a CLI over a file-backed key/value cache.
//
// Entries live in one directory, one file per key, named
// cache.<key>.<expiry> so expiry needs no index.
//
// Usage:
//
//	kvcache set --json --ttl 3600 user:42 '{"name":"Ada"}'
//	kvcache get user:42                 # print the value, exit 1 on miss
//	kvcache ttl user:42                 # show when the entry expires
//	kvcache sweep --force               # delete every expired entry
//	kvcache stats --format json         # directory statistics
//
// See https://github.com/dshills/kvcache for full documentation.
package main

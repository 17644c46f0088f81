package cache

import (
	"strconv"
	"strings"
	"time"
)

// NeverExpires is the expiry epoch of entries that are never removed by
// lazy deletion or sweeps.
const NeverExpires int64 = -1

const entryPrefix = "cache."

// Sanitize strips every character outside [A-Za-z0-9._-] from key.
// Distinct keys can collide after sanitization ("ab" and "a#b").
func Sanitize(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '.', c == '_', c == '-':
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EntryName composes the on-disk name cache.<sanitizedKey>.<epoch>.
func EntryName(sanitizedKey string, epoch int64) string {
	return entryPrefix + sanitizedKey + "." + strconv.FormatInt(epoch, 10)
}

// ParseEntryName splits an on-disk name back into its sanitized key and
// expiry epoch. ok is false for names outside the grammar.
func ParseEntryName(name string) (sanitizedKey string, epoch int64, ok bool) {
	if !strings.HasPrefix(name, entryPrefix) {
		return "", 0, false
	}
	rest := name[len(entryPrefix):]
	i := strings.LastIndexByte(rest, '.')
	if i < 0 {
		return "", 0, false
	}
	epoch, ok = parseEpoch(rest[i+1:])
	if !ok {
		return "", 0, false
	}
	key := rest[:i]
	if Sanitize(key) != key {
		return "", 0, false
	}
	return key, epoch, true
}

// parseEpoch accepts "-1" or a non-negative base-10 integer.
func parseEpoch(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if s == "-1" {
		return NeverExpires, true
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Expired reports whether epoch lies strictly before now.
func Expired(epoch int64, now time.Time) bool {
	return epoch != NeverExpires && epoch < now.Unix()
}

// fresher orders epochs so NeverExpires sorts above every concrete time.
func fresher(a, b int64) bool {
	if a == NeverExpires {
		return b != NeverExpires
	}
	if b == NeverExpires {
		return false
	}
	return a > b
}

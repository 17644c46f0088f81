package cache

import (
	"log"
	"time"
)

// DefaultTTLSeconds is applied to writes without an explicit TTL unless
// configured otherwise.
const DefaultTTLSeconds int64 = 3600

// Options is the store configuration. The JSON names match the
// configuration file keys.
type Options struct {
	Dir                 string `json:"dir"`
	DefaultTTL          int64  `json:"defaultTtlSeconds"`
	ClearRandomly       bool   `json:"clearRandomly"`
	NeverClearAll       bool   `json:"neverClearAll"`
	DeleteExpiredOnRead bool   `json:"deleteExpiredOnRead"`
}

// Option changes one aspect of a Store. Options that are not passed keep
// their current value.
type Option func(*Store)

// WithDir sets the directory entries live in.
func WithDir(dir string) Option {
	return func(s *Store) { s.opts.Dir = dir }
}

// WithDefaultTTL sets the fallback expiry window in seconds, or
// NeverExpires.
func WithDefaultTTL(seconds int64) Option {
	return func(s *Store) { s.opts.DefaultTTL = seconds }
}

// WithClearRandomly makes Sweep run only about once in a hundred calls.
func WithClearRandomly(v bool) Option {
	return func(s *Store) { s.opts.ClearRandomly = v }
}

// WithNeverClearAll disables Sweep, including the one Close performs.
func WithNeverClearAll(v bool) Option {
	return func(s *Store) { s.opts.NeverClearAll = v }
}

// WithDeleteExpiredOnRead makes Read remove an expired entry before looking
// it up.
func WithDeleteExpiredOnRead(v bool) Option {
	return func(s *Store) { s.opts.DeleteExpiredOnRead = v }
}

// WithOptions replaces the whole configuration.
func WithOptions(o Options) Option {
	return func(s *Store) { s.opts = o }
}

// WithLogger routes deletion failures and sweep summaries to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCodec replaces the structured encoder.
func WithCodec(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithSerializer replaces the object serializer used by Serialized writes.
func WithSerializer(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.serializer = c
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WriteOption tunes a single Write.
type WriteOption func(*writeConfig)

type writeConfig struct {
	ttl       *int64
	serialize bool
}

// WithTTL overrides the default TTL for one write. NeverExpires stores the
// entry forever.
func WithTTL(seconds int64) WriteOption {
	return func(c *writeConfig) { c.ttl = &seconds }
}

// Serialized passes the value through the object serializer before the
// structured encoder.
func Serialized() WriteOption {
	return func(c *writeConfig) { c.serialize = true }
}

// Producer computes a value for a key that is not cached. A nil or empty
// result is treated as "nothing to cache".
type Producer func() (any, error)

// ReadOption tunes a single Read.
type ReadOption func(*readConfig)

type readConfig struct {
	deserialize     bool
	producer        Producer
	storeResult     bool
	ttl             *int64
	serializeResult bool
}

// Deserialized reverses Serialized on read.
func Deserialized() ReadOption {
	return func(c *readConfig) { c.deserialize = true }
}

// WithProducer supplies the fallback invoked when the key is absent.
func WithProducer(p Producer) ReadOption {
	return func(c *readConfig) { c.producer = p }
}

// StoreResult controls whether a producer result is written back. Default
// true.
func StoreResult(v bool) ReadOption {
	return func(c *readConfig) { c.storeResult = v }
}

// ResultTTL sets the TTL of a stored producer result.
func ResultTTL(seconds int64) ReadOption {
	return func(c *readConfig) { c.ttl = &seconds }
}

// SerializeResult stores the producer result through the object serializer.
func SerializeResult() ReadOption {
	return func(c *readConfig) { c.serializeResult = true }
}

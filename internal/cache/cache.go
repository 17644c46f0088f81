package cache

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Store is a file-backed key/value cache. Each entry is one file whose name
// carries the entry's expiry; there is no index.
//
// A Store is safe for concurrent use by goroutines of one process. Writers
// in other processes are not coordinated with.
type Store struct {
	mu   sync.Mutex
	opts Options

	codec      Codec
	serializer Codec
	logger     *log.Logger
	now        func() time.Time
	rand       func(n int) int
	tempID     func() string

	flights   singleflight.Group
	closeOnce sync.Once
}

type match struct {
	name  string
	epoch int64
}

// Open creates a Store with default options overlaid by opts and creates
// its directory. The caller owns the Store and should defer Close.
func Open(opts ...Option) (*Store, error) {
	s := &Store{
		opts:       Options{DefaultTTL: DefaultTTLSeconds},
		codec:      JSONCodec{},
		serializer: CBORCodec{},
		logger:     log.New(io.Discard, "", 0),
		now:        time.Now,
		rand:       rand.IntN,
		tempID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure merges opts over the current configuration and returns the
// result. Called without options it only reports the configuration. On
// failure the previous configuration is kept.
func (s *Store) Configure(opts ...Option) (Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(opts) == 0 {
		return s.opts, nil
	}
	prev := s.opts
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(); err != nil {
		s.opts = prev
		return prev, err
	}
	return s.opts, nil
}

func (s *Store) init() error {
	if s.opts.Dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return &InitError{Dir: d, Err: err}
		}
		s.opts.Dir = d
	}
	abs, err := filepath.Abs(s.opts.Dir)
	if err != nil {
		return &InitError{Dir: s.opts.Dir, Err: err}
	}
	s.opts.Dir = abs
	if err := os.MkdirAll(abs, 0o755); err != nil {
		if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
			return nil
		}
		return &InitError{Dir: abs, Err: err}
	}
	return nil
}

func (s *Store) options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.options().Dir
}

// Write stores value under key, replacing any previous entry for it.
func (s *Store) Write(key string, value any, opts ...WriteOption) error {
	var wc writeConfig
	for _, opt := range opts {
		opt(&wc)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.encodePayload(value, wc.serialize)
	if err != nil {
		return err
	}
	clean := Sanitize(key)
	if err := s.deleteLocked(clean); err != nil {
		return err
	}
	return s.writeFile(EntryName(clean, s.expiryFor(wc.ttl)), data)
}

func (s *Store) expiryFor(ttl *int64) int64 {
	if ttl != nil && *ttl == NeverExpires {
		return NeverExpires
	}
	if ttl == nil && s.opts.DefaultTTL == NeverExpires {
		return NeverExpires
	}
	d := s.opts.DefaultTTL
	if ttl != nil {
		d = *ttl
	}
	now := s.now().Unix()
	switch {
	case d > 0 && now > math.MaxInt64-d:
		return math.MaxInt64
	case now+d < 0:
		// Entry names only carry -1 or a non-negative epoch.
		return 0
	}
	return now + d
}

// writeFile writes data to a temp file and renames it into place so readers
// never observe a partial body.
func (s *Store) writeFile(name string, data []byte) error {
	tmp := filepath.Join(s.opts.Dir, ".kvcache-"+s.tempID()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.opts.Dir, name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}

// Read decodes the entry for key into dst and reports whether a value was
// found. A missing key is not an error. When the key is missing and a
// producer is supplied, its non-empty result is returned in dst and, unless
// StoreResult(false) is given, written back.
//
// Errors returned by the producer are passed through unchanged.
func (s *Store) Read(key string, dst any, opts ...ReadOption) (bool, error) {
	rc := readConfig{storeResult: true}
	for _, opt := range opts {
		opt(&rc)
	}

	o := s.options()
	if o.DeleteExpiredOnRead {
		if _, err := s.DeleteIfExpired(key); err != nil {
			return false, err
		}
	}

	clean := Sanitize(key)
	found, err := s.readEntry(o.Dir, clean, dst, rc.deserialize)
	if err != nil || found {
		return found, err
	}
	if rc.producer == nil {
		return false, nil
	}

	v, err, _ := s.flights.Do(clean, func() (any, error) {
		v, err := rc.producer()
		if err != nil {
			return nil, err
		}
		if isEmpty(v) {
			return nil, nil
		}
		if rc.storeResult {
			wopts := []WriteOption{}
			if rc.ttl != nil {
				wopts = append(wopts, WithTTL(*rc.ttl))
			}
			if rc.serializeResult {
				wopts = append(wopts, Serialized())
			}
			if err := s.Write(key, v, wopts...); err != nil {
				return nil, err
			}
		}
		return v, nil
	})
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	if err := s.assign(dst, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) readEntry(dir, clean string, dst any, deserialize bool) (bool, error) {
	matches, err := s.search(dir, clean)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		data, err := os.ReadFile(filepath.Join(dir, m.name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// removed between listing and reading
				continue
			}
			return false, fmt.Errorf("reading cache entry: %w", err)
		}
		if err := s.decodePayload(data, dst, deserialize); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// assign stores a producer result into dst, directly when the types allow
// and otherwise through the structured encoder.
func (s *Store) assign(dst, v any) error {
	if dst == nil {
		return nil
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		elem := rv.Elem()
		src := reflect.ValueOf(v)
		if src.Type().AssignableTo(elem.Type()) {
			elem.Set(src)
			return nil
		}
	}
	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding produced value: %w", err)
	}
	if err := s.codec.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding produced value: %w", err)
	}
	return nil
}

// isEmpty reports values a producer returns to mean "nothing": nil, false,
// zero numbers, and empty strings, slices, and maps.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return rv.IsZero()
	default:
		return false
	}
}

// Get is Read for a typed value.
func Get[T any](s *Store, key string, opts ...ReadOption) (T, bool, error) {
	var v T
	ok, err := s.Read(key, &v, opts...)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// ExpiresAt returns the expiry epoch recorded in the name of key's entry.
// ok is false when there is no entry.
func (s *Store) ExpiresAt(key string) (epoch int64, ok bool, err error) {
	matches, err := s.search(s.Dir(), Sanitize(key))
	if err != nil || len(matches) == 0 {
		return 0, false, err
	}
	return matches[0].epoch, true, nil
}

// IsExpired reports whether key's entry is past its expiry. A key with no
// entry counts as expired, so IsExpired is not the inverse of "Read finds a
// value".
func (s *Store) IsExpired(key string) (bool, error) {
	epoch, ok, err := s.ExpiresAt(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return Expired(epoch, s.now()), nil
}

// DeleteIfExpired deletes key's entries when they are expired and reports
// whether the key is now gone. An absent key counts as deleted. The check and
// the removal hold the store lock together.
func (s *Store) DeleteIfExpired(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches, err := s.search(s.opts.Dir, Sanitize(key))
	if err != nil {
		return false, err
	}
	if len(matches) == 0 {
		return true, nil
	}
	now := s.now()
	// matches is freshest first; once the freshest is expired, all are.
	if !Expired(matches[0].epoch, now) {
		return false, nil
	}
	for _, m := range matches {
		s.remove(m.name)
	}
	return true, nil
}

// Delete removes every entry for key. Missing keys and individual removal
// failures are not errors.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(Sanitize(key))
}

func (s *Store) deleteLocked(clean string) error {
	matches, err := s.search(s.opts.Dir, clean)
	if err != nil {
		return err
	}
	for _, m := range matches {
		s.remove(m.name)
	}
	return nil
}

// remove deletes one entry file, logging failures instead of returning them.
func (s *Store) remove(name string) bool {
	err := os.Remove(filepath.Join(s.opts.Dir, name))
	if err == nil {
		return true
	}
	if !errors.Is(err, os.ErrNotExist) {
		s.logger.Printf("removing %s: %v", name, err)
	}
	return false
}

// search lists the entries for a sanitized key, freshest first.
func (s *Store) search(dir, clean string) ([]match, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	prefix := entryPrefix + clean + "."
	var matches []match
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		epoch, ok := parseEpoch(name[len(prefix):])
		if !ok {
			continue
		}
		matches = append(matches, match{name: name, epoch: epoch})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return fresher(matches[i].epoch, matches[j].epoch)
	})
	return matches, nil
}

// DefaultDir returns the platform cache directory for kvcache.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "kvcache"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "kvcache"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "kvcache", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "kvcache", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "kvcache"), nil
	}
}

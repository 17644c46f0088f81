package cache

import (
	"errors"
	"fmt"
	"os"
	"sort"
)

// sweepOdds is the 1-in-N chance that a random sweep actually runs.
const sweepOdds = 100

// Sweep deletes every expired entry in the store and returns how many were
// removed. It does nothing when NeverClearAll is set, and with
// ClearRandomly it runs only about once per hundred calls.
func (s *Store) Sweep() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.NeverClearAll {
		return 0, nil
	}
	if s.opts.ClearRandomly && s.rand(sweepOdds) != 0 {
		return 0, nil
	}
	return s.purgeLocked()
}

// Purge deletes every expired entry regardless of the sweep settings.
func (s *Store) Purge() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked()
}

func (s *Store) purgeLocked() (int, error) {
	infos, err := s.list()
	if err != nil {
		return 0, err
	}
	now := s.now()
	removed := 0
	for _, info := range infos {
		if Expired(info.ExpiresAt, now) && s.remove(info.Name) {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Printf("swept %d expired entries from %s", removed, s.opts.Dir)
	}
	return removed, nil
}

// Clear removes all cache entries, expired or not.
func (s *Store) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos, err := s.list()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, info := range infos {
		if s.remove(info.Name) {
			removed++
		}
	}
	return removed, nil
}

// Close runs the end-of-life sweep. Only the first call does any work, and
// sweep failures are logged rather than returned.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if _, err := s.Sweep(); err != nil {
			s.logger.Printf("sweep on close: %v", err)
		}
	})
	return nil
}

// EntryInfo describes one on-disk entry.
type EntryInfo struct {
	Name      string `json:"name"`
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expiresAt"`
	Size      int64  `json:"size"`
	Expired   bool   `json:"expired"`
}

// Entries lists every entry in the store ordered by name.
func (s *Store) Entries() ([]EntryInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos, err := s.list()
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range infos {
		infos[i].Expired = Expired(infos[i].ExpiresAt, now)
	}
	return infos, nil
}

// Stats summarizes the store contents.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
	Permanent  int    `json:"permanent"`
}

// GetStats returns information about the cache.
func (s *Store) GetStats() (Stats, error) {
	infos, err := s.Entries()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Dir: s.Dir()}
	for _, info := range infos {
		stats.Entries++
		stats.TotalBytes += info.Size
		if info.Expired {
			stats.Expired++
		}
		if info.ExpiresAt == NeverExpires {
			stats.Permanent++
		}
	}
	return stats, nil
}

// list reads the directory and parses every name in the entry grammar.
// Callers hold s.mu.
func (s *Store) list() ([]EntryInfo, error) {
	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var infos []EntryInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, epoch, ok := ParseEntryName(e.Name())
		if !ok {
			continue
		}
		info := EntryInfo{Name: e.Name(), Key: key, ExpiresAt: epoch}
		if fi, err := e.Info(); err == nil {
			info.Size = fi.Size()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

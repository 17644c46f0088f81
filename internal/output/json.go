package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dshills/kvcache/internal/cache"
)

// JSONWriter outputs results as indented JSON documents.
type JSONWriter struct{}

func (j *JSONWriter) WriteValue(w io.Writer, key string, value any) error {
	return writeJSON(w, map[string]any{"key": key, "value": value})
}

func (j *JSONWriter) WriteExpiry(w io.Writer, key string, epoch int64, now time.Time) error {
	return writeJSON(w, struct {
		Key       string `json:"key"`
		ExpiresAt int64  `json:"expiresAt"`
		Never     bool   `json:"never"`
		Expired   bool   `json:"expired"`
	}{key, epoch, epoch == cache.NeverExpires, cache.Expired(epoch, now)})
}

func (j *JSONWriter) WriteEntries(w io.Writer, entries []cache.EntryInfo, _ time.Time) error {
	if entries == nil {
		entries = []cache.EntryInfo{}
	}
	return writeJSON(w, entries)
}

func (j *JSONWriter) WriteStats(w io.Writer, stats cache.Stats) error {
	return writeJSON(w, stats)
}

func (j *JSONWriter) WriteCount(w io.Writer, action string, n int) error {
	return writeJSON(w, map[string]int{action: n})
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

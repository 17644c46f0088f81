package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dshills/kvcache/internal/cache"
)

// Writer renders command results in a specific format.
type Writer interface {
	WriteValue(w io.Writer, key string, value any) error
	WriteExpiry(w io.Writer, key string, epoch int64, now time.Time) error
	WriteEntries(w io.Writer, entries []cache.EntryInfo, now time.Time) error
	WriteStats(w io.Writer, stats cache.Stats) error
	WriteCount(w io.Writer, action string, n int) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "", "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

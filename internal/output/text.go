package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dshills/kvcache/internal/cache"
	"github.com/dustin/go-humanize"
)

// TextWriter outputs human-readable text.
type TextWriter struct{}

func (t *TextWriter) WriteValue(w io.Writer, _ string, value any) error {
	ew := &errWriter{w: w}
	if s, ok := value.(string); ok {
		ew.println(s)
		return ew.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}
	ew.println(string(data))
	return ew.err
}

func (t *TextWriter) WriteExpiry(w io.Writer, key string, epoch int64, now time.Time) error {
	ew := &errWriter{w: w}
	ew.printf("%s: %s\n", key, describeExpiry(epoch, now))
	return ew.err
}

func (t *TextWriter) WriteEntries(w io.Writer, entries []cache.EntryInfo, now time.Time) error {
	if len(entries) == 0 {
		ew := &errWriter{w: w}
		ew.println("No entries.")
		return ew.err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	ew := &errWriter{w: tw}
	ew.println("KEY\tEXPIRES\tSIZE")
	for _, e := range entries {
		key := e.Key
		if key == "" {
			key = `""`
		}
		ew.printf("%s\t%s\t%s\n", key, describeExpiry(e.ExpiresAt, now), humanize.Bytes(uint64(e.Size)))
	}
	if ew.err != nil {
		return ew.err
	}
	return tw.Flush()
}

func (t *TextWriter) WriteStats(w io.Writer, stats cache.Stats) error {
	ew := &errWriter{w: w}
	ew.printf("Directory:  %s\n", stats.Dir)
	ew.println(strings.Repeat("─", 40))
	ew.printf("Entries:    %s\n", humanize.Comma(int64(stats.Entries)))
	ew.printf("Size:       %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
	ew.printf("Expired:    %s\n", humanize.Comma(int64(stats.Expired)))
	ew.printf("Permanent:  %s\n", humanize.Comma(int64(stats.Permanent)))
	return ew.err
}

func (t *TextWriter) WriteCount(w io.Writer, action string, n int) error {
	ew := &errWriter{w: w}
	noun := "entries"
	if n == 1 {
		noun = "entry"
	}
	if action != "" {
		action = strings.ToUpper(action[:1]) + action[1:]
	}
	ew.printf("%s %d %s.\n", action, n, noun)
	return ew.err
}

func describeExpiry(epoch int64, now time.Time) string {
	if epoch == cache.NeverExpires {
		return "never expires"
	}
	at := time.Unix(epoch, 0)
	if cache.Expired(epoch, now) {
		return fmt.Sprintf("expired %s", humanize.RelTime(at, now, "ago", "from now"))
	}
	return fmt.Sprintf("expires %s", humanize.RelTime(at, now, "ago", "from now"))
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dshills/kvcache/internal/cache"
	"github.com/dustin/go-humanize"
)

// MarkdownWriter outputs markdown suitable for pasting into issues or docs.
type MarkdownWriter struct{}

func (m *MarkdownWriter) WriteValue(w io.Writer, key string, value any) error {
	ew := &errWriter{w: w}
	ew.printf("### `%s`\n\n", mdEscape(key))
	if s, ok := value.(string); ok && !strings.Contains(s, "\n") {
		ew.printf("`%s`\n", s)
		return ew.err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}
	ew.printf("```json\n%s\n```\n", data)
	return ew.err
}

func (m *MarkdownWriter) WriteExpiry(w io.Writer, key string, epoch int64, now time.Time) error {
	ew := &errWriter{w: w}
	ew.printf("**`%s`** %s\n", mdEscape(key), describeExpiry(epoch, now))
	return ew.err
}

func (m *MarkdownWriter) WriteEntries(w io.Writer, entries []cache.EntryInfo, now time.Time) error {
	ew := &errWriter{w: w}
	ew.printf("## Cache Entries (%d)\n\n", len(entries))
	if len(entries) == 0 {
		ew.println("No entries.")
		return ew.err
	}

	ew.println("| Key | Expires | Size |")
	ew.println("|-----|---------|------|")
	for _, e := range entries {
		expires := describeExpiry(e.ExpiresAt, now)
		if e.Expired {
			expires = "**" + expires + "**"
		}
		ew.printf("| `%s` | %s | %s |\n", mdEscape(e.Key), expires, humanize.Bytes(uint64(e.Size)))
	}
	return ew.err
}

func (m *MarkdownWriter) WriteStats(w io.Writer, stats cache.Stats) error {
	ew := &errWriter{w: w}
	ew.printf("## Cache Statistics\n\n")
	ew.printf("Directory: `%s`\n\n", stats.Dir)
	ew.println("| Metric | Value |")
	ew.println("|--------|-------|")
	ew.printf("| Entries | %s |\n", humanize.Comma(int64(stats.Entries)))
	ew.printf("| Size | %s |\n", humanize.Bytes(uint64(stats.TotalBytes)))
	ew.printf("| Expired | %s |\n", humanize.Comma(int64(stats.Expired)))
	ew.printf("| Permanent | %s |\n", humanize.Comma(int64(stats.Permanent)))
	return ew.err
}

func (m *MarkdownWriter) WriteCount(w io.Writer, action string, n int) error {
	ew := &errWriter{w: w}
	ew.printf("**%s:** %d\n", action, n)
	return ew.err
}

// mdEscape keeps a key from closing its inline code span or table cell.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	return strings.ReplaceAll(s, "|", `\|`)
}

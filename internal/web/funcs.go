package web

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// FuncMap holds the helpers the page templates use.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"fileSize":       FileSize,
		"formatDuration": FormatDuration,
		"timeAgo": func(t time.Time) string {
			return TimeAgo(t, time.Now())
		},
	}
}

// FileSize renders a decimal byte count in SI units, e.g. "83 MB".
// Values that do not parse are returned unchanged.
func FileSize(bytes string) string {
	n, err := strconv.ParseUint(bytes, 10, 64)
	if err != nil {
		return bytes
	}
	return humanize.Bytes(n)
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "0:00"
	}
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// TimeAgo renders t relative to now, e.g. "3 hours ago". Times after now read as "now".
func TimeAgo(t, now time.Time) string {
	if t.After(now) {
		t = now
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

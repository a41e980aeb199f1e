package render

import (
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// TimeAgo formats a unix timestamp relative to now.
func TimeAgo(unix int64) string {
	if unix == 0 {
		return "unknown"
	}
	return humanize.Time(time.Unix(unix, 0))
}

// Truncate shortens s to width display cells, keeping ANSI styling intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

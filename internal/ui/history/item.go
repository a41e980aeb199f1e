package history

import (
	"fmt"
	"strings"

	"github.com/fragmede/iwaraterm/internal/cache"
	"github.com/fragmede/iwaraterm/internal/render"
)

// Item wraps a history entry for the bubbles list.
type Item struct {
	cache.HistoryEntry
	Index int
}

func (i Item) Title() string {
	if i.HistoryEntry.Title != "" {
		return i.HistoryEntry.Title
	}
	return "[" + i.VideoID + "]"
}

func (i Item) Description() string {
	parts := make([]string, 0, 3)
	if i.OwnerName != "" {
		parts = append(parts, "by "+i.OwnerName)
	}
	parts = append(parts, fmt.Sprintf("%d comments", i.CommentCount))
	parts = append(parts, "opened "+render.TimeAgo(i.VisitedAt.Unix()))
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string {
	return i.HistoryEntry.Title + " " + i.OwnerName + " " + i.VideoID
}

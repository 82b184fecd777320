package enhancer

import (
	"strings"

	"github.com/gabriel/bmh/internal/models"
)

const HasHistoryColor = "#9ca3af"

var StatusColors = map[string]string{
	"Reading":      "#4ade80",
	"Completed":    "#60a5fa",
	"Plan to Read": "#fbbf24",
	"On-Hold":      "#f97316",
	"On Hold":      "#f97316",
	"Dropped":      "#ef4444",
	"Re-reading":   "#a855f7",
	"HasHistory":   HasHistoryColor,
}

// Checked in order: "re-reading" and "rereading" contain "reading".
var statusMatchOrder = []struct {
	needle string
	color  string
}{
	{needle: "re-reading", color: "#a855f7"},
	{needle: "rereading", color: "#a855f7"},
	{needle: "plan to read", color: "#fbbf24"},
	{needle: "reading", color: "#4ade80"},
	{needle: "completed", color: "#60a5fa"},
	{needle: "on-hold", color: "#f97316"},
	{needle: "on hold", color: "#f97316"},
	{needle: "dropped", color: "#ef4444"},
}

// ColorForStatus returns the palette color whose status name occurs in
// status, or "" when none does.
func ColorForStatus(status string) string {
	lower := strings.ToLower(status)
	for _, candidate := range statusMatchOrder {
		if strings.Contains(lower, candidate.needle) {
			return candidate.color
		}
	}
	return ""
}

type paint struct {
	color string
	style string
	width int
}

func resolvePaint(settings models.Settings, entry *models.LibraryEntry) (paint, bool) {
	result := paint{style: settings.Border.Style, width: settings.Border.Size}
	if result.style == "" {
		result.style = "solid"
	}
	if result.width <= 0 {
		result.width = 4
	}

	if settings.CustomBookmarksEnabled && entry.CustomMarker != nil {
		for _, bookmark := range settings.CustomBookmarks {
			if strings.EqualFold(bookmark.Name, *entry.CustomMarker) && bookmark.Color != "" {
				result.color = bookmark.Color
				if bookmark.Style != "" {
					result.style = bookmark.Style
				}
				return result, true
			}
		}
	}

	if override := settings.StatusColors[string(entry.Status)]; override != "" {
		result.color = override
		return result, true
	}

	if color := ColorForStatus(string(entry.Status)); color != "" {
		result.color = color
		return result, true
	}

	if entry.LastReadChapter != nil {
		result.color = HasHistoryColor
		return result, true
	}
	return result, false
}

package enhancer

import (
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

const (
	badgeClass        = "bmh-badge"
	progressBadge     = "bmh-badge-progress"
	newBadge          = "bmh-badge-new"
	quickActionsClass = "bmh-quick-actions"
)

func unitLabel(unit platform.Unit) string {
	if unit == platform.UnitEpisode {
		return "Ep."
	}
	return "Ch."
}

// progressText renders "Ch. 12/50", or "Ch. 12+" when the total is unknown.
func progressText(unit platform.Unit, entry *models.LibraryEntry) string {
	if entry.LastReadChapter == nil || *entry.LastReadChapter == "" {
		return ""
	}
	if entry.TotalChapters != nil && *entry.TotalChapters > 0 {
		return fmt.Sprintf("%s %s/%d", unitLabel(unit), *entry.LastReadChapter, *entry.TotalChapters)
	}
	return fmt.Sprintf("%s %s+", unitLabel(unit), *entry.LastReadChapter)
}

func hasNewUnits(entry *models.LibraryEntry) bool {
	if entry.TotalChapters == nil || entry.LastReadChapter == nil {
		return false
	}
	last := platform.ParseLeadingFloat(*entry.LastReadChapter)
	return last != nil && float64(*entry.TotalChapters) > *last
}

func positionStyle(position platform.BadgePosition) []platform.StyleDecl {
	decls := []platform.StyleDecl{{Property: "position", Value: "absolute"}, {Property: "z-index", Value: "10"}}
	for _, side := range []struct{ name, value string }{
		{"top", position.Top},
		{"right", position.Right},
		{"bottom", position.Bottom},
		{"left", position.Left},
	} {
		if side.value != "" {
			decls = append(decls, platform.StyleDecl{Property: side.name, Value: side.value})
		}
	}
	return decls
}

// upsertBadge keeps at most one badge of kind per card and refreshes its
// text in place on later passes.
func upsertBadge(card *goquery.Selection, kind string, text string, position platform.BadgePosition) {
	existing := card.ChildrenFiltered("span." + kind)
	if text == "" {
		existing.Remove()
		return
	}
	if existing.Length() > 0 {
		existing.First().SetText(text)
		return
	}

	card.AppendHtml(fmt.Sprintf(`<span class="%s %s">%s</span>`, badgeClass, kind, html.EscapeString(text)))
	platform.SetStyle(card.ChildrenFiltered("span."+kind).First(), positionStyle(position)...)
}

func upsertQuickActions(card *goquery.Selection, entry *models.LibraryEntry, continueURL string) {
	card.ChildrenFiltered("div." + quickActionsClass).Remove()
	if continueURL == "" {
		return
	}
	card.AppendHtml(fmt.Sprintf(
		`<div class="%s" data-bmh-entry-id="%s"><a class="bmh-continue" href="%s">Continue</a></div>`,
		quickActionsClass,
		html.EscapeString(entry.ID),
		html.EscapeString(continueURL),
	))
}

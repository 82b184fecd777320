// Package enhancer annotates listing cards with the reader's library state.
package enhancer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/dom"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

// EnhancedAttr marks a card as processed. Cards carrying it are never
// extracted or painted again.
const EnhancedAttr = "data-bmh-enhanced"

type EntryLookup interface {
	Find(platformID string, id string, slug string, title string) (*models.LibraryEntry, bool)
}

// ScanResult counts one pass. Skipped covers cards already enhanced and
// cards whose link or title could not be read yet; the latter stay
// unmarked so a later pass can pick them up once the site fills them in.
type ScanResult struct {
	Scanned  int `json:"scanned"`
	Enhanced int `json:"enhanced"`
	Matched  int `json:"matched"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type Enhancer struct {
	adapter  platform.Adapter
	lookup   EntryLookup
	settings models.Settings
	logger   *slog.Logger
}

func New(adapter platform.Adapter, lookup EntryLookup, settings models.Settings, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{
		adapter:  adapter,
		lookup:   lookup,
		settings: settings,
		logger:   logger.With("platform", adapter.ID()),
	}
}

// ScanAndEnhance processes every card under root, root included, that has
// not been enhanced yet. A failing card is logged and counted; the rest of
// the batch still runs.
func (e *Enhancer) ScanAndEnhance(ctx context.Context, root *goquery.Selection) ScanResult {
	var result ScanResult
	if root == nil || root.Length() == 0 {
		return result
	}

	selector := e.adapter.CardSelector()
	cards := root.Filter(selector).AddSelection(root.Find(selector))

	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if ctx.Err() != nil {
			return false
		}
		if _, done := card.Attr(EnhancedAttr); done {
			result.Skipped++
			return true
		}

		result.Scanned++
		outcome, err := e.enhanceCard(card)
		switch {
		case err != nil:
			result.Failed++
			e.logger.Warn("card enhancement failed", "error", err)
		case outcome == cardUnresolved:
			result.Skipped++
		default:
			result.Enhanced++
			if outcome == cardMatched {
				result.Matched++
			}
		}
		return true
	})

	if result.Scanned > 0 {
		e.logger.Debug("scan complete",
			"scanned", result.Scanned,
			"matched", result.Matched,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
	return result
}

type cardOutcome int

const (
	cardUnresolved cardOutcome = iota
	cardUnmatched
	cardMatched
)

func (e *Enhancer) enhanceCard(card *goquery.Selection) (outcome cardOutcome, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic while enhancing card: %v", recovered)
		}
	}()

	record := e.adapter.ExtractCardData(card)
	if record == nil || !record.Mergeable() {
		return cardUnresolved, nil
	}

	outcome = cardUnmatched
	if e.lookup != nil {
		if entry, ok := e.lookup.Find(e.adapter.ID(), record.ID, record.Slug, record.Title); ok {
			e.paint(card, entry)
			outcome = cardMatched
		}
	}

	card.SetAttr(EnhancedAttr, "true")
	return outcome, nil
}

func (e *Enhancer) paint(card *goquery.Selection, entry *models.LibraryEntry) {
	features := e.settings.Features

	if features.Highlighting {
		if p, ok := resolvePaint(e.settings, entry); ok {
			e.adapter.ApplyStatusBorder(card, p.color, p.width, p.style)
		}
	}

	position := e.adapter.BadgePosition()
	if features.ProgressBadges {
		upsertBadge(card, progressBadge, progressText(e.adapter.Unit(), entry), position)
	}
	if features.NewBadges {
		text := ""
		if hasNewUnits(entry) {
			text = "NEW"
		}
		newPosition := platform.BadgePosition{Top: "4px", Right: "4px"}
		if position.Top != "" {
			newPosition = platform.BadgePosition{Bottom: "4px", Right: "4px"}
		}
		upsertBadge(card, newBadge, text, newPosition)
	}
	if features.QuickActions {
		upsertQuickActions(card, entry, e.continueURL(entry))
	}
}

func (e *Enhancer) continueURL(entry *models.LibraryEntry) string {
	if entry.LastReadChapter == nil {
		return ""
	}
	last := platform.ParseLeadingFloat(*entry.LastReadChapter)
	if last == nil {
		return ""
	}
	return e.adapter.BuildChapterURL(*entry, *last+1)
}

// Observe enhances the nodes of every later insertion into page. Only the
// inserted nodes are scanned. report, when set, receives each batch result.
// It runs until the subscription is stopped.
func (e *Enhancer) Observe(page *dom.Page, report func(ScanResult)) *dom.Subscription {
	return page.Subscribe(func(added *goquery.Selection) {
		result := e.ScanAndEnhance(context.Background(), added)
		if report != nil {
			report(result)
		}
	})
}

// EnhancePage scans the whole document once and then observes it.
func (e *Enhancer) EnhancePage(ctx context.Context, page *dom.Page, report func(ScanResult)) (ScanResult, *dom.Subscription) {
	return e.ScanAndEnhance(ctx, page.Root()), e.Observe(page, report)
}

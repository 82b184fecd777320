package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/notifications"
	"github.com/gabriel/bmh/internal/platform"
)

type Poller struct {
	library   LibraryStore
	resolver  Resolver
	cache     metadata.Cache
	notifier  notifications.Notifier
	interval  time.Duration
	batch     int
	ttl       time.Duration
	providers []string
	notify    bool
	now       func() time.Time
	logger    *slog.Logger
	stopCh    chan struct{}
}

type PollerConfig struct {
	Interval      time.Duration
	BackfillBatch int
	CacheTTL      time.Duration
	Providers     []string
	NotifyEnabled bool
}

type BackfillReport struct {
	Checked  int `json:"checked"`
	Resolved int `json:"resolved"`
	Missed   int `json:"missed"`
	Failed   int `json:"failed"`
	Notified int `json:"notified"`
}

type RunReport struct {
	Purged   int64          `json:"purged"`
	Backfill BackfillReport `json:"backfill"`
}

func NewPoller(library LibraryStore, resolver Resolver, cache metadata.Cache, notifier notifications.Notifier, cfg PollerConfig, logger *slog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.BackfillBatch <= 0 {
		cfg.BackfillBatch = 10
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = metadata.DefaultCacheTTL
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = []string{metadata.ProviderAniList, metadata.ProviderMangaDex}
	}
	if notifier == nil {
		notifier = notifications.NoopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		library:   library,
		resolver:  resolver,
		cache:     cache,
		notifier:  notifier,
		interval:  cfg.Interval,
		batch:     cfg.BackfillBatch,
		ttl:       cfg.CacheTTL,
		providers: cfg.Providers,
		notify:    cfg.NotifyEnabled,
		now:       time.Now,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("poller started", "interval", p.interval.String(), "batch", p.batch)
	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		if _, err := p.RunOnce(ctx); err != nil {
			p.logger.Warn("poller initial run failed", "error", err)
		}
		for {
			select {
			case <-ctx.Done():
				p.logger.Info("poller stopped")
				close(p.stopCh)
				return
			case <-ticker.C:
				if _, err := p.RunOnce(ctx); err != nil {
					p.logger.Warn("poller cycle failed", "error", err)
				}
			}
		}
	}()
}

func (p *Poller) StopWait(timeout time.Duration) {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	select {
	case <-p.stopCh:
	case <-time.After(timeout):
	}
}

func (p *Poller) RunOnce(ctx context.Context) (RunReport, error) {
	var report RunReport

	purged, purgeErr := p.PurgeExpired(ctx)
	report.Purged = purged

	backfill, backfillErr := p.Backfill(ctx)
	report.Backfill = backfill

	return report, errors.Join(purgeErr, backfillErr)
}

// PurgeExpired drops cache rows older than the retention window for every
// configured provider.
func (p *Poller) PurgeExpired(ctx context.Context) (int64, error) {
	if p.cache == nil {
		return 0, nil
	}

	cutoff := p.now().Add(-p.ttl)
	var (
		total int64
		errs  []error
	)
	for _, provider := range p.providers {
		removed, err := p.cache.DeleteExpired(ctx, provider, cutoff)
		if err != nil {
			p.logger.Warn("cache purge failed", "provider", provider, "error", err)
			errs = append(errs, fmt.Errorf("purge %s cache: %w", provider, err))
			continue
		}
		if removed > 0 {
			p.logger.Info("cache purged", "provider", provider, "removed", removed)
		}
		total += removed
	}
	return total, errors.Join(errs...)
}

// Backfill resolves metadata for entries that have none.
func (p *Poller) Backfill(ctx context.Context) (BackfillReport, error) {
	var report BackfillReport

	entries, err := p.library.ListMissingMetadata(ctx, p.batch)
	if err != nil {
		return report, fmt.Errorf("load entries missing metadata: %w", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++

		res := p.resolver.Resolve(ctx, entry.Title)
		switch {
		case res.Found():
		case res.Outcome == metadata.OutcomeFailed:
			report.Failed++
			p.logger.Warn("backfill lookup failed", "entryId", entry.ID, "title", entry.Title, "error", res.Error)
			continue
		default:
			report.Missed++
			p.logger.Debug("backfill found no metadata", "entryId", entry.ID, "title", entry.Title)
			continue
		}

		if err := p.library.SetMetadata(ctx, entry.ID, *res.Data, p.now().UTC()); err != nil {
			report.Failed++
			p.logger.Warn("backfill update failed", "entryId", entry.ID, "error", err)
			continue
		}
		report.Resolved++

		if p.notify && hasNewChapters(entry, *res.Data) {
			if err := p.notifier.Notify(ctx, newChaptersMessage(entry, *res.Data)); err != nil {
				p.logger.Warn("new chapter notification failed", "entryId", entry.ID, "error", err)
				continue
			}
			report.Notified++
		}
	}

	return report, nil
}

func hasNewChapters(entry models.LibraryEntry, meta models.ExternalMetadata) bool {
	if meta.Chapters == nil || entry.LastReadChapter == nil {
		return false
	}
	lastRead := platform.ParseLeadingFloat(*entry.LastReadChapter)
	if lastRead == nil {
		return false
	}
	return float64(*meta.Chapters) > *lastRead
}

func newChaptersMessage(entry models.LibraryEntry, meta models.ExternalMetadata) notifications.Message {
	return notifications.Message{
		Event: notifications.EventNewChapters,
		Title: entry.Title,
		Body:  fmt.Sprintf("%d chapters available, last read %s", *meta.Chapters, *entry.LastReadChapter),
		Context: map[string]any{
			"entryId":         entry.ID,
			"source":          entry.Source,
			"lastReadChapter": *entry.LastReadChapter,
			"totalChapters":   *meta.Chapters,
			"externalId":      meta.ID,
			"provider":        meta.Source,
		},
	}
}

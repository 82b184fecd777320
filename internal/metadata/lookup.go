package metadata

import (
	"context"
	"log/slog"
	"time"

	"github.com/gabriel/bmh/internal/models"
)

type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
)

// Resolution describes how one lookup ended. Data is nil unless Outcome is
// OutcomeFound.
type Resolution struct {
	Provider string                   `json:"provider"`
	Key      string                   `json:"key"`
	Outcome  Outcome                  `json:"outcome"`
	Data     *models.ExternalMetadata `json:"data"`
	Cached   bool                     `json:"cached"`
	Queries  []string                 `json:"queries,omitempty"`
	Attempts int                      `json:"attempts"`
	Retries  int                      `json:"retries"`
	Backoffs []time.Duration          `json:"backoffs,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

func (r Resolution) Found() bool {
	return r.Outcome == OutcomeFound && r.Data != nil
}

type searchFunc func(ctx context.Context, query string) ([]models.ExternalMetadata, error)

// engine runs the cache check, title ladder and retry budget shared by both
// providers.
type engine struct {
	provider string
	cache    Cache
	ttl      time.Duration
	limiter  *Limiter
	policy   RetryPolicy
	search   searchFunc
	now      func() time.Time
	logger   *slog.Logger
}

func (e *engine) resolve(ctx context.Context, title string) Resolution {
	res := Resolution{Provider: e.provider, Key: CacheKey(title)}
	if res.Key == "" {
		res.Outcome = OutcomeNotFound
		return res
	}

	if entry := e.cached(ctx, res.Key); entry != nil {
		res.Cached = true
		if entry.Status == CacheFound && entry.Data != nil {
			res.Outcome = OutcomeFound
			res.Data = entry.Data
		} else {
			res.Outcome = OutcomeNotFound
		}
		return res
	}

	var lastDelay time.Duration
	previous := ""
	for step := 0; step < LadderDepth; step++ {
		query := NormalizeTitle(title, step)
		if query == "" || query == previous {
			continue
		}
		previous = query
		res.Queries = append(res.Queries, query)

		for {
			if err := e.limiter.Acquire(ctx); err != nil {
				return e.fail(res, err)
			}
			res.Attempts++

			candidates, err := e.search(ctx, query)
			if err == nil {
				best := PickBest(candidates)
				if best == nil {
					break
				}
				return e.succeed(ctx, res, best)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return e.fail(res, ctxErr)
			}

			retryAfter, transient := classify(err)
			if !transient {
				e.logger.Debug("metadata query rejected", "provider", e.provider, "query", query, "error", err)
				break
			}
			if res.Retries >= e.policy.MaxRetries {
				return e.fail(res, err)
			}

			delay := e.policy.Backoff(res.Retries, retryAfter)
			if delay < lastDelay {
				delay = lastDelay
			}
			lastDelay = delay
			res.Retries++
			res.Backoffs = append(res.Backoffs, delay)
			e.logger.Warn("metadata provider unavailable, backing off",
				"provider", e.provider,
				"query", query,
				"retry", res.Retries,
				"delay", delay,
				"error", err,
			)
			e.limiter.Defer(delay)
		}
	}

	e.store(ctx, res.Key, CacheEntry{Status: CacheNotFound, Timestamp: e.now()})
	res.Outcome = OutcomeNotFound
	return res
}

func (e *engine) succeed(ctx context.Context, res Resolution, meta *models.ExternalMetadata) Resolution {
	if meta.Source == "" {
		meta.Source = e.provider
	}
	if meta.FetchedAt.IsZero() {
		meta.FetchedAt = e.now()
	}

	e.store(ctx, res.Key, CacheEntry{Status: CacheFound, Data: meta, Timestamp: e.now()})
	e.logger.Info("metadata resolved",
		"provider", e.provider,
		"title", meta.DisplayTitle(),
		"externalId", meta.ID,
		"format", meta.Format,
		"status", meta.Status,
	)

	res.Outcome = OutcomeFound
	res.Data = meta
	return res
}

func (e *engine) fail(res Resolution, err error) Resolution {
	e.logger.Warn("metadata lookup failed", "provider", e.provider, "key", res.Key, "attempts", res.Attempts, "error", err)
	res.Outcome = OutcomeFailed
	res.Error = err.Error()
	return res
}

func (e *engine) cached(ctx context.Context, key string) *CacheEntry {
	if e.cache == nil {
		return nil
	}
	entry, err := e.cache.Get(ctx, e.provider, key)
	if err != nil {
		e.logger.Warn("metadata cache read failed", "provider", e.provider, "key", key, "error", err)
		return nil
	}
	if entry == nil || !entry.Fresh(e.now(), e.ttl) {
		return nil
	}
	return entry
}

func (e *engine) store(ctx context.Context, key string, entry CacheEntry) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Put(ctx, e.provider, key, entry); err != nil {
		e.logger.Warn("metadata cache write failed", "provider", e.provider, "key", key, "error", err)
	}
}

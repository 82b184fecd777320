package metadata

import (
	"context"
	"log/slog"
)

// Resolver asks each provider in turn and returns the first match.
type Resolver struct {
	providers []Provider
	logger    *slog.Logger
}

func NewResolver(logger *slog.Logger, providers ...Provider) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{providers: providers, logger: logger}
}

func (r *Resolver) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for _, provider := range r.providers {
		names = append(names, provider.Name())
	}
	return names
}

// Resolve returns the first found resolution. When no provider finds the
// title the last provider's resolution is returned, reported as not found
// unless every provider failed.
func (r *Resolver) Resolve(ctx context.Context, title string) Resolution {
	var last Resolution
	anyNotFound := false
	for _, provider := range r.providers {
		res := provider.Resolve(ctx, title)
		if res.Found() {
			return res
		}
		if res.Outcome == OutcomeNotFound {
			anyNotFound = true
		}
		r.logger.Debug("metadata provider missed", "provider", provider.Name(), "title", title, "outcome", res.Outcome)
		last = res
		if ctx.Err() != nil {
			break
		}
	}

	if len(r.providers) == 0 {
		return Resolution{Key: CacheKey(title), Outcome: OutcomeNotFound}
	}
	if anyNotFound && last.Outcome == OutcomeFailed {
		last.Outcome = OutcomeNotFound
	}
	return last
}

package metadata

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"
)

// Cache stores resolutions per provider. Get returns nil, nil when the key
// is absent.
type Cache interface {
	Get(ctx context.Context, provider string, key string) (*CacheEntry, error)
	Put(ctx context.Context, provider string, key string, entry CacheEntry) error
	DeleteExpired(ctx context.Context, provider string, olderThan time.Time) (int64, error)
}

type Provider interface {
	Name() string
	Resolve(ctx context.Context, title string) Resolution
}

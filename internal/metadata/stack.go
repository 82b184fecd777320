package metadata

import (
	"log/slog"
	"net/http"
	"time"
)

type StackOptions struct {
	AniListURL  string
	MangaDexURL string
	Cache       Cache
	CacheTTL    time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Stack is the default provider chain: AniList first, MangaDex second, both
// writing to one cache.
type Stack struct {
	AniList  *AniListClient
	MangaDex *MangaDexClient
	Resolver *Resolver
}

func NewStack(opts StackOptions) Stack {
	if opts.Cache == nil {
		opts.Cache = NewMemoryCache()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	anilist := NewAniListClient(ClientOptions{
		BaseURL:    opts.AniListURL,
		HTTPClient: opts.HTTPClient,
		Cache:      opts.Cache,
		CacheTTL:   opts.CacheTTL,
		Logger:     opts.Logger,
	})
	mangadex := NewMangaDexClient(ClientOptions{
		BaseURL:    opts.MangaDexURL,
		HTTPClient: opts.HTTPClient,
		Cache:      opts.Cache,
		CacheTTL:   opts.CacheTTL,
		Logger:     opts.Logger,
	})

	return Stack{
		AniList:  anilist,
		MangaDex: mangadex,
		Resolver: NewResolver(opts.Logger, anilist, mangadex),
	}
}

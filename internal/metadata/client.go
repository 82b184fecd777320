package metadata

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ClientOptions configures either provider client. Zero fields take the
// provider defaults.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      Cache
	CacheTTL   time.Duration
	Limiter    *Limiter
	Policy     RetryPolicy
	Now        func() time.Time
	Logger     *slog.Logger
	UserAgent  string
}

const defaultUserAgent = "bmh/1.0 (+https://github.com/gabriel/bmh)"

func (o ClientOptions) withDefaults(baseURL string, limiter func(...LimiterOption) *Limiter, policy RetryPolicy) ClientOptions {
	if strings.TrimSpace(o.BaseURL) == "" {
		o.BaseURL = baseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	// Requests are bounded by the caller's context only.
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Limiter == nil {
		o.Limiter = limiter()
	}
	o.Policy = o.Policy.orDefault(policy)
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

func (o ClientOptions) engine(provider string, search searchFunc) engine {
	return engine{
		provider: provider,
		cache:    o.Cache,
		ttl:      o.CacheTTL,
		limiter:  o.Limiter,
		policy:   o.Policy,
		search:   search,
		now:      o.Now,
		logger:   o.Logger,
	}
}

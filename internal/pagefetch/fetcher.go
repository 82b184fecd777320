// Package pagefetch loads live listing and reader pages into a dom.Page.
package pagefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"

	"github.com/gabriel/bmh/internal/dom"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxBodyBytes     = 8 << 20
)

type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Cloudflare bool
	Transport  http.RoundTripper
}

type Fetcher struct {
	client    *http.Client
	userAgent string
}

func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 10,
			ForceAttemptHTTP2:   true,
		}
	}
	if opts.Cloudflare {
		transport = cloudflarebp.AddCloudFlareByPass(transport)
	}

	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout, Transport: transport},
		userAgent: opts.UserAgent,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*dom.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, res.StatusCode)
	}

	page, err := dom.NewPage(res.Request.URL.String(), io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return page, nil
}

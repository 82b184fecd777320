package metadata

import "time"

type RetryPolicy struct {
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

var (
	AniListRetryPolicy  = RetryPolicy{MaxRetries: 3, BaseBackoff: 3 * time.Second, MaxBackoff: time.Minute}
	MangaDexRetryPolicy = RetryPolicy{MaxRetries: 2, BaseBackoff: 2 * time.Second, MaxBackoff: 30 * time.Second}
)

// Backoff is max(retryAfter, base*2^attempt), capped at MaxBackoff.
func (p RetryPolicy) Backoff(attempt int, retryAfter time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := p.BaseBackoff
	for i := 0; i < attempt; i++ {
		delay *= 2
		if p.MaxBackoff > 0 && delay >= p.MaxBackoff {
			break
		}
	}
	if retryAfter > delay {
		delay = retryAfter
	}
	if p.MaxBackoff > 0 && delay > p.MaxBackoff {
		delay = p.MaxBackoff
	}
	return delay
}

func (p RetryPolicy) orDefault(fallback RetryPolicy) RetryPolicy {
	if p == (RetryPolicy{}) {
		return fallback
	}
	return p
}

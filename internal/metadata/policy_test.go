package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffUsesLargerOfRetryAfterAndExponential(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, BaseBackoff: 3 * time.Second, MaxBackoff: time.Minute}

	assert.Equal(t, 3*time.Second, policy.Backoff(0, 0))
	assert.Equal(t, 6*time.Second, policy.Backoff(1, 0))
	assert.Equal(t, 12*time.Second, policy.Backoff(2, 0))
	assert.Equal(t, 10*time.Second, policy.Backoff(1, 10*time.Second))
	assert.Equal(t, time.Minute, policy.Backoff(1, 5*time.Minute))
	assert.Equal(t, time.Minute, policy.Backoff(40, 0))
}

func TestBackoffIsMonotonicAndBounded(t *testing.T) {
	for _, policy := range []RetryPolicy{AniListRetryPolicy, MangaDexRetryPolicy} {
		previous := time.Duration(0)
		for attempt := 0; attempt < 64; attempt++ {
			delay := policy.Backoff(attempt, 0)
			assert.GreaterOrEqual(t, delay, previous, "attempt %d", attempt)
			assert.LessOrEqual(t, delay, policy.MaxBackoff, "attempt %d", attempt)
			previous = delay
		}
	}
}

func TestRetryPolicyDefaults(t *testing.T) {
	assert.Equal(t, AniListRetryPolicy, RetryPolicy{}.orDefault(AniListRetryPolicy))

	custom := RetryPolicy{MaxRetries: 1, BaseBackoff: time.Millisecond}
	assert.Equal(t, custom, custom.orDefault(AniListRetryPolicy))
}

func TestClientDefaultsLeaveTimeoutToContext(t *testing.T) {
	opts := ClientOptions{}.withDefaults(DefaultAniListURL, NewAniListLimiter, AniListRetryPolicy)

	assert.NotNil(t, opts.HTTPClient)
	assert.Zero(t, opts.HTTPClient.Timeout)
	assert.Equal(t, AniListRetryPolicy, opts.Policy)
	assert.Equal(t, DefaultCacheTTL, opts.CacheTTL)
}

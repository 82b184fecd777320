package metadata

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		transient  bool
		retryAfter time.Duration
	}{
		{name: "rate limited", err: &StatusError{StatusCode: http.StatusTooManyRequests, RetryAfter: 4 * time.Second}, transient: true, retryAfter: 4 * time.Second},
		{name: "server error", err: fmt.Errorf("wrapped: %w", &StatusError{StatusCode: http.StatusBadGateway}), transient: true},
		{name: "client error", err: &StatusError{StatusCode: http.StatusNotFound}, transient: false},
		{name: "graphql error", err: &QueryError{Messages: []string{"Not Found."}}, transient: false},
		{name: "bad payload", err: fmt.Errorf("%w: eof", ErrBadResponse), transient: false},
		{name: "network", err: errors.New("dial tcp: connection refused"), transient: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			retryAfter, transient := classify(tc.err)
			assert.Equal(t, tc.transient, transient)
			assert.Equal(t, tc.retryAfter, retryAfter)
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 30*time.Second, parseRetryAfter("30", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-5", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
	assert.Equal(t, 90*time.Second, parseRetryAfter(now.Add(90*time.Second).Format(http.TimeFormat), now))
}

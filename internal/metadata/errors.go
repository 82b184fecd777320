package metadata

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrBadResponse marks a provider reply that could not be decoded.
var ErrBadResponse = errors.New("malformed provider response")

type StatusError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

// Transient reports whether the status is worth retrying with backoff.
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// QueryError carries GraphQL-level errors returned with an otherwise
// successful response.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return "query error: " + strings.Join(e.Messages, "; ")
}

// classify decides which failure path err takes. Transient errors (429,
// 5xx, transport failures) are retried with backoff; everything else moves
// the lookup to the next title strategy.
func classify(err error) (retryAfter time.Duration, transient bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.RetryAfter, statusErr.Transient()
	}
	var queryErr *QueryError
	if errors.As(err, &queryErr) || errors.Is(err, ErrBadResponse) {
		return 0, false
	}
	return 0, true
}

func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if wait := at.Sub(now); wait > 0 {
			return wait
		}
	}
	return 0
}

func statusErrorFrom(res *http.Response, now time.Time) *StatusError {
	return &StatusError{
		StatusCode: res.StatusCode,
		RetryAfter: parseRetryAfter(res.Header.Get("Retry-After"), now),
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retrying HTTP helper used to fetch remote
// inputs.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryBaseDelay is the first backoff interval; it doubles on every retry.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps a server-supplied Retry-After delay.
var MaxRetryAfter = 60 * time.Second

const defaultMaxRetries = 5

// retryable reports whether status signals a temporary refusal.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes req and retries while the server answers 429 or 503.
// The wait is the Retry-After header when it holds a number of seconds,
// otherwise RetryBaseDelay doubled per attempt.
//
// When maxRetries is 0 the default (5) is used. The body of a refused
// response is drained and closed before waiting. A context cancelled during
// the wait yields ctx.Err(). After the last retry the refused response is
// returned as-is so the caller can report its status.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		log.Debug().
			Str("url", req.URL.Redacted()).
			Int("status", resp.StatusCode).
			Dur("wait", wait).
			Int("attempt", attempt+1).
			Msg("server refused request, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, MaxRetryAfter)
	}
	return RetryBaseDelay << attempt
}

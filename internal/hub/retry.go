package hub

import (
	"context"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"studiod/internal/backend"
)

// transientKeywords flag failures worth another attempt. Matched
// case-insensitively against the full error text, which for net and TLS
// errors carries the failing layer's name.
var transientKeywords = []string{"connection", "timeout", "network", "ssl", "socket"}

// Retryable reports whether err looks like a dropped network conversation
// rather than a real refusal.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if backend.IsTransient(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range transientKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// retryPolicy builds the download backoff: first wait retryWait, doubling
// each attempt, no jitter, three attempts total before giving up.
func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, 2), ctx)
}

// classify wraps err for the retry loop: cancellations and hard misses stop
// it immediately, everything non-retryable becomes permanent too.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if backend.IsCancelled(err) || backend.IsNotFound(err) {
		return backoff.Permanent(err)
	}
	if !Retryable(err) {
		return backoff.Permanent(err)
	}
	return err
}

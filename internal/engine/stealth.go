package engine

import (
	"context"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// DefaultRetryConfig is the retry policy for the oEmbed and player probes.
var DefaultRetryConfig = stealth.DefaultRetryConfig

// RandomUserAgent returns a browser User-Agent string.
func RandomUserAgent() string { return stealth.RandomUserAgent() }

// RetryHTTP retries fn on transport errors and retryable statuses.
func RetryHTTP(ctx context.Context, rc stealth.RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}

// Package fetch provides the retrying HTTP client used for feed requests.
package fetch

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Options for the fetch client.
type Options struct {
	Timeout  time.Duration
	RetryMax int
}

// NewClient builds a standard *http.Client backed by retryablehttp, so
// transient feed failures get a couple of retries with backoff.
func NewClient(opts Options) *http.Client {
	r := retryablehttp.NewClient()
	r.RetryMax = opts.RetryMax
	if r.RetryMax == 0 {
		r.RetryMax = 2
	}
	r.HTTPClient.Timeout = opts.Timeout
	if r.HTTPClient.Timeout == 0 {
		r.HTTPClient.Timeout = 15 * time.Second
	}
	r.Logger = nil
	return r.StandardClient()
}

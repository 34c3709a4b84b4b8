// Package fetch acquires listing pages, either through a headless browser or
// a single HTTP GET, and hands them back as queryable documents.
package fetch

import (
	"context"
	"errors"
	"time"

	"listingscraper/internal/dom"
)

// DefaultUserAgent is sent by both acquirers unless overridden
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrStatus is wrapped when a server answers with a 4xx or 5xx status
var ErrStatus = errors.New("unexpected response status")

// Request describes one page acquisition
type Request struct {
	URL string
	// Timeout bounds navigation (browser) or the whole exchange (HTTP)
	Timeout time.Duration
	// Settle is waited after the page reports loaded. Browser only.
	Settle  time.Duration
	Headers map[string]string
}

// Acquirer fetches a page. Implementations own every session they open and
// release it before returning.
type Acquirer interface {
	Acquire(ctx context.Context, req Request) (dom.Document, error)
}

// AcquirerFunc adapts a function to Acquirer
type AcquirerFunc func(ctx context.Context, req Request) (dom.Document, error)

func (f AcquirerFunc) Acquire(ctx context.Context, req Request) (dom.Document, error) {
	return f(ctx, req)
}

func defaultHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func mergeHeaders(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

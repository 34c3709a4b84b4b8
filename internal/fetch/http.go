package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"listingscraper/internal/dom"
)

const (
	defaultHTTPTimeout = 10 * time.Second

	// DefaultMaxBodyBytes caps how much of a response is read before parsing
	DefaultMaxBodyBytes = 5 << 20
)

// ErrBodyTooLarge is wrapped when a response exceeds the body limit
var ErrBodyTooLarge = errors.New("response body too large")

// HTTP acquires pages with one plain GET. Certificate verification is
// disabled: dealer sites routinely serve broken chains, and nothing fetched
// here is trusted beyond being parsed as markup.
type HTTP struct {
	UserAgent string
	// MaxBodyBytes limits the response size; zero uses DefaultMaxBodyBytes
	MaxBodyBytes int64
	log          *slog.Logger
}

// NewHTTP creates an HTTP acquirer
func NewHTTP(userAgent string) *HTTP {
	return &HTTP{
		UserAgent: userAgent,
		log:       slog.Default().With("component", "fetch.http"),
	}
}

func (h *HTTP) Acquire(ctx context.Context, req Request) (dom.Document, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}).
		SetHeaders(mergeHeaders(defaultHeaders(h.UserAgent), req.Headers)).
		SetDoNotParseResponse(true)
	defer client.GetClient().CloseIdleConnections()

	h.log.DebugContext(ctx, "fetching page", "url", req.URL, "timeout", timeout)
	res, err := client.R().SetContext(ctx).Get(req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", req.URL, err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("fetching %s: %w: %d", req.URL, ErrStatus, res.StatusCode())
	}

	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	doc, err := dom.Parse(&cappedReader{r: body, left: limit})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", req.URL, err)
	}
	return doc, nil
}

// cappedReader fails once more than left bytes have been read, so an
// oversized page is rejected instead of silently truncated
type cappedReader struct {
	r    io.Reader
	left int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, ErrBodyTooLarge
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n, ErrBodyTooLarge
	}
	return n, err
}

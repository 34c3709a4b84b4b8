package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"listingscraper/internal/dom"
)

const defaultNavTimeout = 20 * time.Second

// BrowserOptions configures the headless browser launched per acquisition
type BrowserOptions struct {
	Headless  bool
	Bin       string // empty lets the launcher find or download Chrome
	UserAgent string
}

// Browser renders pages in a fresh headless Chrome. Every call launches its
// own browser and tears it down before returning; nothing is pooled.
type Browser struct {
	opts BrowserOptions
	log  *slog.Logger
}

// NewBrowser creates a browser acquirer
func NewBrowser(opts BrowserOptions) *Browser {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Browser{
		opts: opts,
		log:  slog.Default().With("component", "fetch.browser"),
	}
}

func (b *Browser) launcher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(b.opts.Headless).
		Set("user-agent", b.opts.UserAgent).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage")
	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	}
	return l
}

func (b *Browser) Acquire(ctx context.Context, req Request) (dom.Document, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultNavTimeout
	}

	l := b.launcher(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	if headers := flatten(mergeHeaders(defaultHeaders(b.opts.UserAgent), req.Headers)); len(headers) > 0 {
		if _, err := page.SetExtraHeaders(headers); err != nil {
			return nil, fmt.Errorf("setting headers: %w", err)
		}
	}

	start := time.Now()
	nav := page.Timeout(timeout)
	if err := nav.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", req.URL, err)
	}
	if err := nav.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", req.URL, err)
	}
	nav.CancelTimeout()

	if req.Settle > 0 {
		select {
		case <-time.After(req.Settle):
		case <-ctx.Done():
			return nil, fmt.Errorf("settling %s: %w", req.URL, ctx.Err())
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", req.URL, err)
	}
	b.log.DebugContext(ctx, "page rendered", "url", req.URL, "elapsed", time.Since(start), "bytes", len(html))

	return dom.ParseString(html)
}

// flatten turns a header map into rod's alternating key/value list.
// User-Agent is set on the launcher, so it is skipped here.
func flatten(headers map[string]string) []string {
	out := make([]string, 0, len(headers)*2)
	for k, v := range headers {
		if k == "User-Agent" {
			continue
		}
		out = append(out, k, v)
	}
	return out
}

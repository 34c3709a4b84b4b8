// Package scraper turns listing URLs into listing records. A Router picks
// the Strategy for the URL's site; each Strategy is driven by a SiteConfig.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"listingscraper/internal/fetch"
	"listingscraper/internal/models"
	"listingscraper/internal/site"
	"listingscraper/internal/vin"
)

// Scraper produces a listing for a URL. Implementations are expected to be
// total; the Router turns a panic into a ScrapeError.
type Scraper interface {
	Scrape(ctx context.Context, url string) models.Listing
	Source() string
}

// Options configures New
type Options struct {
	Browser fetch.Acquirer
	HTTP    fetch.Acquirer
	Decoder vin.Decoder

	// Timings for sites that do not set their own
	NavTimeout  time.Duration
	Settle      time.Duration
	HTTPTimeout time.Duration

	// Sites overrides DefaultSites
	Sites []SiteConfig
}

// Router dispatches a URL to the scraper for its site
type Router struct {
	scrapers map[site.ID]Scraper
	fallback Scraper
	log      *slog.Logger
}

// New builds a router with one Strategy per site config
func New(opts Options) *Router {
	sites := opts.Sites
	if sites == nil {
		sites = DefaultSites()
	}

	scrapers := make(map[site.ID]Scraper, len(sites))
	for _, cfg := range sites {
		acquirer := opts.Browser
		if cfg.Mode == ModeHTTP {
			acquirer = opts.HTTP
		}
		scrapers[cfg.Site] = NewStrategy(opts.withTimings(cfg), acquirer, opts.Decoder)
	}
	return NewRouter(scrapers, scrapers[site.Dealer])
}

// withTimings fills the timings cfg and its alternates leave at zero
func (o Options) withTimings(cfg SiteConfig) SiteConfig {
	if cfg.Mode == ModeHTTP {
		if cfg.NavTimeout == 0 {
			cfg.NavTimeout = o.HTTPTimeout
		}
	} else {
		if cfg.NavTimeout == 0 {
			cfg.NavTimeout = o.NavTimeout
		}
		if cfg.Settle == 0 {
			cfg.Settle = o.Settle
		}
	}
	if len(cfg.Alternates) > 0 {
		alts := make([]Alternate, len(cfg.Alternates))
		for i, alt := range cfg.Alternates {
			alt.Config = o.withTimings(alt.Config)
			alts[i] = alt
		}
		cfg.Alternates = alts
	}
	return cfg
}

// NewRouter builds a router over explicit scrapers. fallback serves sites
// with no entry.
func NewRouter(scrapers map[site.ID]Scraper, fallback Scraper) *Router {
	return &Router{
		scrapers: scrapers,
		fallback: fallback,
		log:      slog.Default().With("component", "router"),
	}
}

// Lookup returns the scraper used for id
func (r *Router) Lookup(id site.ID) Scraper {
	if s, ok := r.scrapers[id]; ok {
		return s
	}
	return r.fallback
}

// Scrape classifies url and runs its scraper. The only error returned is a
// *ScrapeError describing a scraper that panicked.
func (r *Router) Scrape(ctx context.Context, url string) (listing models.Listing, err error) {
	ctx, span := tracer.Start(ctx, "Router.Scrape")
	defer span.End()

	id := site.Classify(url)
	span.SetAttributes(attribute.String("site", string(id)), attribute.String("url", url))
	start := time.Now()

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		scrapeErr := &ScrapeError{URL: url, Site: string(id), Message: fmt.Sprint(rec)}
		if e, ok := rec.(error); ok {
			scrapeErr.Err = e
		}
		span.RecordError(scrapeErr)
		span.SetStatus(codes.Error, scrapeErr.Message)
		r.log.ErrorContext(ctx, "scraper defect", "site", id, "url", url, "error", scrapeErr)
		listing, err = models.Listing{}, scrapeErr
	}()

	s := r.Lookup(id)
	if s == nil {
		panic(fmt.Sprintf("no scraper registered for site %q", id))
	}

	r.log.InfoContext(ctx, "dispatching", "site", id, "url", url)
	listing = s.Scrape(ctx, url)
	r.log.InfoContext(ctx, "scraped", "site", id, "source", listing.Source, "vin", listing.VIN, "elapsed", time.Since(start))
	return listing, nil
}

// SiteInfo describes how one site is handled
type SiteInfo struct {
	Site   site.ID  `json:"site"`
	Hosts  []string `json:"hosts,omitempty"`
	Source string   `json:"source"`
	Mode   string   `json:"mode,omitempty"`
}

// Sites lists every classifier site, in classification order, with the
// scraper that serves it
func (r *Router) Sites() []SiteInfo {
	var out []SiteInfo
	add := func(id site.ID, hosts []string) {
		info := SiteInfo{Site: id, Hosts: hosts}
		if s := r.Lookup(id); s != nil {
			info.Source = s.Source()
			if m, ok := s.(interface{ Mode() Mode }); ok {
				info.Mode = m.Mode().String()
			}
		}
		out = append(out, info)
	}
	for _, rule := range site.Rules() {
		add(rule.Site, rule.Needles)
	}
	add(site.Dealer, nil)
	return out
}

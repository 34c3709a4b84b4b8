package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"listingscraper/internal/dom"
	"listingscraper/internal/extract"
	"listingscraper/internal/fetch"
	"listingscraper/internal/models"
	"listingscraper/internal/site"
	"listingscraper/internal/vin"
)

var tracer = otel.Tracer("listingscraper/internal/scraper")

// errPanic marks a strategy run that panicked and was recovered
var errPanic = errors.New("strategy panicked")

// Strategy scrapes one site: acquire the page, extract raw fields, then
// enrich from the VIN and fill defaults. Any failure along the way swaps the
// result for the site's fallback record.
type Strategy struct {
	cfg        SiteConfig
	acquirer   fetch.Acquirer
	decoder    vin.Decoder
	alternates []alternate
	log        *slog.Logger
}

type alternate struct {
	match    func(rawURL string) bool
	strategy *Strategy
}

// NewStrategy builds a strategy. A nil decoder uses the built-in VIN table.
func NewStrategy(cfg SiteConfig, acquirer fetch.Acquirer, decoder vin.Decoder) *Strategy {
	if decoder == nil {
		decoder = vin.Default()
	}
	s := &Strategy{
		cfg:      cfg,
		acquirer: acquirer,
		decoder:  decoder,
		log:      slog.Default().With("component", "scraper", "site", string(cfg.Site)),
	}
	for _, alt := range cfg.Alternates {
		s.alternates = append(s.alternates, alternate{
			match:    alt.Match,
			strategy: NewStrategy(alt.Config, acquirer, decoder),
		})
	}
	return s
}

// Site returns the site this strategy serves
func (s *Strategy) Site() site.ID {
	return s.cfg.Site
}

// Source returns the display name stamped on every record
func (s *Strategy) Source() string {
	return s.cfg.Source
}

// Mode returns how pages are acquired
func (s *Strategy) Mode() Mode {
	return s.cfg.Mode
}

// Scrape never fails: it returns either the extracted record or the site's
// fallback record.
func (s *Strategy) Scrape(ctx context.Context, rawURL string) (listing models.Listing) {
	for _, alt := range s.alternates {
		if alt.match(rawURL) {
			return alt.strategy.Scrape(ctx, rawURL)
		}
	}

	ctx, span := tracer.Start(ctx, "Strategy.Scrape")
	defer span.End()
	span.SetAttributes(
		attribute.String("site", string(s.cfg.Site)),
		attribute.String("url", rawURL),
	)

	urlVIN, _ := vin.FromURLPath(s.cfg.URLVIN, rawURL)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", errPanic, r)
			span.RecordError(err)
			span.SetStatus(codes.Error, "recovered panic")
			s.log.ErrorContext(ctx, "strategy panicked, using fallback", "url", rawURL, "panic", r)
			listing = s.fallback(ctx, rawURL, urlVIN)
		}
	}()

	listing, err := s.run(ctx, rawURL, urlVIN)
	if err == nil {
		err = listing.Validate(vin.Validate)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.WarnContext(ctx, "scrape failed, using fallback", "url", rawURL, "error", err)
		return s.fallback(ctx, rawURL, urlVIN)
	}
	span.SetAttributes(attribute.Bool("fallback", false))
	return listing
}

func (s *Strategy) run(ctx context.Context, rawURL, urlVIN string) (models.Listing, error) {
	doc, err := s.acquire(ctx, rawURL)
	if err != nil {
		return models.Listing{}, err
	}
	raw := s.extractRaw(ctx, doc, rawURL, urlVIN)
	return s.merge(ctx, raw), nil
}

func (s *Strategy) acquire(ctx context.Context, rawURL string) (dom.Document, error) {
	ctx, span := tracer.Start(ctx, "acquire")
	defer span.End()

	doc, err := s.acquirer.Acquire(ctx, fetch.Request{
		URL:     rawURL,
		Timeout: s.cfg.NavTimeout,
		Settle:  s.cfg.Settle,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("acquiring page: %w", err)
	}
	return doc, nil
}

// rawFields is what the page yielded before defaults and enrichment
type rawFields struct {
	url         string
	title       string
	price       float64
	year        int
	make        string
	model       string
	mileage     int
	location    string
	description string
	images      []string
	vin         string
	features    []string
	dealerName  string
	phone       string
	stockNumber string
}

func (s *Strategy) extractRaw(ctx context.Context, doc dom.Document, rawURL, urlVIN string) rawFields {
	_, span := tracer.Start(ctx, "extract")
	defer span.End()

	cfg := s.cfg
	raw := rawFields{url: rawURL}

	raw.title, _ = extract.Field(doc, cfg.Title)
	if v, ok := extract.Field(doc, cfg.Price); ok {
		raw.price, _ = extract.ParseCurrency(v)
	}
	if v, ok := extract.Field(doc, cfg.Mileage); ok {
		raw.mileage, _ = strconv.Atoi(v)
		if raw.mileage == 0 {
			raw.mileage, _ = extract.ParseMileage(v)
		}
	}
	raw.location, _ = extract.Field(doc, cfg.Location)
	raw.description, _ = extract.Field(doc, cfg.Description)
	raw.dealerName, _ = extract.Field(doc, cfg.DealerName)
	raw.phone, _ = extract.Field(doc, cfg.Phone)
	raw.stockNumber, _ = extract.Field(doc, cfg.StockNumber)
	raw.features = extract.Texts(doc, cfg.Features)
	raw.images = extract.Images(doc, cfg.Images, models.MaxImages)

	raw.year, _ = extract.ParseYear(raw.title)
	if cfg.MakeModel != nil {
		raw.make, raw.model = cfg.MakeModel(rawURL, raw.title)
	}
	if raw.make == "" || raw.model == "" {
		if mk, model, ok := extract.ParseMakeModel(raw.title); ok {
			if raw.make == "" {
				raw.make = mk
			}
			if raw.model == "" {
				raw.model = model
			}
		}
	}

	raw.vin = urlVIN
	if raw.vin == "" {
		content, err := doc.Content()
		if err != nil {
			s.log.DebugContext(ctx, "page content unavailable", "error", err)
		}
		raw.vin, _ = vin.Extract(content + " " + raw.title)
	}

	span.SetAttributes(
		attribute.Bool("title_found", raw.title != ""),
		attribute.Bool("price_found", raw.price > 0),
		attribute.Bool("vin_found", raw.vin != ""),
	)
	return raw
}

func (s *Strategy) decode(ctx context.Context, code string) vin.Enrichment {
	if code == "" {
		return vin.Enrichment{}
	}
	ctx, span := tracer.Start(ctx, "enrich")
	defer span.End()

	// A degraded decoder still hands back what it could resolve
	e, err := s.decoder.Decode(ctx, code)
	if err != nil {
		span.RecordError(err)
		s.log.WarnContext(ctx, "vin decode degraded", "vin", code, "error", err, "usable", !e.Empty())
		if e.Empty() {
			return vin.Enrichment{}
		}
	}
	span.SetAttributes(attribute.Int("confidence", e.Confidence))
	return e
}

// merge applies enrichment and defaults. A trusted enrichment overwrites the
// page's year, make and model; any enrichment fills gaps before the site's
// constant defaults do.
func (s *Strategy) merge(ctx context.Context, raw rawFields) models.Listing {
	d := s.cfg.Defaults
	e := s.decode(ctx, raw.vin)

	l := models.Listing{
		Title:       raw.title,
		Price:       raw.price,
		Year:        raw.year,
		Make:        raw.make,
		Model:       raw.model,
		Mileage:     raw.mileage,
		Location:    raw.location,
		Description: raw.description,
		Images:      raw.images,
		Source:      s.cfg.Source,
		VIN:         raw.vin,
		Features:    raw.features,
		DealerName:  raw.dealerName,
		Phone:       raw.phone,
		StockNumber: raw.stockNumber,
	}

	if !e.Empty() {
		if e.Trusted() {
			l.Year = firstInt(e.Year, l.Year)
			l.Make = firstString(e.Make, l.Make)
			l.Model = firstString(e.Model, l.Model)
		}
		l.Trim = e.Trim
		l.Engine = e.Engine
		l.Transmission = e.Transmission
		l.Drivetrain = e.Drivetrain
		l.BodyStyle = e.BodyStyle
		l.FuelType = e.FuelType
	}

	if !models.PlausibleYear(l.Year) {
		l.Year = 0
	}
	l.Year = firstInt(l.Year, e.Year, d.Year)
	l.Make = firstString(l.Make, e.Make, d.Make)
	l.Model = firstString(l.Model, e.Model, d.Model)
	if l.Price <= 0 {
		l.Price = e.MarketPrice
		if l.Price <= 0 {
			l.Price = d.Price
		}
	}
	l.Mileage = firstInt(l.Mileage, e.TypicalMileage, d.Mileage)
	l.Location = firstString(l.Location, d.Location)

	if l.Title == "" {
		if e.Make != "" && e.Model != "" {
			l.Title = fmt.Sprintf("%d %s %s", l.Year, l.Make, l.Model)
			if e.Trim != "" {
				l.Title += " " + e.Trim
			}
		} else {
			l.Title = d.Title
		}
	}
	if l.Description == "" && s.cfg.DefaultDescription != nil {
		l.Description = s.cfg.DefaultDescription(l)
	}
	l.Description = extract.Truncate(firstString(l.Description, d.Description), s.cfg.DescriptionLimit)

	if l.Images == nil {
		l.Images = []string{}
	}
	return l
}

func (s *Strategy) fallback(ctx context.Context, rawURL, urlVIN string) models.Listing {
	in := FallbackInput{URL: rawURL, VIN: urlVIN, Source: s.cfg.Source}
	if urlVIN != "" {
		in.Enrichment = s.decode(ctx, urlVIN)
	}
	l := s.cfg.Fallback(in)
	if l.Images == nil {
		l.Images = []string{}
	}
	return l
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

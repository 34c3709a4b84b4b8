package scraper

import (
	"regexp"
	"time"

	"listingscraper/internal/extract"
	"listingscraper/internal/models"
	"listingscraper/internal/site"
	"listingscraper/internal/vin"
)

// Mode selects how a page is acquired
type Mode int

const (
	ModeBrowser Mode = iota
	ModeHTTP
)

func (m Mode) String() string {
	if m == ModeHTTP {
		return "http"
	}
	return "browser"
}

// Defaults fill fields extraction could not resolve
type Defaults struct {
	Title       string
	Price       float64
	Year        int
	Make        string
	Model       string
	Mileage     int
	Location    string
	Description string
}

// FallbackInput is what a fallback builder may use. VIN is only set when it
// was recovered from the URL before acquisition started.
type FallbackInput struct {
	URL        string
	VIN        string
	Enrichment vin.Enrichment
	Source     string
}

// SiteConfig is the data that distinguishes one site's strategy from another
type SiteConfig struct {
	Site   site.ID
	Source string
	Mode   Mode

	// Zero values take the router's configured timings
	NavTimeout time.Duration
	Settle     time.Duration

	Title       extract.FieldSpec
	Price       extract.FieldSpec
	Mileage     extract.FieldSpec
	Location    extract.FieldSpec
	Description extract.FieldSpec
	DealerName  extract.FieldSpec
	Phone       extract.FieldSpec
	StockNumber extract.FieldSpec
	Features    []string
	Images      []string

	// DescriptionLimit truncates long descriptions, 0 keeps them whole
	DescriptionLimit int

	// URLVIN recovers a VIN from the listing URL path
	URLVIN *regexp.Regexp

	// MakeModel, when set, is consulted before title parsing. Either
	// return value may be empty.
	MakeModel func(url, title string) (vehicleMake, model string)

	// DefaultDescription builds the description when none was extracted
	DefaultDescription func(l models.Listing) string

	Defaults Defaults
	Fallback func(in FallbackInput) models.Listing

	// Alternates serve other page shapes on the same site. They are checked
	// in order before this config and share its acquirer.
	Alternates []Alternate
}

// Alternate is the config used for URLs that Match
type Alternate struct {
	Match  func(rawURL string) bool
	Config SiteConfig
}

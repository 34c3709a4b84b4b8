package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MinYear is the earliest model year accepted in a listing
	MinYear = 1900
	// MaxImages caps the number of image URLs carried by a listing
	MaxImages = 3
)

// Listing represents a single vehicle listing scraped from a marketplace page
type Listing struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Year        int      `json:"year"`
	Make        string   `json:"make"`
	Model       string   `json:"model"`
	Mileage     int      `json:"mileage"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Source      string   `json:"source"`
	VIN         string   `json:"vin,omitempty"`

	// Dealer details, when the page exposes them
	Features    []string `json:"features,omitempty"`
	DealerName  string   `json:"dealerName,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	StockNumber string   `json:"stockNumber,omitempty"`

	// VIN-derived fields, only populated by enrichment
	Trim         string `json:"trim,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	Drivetrain   string `json:"drivetrain,omitempty"`
	BodyStyle    string `json:"bodyStyle,omitempty"`
	FuelType     string `json:"fuelType,omitempty"`
}

// MaxYear returns the latest plausible model year (next year's models are on sale already)
func MaxYear() int {
	return time.Now().Year() + 1
}

// PlausibleYear reports whether year falls inside the accepted model year range
func PlausibleYear(year int) bool {
	return year >= MinYear && year <= MaxYear()
}

// ErrInvalidListing is wrapped by every error returned from Listing.Validate
var ErrInvalidListing = errors.New("invalid listing")

// Validate checks the invariants every listing handed to a caller must satisfy.
// vinValid is injected so the models package stays free of VIN rules.
func (l Listing) Validate(vinValid func(string) bool) error {
	var problems []string

	if strings.TrimSpace(l.Title) == "" {
		problems = append(problems, "title is empty")
	}
	if l.Price <= 0 {
		problems = append(problems, fmt.Sprintf("price %.2f is not positive", l.Price))
	}
	if l.Mileage <= 0 {
		problems = append(problems, fmt.Sprintf("mileage %d is not positive", l.Mileage))
	}
	if !PlausibleYear(l.Year) {
		problems = append(problems, fmt.Sprintf("year %d outside %d-%d", l.Year, MinYear, MaxYear()))
	}
	if l.Make == "" || l.Model == "" {
		problems = append(problems, "make or model is empty")
	}
	if l.Source == "" {
		problems = append(problems, "source is empty")
	}
	if len(l.Images) > MaxImages {
		problems = append(problems, fmt.Sprintf("%d images exceeds cap of %d", len(l.Images), MaxImages))
	}
	if l.VIN != "" && vinValid != nil && !vinValid(l.VIN) {
		problems = append(problems, fmt.Sprintf("vin %q is not valid", l.VIN))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidListing, strings.Join(problems, "; "))
	}
	return nil
}

// ScrapeRequest is the body accepted by the scrape endpoint
type ScrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

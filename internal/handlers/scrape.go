package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"listingscraper/internal/models"
	"listingscraper/internal/scraper"
	"listingscraper/internal/util"
	"listingscraper/internal/validation"
	"listingscraper/internal/vin"
)

const (
	ServiceName    = "Vehicle Listing Scraper"
	ServiceVersion = "1.0.0"
)

// ListingScraper is the dispatch surface the HTTP layer needs
type ListingScraper interface {
	Scrape(ctx context.Context, url string) (models.Listing, error)
	Sites() []scraper.SiteInfo
}

type ScrapeHandler struct {
	scraper ListingScraper
	decoder vin.Decoder
	now     func() time.Time
}

// NewScrapeHandler wires the public endpoints. A nil decoder uses the
// built-in heuristic table.
func NewScrapeHandler(s ListingScraper, decoder vin.Decoder) *ScrapeHandler {
	if decoder == nil {
		decoder = vin.Default()
	}
	return &ScrapeHandler{scraper: s, decoder: decoder, now: time.Now}
}

// Scrape godoc
// @Summary Scrape a vehicle listing
// @Description Fetches the page at url, classifies its site and returns a normalised listing. Fields that cannot be read are filled with site defaults.
// @Tags scrape
// @Accept json
// @Produce json
// @Param request body models.ScrapeRequest true "Listing URL"
// @Success 200 {object} models.Listing
// @Failure 400 {object} models.ErrorResponse "Invalid URL or scrape failure"
// @Failure 429 {object} models.ErrorResponse "Too Many Requests - Rate limited"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/scrape [post]
func (h *ScrapeHandler) Scrape(c *gin.Context) {
	var req models.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	url, err := validation.ValidateListingURL(req.URL)
	if err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	listing, err := h.scraper.Scrape(c.Request.Context(), url)
	if err != nil {
		var scrapeErr *scraper.ScrapeError
		if errors.As(err, &scrapeErr) {
			util.SafeErrorResponse(c, http.StatusBadRequest, "Failed to scrape listing", err)
			return
		}
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Health godoc
// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func (h *ScrapeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Root godoc
// @Summary Service information
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *ScrapeHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    ServiceName,
		"version": ServiceVersion,
	})
}

// DecodeVIN godoc
// @Summary Decode a VIN
// @Description Returns the attributes inferred from a VIN. Registry pins win over the heuristic table when the registry is enabled.
// @Tags vin
// @Produce json
// @Param vin path string true "17 character VIN"
// @Success 200 {object} vin.Enrichment
// @Failure 400 {object} models.ErrorResponse
// @Router /api/vin/{vin} [get]
func (h *ScrapeHandler) DecodeVIN(c *gin.Context) {
	code, err := validation.NormalizeVIN(c.Param("vin"))
	if err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	e, err := h.decoder.Decode(c.Request.Context(), code)
	if err != nil {
		// Degraded decoders still hand back the heuristic result
		logger().WarnContext(c.Request.Context(), "vin decode degraded", "vin", code, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"vin": code, "enrichment": e})
}

// Sites godoc
// @Summary List supported sites
// @Description Classifier rules in match order and the strategy that serves each site
// @Tags meta
// @Produce json
// @Success 200 {array} scraper.SiteInfo
// @Router /api/sites [get]
func (h *ScrapeHandler) Sites(c *gin.Context) {
	c.JSON(http.StatusOK, h.scraper.Sites())
}

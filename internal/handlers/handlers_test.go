package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"listingscraper/internal/database"
	"listingscraper/internal/models"
	"listingscraper/internal/scraper"
	"listingscraper/internal/site"
	"listingscraper/internal/vin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeScraper struct {
	listing models.Listing
	err     error
	gotURL  string
}

func (f *fakeScraper) Scrape(_ context.Context, url string) (models.Listing, error) {
	f.gotURL = url
	return f.listing, f.err
}

func (f *fakeScraper) Sites() []scraper.SiteInfo {
	return []scraper.SiteInfo{
		{Site: site.CarGurus, Hosts: []string{"cargurus"}, Source: "CarGurus", Mode: "browser"},
		{Site: site.Dealer, Source: "Dealer Website", Mode: "http"},
	}
}

type failingDecoder struct{}

func (failingDecoder) Decode(_ context.Context, code string) (vin.Enrichment, error) {
	return vin.Enrich(code), errors.New("registry unavailable")
}

func performJSONRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func setupScrapeRouter(s ListingScraper, dec vin.Decoder) *gin.Engine {
	h := NewScrapeHandler(s, dec)
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/api/health", h.Health)
	r.POST("/api/scrape", h.Scrape)
	r.GET("/api/vin/:vin", h.DecodeVIN)
	r.GET("/api/sites", h.Sites)
	return r
}

func TestScrapeSuccess(t *testing.T) {
	fake := &fakeScraper{listing: models.Listing{
		Title: "2018 Chevrolet Corvette Grand Sport", Price: 59787, Year: 2018,
		Make: "Chevrolet", Model: "Corvette", Mileage: 25000, Images: []string{}, Source: "Carfax",
		VIN: vin.CorvetteGrandSportVIN,
	}}
	r := setupScrapeRouter(fake, nil)

	rec := performJSONRequest(r, http.MethodPost, "/api/scrape",
		models.ScrapeRequest{URL: " https://www.carfax.com/vehicle/1G1YY2D78J5105901 "}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.gotURL != "https://www.carfax.com/vehicle/1G1YY2D78J5105901" {
		t.Fatalf("expected trimmed url to reach scraper, got %q", fake.gotURL)
	}

	var got models.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if got.VIN != vin.CorvetteGrandSportVIN || got.Price != 59787 {
		t.Fatalf("unexpected listing %+v", got)
	}
}

func TestScrapeRejectsBadRequests(t *testing.T) {
	fake := &fakeScraper{}
	r := setupScrapeRouter(fake, nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing url", map[string]string{}},
		{"relative url", models.ScrapeRequest{URL: "/vehicle/123"}},
		{"ftp url", models.ScrapeRequest{URL: "ftp://example.com/car"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performJSONRequest(r, http.MethodPost, "/api/scrape", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Success || body.Message == "" {
				t.Fatalf("unexpected error body %+v", body)
			}
		})
	}
	if fake.gotURL != "" {
		t.Fatalf("scraper should not run for invalid input")
	}
}

func TestScrapeErrorMapping(t *testing.T) {
	scrapeErr := &scraper.ScrapeError{URL: "https://x.example", Site: string(site.Dealer), Message: "boom"}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"scrape error", scrapeErr, http.StatusBadRequest},
		{"wrapped scrape error", errors.Join(errors.New("context"), scrapeErr), http.StatusBadRequest},
		{"other error", errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupScrapeRouter(&fakeScraper{err: tt.err}, nil)
			rec := performJSONRequest(r, http.MethodPost, "/api/scrape", models.ScrapeRequest{URL: "https://x.example"}, nil)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestHealthAndRoot(t *testing.T) {
	r := setupScrapeRouter(&fakeScraper{}, nil)

	rec := performJSONRequest(r, http.MethodGet, "/api/health", nil, nil)
	var health map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	if health["status"] != "healthy" || health["timestamp"] != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected health body %v", health)
	}

	rec = performJSONRequest(r, http.MethodGet, "/", nil, nil)
	var root map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &root); err != nil {
		t.Fatalf("failed to decode root: %v", err)
	}
	if root["name"] != ServiceName || root["version"] != ServiceVersion {
		t.Fatalf("unexpected root body %v", root)
	}
}

type decodeResponse struct {
	VIN        string         `json:"vin"`
	Enrichment vin.Enrichment `json:"enrichment"`
}

func TestDecodeVIN(t *testing.T) {
	r := setupScrapeRouter(&fakeScraper{}, nil)

	rec := performJSONRequest(r, http.MethodGet, "/api/vin/1g1yy2d78j5105901", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body decodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.VIN != vin.CorvetteGrandSportVIN || body.Enrichment.Trim != "Grand Sport" {
		t.Fatalf("unexpected decode %+v", body)
	}

	rec = performJSONRequest(r, http.MethodGet, "/api/vin/1G1YY2D78J51O5901", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid vin, got %d", rec.Code)
	}
}

func TestDecodeVINDegradedDecoder(t *testing.T) {
	r := setupScrapeRouter(&fakeScraper{}, failingDecoder{})

	rec := performJSONRequest(r, http.MethodGet, "/api/vin/WP1AA2A5XLA123456", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from degraded decoder, got %d", rec.Code)
	}
	var body decodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Enrichment.Model != "Macan" {
		t.Fatalf("expected heuristic result, got %+v", body.Enrichment)
	}
}

func TestSites(t *testing.T) {
	r := setupScrapeRouter(&fakeScraper{}, nil)

	rec := performJSONRequest(r, http.MethodGet, "/api/sites", nil, nil)
	var sites []scraper.SiteInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &sites); err != nil {
		t.Fatalf("failed to decode sites: %v", err)
	}
	if len(sites) != 2 || sites[0].Site != site.CarGurus || sites[1].Mode != "http" {
		t.Fatalf("unexpected sites %+v", sites)
	}
}

func setupAdmin(t *testing.T) (*gin.Engine, *database.Database) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "vins.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	h := NewAdminHandler(db)
	r := gin.New()
	r.PUT("/api/admin/vin/:vin", h.PinVIN)
	r.GET("/api/admin/vin", h.ListPins)
	r.DELETE("/api/admin/vin/:vin", h.UnpinVIN)
	return r, db
}

func TestAdminPinListUnpin(t *testing.T) {
	r, db := setupAdmin(t)

	rec := performJSONRequest(r, http.MethodPut, "/api/admin/vin/jtnb11hk1j3012345",
		vin.Enrichment{Year: 2018, Make: "Toyota", Model: "Supra", MarketPrice: 48000}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var pinned database.PinnedVIN
	if err := json.Unmarshal(rec.Body.Bytes(), &pinned); err != nil {
		t.Fatalf("failed to decode pin: %v", err)
	}
	if pinned.VIN != "JTNB11HK1J3012345" || pinned.Enrichment.Confidence != database.DefaultPinConfidence {
		t.Fatalf("unexpected pin %+v", pinned)
	}

	e, err := db.LookupVIN(context.Background(), "JTNB11HK1J3012345")
	if err != nil || e.Model != "Supra" {
		t.Fatalf("expected stored pin, got %+v (%v)", e, err)
	}

	rec = performJSONRequest(r, http.MethodGet, "/api/admin/vin", nil, nil)
	var pins []database.PinnedVIN
	if err := json.Unmarshal(rec.Body.Bytes(), &pins); err != nil {
		t.Fatalf("failed to decode pins: %v", err)
	}
	if len(pins) != 1 {
		t.Fatalf("expected 1 pin, got %d", len(pins))
	}

	rec = performJSONRequest(r, http.MethodDelete, "/api/admin/vin/JTNB11HK1J3012345", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = performJSONRequest(r, http.MethodDelete, "/api/admin/vin/JTNB11HK1J3012345", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing pin, got %d", rec.Code)
	}
}

func TestAdminPinRejectsBadInput(t *testing.T) {
	r, _ := setupAdmin(t)

	rec := performJSONRequest(r, http.MethodPut, "/api/admin/vin/NOTAVIN", vin.Enrichment{Make: "X"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad vin, got %d", rec.Code)
	}

	rec = performJSONRequest(r, http.MethodPut, "/api/admin/vin/JTNB11HK1J3012345", vin.Enrichment{Confidence: 150}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad confidence, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/vin/JTNB11HK1J3012345", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

package scraper

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingscraper/internal/database"
	"listingscraper/internal/dom"
	"listingscraper/internal/fetch"
	"listingscraper/internal/models"
	"listingscraper/internal/site"
	"listingscraper/internal/vin"
)

func pageAcquirer(markup string) fetch.Acquirer {
	return fetch.AcquirerFunc(func(context.Context, fetch.Request) (dom.Document, error) {
		return dom.ParseString(markup)
	})
}

func failingAcquirer(err error) fetch.Acquirer {
	return fetch.AcquirerFunc(func(context.Context, fetch.Request) (dom.Document, error) {
		return nil, err
	})
}

func panickingAcquirer() fetch.Acquirer {
	return fetch.AcquirerFunc(func(context.Context, fetch.Request) (dom.Document, error) {
		panic("renderer crashed")
	})
}

type decoderFunc func(ctx context.Context, v string) (vin.Enrichment, error)

func (f decoderFunc) Decode(ctx context.Context, v string) (vin.Enrichment, error) {
	return f(ctx, v)
}

func configFor(t *testing.T, id site.ID) SiteConfig {
	t.Helper()
	for _, cfg := range DefaultSites() {
		if cfg.Site == id {
			return cfg
		}
	}
	t.Fatalf("no config for %s", id)
	return SiteConfig{}
}

func requireValid(t *testing.T, l models.Listing) {
	t.Helper()
	require.NoError(t, l.Validate(vin.Validate))
}

func TestAcquisitionFailureReturnsFallback(t *testing.T) {
	for _, cfg := range DefaultSites() {
		t.Run(string(cfg.Site), func(t *testing.T) {
			s := NewStrategy(cfg, failingAcquirer(errors.New("connection refused")), nil)
			got := s.Scrape(context.Background(), "https://example.com/listing/1")

			want := cfg.Fallback(FallbackInput{URL: "https://example.com/listing/1", Source: cfg.Source})
			want.Images = []string{}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
			}
			requireValid(t, got)
			assert.Equal(t, cfg.Source, got.Source)
		})
	}
}

func TestPanicDuringAcquireReturnsFallback(t *testing.T) {
	cfg := configFor(t, site.CarGurus)
	s := NewStrategy(cfg, panickingAcquirer(), nil)

	got := s.Scrape(context.Background(), "https://www.cargurus.com/Cars/porsche-macan")
	assert.Equal(t, "2022 Porsche Macan AWD", got.Title)
	assert.Equal(t, 67900.0, got.Price)
	requireValid(t, got)
}

func TestCarGurusExtraction(t *testing.T) {
	markup := `<html><body>
<h1 data-cg-ft="car-blade-title">
  2021 Honda Civic EX
</h1>
<div data-testid="listing-price">$23,450</div>
<div class="mileage">18,200 mi</div>
<div class="dealer-location">Boulder, CO</div>
<img src="https://static.cargurus.com/images/car-placeholder.jpg">
<img src="https://static.cargurus.com/images/car-1.jpg">
<img src="https://static.cargurus.com/images/car-2.jpg">
<img src="https://static.cargurus.com/images/car-3.jpg">
<img src="https://static.cargurus.com/images/car-4.jpg">
</body></html>`

	s := NewStrategy(configFor(t, site.CarGurus), pageAcquirer(markup), nil)
	got := s.Scrape(context.Background(), "https://www.cargurus.com/Cars/inventorylisting/vdp.action?listingId=1")

	want := models.Listing{
		Title:       "2021 Honda Civic EX",
		Price:       23450,
		Year:        2021,
		Make:        "Honda",
		Model:       "Civic",
		Mileage:     18200,
		Location:    "Boulder, CO",
		Description: "Vehicle listing from CarGurus VDP",
		Images: []string{
			"https://static.cargurus.com/images/car-1.jpg",
			"https://static.cargurus.com/images/car-2.jpg",
			"https://static.cargurus.com/images/car-3.jpg",
		},
		Source: "CarGurus",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestCarGurusMakeModelHints(t *testing.T) {
	tests := []struct {
		url, title  string
		make, model string
	}{
		{"https://www.cargurus.com/Cars/l-Used-Porsche-Macan", "2019 Porsche Macan S", "Porsche", "Macan"},
		{"https://www.cargurus.com/Cars/l-Used-Porsche", "2019 Porsche Cayenne", "Porsche", ""},
		{"https://www.cargurus.com/Cars/mercedes", "2018 Mercedes-Benz AMG GT S", "Mercedes-Benz", "AMG GT S"},
		{"https://www.cargurus.com/x", "2018 Mercedes-Benz AMG GT Coupe", "Mercedes-Benz", "AMG GT"},
		{"https://www.cargurus.com/x", "2021 Honda Civic", "", ""},
	}
	for _, tt := range tests {
		mk, model := cargurusMakeModel(tt.url, tt.title)
		assert.Equal(t, tt.make, mk, tt.url)
		assert.Equal(t, tt.model, model, tt.url)
	}
}

func TestCarGurusHintThenTitleModel(t *testing.T) {
	markup := `<h1>2019 Porsche Cayenne</h1><div class="listing-price">$61,000</div>`
	s := NewStrategy(configFor(t, site.CarGurus), pageAcquirer(markup), nil)
	got := s.Scrape(context.Background(), "https://www.cargurus.com/Cars/l-Used-Porsche")

	assert.Equal(t, "Porsche", got.Make)
	assert.Equal(t, "Cayenne", got.Model)
	assert.Equal(t, 45000, got.Mileage)
}

func TestCarGurusSearchResultsReadFirstCard(t *testing.T) {
	markup := `<html><body>
<div class="car-blade">
  <a data-cg-ft="car-blade-link" href="#">
    <h4>2019  Porsche Macan S</h4>
    <span data-testid="listing-price">$48,900</span>
  </a>
</div>
<div class="car-blade">
  <a data-cg-ft="car-blade-link" href="#">
    <h4>2017 Porsche Macan</h4>
    <span data-testid="listing-price">$36,000</span>
  </a>
</div>
</body></html>`

	s := NewStrategy(configFor(t, site.CarGurus), pageAcquirer(markup), nil)
	got := s.Scrape(context.Background(), "https://www.cargurus.com/Cars/l-Used-Porsche-Macan-d2262#listing=123456")

	requireValid(t, got)
	assert.Equal(t, "2019 Porsche Macan S", got.Title)
	assert.Equal(t, 48900.0, got.Price)
	assert.Equal(t, 2019, got.Year)
	assert.Equal(t, "Porsche", got.Make)
	assert.Equal(t, "Macan", got.Model)
	assert.Equal(t, 50000, got.Mileage)
	assert.Equal(t, "Unknown", got.Location)
	assert.Equal(t, "Listing from CarGurus search results", got.Description)
	assert.Equal(t, "CarGurus", got.Source)
}

func TestCarGurusSearchURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.cargurus.com/Cars/l-Used-Porsche-Macan-d2262#listing=123456", true},
		{"https://www.cargurus.com/Cars/inventorylisting/vdp.action?listingId=1#listing=1", false},
		{"https://www.cargurus.com/Cars/InventoryListing/x#listing=1", false},
		{"https://www.cargurus.com/Cars/l-Used-Porsche-Macan-d2262", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cargurusSearchURL(tt.url), tt.url)
	}
}

func TestCarGurusDetailPageIgnoresListingFragment(t *testing.T) {
	markup := `<h1 data-cg-ft="car-blade-title">2021 Honda Civic EX</h1><div data-testid="listing-price">$23,450</div>`
	s := NewStrategy(configFor(t, site.CarGurus), pageAcquirer(markup), nil)
	got := s.Scrape(context.Background(), "https://www.cargurus.com/Cars/inventorylisting/vdp.action?listingId=1#listing=1")

	assert.Equal(t, "2021 Honda Civic EX", got.Title)
	assert.Equal(t, "Vehicle listing from CarGurus VDP", got.Description)
	assert.Equal(t, 45000, got.Mileage)
}

func TestCarfaxPinnedVINFromURL(t *testing.T) {
	long := strings.Repeat("Great car. ", 30)
	markup := `<html><body>
<div class="dealer-location">Austin,
   TX</div>
<div class="vehicle-description">` + long + `</div>
</body></html>`

	s := NewStrategy(configFor(t, site.Carfax), pageAcquirer(markup), nil)
	got := s.Scrape(context.Background(), "https://www.carfax.com/vehicle/1G1YY2D78J5105901")

	want := models.Listing{
		Title:        "2018 Chevrolet Corvette Grand Sport",
		Price:        59787,
		Year:         2018,
		Make:         "Chevrolet",
		Model:        "Corvette",
		Mileage:      25000,
		Location:     "Austin, TX",
		Description:  long[:200] + "...",
		Images:       []string{},
		Source:       "Carfax",
		VIN:          vin.CorvetteGrandSportVIN,
		Trim:         "Grand Sport",
		Engine:       "6.2L LT1 V8",
		Transmission: "7-Speed Manual",
		Drivetrain:   "RWD",
		BodyStyle:    "Coupe",
		FuelType:     "Gasoline",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
	requireValid(t, got)
}

func TestCarfaxDefaultDescription(t *testing.T) {
	s := NewStrategy(configFor(t, site.Carfax), pageAcquirer(`<h1 class="vehicle-name">2020 Honda Accord Sport</h1>`), nil)
	got := s.Scrape(context.Background(), "https://www.carfax.com/cars-for-sale")

	assert.Equal(t, "Carfax vehicle listing for 2020 Honda Accord", got.Description)
	assert.Equal(t, 25000.0, got.Price)
	assert.Empty(t, got.VIN)
}

func TestCarfaxFallbackUsesURLVIN(t *testing.T) {
	s := NewStrategy(configFor(t, site.Carfax), failingAcquirer(context.DeadlineExceeded), nil)
	got := s.Scrape(context.Background(), "https://www.carfax.com/vehicle/1G1YY2D78J5105901")

	assert.Equal(t, "2018 Chevrolet Corvette", got.Title)
	assert.Equal(t, 59787.0, got.Price)
	assert.Equal(t, 25000, got.Mileage)
	assert.Equal(t, vin.CorvetteGrandSportVIN, got.VIN)
	assert.Equal(t, "Grand Sport", got.Trim)
	assert.Equal(t, "Carfax vehicle listing - VIN: 1G1YY2D78J5105901", got.Description)
	requireValid(t, got)
}

func TestCarfaxFallbackUnknownPrefix(t *testing.T) {
	s := NewStrategy(configFor(t, site.Carfax), failingAcquirer(errors.New("boom")), nil)
	got := s.Scrape(context.Background(), "https://www.carfax.com/vehicle/3VWDB7AJ5HM123456")

	assert.Equal(t, "2017 Unknown Vehicle", got.Title)
	assert.Equal(t, 35000.0, got.Price)
	assert.Equal(t, 50000, got.Mileage)
	requireValid(t, got)
}

const dealerPorsche = `<html><head><title>2015 Porsche 911 Carrera</title></head><body>
<span itemprop="price">$64,000</span>
<div class="mileage">40,100 miles</div>
<p>VIN: WP1AA2A5XLA123456</p>
</body></html>`

func TestTrustedEnrichmentOverwritesPage(t *testing.T) {
	s := NewStrategy(configFor(t, site.Dealer), pageAcquirer(dealerPorsche), nil)
	got := s.Scrape(context.Background(), "https://dealer.example/inventory/1")

	assert.Equal(t, "2015 Porsche 911 Carrera", got.Title)
	assert.Equal(t, 2020, got.Year)
	assert.Equal(t, "Porsche", got.Make)
	assert.Equal(t, "Macan", got.Model)
	assert.Equal(t, "AWD", got.Trim)
	assert.Equal(t, "7-Speed PDK", got.Transmission)
	assert.Equal(t, 64000.0, got.Price)
	assert.Equal(t, 40100, got.Mileage)
	assert.Equal(t, "WP1AA2A5XLA123456", got.VIN)
	assert.Equal(t, "Dealer Website", got.Source)
}

func TestUntrustedEnrichmentKeepsPage(t *testing.T) {
	low := decoderFunc(func(context.Context, string) (vin.Enrichment, error) {
		return vin.Enrichment{Validated: true, Confidence: 60, Year: 2020, Make: "Porsche", Model: "Macan", Trim: "AWD"}, nil
	})
	s := NewStrategy(configFor(t, site.Dealer), pageAcquirer(dealerPorsche), low)
	got := s.Scrape(context.Background(), "https://dealer.example/inventory/1")

	assert.Equal(t, 2015, got.Year)
	assert.Equal(t, "911", got.Model)
	assert.Equal(t, "AWD", got.Trim, "attributes are filled regardless of confidence")
}

func TestDecoderErrorKeepsPartialEnrichment(t *testing.T) {
	degraded := decoderFunc(func(_ context.Context, v string) (vin.Enrichment, error) {
		return vin.Enrich(v), errors.New("registry unavailable")
	})
	s := NewStrategy(configFor(t, site.Dealer), pageAcquirer(dealerPorsche), degraded)
	got := s.Scrape(context.Background(), "https://dealer.example/inventory/1")

	assert.Equal(t, "2015 Porsche 911 Carrera", got.Title)
	assert.Equal(t, 2020, got.Year)
	assert.Equal(t, "Porsche", got.Make)
	assert.Equal(t, "Macan", got.Model)
	assert.Equal(t, "AWD", got.Trim)
	assert.Equal(t, "7-Speed PDK", got.Transmission)
	assert.Equal(t, "WP1AA2A5XLA123456", got.VIN)
	requireValid(t, got)
}

func TestDecoderErrorWithoutResultIsNotFatal(t *testing.T) {
	broken := decoderFunc(func(context.Context, string) (vin.Enrichment, error) {
		return vin.Enrichment{}, errors.New("registry unavailable")
	})
	s := NewStrategy(configFor(t, site.Dealer), pageAcquirer(dealerPorsche), broken)
	got := s.Scrape(context.Background(), "https://dealer.example/inventory/1")

	assert.Equal(t, "2015 Porsche 911 Carrera", got.Title)
	assert.Equal(t, "Porsche", got.Make)
	assert.Equal(t, "911", got.Model)
	assert.Equal(t, "WP1AA2A5XLA123456", got.VIN)
	assert.Empty(t, got.Trim)
}

func TestClosedRegistryKeepsHeuristicEnrichment(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "vins.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s := NewStrategy(configFor(t, site.Dealer), pageAcquirer(dealerPorsche), database.NewRegistry(db, nil))
	got := s.Scrape(context.Background(), "https://dealer.example/inventory/1")

	assert.Equal(t, "Macan", got.Model)
	assert.Equal(t, "AWD", got.Trim)
	assert.Equal(t, "7-Speed PDK", got.Transmission)
	assert.Equal(t, "AWD", got.Drivetrain)
}

func TestSynthesisedTitleOmitsMissingTrim(t *testing.T) {
	noTrim := decoderFunc(func(context.Context, string) (vin.Enrichment, error) {
		return vin.Enrichment{Year: 2019, Make: "Toyota", Model: "Supra", Confidence: 100, Validated: true}, nil
	})
	markup := `<html><body><p>VIN: JTNB11HK1J3012345</p></body></html>`
	s := NewStrategy(configFor(t, site.Carfax), pageAcquirer(markup), noTrim)
	got := s.Scrape(context.Background(), "https://www.carfax.com/cars-for-sale")

	assert.Equal(t, "2019 Toyota Supra", got.Title)
	requireValid(t, got)
}

func TestGenericPricePatterns(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		price float64
	}{
		{"dollar sign", `<p>Now only $21,500!</p>`, 21500},
		{"price label", `<p>Price: 19,900</p>`, 19900},
		{"dollars word", `<p>Asking 17500 dollars</p>`, 17500},
		{"nothing", `<p>Call us</p>`, 25000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := `<html><head><title>2019 Toyota Camry SE | Dealer</title></head><body>` + tt.body + `</body></html>`
			s := NewStrategy(configFor(t, site.Dealer), pageAcquirer(markup), nil)
			got := s.Scrape(context.Background(), "https://dealer.example/camry")

			assert.Equal(t, tt.price, got.Price)
			assert.Equal(t, 2019, got.Year)
			assert.Equal(t, "Toyota", got.Make)
			assert.Equal(t, "Camry", got.Model)
			assert.Equal(t, 50000, got.Mileage)
			requireValid(t, got)
		})
	}
}

func TestGenericDealerDetails(t *testing.T) {
	markup := `<html><head>
<title>2020 Honda Accord Sport</title>
<meta name="description" content="One owner, dealer maintained.">
</head><body>
<div itemprop="address">12 Main St,
  Springfield</div>
<div class="dealer-name">Springfield Honda</div>
<a href="tel:+15551234567"> (555) 123-4567 </a>
<span class="stock-number">H1234</span>
<ul class="features"><li>Sunroof</li><li>Apple CarPlay</li></ul>
<div class="gallery"><img src="https://cdn.dealer.example/a.jpg"></div>
</body></html>`

	s := NewStrategy(configFor(t, site.CarMax), pageAcquirer(markup), nil)
	got := s.Scrape(context.Background(), "https://www.carmax.com/car/1")

	assert.Equal(t, "CarMax", got.Source)
	assert.Equal(t, "One owner, dealer maintained.", got.Description)
	assert.Equal(t, "12 Main St, Springfield", got.Location)
	assert.Equal(t, "Springfield Honda", got.DealerName)
	assert.Equal(t, "(555) 123-4567", got.Phone)
	assert.Equal(t, "H1234", got.StockNumber)
	assert.Equal(t, []string{"Sunroof", "Apple CarPlay"}, got.Features)
	assert.Equal(t, []string{"https://cdn.dealer.example/a.jpg"}, got.Images)
}

func TestEmptyPageStillTotal(t *testing.T) {
	for _, cfg := range DefaultSites() {
		t.Run(string(cfg.Site), func(t *testing.T) {
			s := NewStrategy(cfg, pageAcquirer(`<html><body></body></html>`), nil)
			got := s.Scrape(context.Background(), "https://example.com/empty")
			requireValid(t, got)
			assert.Equal(t, cfg.Source, got.Source)
			assert.NotNil(t, got.Images)
		})
	}
}

func TestInvalidMergeFallsBack(t *testing.T) {
	cfg := configFor(t, site.Dealer)
	cfg.Defaults.Make = ""

	s := NewStrategy(cfg, pageAcquirer(`<p>nothing useful</p>`), nil)
	got := s.Scrape(context.Background(), "https://dealer.example/x")

	assert.Equal(t, "2021 Toyota Camry LE", got.Title)
	requireValid(t, got)
}

func TestStrategyPassesTimings(t *testing.T) {
	var got fetch.Request
	acq := fetch.AcquirerFunc(func(_ context.Context, req fetch.Request) (dom.Document, error) {
		got = req
		return nil, errors.New("stop")
	})
	s := NewStrategy(configFor(t, site.Carfax), acq, nil)
	s.Scrape(context.Background(), "https://www.carfax.com/vehicle/x")

	assert.Equal(t, "https://www.carfax.com/vehicle/x", got.URL)
	assert.Equal(t, "30s", got.Timeout.String())
	assert.Equal(t, "5s", got.Settle.String())
}

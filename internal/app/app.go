// Package app assembles the scraping pipeline from a Config.
package app

import (
	"fmt"
	"log/slog"

	"listingscraper/internal/config"
	"listingscraper/internal/database"
	"listingscraper/internal/fetch"
	"listingscraper/internal/scraper"
	"listingscraper/internal/vin"
)

// App holds the long-lived pieces shared by the server and the CLI
type App struct {
	Router  *scraper.Router
	Decoder vin.Decoder
	DB      *database.Database // nil when the registry is disabled
}

// Build wires acquirers, the VIN decoder and the site router. The VIN
// registry is opened only when cfg names a database file.
func Build(cfg config.Config) (*App, error) {
	a := &App{Decoder: vin.Default()}

	if cfg.VINRegistryDB != "" {
		db, err := database.NewDatabase(cfg.VINRegistryDB)
		if err != nil {
			return nil, fmt.Errorf("opening vin registry: %w", err)
		}
		a.DB = db
		a.Decoder = database.NewRegistry(db, vin.Default())
		slog.Default().Info("vin registry enabled", "component", "app", "path", cfg.VINRegistryDB)
	}

	a.Router = scraper.New(scraper.Options{
		Browser: fetch.NewBrowser(fetch.BrowserOptions{
			Headless: cfg.BrowserHeadless,
			Bin:      cfg.BrowserBin,
		}),
		HTTP:        fetch.NewHTTP(fetch.DefaultUserAgent),
		Decoder:     a.Decoder,
		NavTimeout:  cfg.NavTimeout,
		Settle:      cfg.SettleDelay,
		HTTPTimeout: cfg.HTTPTimeout,
	})
	return a, nil
}

// Close releases the registry database, if any
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// Package report renders listings and VIN data as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"listingscraper/internal/database"
	"listingscraper/internal/models"
	"listingscraper/internal/scraper"
	"listingscraper/internal/vin"
)

// NewTable returns a rounded table writer that mirrors to w
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

type row struct {
	key   string
	value string
}

func renderPairs(w io.Writer, rows []row) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		t.AppendRow(table.Row{r.key, r.value})
	}
	t.Render()
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func money(f float64) string {
	if f == 0 {
		return ""
	}
	return fmt.Sprintf("$%.0f", f)
}

// Listing writes one listing as a field/value table. Empty optional fields
// are skipped.
func Listing(w io.Writer, l models.Listing) {
	renderPairs(w, []row{
		{"Title", l.Title},
		{"Price", money(l.Price)},
		{"Year", itoa(l.Year)},
		{"Make", l.Make},
		{"Model", l.Model},
		{"Trim", l.Trim},
		{"Mileage", itoa(l.Mileage)},
		{"Location", l.Location},
		{"VIN", l.VIN},
		{"Engine", l.Engine},
		{"Transmission", l.Transmission},
		{"Drivetrain", l.Drivetrain},
		{"Body", l.BodyStyle},
		{"Fuel", l.FuelType},
		{"Dealer", l.DealerName},
		{"Phone", l.Phone},
		{"Stock", l.StockNumber},
		{"Features", strings.Join(l.Features, ", ")},
		{"Images", strings.Join(l.Images, "\n")},
		{"Description", l.Description},
		{"Source", l.Source},
	})
}

// Enrichment writes the decoded attributes of code
func Enrichment(w io.Writer, code string, e vin.Enrichment) {
	if e.Empty() {
		fmt.Fprintf(w, "%s is not a valid VIN\n", code)
		return
	}
	renderPairs(w, []row{
		{"VIN", code},
		{"Year", itoa(e.Year)},
		{"Make", e.Make},
		{"Model", e.Model},
		{"Trim", e.Trim},
		{"Engine", e.Engine},
		{"Transmission", e.Transmission},
		{"Drivetrain", e.Drivetrain},
		{"Body", e.BodyStyle},
		{"Fuel", e.FuelType},
		{"Cylinders", itoa(e.Cylinders)},
		{"Displacement", e.Displacement},
		{"Market Price", money(e.MarketPrice)},
		{"Typical Mileage", itoa(e.TypicalMileage)},
		{"Confidence", strconv.Itoa(e.Confidence)},
	})
}

// Sites writes one row per classifier site
func Sites(w io.Writer, sites []scraper.SiteInfo) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"Site", "Matches", "Source", "Mode"})
	for _, s := range sites {
		t.AppendRow(table.Row{s.Site, strings.Join(s.Hosts, ", "), s.Source, s.Mode})
	}
	t.Render()
}

// Pins writes the registry contents
func Pins(w io.Writer, pins []database.PinnedVIN) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"VIN", "Year", "Make", "Model", "Trim", "Confidence", "Updated"})
	for _, p := range pins {
		e := p.Enrichment
		t.AppendRow(table.Row{p.VIN, itoa(e.Year), e.Make, e.Model, e.Trim, e.Confidence, p.UpdatedAt.Format("2006-01-02 15:04")})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(pins)})
	t.Render()
}

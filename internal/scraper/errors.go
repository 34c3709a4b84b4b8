package scraper

import "fmt"

// ScrapeError reports a defect that escaped a strategy. Strategies recover
// their own acquisition and extraction failures, so seeing one of these
// means a bug, not a bad page.
type ScrapeError struct {
	URL     string
	Site    string
	Message string
	Err     error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scraping %s (%s): %s", e.URL, e.Site, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

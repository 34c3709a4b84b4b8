package extract

import (
	"net/url"
	"strings"

	"listingscraper/internal/dom"
)

// imageAttrs are read in order; lazy loaders often leave src as a stub
var imageAttrs = []string{"src", "data-src"}

// UsableImage reports whether u is an absolute http(s) URL that is not a
// placeholder graphic
func UsableImage(u string) bool {
	if strings.Contains(strings.ToLower(u), "placeholder") {
		return false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// Images harvests up to limit distinct usable image URLs, walking selectors
// in order. Filtering happens before the cap.
func Images(doc dom.Document, selectors []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, sel := range selectors {
		for _, attr := range imageAttrs {
			urls, err := doc.AttrAll(sel, attr)
			if err != nil {
				continue
			}
			for _, u := range urls {
				if !UsableImage(u) || seen[u] {
					continue
				}
				seen[u] = true
				out = append(out, u)
				if len(out) == limit {
					return out
				}
			}
		}
	}
	return out
}

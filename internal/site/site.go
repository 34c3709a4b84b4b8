// Package site maps listing URLs to the marketplace that serves them.
package site

import (
	"net/url"
	"strings"
)

// ID identifies a marketplace (or the generic dealer fallback)
type ID string

const (
	CarGurus      ID = "cargurus"
	AutoTrader    ID = "autotrader"
	CarsCom       ID = "cars_com"
	CarMax        ID = "carmax"
	Vroom         ID = "vroom"
	Carvana       ID = "carvana"
	Carfax        ID = "carfax"
	Facebook      ID = "facebook"
	BringATrailer ID = "bringatrailer"
	Craigslist    ID = "craigslist"
	Dealer        ID = "dealer"
)

// Rule matches a host when it contains any of Needles
type Rule struct {
	Site    ID       `json:"site"`
	Needles []string `json:"needles"`
}

// rules are checked in order, first match wins
var rules = []Rule{
	{CarGurus, []string{"cargurus"}},
	{AutoTrader, []string{"autotrader"}},
	{CarsCom, []string{"cars.com"}},
	{CarMax, []string{"carmax"}},
	{Vroom, []string{"vroom"}},
	{Carvana, []string{"carvana"}},
	{Carfax, []string{"carfax"}},
	{Facebook, []string{"facebook", "fb.com"}},
	{BringATrailer, []string{"bringatrailer", "bat"}},
	{Craigslist, []string{"craigslist"}},
}

// Classify returns the site serving rawURL. Unparseable URLs and unknown
// hosts classify as Dealer.
func Classify(rawURL string) ID {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Dealer
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Dealer
	}
	for _, r := range rules {
		for _, needle := range r.Needles {
			if strings.Contains(host, needle) {
				return r.Site
			}
		}
	}
	return Dealer
}

// Rules returns a copy of the ordered classification rules
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Site: r.Site, Needles: append([]string(nil), r.Needles...)}
	}
	return out
}

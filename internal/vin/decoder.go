package vin

import (
	"context"
	"strings"
)

const (
	// EnrichmentThreshold is the confidence an enrichment must exceed before
	// it may overwrite year, make and model scraped from the page.
	EnrichmentThreshold = 90

	defaultConfidence = 95
	pinnedConfidence  = 100
)

// Enrichment is a best-guess attribute set derived from a VIN
type Enrichment struct {
	Year         int    `json:"year,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Trim         string `json:"trim,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	Drivetrain   string `json:"drivetrain,omitempty"`
	BodyStyle    string `json:"bodyStyle,omitempty"`
	FuelType     string `json:"fuelType,omitempty"`
	Cylinders    int    `json:"cylinders,omitempty"`
	Displacement string `json:"displacement,omitempty"`

	// Market hints, only known for pinned VINs
	MarketPrice    float64 `json:"marketPrice,omitempty"`
	TypicalMileage int     `json:"typicalMileage,omitempty"`

	Confidence int  `json:"confidence"`
	Validated  bool `json:"validated"`
}

// Empty reports whether the enrichment carries nothing (invalid VIN)
func (e Enrichment) Empty() bool {
	return !e.Validated
}

// Trusted reports whether the enrichment may overwrite page-extracted values
func (e Enrichment) Trusted() bool {
	return e.Confidence > EnrichmentThreshold
}

// Overlay returns e with every non-zero attribute of src copied over it.
// Confidence and Validated are left alone.
func (e Enrichment) Overlay(src Enrichment) Enrichment {
	if src.Year != 0 {
		e.Year = src.Year
	}
	if src.Make != "" {
		e.Make = src.Make
	}
	if src.Model != "" {
		e.Model = src.Model
	}
	if src.Trim != "" {
		e.Trim = src.Trim
	}
	if src.Engine != "" {
		e.Engine = src.Engine
	}
	if src.Transmission != "" {
		e.Transmission = src.Transmission
	}
	if src.Drivetrain != "" {
		e.Drivetrain = src.Drivetrain
	}
	if src.BodyStyle != "" {
		e.BodyStyle = src.BodyStyle
	}
	if src.FuelType != "" {
		e.FuelType = src.FuelType
	}
	if src.Cylinders != 0 {
		e.Cylinders = src.Cylinders
	}
	if src.Displacement != "" {
		e.Displacement = src.Displacement
	}
	if src.MarketPrice != 0 {
		e.MarketPrice = src.MarketPrice
	}
	if src.TypicalMileage != 0 {
		e.TypicalMileage = src.TypicalMileage
	}
	return e
}

// Decoder maps a VIN to an Enrichment. The local Table never fails; a
// registry-backed decoder may.
type Decoder interface {
	Decode(ctx context.Context, vin string) (Enrichment, error)
}

// Cond is a positional substring test against an uppercased VIN.
// To == 0 means "to the end of the VIN".
type Cond struct {
	Contains string
	From, To int
	MinYear  int
}

func (c Cond) match(v string, year int) bool {
	if c.MinYear != 0 && year < c.MinYear {
		return false
	}
	if c.Contains == "" {
		return true
	}
	to := c.To
	if to == 0 || to > len(v) {
		to = len(v)
	}
	if c.From >= to {
		return false
	}
	return strings.Contains(v[c.From:to], c.Contains)
}

// Variant overlays Set on a rule's base attributes when When matches
type Variant struct {
	When Cond
	Set  Enrichment
}

// Rule matches VINs by manufacturer prefix. Require, when set, must also hold.
// DefaultYear is used to evaluate year-gated variants when the VIN's year
// code is unknown; it is never reported as the decoded year.
type Rule struct {
	Prefixes    []string
	Require     *Cond
	DefaultYear int
	Base        Enrichment
	Variants    []Variant
}

func (r Rule) match(v string) bool {
	for _, p := range r.Prefixes {
		if strings.HasPrefix(v, p) {
			return r.Require == nil || r.Require.match(v, 0)
		}
	}
	return false
}

func (r Rule) apply(v string, year int) Enrichment {
	out := r.Base
	evalYear := year
	if evalYear == 0 {
		evalYear = r.DefaultYear
	}
	for _, variant := range r.Variants {
		if variant.When.match(v, evalYear) {
			out = out.Overlay(variant.Set)
		}
	}
	return out
}

// Table is an immutable heuristic decoder built from year codes, pinned VINs
// and ordered prefix rules. The first matching rule wins.
type Table struct {
	yearCodes map[byte]int
	pinned    map[string]Enrichment
	rules     []Rule
}

// NewTable builds a Table. The inputs are copied so later changes by the
// caller do not leak into the decoder.
func NewTable(yearCodes map[byte]int, pinned map[string]Enrichment, rules []Rule) *Table {
	t := &Table{
		yearCodes: make(map[byte]int, len(yearCodes)),
		pinned:    make(map[string]Enrichment, len(pinned)),
		rules:     make([]Rule, len(rules)),
	}
	for k, v := range yearCodes {
		t.yearCodes[k] = v
	}
	for k, v := range pinned {
		t.pinned[strings.ToUpper(k)] = v
	}
	copy(t.rules, rules)
	return t
}

// Decode implements Decoder. It never returns an error.
func (t *Table) Decode(_ context.Context, v string) (Enrichment, error) {
	return t.Enrich(v), nil
}

// Enrich decodes v. Invalid VINs yield an empty Enrichment.
func (t *Table) Enrich(v string) Enrichment {
	if !Validate(v) {
		return Enrichment{}
	}
	v = strings.ToUpper(v)

	out := Enrichment{Validated: true, Confidence: defaultConfidence}
	year, _ := t.YearFromCode(v[9])
	out.Year = year

	if pinned, ok := t.pinned[v]; ok {
		out = out.Overlay(pinned)
		out.Confidence = pinnedConfidence
		return out
	}

	for _, rule := range t.rules {
		if rule.match(v) {
			return out.Overlay(rule.apply(v, year))
		}
	}
	return out
}

// YearFromCode returns the model year encoded by the 10th VIN character
func (t *Table) YearFromCode(code byte) (int, bool) {
	y, ok := t.yearCodes[code]
	return y, ok
}

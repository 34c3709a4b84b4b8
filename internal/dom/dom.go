// Package dom is the query surface the extractors read pages through.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// ErrNotFound is returned when a selector matches nothing
var ErrNotFound = errors.New("no node matches selector")

// Document answers CSS selector queries against one page
type Document interface {
	// Text returns the trimmed text of the first node matching selector
	Text(selector string) (string, error)
	// Attr returns an attribute of the first node matching selector
	Attr(selector, name string) (string, error)
	// AttrAll returns the attribute from every matching node that carries it
	AttrAll(selector, name string) ([]string, error)
	// TextAll returns the trimmed, non-empty text of every matching node
	TextAll(selector string) ([]string, error)
	// Content returns the raw page markup
	Content() (string, error)
}

// HTML is a Document over a parsed HTML snapshot
type HTML struct {
	doc *goquery.Document
	raw string
}

// Parse reads markup from r
func Parse(r io.Reader) (*HTML, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading markup: %w", err)
	}
	return ParseBytes(raw)
}

// ParseBytes parses raw markup
func ParseBytes(raw []byte) (*HTML, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}
	return &HTML{doc: doc, raw: string(raw)}, nil
}

// ParseString parses markup held in a string
func ParseString(markup string) (*HTML, error) {
	return ParseBytes([]byte(markup))
}

// find compiles the selector up front; goquery's own Find treats a bad
// selector as matching nothing, which would hide typos in selector tables.
func (h *HTML) find(selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", selector, err)
	}
	sel := h.doc.FindMatcher(m)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("selector %q: %w", selector, ErrNotFound)
	}
	return sel, nil
}

func (h *HTML) Text(selector string) (string, error) {
	sel, err := h.find(selector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

func (h *HTML) Attr(selector, name string) (string, error) {
	sel, err := h.find(selector)
	if err != nil {
		return "", err
	}
	val, ok := sel.First().Attr(name)
	if !ok {
		return "", fmt.Errorf("selector %q attribute %q: %w", selector, name, ErrNotFound)
	}
	return strings.TrimSpace(val), nil
}

func (h *HTML) AttrAll(selector, name string) ([]string, error) {
	sel, err := h.find(selector)
	if err != nil {
		return nil, err
	}
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if val, ok := s.Attr(name); ok {
			out = append(out, strings.TrimSpace(val))
		}
	})
	return out, nil
}

func (h *HTML) TextAll(selector string) ([]string, error) {
	sel, err := h.find(selector)
	if err != nil {
		return nil, err
	}
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out, nil
}

func (h *HTML) Content() (string, error) {
	return h.raw, nil
}

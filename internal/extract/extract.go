// Package extract pulls listing fields out of a dom.Document using ordered
// selector cascades.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"listingscraper/internal/dom"
)

// ErrEmpty is returned by an attempt that found a node with no usable text
var ErrEmpty = errors.New("empty value")

// ErrNoAttempts is returned by FirstSuccess when given nothing to try
var ErrNoAttempts = errors.New("no attempts")

// Normalizer turns raw node text into the canonical text form of a field.
// An error rejects the candidate and the cascade moves on.
type Normalizer func(raw string) (string, error)

// FieldSpec describes how to obtain one field. Selectors are tried in order;
// Attr selects an attribute instead of text content. Patterns, when set, are
// matched against the raw page content after every selector has failed; the
// first capture group (or the whole match) is the candidate.
type FieldSpec struct {
	Name      string
	Selectors []string
	Attr      string
	Normalize Normalizer
	Patterns  []*regexp.Regexp
}

// Attempt is one fallible way to produce a value
type Attempt[T any] func() (T, error)

// FirstSuccess runs attempts in order and returns the first value produced
// without error. When every attempt fails the errors are joined.
func FirstSuccess[T any](attempts ...Attempt[T]) (T, error) {
	var zero T
	if len(attempts) == 0 {
		return zero, ErrNoAttempts
	}
	errs := make([]error, 0, len(attempts))
	for _, attempt := range attempts {
		v, err := attempt()
		if err == nil {
			return v, nil
		}
		errs = append(errs, err)
	}
	return zero, errors.Join(errs...)
}

// Field runs spec's cascade against doc. Individual failures are logged at
// debug level and never surfaced; ok is false only when every candidate failed.
func Field(doc dom.Document, spec FieldSpec) (string, bool) {
	v, err := FirstSuccess(attempts(doc, spec)...)
	if err != nil {
		logger().Debug("field not found", "field", spec.Name, "error", err)
		return "", false
	}
	return v, true
}

func attempts(doc dom.Document, spec FieldSpec) []Attempt[string] {
	out := make([]Attempt[string], 0, len(spec.Selectors)+len(spec.Patterns))
	for _, sel := range spec.Selectors {
		out = append(out, func() (string, error) {
			var (
				raw string
				err error
			)
			if spec.Attr != "" {
				raw, err = doc.Attr(sel, spec.Attr)
			} else {
				raw, err = doc.Text(sel)
			}
			if err != nil {
				return "", err
			}
			v, err := finish(raw, spec.Normalize)
			if err != nil {
				return "", fmt.Errorf("selector %q: %w", sel, err)
			}
			return v, nil
		})
	}
	for _, pattern := range spec.Patterns {
		out = append(out, func() (string, error) {
			content, err := doc.Content()
			if err != nil {
				return "", err
			}
			m := pattern.FindStringSubmatch(content)
			if m == nil {
				return "", fmt.Errorf("pattern %q: %w", pattern, dom.ErrNotFound)
			}
			raw := m[0]
			if len(m) > 1 {
				raw = m[1]
			}
			v, err := finish(raw, spec.Normalize)
			if err != nil {
				return "", fmt.Errorf("pattern %q: %w", pattern, err)
			}
			return v, nil
		})
	}
	return out
}

func finish(raw string, normalize Normalizer) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmpty
	}
	if normalize == nil {
		return raw, nil
	}
	v, err := normalize(raw)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", ErrEmpty
	}
	return v, nil
}

// Texts returns every non-empty text under the first selector that matches anything
func Texts(doc dom.Document, selectors []string) []string {
	out, _ := FirstSuccess(textAllAttempts(doc, selectors)...)
	return out
}

func textAllAttempts(doc dom.Document, selectors []string) []Attempt[[]string] {
	out := make([]Attempt[[]string], 0, len(selectors))
	for _, sel := range selectors {
		out = append(out, func() ([]string, error) {
			texts, err := doc.TextAll(sel)
			if err != nil {
				return nil, err
			}
			if len(texts) == 0 {
				return nil, ErrEmpty
			}
			return texts, nil
		})
	}
	return out
}

func logger() *slog.Logger {
	return slog.Default().With("component", "extract")
}

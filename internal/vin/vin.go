// Package vin validates, extracts and decodes Vehicle Identification Numbers.
//
// Validation is syntactic only: a VIN that passes Validate has the right
// length and alphabet, but no check digit is computed and nothing guarantees
// the number was ever issued.
package vin

import (
	"errors"
	"regexp"
	"strings"
)

// Length is the number of characters in a modern VIN
const Length = 17

// ErrInvalidVIN is returned by callers that need an error rather than a bool
var ErrInvalidVIN = errors.New("invalid VIN")

// Patterns tried by Extract, highest priority first. A "Stock" label is
// included because dealer pages sometimes print the VIN as the stock number.
var extractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([A-HJ-NPR-Z0-9]{17})\b`),
	regexp.MustCompile(`(?i)VIN[:\s]*([A-HJ-NPR-Z0-9]{17})`),
	regexp.MustCompile(`(?i)Vehicle Identification Number[:\s]*([A-HJ-NPR-Z0-9]{17})`),
	regexp.MustCompile(`(?i)Stock[:\s#]*([A-HJ-NPR-Z0-9]{17})`),
}

// Validate reports whether v has 17 characters drawn from digits and the
// letters A-Z without I, O and Q. Case is ignored.
func Validate(v string) bool {
	if len(v) != Length {
		return false
	}
	for i := 0; i < len(v); i++ {
		if !validChar(v[i]) {
			return false
		}
	}
	return true
}

func validChar(c byte) bool {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == 'I' || c == 'O' || c == 'Q':
		return false
	case c >= 'A' && c <= 'Z':
		return true
	}
	return false
}

// Extract scans text for the first VIN candidate that passes Validate and
// returns it uppercased.
func Extract(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, pattern := range extractPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if Validate(match[1]) {
				return strings.ToUpper(match[1]), true
			}
		}
	}
	return "", false
}

// FromURLPath recovers a VIN embedded in a URL with the given pattern. The
// pattern's first submatch must capture the VIN.
func FromURLPath(pattern *regexp.Regexp, rawURL string) (string, bool) {
	if pattern == nil {
		return "", false
	}
	m := pattern.FindStringSubmatch(rawURL)
	if len(m) < 2 || !Validate(m[1]) {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

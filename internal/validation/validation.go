package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"listingscraper/internal/vin"
)

// MaxURLLength caps listing URLs accepted from clients
const MaxURLLength = 2048

// ErrInvalidURL is wrapped by every ValidateListingURL failure
var ErrInvalidURL = errors.New("invalid listing URL")

// ValidateListingURL checks that raw is an absolute http(s) URL with a host.
// It returns the trimmed URL on success.
func ValidateListingURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	if len(raw) > MaxURLLength {
		return "", fmt.Errorf("%w: url must be at most %d characters", ErrInvalidURL, MaxURLLength)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: url has no host", ErrInvalidURL)
	}
	return raw, nil
}

// NormalizeVIN trims and uppercases code, rejecting anything that is not a
// syntactically valid VIN.
func NormalizeVIN(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !vin.Validate(code) {
		return "", fmt.Errorf("%w: must be %d characters without I, O or Q", vin.ErrInvalidVIN, vin.Length)
	}
	return code, nil
}

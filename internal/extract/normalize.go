package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrNoNumber    = errors.New("no number in text")
	ErrNotPositive = errors.New("value is not positive")
)

var (
	dollarAmount = regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d+)?)`)
	bareAmount   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	digitRun     = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d+`)
)

// ParseCurrency reads a price from text such as "$24,995" or "Price: 24995".
// A dollar-prefixed amount wins over any earlier bare number.
func ParseCurrency(text string) (float64, error) {
	var raw string
	if m := dollarAmount.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := bareAmount.FindString(text); m != "" {
		raw = m
	} else {
		return 0, fmt.Errorf("currency %q: %w", text, ErrNoNumber)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("currency %q: %w", text, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("currency %q: %w", text, ErrNotPositive)
	}
	return v, nil
}

// ParseMileage reads the first digit run, optionally comma grouped
func ParseMileage(text string) (int, error) {
	m := digitRun.FindString(text)
	if m == "" {
		return 0, fmt.Errorf("mileage %q: %w", text, ErrNoNumber)
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("mileage %q: %w", text, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("mileage %q: %w", text, ErrNotPositive)
	}
	return v, nil
}

// Currency normalizes price text to a plain decimal string
func Currency(raw string) (string, error) {
	v, err := ParseCurrency(raw)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// Mileage normalizes odometer text to a plain integer string
func Mileage(raw string) (string, error) {
	v, err := ParseMileage(raw)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(v), nil
}

// CollapseSpace squeezes whitespace runs, handy for multi-line titles
func CollapseSpace(raw string) (string, error) {
	return strings.Join(strings.Fields(raw), " "), nil
}

// Truncate cuts s to limit runes and appends "..." when anything was cut.
// A limit of zero or less leaves s untouched.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

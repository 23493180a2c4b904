package common

import (
	"math"
	"strconv"
	"strings"
)

// ParseLocaleFloat converts a locale-formatted numeric string into a
// float64. Everything except digits, separators and sign is stripped
// first, so inputs like "₺1.234,56" or "(+1,23%)" parse directly. When a
// comma is present, dots are treated as thousands separators and the
// comma as the decimal point (Turkish convention).
//
// Returns NaN for empty input or anything that is not numeric after
// cleanup. Pure; every scraper relies on it to decide whether a row is
// usable.
func ParseLocaleFloat(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',' || r == '-' || r == '+':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return math.NaN()
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParsePercent parses a change-percent cell such as "(%1,23)" or
// "(+0,45%)" by stripping parentheses and the percent sign before
// delegating to ParseLocaleFloat.
func ParsePercent(s string) float64 {
	s = strings.NewReplacer("(", "", ")", "", "%", "").Replace(s)
	return ParseLocaleFloat(s)
}

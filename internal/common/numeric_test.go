package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		// Turkish convention: dot thousands, comma decimal
		{"1.234,56", 1234.56},
		{"12.345.678,90", 12345678.90},
		{"32,87", 32.87},
		{"1.234", 1.234}, // no comma: dot is the decimal point
		{"42", 42},
		{"-3,5", -3.5},
		{"+3,5", 3.5},

		// Currency and markup noise is stripped before parsing
		{"₺1.234,56", 1234.56},
		{"  9.876,54 TL ", 9876.54},
		{"%5,25", 5.25},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseLocaleFloat(tt.input), 1e-9)
		})
	}
}

func TestParseLocaleFloat_NotANumber(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"-",
		"+",
		"abc",
		"N/A",
		"--",
		"1,2,3,4", // ambiguous separators
		"1.2.3",   // no comma, multiple dots
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.True(t, math.IsNaN(ParseLocaleFloat(input)), "ParseLocaleFloat(%q) must be NaN", input)
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"(+1,23%)", 1.23},
		{"(-0,45%)", -0.45},
		{"%2,5", 2.5},
		{"(1,00%)", 1.00},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePercent(tt.input), 1e-9)
		})
	}
}

func TestParsePercent_NotANumber(t *testing.T) {
	assert.True(t, math.IsNaN(ParsePercent("(%)")))
}

// Package core provides the expense domain types and money handling
// utilities shared by the storage, service and presentation layers.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToKobo converts a decimal Naira string to kobo with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The
// result is always positive kobo; invalid formats, negative values and zero
// amounts return an error.
//
// Examples:
//
//	ParseDecimalToKobo("12.34") -> 1234, nil
//	ParseDecimalToKobo("12,34") -> 1234, nil
//	ParseDecimalToKobo("12.346") -> 1235, nil (rounds up)
func ParseDecimalToKobo(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracKobo int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracKobo = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracKobo += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracKobo++
				}
			}
		}
	}
	kobo := iv*100 + fracKobo
	if kobo <= 0 {
		return 0, ErrInvalidAmount
	}
	return kobo, nil
}

// LenientKobo parses a decimal amount from untrusted data, treating anything
// malformed or missing as zero. Aggregation must never fail on a bad amount,
// so this is the parser used when loading records from outside the store.
func LenientKobo(s string) int64 {
	kobo, err := ParseDecimalToKobo(s)
	if err != nil {
		return 0
	}
	return kobo
}

// Naira returns the naira value as a float64 for display purposes.
// Use kobo for calculations to avoid floating-point precision issues.
func (m Money) Naira() float64 {
	return float64(m.Kobo) / 100.0
}

// FormatNaira renders the amount with the Naira sign, thousands separators
// and two decimal places, e.g. ₦1,234.50.
func FormatNaira(m Money) string {
	neg := m.Kobo < 0
	kobo := m.Kobo
	if neg {
		kobo = -kobo
	}
	whole := kobo / 100
	frac := kobo % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₦%s.%02d", sign, b.String(), frac)
}

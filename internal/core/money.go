// Package core provides the domain model shared by every component:
// profiles, items, statuses, money and timestamp handling.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParsePriceToCents converts a decimal price string to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds half-up on the third decimal place. The empty string parses to 0
// (prices default to zero throughout the app). Negative values and
// malformed input return ErrInvalidAmount.
//
// Examples:
//
//	ParsePriceToCents("")       -> 0, nil
//	ParsePriceToCents("18.50")  -> 1850, nil
//	ParsePriceToCents("18,50")  -> 1850, nil
//	ParsePriceToCents("12.346") -> 1235, nil (rounds up)
func ParsePriceToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
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
	// Take the first two fractional digits, then half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Mul returns the money value multiplied by a quantity.
func (m Money) Mul(qty int) Money {
	if qty < 1 {
		qty = 1
	}
	return Money{Cents: m.Cents * int64(qty)}
}

// Add returns the sum of two money values.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Format renders the amount with exactly two fraction digits and a comma
// separator, e.g. "R$ 18,50". This is the single display rule for money.
func (m Money) Format() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(whole, 10) + "," + twoDigits(rem)
	if neg {
		return "-R$ " + s
	}
	return "R$ " + s
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// Package core provides the domain types shared by the analysis engine
// and its surrounding plumbing.
//
// This file contains money parsing and formatting helpers. Amounts are
// handled as signed cents; floats only appear at presentation boundaries.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseSignedDecimalToCents converts a decimal string to signed cents with
// half-up rounding on the third decimal place. Both dot and comma decimal
// separators are accepted. Unlike expense entry, transaction feeds carry
// negative amounts (refunds, incoming transfers), so the sign is preserved.
//
// Examples:
//
//	ParseSignedDecimalToCents("12.34")  -> 1234, nil
//	ParseSignedDecimalToCents("-3,50") -> -350, nil
//	ParseSignedDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseSignedDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	s = strings.ReplaceAll(s, ",", ".")
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
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
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
	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return cents, nil
}

// CentsFromFloat converts a float amount in currency units to cents with
// half-up rounding. Used when the transaction source delivers JSON numbers.
func CentsFromFloat(units float64) int64 {
	if units < 0 {
		return -CentsFromFloat(-units)
	}
	return int64(units*100 + 0.5)
}

// Units returns the amount in currency units as a float64 for display.
// Use cents for all calculations to avoid floating-point drift.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount with two decimals, e.g. "12.34" or "-3.50".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Package currency normalizes free-form amount input into the canonical
// currency text used throughout policy documents.
package currency

import (
	"math"
	"strconv"
	"strings"
)

// DefaultAmount is the canonical zero value substituted for input that does
// not contain a parseable non-negative amount.
const DefaultAmount = "$0.00"

// Normalize forces raw input into canonical US currency form: a "$" prefix,
// thousands grouping, and exactly two fraction digits.
//
// Every character except digits and a single decimal point is stripped. If
// nothing parseable remains, DefaultAmount is returned. Normalize is total
// and idempotent: it never fails, and normalizing an already canonical
// amount returns it unchanged.
func Normalize(raw string) string {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" {
		return DefaultAmount
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return DefaultAmount
	}

	return format(value)
}

// stripNonNumeric removes everything but digits, keeping only the first
// decimal point encountered.
func stripNonNumeric(raw string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// format renders a non-negative value as "$X,XXX.XX".
func format(value float64) string {
	fixed := strconv.FormatFloat(value, 'f', 2, 64)

	dot := strings.IndexByte(fixed, '.')
	whole, frac := fixed[:dot], fixed[dot:]

	var b strings.Builder
	b.WriteByte('$')
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(frac)
	return b.String()
}

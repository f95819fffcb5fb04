// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package validation holds the pure input helpers shared by the workflows.
package validation

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// IsID reports whether s is a well-formed identifier.
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// HasDuplicates reports whether any non-empty value appears more than once.
// Empty strings are absent references, not values.
func HasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCompanyName is the uniqueness key for clients.
func NormalizeCompanyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

// HasCentPrecision reports whether d has no significant digits past the
// second decimal place. Trailing zeros such as 2.500 are accepted.
func HasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

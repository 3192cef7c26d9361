// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalizes user-entered text before it is validated,
// compared or stored.
//
// # Usage
//
// Category and supplier names are compared for uniqueness, so two visually
// identical names must also be byte-identical. Unicode input is folded to NFC
// and runs of whitespace are collapsed.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var upper = cases.Upper(language.Und)

// Text returns s in NFC form, trimmed, with inner whitespace collapsed to single spaces.
func Text(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Code returns an upper-cased, space-free identifier such as a category code or SKU.
func Code(s string) string {
	return upper.String(strings.Join(strings.Fields(norm.NFC.String(s)), ""))
}

// Email trims and lower-cases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fold returns an accent-free lower-case key for loose comparisons and search.
//
// "Électronique" and "electronique" fold to the same key.
func Fold(s string) string {
	chain := transform.Chain(norm.NFD, transform.RemoveFunc(isMark), norm.NFC)
	folded, _, err := transform.String(chain, Text(s))
	if err != nil {
		folded = Text(s)
	}
	return strings.ToLower(folded)
}

// isMark reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

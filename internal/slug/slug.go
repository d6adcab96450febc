// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-safe post slugs from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators matches every run of characters outside [a-z0-9].
var separators = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string. Accents are
// folded to their base letter, every other run of non-alphanumeric
// characters becomes a single hyphen, and the result is trimmed.
// Example: "Café, Résumé! 2026" → "cafe-resume-2026"
func Generate(s string) string {
	result := strings.ToLower(foldAccents(s))
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// foldAccents decomposes s and drops combining marks. A chain is built per
// call because transformers carry state.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// toASCII folds s to printable ASCII: accents are stripped from letters and
// anything else outside 0x20..0x7E is dropped. EXIF ASCII fields cannot carry
// other bytes.
func toASCII(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range folded {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

package render

import "golang.org/x/text/unicode/norm"

// Unicode ranges that need a real shaping engine for correct conjuncts and
// matra reordering.
const (
	devanagariLo = 0x0900
	devanagariHi = 0x097F
	gujaratiLo   = 0x0A80
	gujaratiHi   = 0x0AFF
)

// HasComplexScript reports whether s contains Devanagari or Gujarati
// characters. Such text is routed to an external shaper when one is
// installed; plain glyph-by-glyph drawing would break its ligatures.
func HasComplexScript(s string) bool {
	for _, r := range s {
		if (r >= devanagariLo && r <= devanagariHi) || (r >= gujaratiLo && r <= gujaratiHi) {
			return true
		}
	}
	return false
}

// NormalizeText applies Unicode NFC so spreadsheet input composes the same
// way regardless of how it was typed or exported.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}

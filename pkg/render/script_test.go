package render

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestHasComplexScript(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"John Smith", false},
		{"1234 !?", false},
		{"મીત", true},            // Gujarati
		{"નમસ્તે", true},          // Gujarati with virama
		{"नमस्ते", true},          // Devanagari
		{"John and પટેલ", true},  // mixed
		{"Café déjà vu", false}, // accented Latin is not complex
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasComplexScript(tt.text), "text %q", tt.text)
	}
}

func TestNormalizeTextComposes(t *testing.T) {
	// e followed by a combining acute accent composes to a single rune.
	decomposed := "é"
	assert.Equal(t, 2, utf8.RuneCountInString(decomposed))

	got := NormalizeText(decomposed)
	assert.Equal(t, "é", got)
	assert.Equal(t, 1, utf8.RuneCountInString(got))

	assert.Equal(t, "plain", NormalizeText("plain"))
}

package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeettPaladiya/Invite/pkg/zone"
)

func row(cols []string, vals map[string]string) Row {
	return Row{Columns: cols, Values: vals}
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name       string
		row        Row
		nameColumn string
		want       string
	}{
		{
			"configured column wins",
			row([]string{"guest", "name"}, map[string]string{"guest": "Anna", "name": "Wrong"}),
			"guest",
			"Anna",
		},
		{
			"conventional id",
			row([]string{"guest_name", "note"}, map[string]string{"guest_name": "Bob", "note": "x"}),
			"",
			"Bob",
		},
		{
			"gujarati header",
			row([]string{"નામ"}, map[string]string{"નામ": "મીત પટેલ"}),
			"",
			"મીત પટેલ",
		},
		{
			"case-insensitive header",
			row([]string{"Full Name"}, map[string]string{"Full Name": "Chloé D"}),
			"",
			"Chloé D",
		},
		{
			"substring fallback",
			row([]string{"bride_name"}, map[string]string{"bride_name": "Devi"}),
			"",
			"Devi",
		},
		{
			"empty configured column falls through",
			row([]string{"guest", "name"}, map[string]string{"guest": "", "name": "Eva"}),
			"guest",
			"Eva",
		},
		{
			"nothing derivable",
			row([]string{"table", "seat"}, map[string]string{"table": "7", "seat": "A"}),
			"",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.row, tt.nameColumn, nil))
		})
	}
}

func TestDeriveNameThroughMapping(t *testing.T) {
	// The CSV header is localized; the mapping routes it to the name zone.
	r := row([]string{"ઓળખ", "ટેબલ"}, map[string]string{"ઓળખ": "મીત", "ટેબલ": "7"})
	mapping := zone.Mapping{"ઓળખ": {"guest_name", "back_name"}}

	assert.Equal(t, "મીત", DeriveName(r, "", mapping))
	assert.Equal(t, "", DeriveName(r, "", nil),
		"without the mapping the localized header is not recognized")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Anna Smith", "Anna Smith"},
		{"મીત પટેલ", "મીત પટેલ"},
		{"a/b\\c:d*e?f", "abcdef"},
		{"  spaced   out  ", "spaced out"},
		{"...hidden", "hidden"},
		{"trailing dots...", "trailing dots"},
		{"tab\tnewline\n", "tab newline"},
		{"<script>|\"quote\"", "scriptquote"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := SanitizeFilename(long)
	assert.Len(t, []rune(got), 80)
}

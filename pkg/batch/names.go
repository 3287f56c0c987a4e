package batch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MeettPaladiya/Invite/pkg/zone"
)

// nameZoneIDs are zone ids that conventionally carry the recipient name.
var nameZoneIDs = []string{"guest_name", "name", "fullname", "full_name"}

// nameHeaders are spreadsheet headers recognized as the name column, in
// priority order. The Gujarati header comes first because most source lists
// for this pipeline use it.
var nameHeaders = []string{"નામ", "name", "full name", "fullname", "guest name", "guest_name"}

// DeriveName picks the recipient name out of a row: the configured name
// column wins, then the column feeding a conventional name zone, then
// recognized headers, then any header containing "name". Empty means no
// name could be derived and the caller falls back to a positional one.
func DeriveName(row Row, nameColumn string, mapping zone.Mapping) string {
	if nameColumn != "" {
		if v := row.Get(nameColumn); v != "" {
			return v
		}
	}
	for _, id := range nameZoneIDs {
		if col, ok := mapping.ColumnFor(id, row.Columns); ok {
			if v := row.Get(col); v != "" {
				return v
			}
		}
		if v := row.Get(id); v != "" {
			return v
		}
	}
	for _, want := range nameHeaders {
		for _, col := range row.Columns {
			if strings.EqualFold(strings.TrimSpace(col), want) {
				if v := row.Get(col); v != "" {
					return v
				}
			}
		}
	}
	for _, col := range row.Columns {
		lc := strings.ToLower(col)
		if strings.Contains(lc, "name") || strings.Contains(lc, "નામ") {
			if v := row.Get(col); v != "" {
				return v
			}
		}
	}
	return ""
}

// SanitizeFilename strips a derived name down to filesystem-safe runes:
// letters, digits, combining marks, spaces, underscores, hyphens and dots.
// Path separators, control characters and other punctuation are dropped,
// runs of whitespace collapse to one space and overly long names are
// truncated.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	out = strings.Trim(out, ". ")

	const maxRunes = 80
	if utf8.RuneCountInString(out) > maxRunes {
		out = string([]rune(out)[:maxRunes])
		out = strings.TrimRight(out, ". ")
	}
	return out
}

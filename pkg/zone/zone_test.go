package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigJSON(t *testing.T) {
	data := []byte(`{
		"template_id": "wedding-01",
		"doc_path": "template.pdf",
		"zones": [
			{
				"id": "guest_name",
				"page": 1,
				"x": 50, "y": 50, "width": 200, "height": 50,
				"mask": {"enabled": true, "mode": "auto"},
				"text": {"font_family": "Noto Sans", "font_size": 16, "color": "#1a1a1a"}
			}
		]
	}`)

	cfg, err := ParseConfig(data, ".json")
	require.NoError(t, err)
	assert.Equal(t, "wedding-01", cfg.TemplateID)
	require.Len(t, cfg.Zones, 1)

	z := cfg.Zones[0]
	assert.Equal(t, "guest_name", z.ID)
	assert.Equal(t, KindText, z.Kind)
	assert.Equal(t, AlignCenter, z.Text.Align)
	assert.Equal(t, VAlignMiddle, z.Text.VAlign)
	assert.Equal(t, DefaultOutputTemplate, cfg.OutputTemplate)
}

func TestParseConfigYAML(t *testing.T) {
	data := []byte(`
template_id: invite-02
doc_path: card.pdf
name_column: full_name
zones:
  - id: name_front
    page: 1
    x: 40
    y: 120
    width: 300
    height: 60
    mask:
      enabled: true
      mode: solid
      color: "#ffeedd"
    text:
      font_size: 22
      align: left
  - id: qr_back
    page: 2
    x: 400
    y: 500
    width: 80
    height: 80
    kind: qr
    mask:
      enabled: false
      mode: none
`)

	cfg, err := ParseConfig(data, ".yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Zones, 2)
	assert.Equal(t, MaskModeSolid, cfg.Zones[0].Mask.Mode)
	assert.Equal(t, AlignLeft, cfg.Zones[0].Text.Align)
	assert.Equal(t, KindQR, cfg.Zones[1].Kind)
	assert.Equal(t, "full_name", cfg.NameColumn)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"no zones", Config{TemplateID: "t"}},
		{"empty id", Config{Zones: []Zone{{Page: 1, W: 10, H: 10}}}},
		{"duplicate id", Config{Zones: []Zone{
			{ID: "a", Page: 1, W: 10, H: 10},
			{ID: "a", Page: 1, W: 10, H: 10},
		}}},
		{"zero page", Config{Zones: []Zone{{ID: "a", Page: 0, W: 10, H: 10}}}},
		{"bad mode", Config{Zones: []Zone{{ID: "a", Page: 1, W: 10, H: 10,
			Mask: MaskConfig{Mode: "blur"}}}}},
		{"bad color", Config{Zones: []Zone{{ID: "a", Page: 1, W: 10, H: 10,
			Mask: MaskConfig{Color: "red-ish"}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestValidateAcceptsNegativeFreeZones(t *testing.T) {
	cfg := Config{Zones: []Zone{
		{ID: "a", Page: 1, X: 10, Y: 10, W: 0, H: 0},
		{ID: "b", Page: 3, X: 0, Y: 0, W: 595, H: 842},
	}}
	assert.NoError(t, cfg.Validate())
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FF0000")
	require.NoError(t, err)
	assert.EqualValues(t, 255, c.R)
	assert.EqualValues(t, 0, c.G)
	assert.EqualValues(t, 0, c.B)
	assert.EqualValues(t, 255, c.A)

	c, err = ParseHexColor("1a2b3c")
	require.NoError(t, err)
	assert.EqualValues(t, 0x1a, c.R)
	assert.EqualValues(t, 0x2b, c.G)
	assert.EqualValues(t, 0x3c, c.B)

	c, err = ParseHexColor("#fff")
	require.NoError(t, err)
	assert.EqualValues(t, 255, c.R)
	assert.EqualValues(t, 255, c.G)
	assert.EqualValues(t, 255, c.B)

	for _, bad := range []string{"", "#12345", "zzzzzz", "#12 34 56"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestZoneByID(t *testing.T) {
	cfg := Config{Zones: []Zone{
		{ID: "front", Page: 1},
		{ID: "back", Page: 2},
	}}
	z, ok := cfg.ZoneByID("back")
	require.True(t, ok)
	assert.Equal(t, 2, z.Page)

	_, ok = cfg.ZoneByID("missing")
	assert.False(t, ok)
}

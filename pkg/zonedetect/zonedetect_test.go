package zonedetect

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticPage is white with optional dark rectangles painted on.
func syntheticPage(w, h int, bars ...image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	dark := color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	for _, b := range bars {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.SetNRGBA(x, y, dark)
			}
		}
	}
	return img
}

func TestDetectPageFindsPlaceholderBlock(t *testing.T) {
	bar := image.Rect(80, 100, 200, 130)
	page := syntheticPage(400, 300, bar)

	got := DetectPage(page, 1, DefaultOptions())
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, 1, c.Page)
	assert.True(t, bar.In(c.Rect), "candidate %v must cover the bar %v", c.Rect, bar)
	assert.Greater(t, c.Area, 1000)
}

func TestDetectPageIgnoresSpecksAndHairlines(t *testing.T) {
	page := syntheticPage(400, 300,
		image.Rect(300, 50, 305, 55),  // speck
		image.Rect(50, 250, 250, 252), // hairline rule
	)
	got := DetectPage(page, 1, DefaultOptions())
	assert.Empty(t, got)
}

func TestDetectPageMergesWordsIntoOneLine(t *testing.T) {
	// Three "words" separated by 8px gaps; the horizontal dilation bridges
	// them into a single line candidate.
	page := syntheticPage(400, 300,
		image.Rect(60, 100, 120, 130),
		image.Rect(128, 100, 188, 130),
		image.Rect(196, 100, 256, 130),
	)
	got := DetectPage(page, 1, DefaultOptions())
	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0].Rect.Dx(), 196)
}

func TestDetectPageOrdersTopToBottom(t *testing.T) {
	page := syntheticPage(400, 300,
		image.Rect(60, 200, 260, 230),
		image.Rect(60, 60, 260, 90),
	)
	got := DetectPage(page, 1, DefaultOptions())
	require.Len(t, got, 2)
	assert.Less(t, got[0].Rect.Min.Y, got[1].Rect.Min.Y)
}

func TestDetectPageCapsCandidates(t *testing.T) {
	bars := make([]image.Rectangle, 0, 12)
	for i := 0; i < 12; i++ {
		y := 20 + i*60
		bars = append(bars, image.Rect(60, y, 300, y+30))
	}
	page := syntheticPage(400, 760, bars...)

	got := DetectPage(page, 1, DefaultOptions())
	assert.Len(t, got, DefaultOptions().MaxZones)
}

func TestSuggestMapsToPoints(t *testing.T) {
	bar := image.Rect(80, 100, 200, 130)
	pages := []*image.NRGBA{syntheticPage(400, 300, bar)}

	zones := Suggest(pages, 72, DefaultOptions())
	require.Len(t, zones, 1)

	z := zones[0]
	assert.Equal(t, "zone_1", z.ID)
	assert.Equal(t, 1, z.Page)
	// At 72 dpi points equal pixels; the box covers the bar plus dilation.
	assert.LessOrEqual(t, z.X, 80.0)
	assert.GreaterOrEqual(t, z.X+z.W, 200.0)
	assert.True(t, z.Mask.Enabled)
	assert.GreaterOrEqual(t, z.Text.Size, 10.0)
	assert.LessOrEqual(t, z.Text.Size, 48.0)
}

func TestSuggestNumbersAcrossPages(t *testing.T) {
	bar := image.Rect(80, 100, 200, 130)
	pages := []*image.NRGBA{
		syntheticPage(400, 300, bar),
		syntheticPage(400, 300, bar),
	}
	zones := Suggest(pages, 150, DefaultOptions())
	require.Len(t, zones, 2)
	assert.Equal(t, "zone_1", zones[0].ID)
	assert.Equal(t, 1, zones[0].Page)
	assert.Equal(t, "zone_2", zones[1].ID)
	assert.Equal(t, 2, zones[1].Page)
}

func TestComponentsLabeling(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	// Two separate blobs.
	for _, p := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {7, 7}, {8, 7}} {
		mask.SetGray(p[0], p[1], color.Gray{Y: 255})
	}
	comps := components(mask)
	require.Len(t, comps, 2)

	total := 0
	for _, c := range comps {
		total += c.area
	}
	assert.Equal(t, 5, total)
}

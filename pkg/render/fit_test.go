package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeettPaladiya/Invite/pkg/zone"
)

// newTestFitter builds a fitter over an empty cache so rendering always uses
// the built-in bitmap face and stays deterministic across machines.
func newTestFitter(t *testing.T) *Fitter {
	t.Helper()
	return NewFitter(NewFontCache(), DefaultFitOptions())
}

func TestRenderZoneTextFitsAtStartSize(t *testing.T) {
	f := newTestFitter(t)
	cfg := zone.DefaultTextConfig()

	buf, size, err := f.RenderZoneText("Hi", 200, 100, cfg, 72)
	require.NoError(t, err)
	require.NotNil(t, buf)

	// 16pt at 72 dpi with the default 12px minimum starts at 16px.
	assert.Equal(t, 16, size)
	assert.Equal(t, image.Rect(0, 0, 200, 100), buf.Bounds())
	assert.False(t, InkBounds(buf).Empty(), "expected visible ink in the buffer")
}

func TestRenderZoneTextShrinksToFloor(t *testing.T) {
	f := newTestFitter(t)
	cfg := zone.DefaultTextConfig()

	// The bitmap face renders this wider than 30px at every size, so the
	// search must walk all the way down and stop exactly at the floor.
	buf, size, err := f.RenderZoneText("A very long recipient name that cannot fit", 30, 20, cfg, 150)
	require.NoError(t, err)
	require.NotNil(t, buf)

	wantFloor := int(math.Round(8 * 150.0 / 72.0))
	assert.Equal(t, wantFloor, size)
	assert.Equal(t, image.Rect(0, 0, 30, 20), buf.Bounds())
}

func TestRenderZoneTextSizeStaysWithinBounds(t *testing.T) {
	f := newTestFitter(t)
	for _, pt := range []float64{6, 10, 16, 40} {
		for _, dpi := range []float64{72, 150, 300} {
			cfg := zone.DefaultTextConfig()
			cfg.Size = pt

			_, size, err := f.RenderZoneText("Name", 500, 300, cfg, dpi)
			require.NoError(t, err)
			require.NotZero(t, size)

			scale := dpi / 72.0
			start := int(math.Round(pt * scale))
			if start < f.Options().StartMinPx {
				start = f.Options().StartMinPx
			}
			floor := int(math.Round(f.Options().MinSizePt * scale))
			if floor < 8 {
				floor = 8
			}
			if start < floor {
				start = floor
			}
			assert.GreaterOrEqual(t, size, floor, "pt=%g dpi=%g", pt, dpi)
			assert.LessOrEqual(t, size, start, "pt=%g dpi=%g", pt, dpi)
		}
	}
}

func TestRenderZoneTextNothingToDraw(t *testing.T) {
	f := newTestFitter(t)
	cfg := zone.DefaultTextConfig()

	for _, text := range []string{"", "   ", "\t\n"} {
		buf, size, err := f.RenderZoneText(text, 100, 50, cfg, 150)
		require.NoError(t, err)
		assert.Nil(t, buf)
		assert.Zero(t, size)
	}

	buf, _, err := f.RenderZoneText("Name", 0, 50, cfg, 150)
	require.NoError(t, err)
	assert.Nil(t, buf, "degenerate interior must render nothing")
}

func TestInkBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.True(t, InkBounds(img).Empty())

	img.SetNRGBA(3, 4, colorOpaque())
	img.SetNRGBA(6, 8, colorOpaque())
	assert.Equal(t, image.Rect(3, 4, 7, 9), InkBounds(img))
}

func TestPlaceInkAlignment(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			src.SetNRGBA(x, y, colorOpaque())
		}
	}
	ink := image.Rect(0, 0, 5, 5)

	tests := []struct {
		name   string
		align  zone.Align
		valign zone.VAlign
		wantX  int
		wantY  int
	}{
		{"top left", zone.AlignLeft, zone.VAlignTop, 0, 0},
		{"bottom right", zone.AlignRight, zone.VAlignBottom, 15, 5},
		{"centered", zone.AlignCenter, zone.VAlignMiddle, 7, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := placeInk(src, ink, 20, 10, tt.align, tt.valign)
			require.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())
			assert.Equal(t, image.Rect(tt.wantX, tt.wantY, tt.wantX+5, tt.wantY+5), InkBounds(out))
		})
	}
}

func colorOpaque() color.NRGBA {
	return color.NRGBA{R: 200, G: 30, B: 30, A: 255}
}

func TestPlaceInkClipsOversizedInk(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 30, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 30; x++ {
			src.SetNRGBA(x, y, colorOpaque())
		}
	}
	out := placeInk(src, image.Rect(0, 0, 30, 5), 10, 10, zone.AlignCenter, zone.VAlignMiddle)

	require.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())
	got := InkBounds(out)
	assert.Equal(t, 10, got.Dx(), "overflowing ink anchors at the left edge and clips")
	assert.Equal(t, 5, got.Dy())
}

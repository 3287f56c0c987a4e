package zone

import (
	"image"
	"math"
)

// PixelRect is a zone rectangle mapped into the pixel space of one page
// image at one resolution. Coordinates are clamped into the image bounds
// and ordered (X0 <= X1, Y0 <= Y1). A rect that collapsed to zero area
// during clamping is invalid, which is a legal terminal state meaning the
// zone is skipped on this page.
type PixelRect struct {
	X0, Y0 int
	X1, Y1 int
}

// RectForZone maps a zone's template-space rectangle onto a page image of
// imgW x imgH pixels rasterized at the given dpi. Template coordinates are
// points, so the scale factor is dpi/72. Each corner is rounded to the
// nearest pixel, clamped into [0, dimension], and endpoints are swapped if
// the input rectangle was inverted.
func RectForZone(z *Zone, imgW, imgH int, dpi float64) PixelRect {
	scale := dpi / 72.0
	r := PixelRect{
		X0: int(math.Round(z.X * scale)),
		Y0: int(math.Round(z.Y * scale)),
		X1: int(math.Round((z.X + z.W) * scale)),
		Y1: int(math.Round((z.Y + z.H) * scale)),
	}
	if r.X1 < r.X0 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y1 < r.Y0 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	r.X0 = clampInt(r.X0, 0, imgW)
	r.X1 = clampInt(r.X1, 0, imgW)
	r.Y0 = clampInt(r.Y0, 0, imgH)
	r.Y1 = clampInt(r.Y1, 0, imgH)
	return r
}

// Valid reports whether the rect still covers at least one pixel on both
// axes after clamping.
func (r PixelRect) Valid() bool {
	return r.X1 > r.X0 && r.Y1 > r.Y0
}

// Width returns the horizontal extent in pixels.
func (r PixelRect) Width() int { return r.X1 - r.X0 }

// Height returns the vertical extent in pixels.
func (r PixelRect) Height() int { return r.Y1 - r.Y0 }

// Bounds returns the rect as an image.Rectangle.
func (r PixelRect) Bounds() image.Rectangle {
	return image.Rect(r.X0, r.Y0, r.X1, r.Y1)
}

// Mask builds the binary coverage mask for the rect: a full-page
// single-channel image of imgW x imgH pixels, 255 inside the rect and 0
// everywhere else. This buffer is the hard boundary for all zone edits;
// compositing restores every pixel whose mask value is zero.
func (r PixelRect) Mask(imgW, imgH int) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, imgW, imgH))
	if !r.Valid() {
		return m
	}
	for y := r.Y0; y < r.Y1; y++ {
		row := m.Pix[y*m.Stride+r.X0 : y*m.Stride+r.X1]
		for i := range row {
			row[i] = 255
		}
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

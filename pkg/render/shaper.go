// Package render turns recipient text into transparent pixel buffers sized
// to fit inside template zones.
//
// Key Features:
//   - Font discovery and caching across system and user font directories
//   - Shrink-to-fit sizing with a hard lower bound so text never overflows
//   - Complex-script shaping (Gujarati, Devanagari) through pango-view when
//     it is installed, with a pure-Go fallback otherwise
//   - Horizontal and vertical alignment of rendered ink inside the zone
//   - QR code rendering for machine-readable zones
//
// Main Functions:
//   - NewFontCache: load and cache TrueType/OpenType faces
//   - NewFitter: build a sizer/renderer bound to a font cache
//   - Fitter.RenderZoneText: fit and align text for one zone
//   - RenderQR: encode a value as a QR code buffer
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Shaper renders a line of text at a pixel size onto a tight transparent
// buffer. Implementations differ in shaping fidelity, not in contract.
type Shaper interface {
	// Name identifies the implementation in logs.
	Name() string
	// Render draws text in the given family, pixel size and color. The
	// returned buffer is transparent outside the glyphs.
	Render(text, family string, sizePx int, col color.NRGBA) (*image.NRGBA, error)
}

// simpleShaper draws glyph by glyph with x/image faces. Correct for Latin
// and other non-reordering scripts; used as the universal fallback.
type simpleShaper struct {
	fonts *FontCache
}

func newSimpleShaper(fonts *FontCache) *simpleShaper {
	return &simpleShaper{fonts: fonts}
}

func (s *simpleShaper) Name() string { return "simple" }

func (s *simpleShaper) Render(text, family string, sizePx int, col color.NRGBA) (*image.NRGBA, error) {
	face := s.fonts.Face(family, sizePx)
	metrics := face.Metrics()
	advance := font.MeasureString(face, text)

	// One pixel of slack on every side keeps antialiased edges inside.
	w := advance.Ceil() + 2
	h := (metrics.Ascent + metrics.Descent).Ceil() + 2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(1, metrics.Ascent.Ceil()+1),
	}
	drawer.DrawString(text)
	return img, nil
}

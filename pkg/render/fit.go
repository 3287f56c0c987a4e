package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/MeettPaladiya/Invite/pkg/zone"
)

// FitOptions tune the shrink-to-fit search.
type FitOptions struct {
	Padding    int     // Pixels kept clear inside the zone on every side
	ShrinkStep int     // Pixel decrement between sizing attempts
	MinSizePt  float64 // Hard size floor in template points
	StartMinPx int     // Starting size is at least this many pixels
}

// DefaultFitOptions returns the sizing parameters used when the caller does
// not override them.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		Padding:    6,
		ShrinkStep: 2,
		MinSizePt:  8,
		StartMinPx: 12,
	}
}

// Fitter renders recipient text sized to fit a zone interior. It starts from
// the configured size scaled to the raster resolution, measures actual ink
// coverage and shrinks until the ink fits or the floor size is reached.
type Fitter struct {
	fonts   *FontCache
	simple  Shaper
	complex Shaper // nil when no shaping engine is installed
	opts    FitOptions
}

// NewFitter builds a fitter over the given font cache. Zero or negative
// option fields fall back to their defaults. Complex-script text is routed
// through pango-view when present on PATH.
func NewFitter(fonts *FontCache, opts FitOptions) *Fitter {
	def := DefaultFitOptions()
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	if opts.ShrinkStep < 1 {
		opts.ShrinkStep = def.ShrinkStep
	}
	if opts.MinSizePt <= 0 {
		opts.MinSizePt = def.MinSizePt
	}
	if opts.StartMinPx < 1 {
		opts.StartMinPx = def.StartMinPx
	}
	f := &Fitter{
		fonts:  fonts,
		simple: newSimpleShaper(fonts),
		opts:   opts,
	}
	if bin, ok := pangoAvailable(); ok {
		f.complex = newPangoShaper(bin)
	}
	return f
}

// Options returns the active sizing parameters.
func (f *Fitter) Options() FitOptions { return f.opts }

// ComplexShaperName reports which shaping engine handles complex-script
// text, or "" when only the built-in renderer is available.
func (f *Fitter) ComplexShaperName() string {
	if f.complex == nil {
		return ""
	}
	return f.complex.Name()
}

// RenderZoneText renders text into a transparent buffer of exactly
// interiorW by interiorH pixels, aligned per cfg, and returns the buffer and
// the chosen pixel size. The chosen size never exceeds the scaled configured
// size (or StartMinPx if that is larger) and never drops below the scaled
// floor. A nil buffer with a nil error means there is nothing to draw.
func (f *Fitter) RenderZoneText(text string, interiorW, interiorH int, cfg zone.TextConfig, dpi float64) (*image.NRGBA, int, error) {
	text = strings.TrimSpace(text)
	if text == "" || interiorW <= 0 || interiorH <= 0 {
		return nil, 0, nil
	}

	col := color.NRGBA{A: 255}
	if cfg.Color != "" {
		if parsed, err := zone.ParseHexColor(cfg.Color); err == nil {
			col = parsed
		}
	}

	scale := dpi / 72.0
	start := int(math.Round(cfg.Size * scale))
	if start < f.opts.StartMinPx {
		start = f.opts.StartMinPx
	}
	floor := int(math.Round(f.opts.MinSizePt * scale))
	if floor < 8 {
		floor = 8
	}
	if start < floor {
		start = floor
	}

	shaper := f.simple
	if f.complex != nil && HasComplexScript(text) {
		shaper = f.complex
	}

	size := start
	for {
		img, err := f.renderWith(shaper, text, cfg.Font, size, col)
		if err != nil {
			return nil, 0, err
		}
		ink := InkBounds(img)
		if ink.Empty() {
			return nil, size, nil
		}
		fits := ink.Dx() <= interiorW && ink.Dy() <= interiorH
		if fits || size == floor {
			// At the floor the ink may still overflow; it is placed anyway
			// and the compositor clips it at the zone boundary.
			return placeInk(img, ink, interiorW, interiorH, cfg.Align, cfg.VAlign), size, nil
		}
		size -= f.opts.ShrinkStep
		if size < floor {
			size = floor
		}
	}
}

// renderWith runs the chosen shaper and falls back to the built-in renderer
// when an external one fails mid-batch.
func (f *Fitter) renderWith(s Shaper, text, family string, sizePx int, col color.NRGBA) (*image.NRGBA, error) {
	img, err := s.Render(text, family, sizePx, col)
	if err != nil && s != f.simple {
		return f.simple.Render(text, family, sizePx, col)
	}
	return img, err
}

// InkBounds returns the bounding box of pixels with nonzero alpha, or the
// empty rectangle when the image is fully transparent.
func InkBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// placeInk copies the ink rectangle of src into a fresh interiorW by
// interiorH buffer at the requested alignment. Ink larger than the buffer is
// anchored at the top-left edge of the overflowing axis and clipped.
func placeInk(src *image.NRGBA, ink image.Rectangle, interiorW, interiorH int, align zone.Align, valign zone.VAlign) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, interiorW, interiorH))
	iw, ih := ink.Dx(), ink.Dy()

	var ox int
	switch align {
	case zone.AlignLeft:
		ox = 0
	case zone.AlignRight:
		ox = interiorW - iw
	default:
		ox = (interiorW - iw) / 2
	}
	if ox < 0 {
		ox = 0
	}
	var oy int
	switch valign {
	case zone.VAlignTop:
		oy = 0
	case zone.VAlignBottom:
		oy = interiorH - ih
	default:
		oy = (interiorH - ih) / 2
	}
	if oy < 0 {
		oy = 0
	}

	for y := 0; y < ih && oy+y < interiorH; y++ {
		for x := 0; x < iw && ox+x < interiorW; x++ {
			out.SetNRGBA(ox+x, oy+y, src.NRGBAAt(ink.Min.X+x, ink.Min.Y+y))
		}
	}
	return out
}
